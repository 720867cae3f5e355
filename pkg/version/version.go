// Package version reports build information for the xml-stream-parser binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at link time:
//
//	-X 'github.com/amstokely/xml-stream-parser/pkg/version.Version=v1.0.0'
var (
	Version    = ""
	CommitHash = ""
	BuildDate  = ""
)

type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
}

// Get returns the linked build information, falling back to the module
// version and VCS settings recorded by the Go toolchain.
func Get() Info {
	info := Info{Version: Version, CommitHash: CommitHash, BuildDate: BuildDate}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.CommitHash == "" {
					info.CommitHash = s.Value
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = s.Value
				}
			}
		}
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	return info
}

func (i Info) String() string {
	if i.CommitHash == "" {
		return i.Version
	}
	commit := i.CommitHash
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if i.BuildDate == "" {
		return fmt.Sprintf("%s (%s)", i.Version, commit)
	}
	return fmt.Sprintf("%s (%s, %s)", i.Version, commit, i.BuildDate)
}
