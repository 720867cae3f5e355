package cli

import (
	"github.com/spf13/cobra"

	"github.com/amstokely/xml-stream-parser/pkg/version"
)

// RootCmd builds the xml-stream-parser command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "xml-stream-parser",
		Short: "Resolve stream definitions from XML stream documents",
		Long: `xml-stream-parser reads stream documents (<streams> roots with <stream> and
<immutable_stream> elements), resolves interval references between streams
and reports the effective configuration of every stream.`,
		Version:      version.Get().String(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return SetupGlobalConfig(cmd, args)
		},
	}
	root.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	root.PersistentFlags().String("env-file", ".env", "Path to an environment file with XSP_* overrides")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	root.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	root.PersistentFlags().Bool("log-source", false, "Include the caller in log lines")

	root.AddCommand(
		ResolveCmd(),
		CheckCmd(),
		ConfigCmd(),
	)
	return root
}
