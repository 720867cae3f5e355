package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_String(t *testing.T) {
	t.Run("Should print only the version without a commit", func(t *testing.T) {
		assert.Equal(t, "v1.2.0", Info{Version: "v1.2.0"}.String())
	})

	t.Run("Should shorten long commit hashes", func(t *testing.T) {
		info := Info{Version: "v1.2.0", CommitHash: "0123456789abcdef", BuildDate: "2026-01-02T00:00:00Z"}
		assert.Equal(t, "v1.2.0 (0123456789ab, 2026-01-02T00:00:00Z)", info.String())
	})
}

func TestGet(t *testing.T) {
	t.Run("Should prefer linked values", func(t *testing.T) {
		old := Version
		Version = "v9.9.9"
		defer func() { Version = old }()
		assert.Equal(t, "v9.9.9", Get().Version)
	})

	t.Run("Should never return an empty version", func(t *testing.T) {
		assert.NotEmpty(t, Get().Version)
	})
}
