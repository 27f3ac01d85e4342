package corpus

import (
	"embed"
	"fmt"

	"github.com/spf13/afero"

	"github.com/Freekyn/Promptin/internal/framework"
)

//go:embed seed/defaults.yaml
var defaultSeed embed.FS

// DefaultSeedPath is the path of the built-in seed inside the embedded filesystem.
const DefaultSeedPath = "seed/defaults.yaml"

// DefaultEntries returns the built-in curated frameworks.
func DefaultEntries() ([]*framework.Entry, error) {
	entries, _, err := NewSeedLoader(afero.FromIOFS{FS: defaultSeed}).Load(DefaultSeedPath)
	if err != nil {
		return nil, fmt.Errorf("load built-in frameworks: %w", err)
	}
	return entries, nil
}
