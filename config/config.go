// Package config loads dslxvm's runtime-limit manifest, grounded on
// the example pack's own TOML-based project manifest loader: a small
// typed struct decoded with BurntSushi/toml, with a FindAndLoad
// convenience that walks upward from a starting directory looking for
// the manifest file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestFile is the default manifest filename FindAndLoad searches
// for, mirroring the teacher's own project-manifest discovery.
const ManifestFile = "dslxvm.toml"

// Limits holds the runtime guardrails for one interpreter configuration.
type Limits struct {
	// MaxStackDepth is the configured value-stack length limit. The
	// interpreter does not read it, so no stack cap is applied.
	MaxStackDepth int `toml:"max_stack_depth"`
	// MaxFrameCount is the configured call-frame depth limit. The
	// interpreter does not read it, so no frame cap is applied.
	MaxFrameCount int `toml:"max_frame_count"`
	// SyntheticInlineThreshold is a configured array length for the
	// map builtin. Nothing reads it; map synthesizes a loop body for
	// every non-empty array.
	SyntheticInlineThreshold int `toml:"synthetic_inline_threshold"`
}

// Trace holds Trace/Fail diagnostic verbosity settings.
type Trace struct {
	// Verbose enables logging every Trace opcode's rendered message;
	// when false, Trace still pushes Token but suppresses the log.
	Verbose bool `toml:"verbose"`
}

// Cache holds the on-disk persistence tier's settings.
type Cache struct {
	// PersistPath is a configured sqlite database path for the
	// on-disk BytecodeCache tier (cache/persist). Nothing reads it;
	// cmd/dslxvm runs with the in-memory cache only.
	PersistPath string `toml:"persist_path"`
}

// Manifest is the root of dslxvm.toml.
type Manifest struct {
	Limits Limits `toml:"limits"`
	Trace  Trace  `toml:"trace"`
	Cache  Cache  `toml:"cache"`
}

// Default returns the manifest used when no dslxvm.toml is found.
func Default() *Manifest {
	return &Manifest{
		Limits: Limits{MaxStackDepth: 1 << 20, MaxFrameCount: 1 << 16, SyntheticInlineThreshold: 4096},
	}
}

// Load decodes a manifest from path.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("config: decode %q: %w", path, err)
	}
	return &m, nil
}

// FindAndLoad walks upward from dir looking for ManifestFile, loading
// the first one found; it returns Default() if none exists anywhere
// up to the filesystem root.
func FindAndLoad(dir string) (*Manifest, error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %q: %w", dir, err)
	}
	for {
		candidate := filepath.Join(cur, ManifestFile)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return Default(), nil
		}
		cur = parent
	}
}
