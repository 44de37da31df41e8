package manifest

import (
	_ "embed"
	"fmt"
)

//go:embed defaults/flutter.yaml
var defaultManifest []byte

// DefaultName is the name of the built-in layout.
const DefaultName = "flutter-streaming-app"

// Default returns a fresh copy of the built-in layout.
func Default() (*Manifest, error) {
	m, err := Parse(defaultManifest)
	if err != nil {
		return nil, fmt.Errorf("built-in manifest: %w", err)
	}
	return m, nil
}

// DefaultYAML returns the raw built-in manifest, comments included.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultManifest))
	copy(out, defaultManifest)
	return out
}
