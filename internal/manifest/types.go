package manifest

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Manifest is an ordered collection of groups describing a project skeleton.
type Manifest struct {
	Name          string  `yaml:"name" json:"name"`
	Version       string  `yaml:"version,omitempty" json:"version,omitempty"`
	SchemaVersion string  `yaml:"schema_version" json:"schema_version"`
	Description   string  `yaml:"description,omitempty" json:"description,omitempty"`
	Groups        []Group `yaml:"groups" json:"groups"`
}

// Group holds the directories and files of one logical layer (core, features, ...).
type Group struct {
	Name  string      `yaml:"name" json:"name"`
	Dirs  []string    `yaml:"dirs,omitempty" json:"dirs,omitempty"`
	Files []FileEntry `yaml:"files,omitempty" json:"files,omitempty"`
}

// FileEntry is a file path with the content it is seeded with.
// In YAML it is either a bare path string or a {path, content} mapping.
type FileEntry struct {
	Path    string `yaml:"path" json:"path"`
	Content string `yaml:"content,omitempty" json:"content,omitempty"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (f *FileEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		f.Path = node.Value
		f.Content = ""
		return nil
	case yaml.MappingNode:
		type plain FileEntry
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*f = FileEntry(p)
		return nil
	default:
		return fmt.Errorf("line %d: file entry must be a path string or a {path, content} mapping", node.Line)
	}
}

// MarshalYAML writes entries without content in the short scalar form.
func (f FileEntry) MarshalYAML() (interface{}, error) {
	if f.Content == "" {
		return f.Path, nil
	}
	type plain FileEntry
	return plain(f), nil
}

// EntryKind distinguishes directories from files in a build plan.
type EntryKind string

const (
	KindDir  EntryKind = "dir"
	KindFile EntryKind = "file"
)

// Entry is one step of a flattened build plan.
type Entry struct {
	Group   string
	Kind    EntryKind
	Path    string
	Content string
}

// Canonical group names, in build order.
const (
	GroupRoot     = "root"
	GroupCore     = "core"
	GroupFeatures = "features"
	GroupShared   = "shared"
	GroupRoutes   = "routes"
)

// GroupOrder is the fixed order in which the canonical groups are built.
var GroupOrder = []string{
	GroupRoot,
	GroupCore,
	GroupFeatures,
	GroupShared,
	GroupRoutes,
}

// SupportedSchema is the range of schema_version values this build understands.
const SupportedSchema = ">=1.0.0, <2.0.0"
