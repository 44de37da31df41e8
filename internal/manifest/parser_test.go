package manifest

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func TestParseFile_Minimal(t *testing.T) {
	m, err := ParseFile(testPath("valid-minimal.yaml"))
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if m.Name != "minimal" {
		t.Errorf("Name = %q, want %q", m.Name, "minimal")
	}
	if len(m.Groups) != 1 {
		t.Fatalf("Groups len = %d, want 1", len(m.Groups))
	}
	g := m.Groups[0]
	if len(g.Dirs) != 1 || g.Dirs[0] != "a/b" {
		t.Errorf("Dirs = %v, want [a/b]", g.Dirs)
	}
	if len(g.Files) != 1 || g.Files[0].Path != "a/b/c.txt" || g.Files[0].Content != "" {
		t.Errorf("Files = %+v, want [{a/b/c.txt }]", g.Files)
	}
}

func TestParseFile_MixedEntriesAreNormalized(t *testing.T) {
	m, err := ParseFile(testPath("valid-mixed.yaml"))
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}

	routes := findGroup(t, m, "routes")
	if routes.Dirs[0] != "src/routes" {
		t.Errorf("routes dir = %q, want %q", routes.Dirs[0], "src/routes")
	}
	if routes.Files[0].Path != "src/routes/index.ts" {
		t.Errorf("routes file = %q, want %q", routes.Files[0].Path, "src/routes/index.ts")
	}

	root := findGroup(t, m, "root")
	if root.Files[0].Path != "src/main.ts" {
		t.Errorf("root file[0] = %q, want %q", root.Files[0].Path, "src/main.ts")
	}
	if root.Files[0].Content != "console.log(\"hello\");\n" {
		t.Errorf("root file[0] content = %q", root.Files[0].Content)
	}
	if root.Files[1].Path != "package.json" {
		t.Errorf("root file[1] = %q, want %q", root.Files[1].Path, "package.json")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		file string
		want error
	}{
		{"invalid-schema-version.yaml", ErrUnsupportedSchema},
		{"invalid-escape.yaml", ErrEscapesRoot},
		{"invalid-file-entry.yaml", ErrEmptyPath},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := ParseFile(testPath(tt.file))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := ParseFile(testPath("invalid-unknown-field.yaml"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "owner") {
		t.Errorf("error should name the unknown field, got: %v", err)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := ParseFile(testPath("invalid-not-yaml.yaml")); err == nil {
		t.Fatal("expected error for invalid YAML, got nil")
	}
}

func TestParseFile_NotFound(t *testing.T) {
	if _, err := ParseFile(testPath("nonexistent.yaml")); err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestLoad_ValidatesSchemaFirst(t *testing.T) {
	_, err := Load(testPath("invalid-missing-name.yaml"))
	if err == nil {
		t.Fatal("expected error for manifest missing name")
	}
	if !strings.Contains(err.Error(), "schema validation failed") {
		t.Errorf("expected schema failure, got: %v", err)
	}

	m, err := Load(testPath("valid-mixed.yaml"))
	if err != nil {
		t.Fatalf("Load(valid-mixed.yaml) error: %v", err)
	}
	if m.Name != "mixed-layout" {
		t.Errorf("Name = %q, want %q", m.Name, "mixed-layout")
	}
}

func TestMarshal_RoundTripsShortForm(t *testing.T) {
	m, err := ParseFile(testPath("valid-mixed.yaml"))
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}

	out, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	text := string(out)

	// Entries without content use the scalar form.
	if !strings.Contains(text, "- docs/README.md\n") {
		t.Errorf("expected scalar file entry in output:\n%s", text)
	}
	// Entries with content use the mapping form.
	if !strings.Contains(text, "path: src/main.ts") {
		t.Errorf("expected mapping file entry in output:\n%s", text)
	}

	again, err := Parse(out)
	if err != nil {
		t.Fatalf("re-parsing marshaled manifest: %v", err)
	}
	if got := findGroup(t, again, "root").Files[0].Content; got != "console.log(\"hello\");\n" {
		t.Errorf("content after round trip = %q", got)
	}
}

func TestDefault(t *testing.T) {
	m, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if m.Name != DefaultName {
		t.Errorf("Name = %q, want %q", m.Name, DefaultName)
	}

	var names []string
	for _, g := range m.Groups {
		names = append(names, g.Name)
	}
	if strings.Join(names, ",") != strings.Join(GroupOrder, ",") {
		t.Errorf("groups = %v, want %v", names, GroupOrder)
	}

	dirs, files := m.Counts()
	if dirs != 78 || files != 232 {
		t.Errorf("Counts() = (%d, %d), want (78, 232)", dirs, files)
	}

	root := findGroup(t, m, GroupRoot)
	if root.Files[0].Path != "lib/main.dart" || root.Files[1].Path != "lib/app.dart" {
		t.Errorf("root files = %+v", root.Files)
	}
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	a.Groups[0].Dirs[0] = "mutated"

	b, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if b.Groups[0].Dirs[0] != "lib" {
		t.Errorf("Default() shares state: dir = %q", b.Groups[0].Dirs[0])
	}
}

func TestDefaultYAML_PassesSchema(t *testing.T) {
	result, err := Validate(DefaultYAML())
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !result.Valid {
		t.Errorf("built-in manifest is invalid: %v", result.Err())
	}
}

func findGroup(t *testing.T, m *Manifest, name string) Group {
	t.Helper()
	for _, g := range m.Groups {
		if g.Name == name {
			return g
		}
	}
	t.Fatalf("group %q not found", name)
	return Group{}
}
