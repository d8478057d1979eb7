package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/eanscan/internal/ean13"
)

// Manifest maps images to the code printed on them.
//
//	reference: "9310232954790"
//	images:
//	  "10/10_ (1).png": "9310232954790"
//
// Image keys are relative to the manifest file. Reference applies to images
// without an entry.
type Manifest struct {
	Reference string            `yaml:"reference,omitempty"`
	Images    map[string]string `yaml:"images,omitempty"`

	dir    string
	lookup map[string][13]int
	ref    *[13]int
}

// LoadManifest reads and validates a YAML manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-selected manifest
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	if err := m.compile(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

// NewManifest builds a manifest in memory; keys are resolved against dir.
func NewManifest(dir, reference string, images map[string]string) (*Manifest, error) {
	m := &Manifest{Reference: reference, Images: images, dir: dir}
	if err := m.compile(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) compile() error {
	if m.Reference != "" {
		ref, err := ean13.ParseCode(m.Reference)
		if err != nil {
			return fmt.Errorf("reference: %w", err)
		}
		m.ref = &ref
	}
	m.lookup = make(map[string][13]int, len(m.Images))
	for name, code := range m.Images {
		digits, err := ean13.ParseCode(code)
		if err != nil {
			return fmt.Errorf("image %s: %w", name, err)
		}
		m.lookup[m.key(filepath.Join(m.dir, filepath.FromSlash(name)))] = digits
	}
	return nil
}

// Expected returns the code expected for path.
func (m *Manifest) Expected(path string) ([13]int, bool) {
	if m == nil {
		return [13]int{}, false
	}
	if d, ok := m.lookup[m.key(path)]; ok {
		return d, true
	}
	if m.ref != nil {
		return *m.ref, true
	}
	return [13]int{}, false
}

// key normalizes a path so that lookups survive differing separators and
// unicode normal forms in file names.
func (m *Manifest) key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return norm.NFC.String(filepath.ToSlash(filepath.Clean(path)))
}

// Save writes the manifest as YAML.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
