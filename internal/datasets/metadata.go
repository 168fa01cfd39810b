// Package datasets handles metadata files, loading recordings into memory,
// and fetching remote data files.
package datasets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata describes one dataset from a metadata file.
type Metadata struct {
	Name        string `yaml:"-"`
	Description string `yaml:"description"`

	// Paths are relative to the metadata file's directory (or data_dir).
	DataDir         string `yaml:"data_dir"`
	RemoteDataDir   string `yaml:"remote_data_dir"`
	DataFile        string `yaml:"data_file"`
	VideoFile       string `yaml:"video_file"`
	AnnotationsFile string `yaml:"annotations_file"`

	AmplitudeUnits string  `yaml:"amplitude_units"`
	TStart         float64 `yaml:"t_start"`
	TStop          float64 `yaml:"t_stop"`

	// Filled in by Load with the metadata file's own location so relative
	// paths can be resolved later.
	sourceDir string
}

// MetadataFile is the parsed form of a metadata YAML file: a mapping of
// dataset names to entries, in document order.
type MetadataFile struct {
	Path    string
	Names   []string
	Entries map[string]*Metadata
}

// LoadMetadata parses a metadata YAML file. The top level must be a mapping
// of dataset name to dataset description; document order is preserved so the
// first entry can serve as the default selection.
func LoadMetadata(path string) (*MetadataFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse metadata file %s: %w", abs, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("metadata file %s is empty", abs)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("metadata file %s must be a mapping of dataset names", abs)
	}

	mf := &MetadataFile{
		Path:    abs,
		Entries: make(map[string]*Metadata),
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		name := keyNode.Value
		if strings.HasPrefix(name, "neurotic_") {
			// reserved for file-level settings
			continue
		}
		md := &Metadata{}
		if err := valNode.Decode(md); err != nil {
			return nil, fmt.Errorf("failed to parse dataset %q: %w", name, err)
		}
		md.Name = name
		md.sourceDir = filepath.Dir(abs)
		mf.Names = append(mf.Names, name)
		mf.Entries[name] = md
	}
	if len(mf.Names) == 0 {
		return nil, fmt.Errorf("metadata file %s contains no datasets", abs)
	}
	return mf, nil
}

// First returns the name of the first dataset in document order.
func (mf *MetadataFile) First() string {
	return mf.Names[0]
}

// Select returns the named dataset, or the first one when name is empty.
func (mf *MetadataFile) Select(name string) (*Metadata, error) {
	if name == "" {
		name = mf.First()
	}
	md, ok := mf.Entries[name]
	if !ok {
		return nil, fmt.Errorf("dataset %q not found in %s", name, mf.Path)
	}
	return md, nil
}

// LocalPath resolves a dataset-relative file path against the dataset's data
// directory, falling back to the metadata file's own directory.
func (m *Metadata) LocalPath(rel string) string {
	if rel == "" {
		return ""
	}
	if filepath.IsAbs(rel) {
		return rel
	}
	base := m.sourceDir
	if m.DataDir != "" {
		if filepath.IsAbs(m.DataDir) {
			base = m.DataDir
		} else {
			base = filepath.Join(m.sourceDir, m.DataDir)
		}
	}
	return filepath.Join(base, rel)
}

// RemoteURL joins a dataset-relative file path onto the remote data root, or
// returns "" when the dataset has no remote root. gdrive:// roots are joined
// with plain slashes like any other URL.
func (m *Metadata) RemoteURL(rel string) string {
	if rel == "" || m.RemoteDataDir == "" {
		return ""
	}
	return strings.TrimRight(m.RemoteDataDir, "/") + "/" + strings.TrimLeft(filepath.ToSlash(rel), "/")
}
