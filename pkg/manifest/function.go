package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	fnerrors "github.com/ignitionstack/fnctl/pkg/errors"
	"github.com/ignitionstack/fnctl/pkg/types"
	"gopkg.in/yaml.v2"
)

// Supported manifest formats
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// FunctionManifest is a function definition stored in a file, used to create
// functions from source control and to export existing ones
type FunctionManifest struct {
	FunctionSettings FunctionSettings `yaml:"function" toml:"function"`
}

type FunctionSettings struct {
	Name     string `yaml:"name" toml:"name"`
	Route    string `yaml:"route" toml:"route"`
	Language string `yaml:"language,omitempty" toml:"language,omitempty"`
	Timeout  int    `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	Filename string `yaml:"filename,omitempty" toml:"filename,omitempty"`
}

// FromFunction builds a manifest from a cataloged function
func FromFunction(fn types.Function) FunctionManifest {
	return FunctionManifest{
		FunctionSettings: FunctionSettings{
			Name:     fn.Name,
			Route:    fn.Route,
			Language: fn.Language,
			Timeout:  fn.Timeout,
			Filename: fn.Filename,
		},
	}
}

// Draft converts the manifest into a new-function draft. Missing language and
// timeout fall back to the draft defaults.
func (m *FunctionManifest) Draft() types.FunctionDraft {
	draft := types.NewFunctionDraft()
	s := m.FunctionSettings

	draft.Name = s.Name
	draft.Route = s.Route
	draft.Filename = s.Filename
	if s.Language != "" {
		draft.Language = s.Language
	}
	if s.Timeout != 0 {
		draft.Timeout = s.Timeout
	}
	return draft
}

func (m *FunctionManifest) MarshalYaml() ([]byte, error) {
	return yaml.Marshal(m)
}

func (m *FunctionManifest) MarshalToml() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal encodes the manifest in the given format
func (m *FunctionManifest) Marshal(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		return m.MarshalYaml()
	case FormatTOML:
		return m.MarshalToml()
	default:
		return nil, fnerrors.WithDetails(fnerrors.ErrUnsupportedFormat, format)
	}
}

// Parse decodes a manifest in the given format
func Parse(data []byte, format string) (*FunctionManifest, error) {
	var m FunctionManifest

	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		if err := yaml.UnmarshalStrict(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse yaml manifest: %w", err)
		}
	case FormatTOML:
		meta, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, fmt.Errorf("failed to parse toml manifest: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse toml manifest: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fnerrors.WithDetails(fnerrors.ErrUnsupportedFormat, format)
	}

	return &m, nil
}

// Load reads a manifest file, picking the format from its extension
func Load(path string) (*FunctionManifest, error) {
	format := FormatFromPath(path)
	if format == "" {
		return nil, fnerrors.WithDetails(fnerrors.ErrUnsupportedFormat, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return Parse(data, format)
}

// FormatFromPath returns the manifest format for a file name, or "" when the
// extension is not recognized
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return ""
	}
}
