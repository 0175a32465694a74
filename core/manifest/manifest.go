// Package manifest reads extension manifests: YAML files that describe a
// command or event and name the compiled-in handler that implements it.
package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/manifest.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// Manifest is the decoded file. Absent sections stay nil so callers can
// tell a missing field from an empty one.
type Manifest struct {
	Handler    string      `mapstructure:"handler"`
	Definition *Definition `mapstructure:"definition"`
	Tags       []string    `mapstructure:"tags"`
	Help       string      `mapstructure:"help"`
	Requires   string      `mapstructure:"requires"`
	Event      *Event      `mapstructure:"event"`
}

type Definition struct {
	Name        string   `mapstructure:"name"`
	Description string   `mapstructure:"description"`
	Options     []Option `mapstructure:"options"`
}

type Option struct {
	Name         string   `mapstructure:"name"`
	Description  string   `mapstructure:"description"`
	Type         string   `mapstructure:"type"`
	Required     bool     `mapstructure:"required"`
	Autocomplete bool     `mapstructure:"autocomplete"`
	MinValue     *float64 `mapstructure:"min_value"`
	MaxValue     *float64 `mapstructure:"max_value"`
}

type Event struct {
	Name string `mapstructure:"name"`
	Once *bool  `mapstructure:"once"`
}

// SchemaError lists every schema violation of a manifest.
type SchemaError struct {
	Issues []string
}

func (e *SchemaError) Error() string {
	return "manifest schema: " + strings.Join(e.Issues, "; ")
}

func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return m, nil
}

// Parse decodes YAML, validates it against the embedded schema and maps it
// onto a Manifest.
func Parse(data []byte) (*Manifest, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parse YAML")
	}
	if raw == nil {
		return nil, errors.New("empty manifest")
	}
	raw = normalizeYAML(raw)

	if err := validate(raw); err != nil {
		return nil, err
	}

	var m Manifest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &m})
	if err != nil {
		return nil, errors.Wrap(err, "manifest decoder")
	}
	if err := dec.Decode(raw); err != nil {
		return nil, errors.Wrap(err, "decode manifest")
	}
	return &m, nil
}

// CheckCompat reports whether version satisfies the manifest's requires
// constraint. An empty constraint always passes.
func CheckCompat(constraint, version string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "invalid requires constraint %q", constraint)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "invalid bot version %q", version)
	}
	if !c.Check(v) {
		return errors.Newf("bot version %s does not satisfy %s", version, constraint)
	}
	return nil
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = errors.Wrap(err, "unmarshal schema")
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("manifest.schema.json", doc); err != nil {
			compileErr = errors.Wrap(err, "add schema resource")
			return
		}
		compiledSchema, compileErr = c.Compile("manifest.schema.json")
		if compileErr != nil {
			compileErr = errors.Wrap(compileErr, "compile schema")
		}
	})
	return compiledSchema, compileErr
}

func validate(raw any) error {
	schema, err := getSchema()
	if err != nil {
		return err
	}
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return errors.Wrap(err, "convert manifest to JSON")
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return errors.Wrap(err, "prepare manifest for validation")
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return errors.Wrap(err, "validate manifest")
	}
	var issues []string
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		issues = []string{ve.Error()}
	}
	return &SchemaError{Issues: issues}
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]string) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		msg := ve.Error()
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}
		*issues = append(*issues, path+": "+msg)
		return
	}
	for _, c := range ve.Causes {
		collectIssues(c, issues)
	}
}

// normalizeYAML converts YAML-decoded values into JSON-compatible types.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			if s, ok := k.(string); ok {
				m[s] = normalizeYAML(v)
			}
		}
		return m
	case []any:
		out := make([]any, len(val))
		for i, v := range val {
			out[i] = normalizeYAML(v)
		}
		return out
	default:
		return v
	}
}
