// Package config reads and writes chart documents.
//
// A document carries a schema version and one chart configuration:
//
//	version: v1.0.0
//	chart:
//	  type: cartesian
//	  width: 800
//	  height: 600
//	  grids:
//	    - layout: horizontal
//
// Documents are stored as JSON, YAML or XML. The XML form follows the
// grouping rules of XMLToJSON and JSONToXML.
package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/charts/pkg/chart"
	"github.com/go-drift/charts/pkg/errors"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// SchemaMajor is the document schema major version this package reads.
const SchemaMajor = "v1"

// XMLRoot is the root element name of XML documents.
const XMLRoot = "anychart"

var (
	// ErrUnknownFormat is returned for paths and names that map to no Format.
	ErrUnknownFormat = stderrors.New("config: unknown document format")
	// ErrUnsupportedVersion is returned for versions outside SchemaMajor.
	ErrUnsupportedVersion = stderrors.New("config: unsupported document version")
)

// Document is a versioned chart configuration.
type Document struct {
	Version string         `json:"version" yaml:"version" validate:"required,schemaversion"`
	Chart   map[string]any `json:"chart" yaml:"chart" validate:"required"`
}

// Header holds the chart keys every document must carry.
type Header struct {
	Type   string  `validate:"required,charttype"`
	Width  float64 `validate:"gt=0"`
	Height float64 `validate:"gt=0"`
}

// documentValidate checks documents and headers. Initialized in init()
// with the version and chart type validators.
var documentValidate *validator.Validate

func init() {
	documentValidate = validator.New()
	_ = documentValidate.RegisterValidation("schemaversion", validateSchemaVersion)
	_ = documentValidate.RegisterValidation("charttype", validateChartType)
}

func validateSchemaVersion(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	return semver.IsValid(v) && semver.Major(v) == SchemaMajor
}

func validateChartType(fl validator.FieldLevel) bool {
	return chart.Types.Has(fl.Field().String())
}

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xml":
		return FormatXML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatOf returns the format of path by its extension.
func FormatOf(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Load reads and validates the document at path.
func Load(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, wrap("config.Load", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrap("config.Load", fmt.Errorf("read %s: %w", path, err))
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, wrap("config.Load", fmt.Errorf("%s: %w", path, err))
	}
	return doc, nil
}

// Parse decodes and validates a document.
func Parse(data []byte, format Format) (*Document, error) {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatXML:
		v, err := XMLToJSON(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		raw = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	m, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document must be a map, got %T", raw)
	}
	doc := &Document{}
	if v, ok := m["version"]; ok {
		doc.Version = fmt.Sprint(v)
	}
	doc.Chart, _ = m["chart"].(map[string]any)
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks the version and the chart header.
func (d *Document) Validate() error {
	if err := documentValidate.Struct(d); err != nil {
		var ve validator.ValidationErrors
		if stderrors.As(err, &ve) && ve[0].Tag() == "schemaversion" {
			return fmt.Errorf("%w: %q, want %s.x.y", ErrUnsupportedVersion, d.Version, SchemaMajor)
		}
		return fmt.Errorf("invalid document: %w", err)
	}
	h := d.Header()
	if err := documentValidate.Struct(h); err != nil {
		return fmt.Errorf("invalid chart: %w", err)
	}
	return nil
}

// Header extracts the chart header. Missing or mistyped keys are zero.
func (d *Document) Header() Header {
	var h Header
	h.Type, _ = d.Chart["type"].(string)
	h.Width, _ = d.Chart["width"].(float64)
	h.Height, _ = d.Chart["height"].(float64)
	return h
}

// Build creates the chart described by the document. Size keys are not
// chart options and are left out of the setup; use Header for them.
func (d *Document) Build() (*chart.Chart, error) {
	cfg := make(map[string]any, len(d.Chart))
	for k, v := range d.Chart {
		if k == "width" || k == "height" {
			continue
		}
		cfg[k] = v
	}
	return chart.FromJSON(cfg)
}

// Map returns the document as a JSON value.
func (d *Document) Map() map[string]any {
	return map[string]any{"version": d.Version, "chart": d.Chart}
}

// Encode writes the document in format.
func (d *Document) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(d.Map(), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(d.Map())
	case FormatXML:
		return JSONToXML(d.Map(), XMLRoot)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// FromChart captures c and its size as a document.
func FromChart(c *chart.Chart, width, height float64) *Document {
	cfg := c.Serialize()
	cfg["width"] = width
	cfg["height"] = height
	return &Document{Version: SchemaMajor + ".0.0", Chart: normalize(cfg).(map[string]any)}
}

// normalize turns decoded YAML into the JSON value shapes: string keyed maps,
// []any slices and float64 numbers.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	}
	return v
}

func wrap(op string, err error) error {
	return &errors.ChartError{Op: op, Kind: errors.KindSerialization, Err: err}
}
