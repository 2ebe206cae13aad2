package verify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/temirov/firestore_scripts/internal/docstore"
)

const (
	jsonIndentConstant          = "  "
	yamlIndentSpacesConstant    = 2
	unsupportedFormatTemplate   = "unsupported output format %q"
	renderErrorTemplateConstant = "unable to render document %s: %w"
)

// Format names an output encoding for document fields.
type Format string

// Supported output formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// SupportedFormats lists the accepted --format values.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML)}
}

// Renderer encodes document fields as indented text ending in a newline.
type Renderer func(fields docstore.Fields) ([]byte, error)

// NewRenderer returns the renderer for format.
func NewRenderer(format Format) (Renderer, error) {
	switch format {
	case FormatJSON:
		return renderJSON, nil
	case FormatYAML:
		return renderYAML, nil
	default:
		return nil, fmt.Errorf(unsupportedFormatTemplate, format)
	}
}

func renderJSON(fields docstore.Fields) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", jsonIndentConstant)
	if encodeError := encoder.Encode(printableValue(fields)); encodeError != nil {
		return nil, encodeError
	}
	return buffer.Bytes(), nil
}

func renderYAML(fields docstore.Fields) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndentSpacesConstant)
	if encodeError := encoder.Encode(printableValue(fields)); encodeError != nil {
		return nil, encodeError
	}
	if closeError := encoder.Close(); closeError != nil {
		return nil, closeError
	}
	return buffer.Bytes(), nil
}

// printableValue converts store values into plain maps, slices, and scalars.
// Timestamps become RFC 3339 strings in UTC, references become their document path,
// and non-finite numbers become null.
func printableValue(value any) any {
	switch typedValue := value.(type) {
	case docstore.Fields:
		return printableMap(typedValue)
	case map[string]any:
		return printableMap(typedValue)
	case []any:
		printable := make([]any, len(typedValue))
		for index := range typedValue {
			printable[index] = printableValue(typedValue[index])
		}
		return printable
	case float64:
		if math.IsNaN(typedValue) || math.IsInf(typedValue, 0) {
			return nil
		}
		return typedValue
	case float32:
		if math.IsNaN(float64(typedValue)) || math.IsInf(float64(typedValue), 0) {
			return nil
		}
		return typedValue
	case time.Time:
		return typedValue.UTC().Format(time.RFC3339Nano)
	case docstore.Reference:
		return typedValue.Path
	default:
		return value
	}
}

func printableMap(fields map[string]any) map[string]any {
	if fields == nil {
		return map[string]any{}
	}
	printable := make(map[string]any, len(fields))
	for fieldName, fieldValue := range fields {
		printable[fieldName] = printableValue(fieldValue)
	}
	return printable
}
