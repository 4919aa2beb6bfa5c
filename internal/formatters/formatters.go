package formatters

import (
	"encoding/json"
	"fmt"
	"slices"

	"resumeai/internal/types"
)

// Output formats
const (
	FormatJSON     = "json"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

const anyType = "any"

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter(FormatJSON, anyType, &JSONFormatter{})
	for _, f := range []Formatter{
		&ProfileTextFormatter{},
		&ResumeTextFormatter{},
		&ReportTextFormatter{},
		&OptimizeTextFormatter{},
		&BatchTextFormatter{},
	} {
		registry.RegisterFormatter(FormatText, f.SupportedType(), f)
	}
	for _, f := range []Formatter{
		&ProfileMarkdownFormatter{},
		&ResumeMarkdownFormatter{},
		&ReportMarkdownFormatter{},
		&OptimizeMarkdownFormatter{},
		&BatchMarkdownFormatter{},
	} {
		registry.RegisterFormatter(FormatMarkdown, f.SupportedType(), f)
	}

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[anyType]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.JDProfile:
		return "JDProfile"
	case types.Resume:
		return "Resume"
	case types.ATSReport:
		return "ATSReport"
	case types.OptimizeResult:
		return "OptimizeResult"
	case types.BatchResult:
		return "BatchResult"
	default:
		return anyType
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return anyType
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
