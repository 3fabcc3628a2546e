package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

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

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "any", &TextFormatter{})
	registry.RegisterFormatter("markdown", "any", &MarkdownFormatter{})
	registry.RegisterFormatter("text", "Rankings", &RankingsTextFormatter{})
	registry.RegisterFormatter("markdown", "Rankings", &RankingsMarkdownFormatter{})

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

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case []map[string]any:
		return "Rankings"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// sortedKeys returns map keys in a stable order, with "error" first so
// failures are visible at the top of the output.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == "error" {
			return true
		}
		if keys[j] == "error" {
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

func writeValue(out *strings.Builder, value any, indent string) {
	switch v := value.(type) {
	case map[string]any:
		out.WriteString("\n")
		for _, key := range sortedKeys(v) {
			out.WriteString(indent + "  " + key + ":")
			writeValue(out, v[key], indent+"  ")
		}
	case []any:
		out.WriteString("\n")
		for _, item := range v {
			switch item.(type) {
			case map[string]any, []any:
				out.WriteString(indent + "  -")
				writeValue(out, item, indent+"  ")
			default:
				out.WriteString(fmt.Sprintf("%s  - %v\n", indent, item))
			}
		}
	default:
		out.WriteString(fmt.Sprintf(" %v\n", v))
	}
}

// TextFormatter renders model results as an indented key/value listing.
type TextFormatter struct{}

func (tf *TextFormatter) Format(data any) (string, error) {
	var output strings.Builder

	switch v := data.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			output.WriteString(key + ":")
			writeValue(&output, v[key], "")
		}
	default:
		writeValue(&output, data, "")
	}

	return output.String(), nil
}

func (tf *TextFormatter) SupportedType() string {
	return "any"
}

// MarkdownFormatter renders model results as markdown sections.
type MarkdownFormatter struct{}

func (mf *MarkdownFormatter) Format(data any) (string, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return (&TextFormatter{}).Format(data)
	}

	var output strings.Builder
	for _, key := range sortedKeys(m) {
		output.WriteString(fmt.Sprintf("## %s\n", key))
		writeValue(&output, m[key], "")
		output.WriteString("\n")
	}
	return output.String(), nil
}

func (mf *MarkdownFormatter) SupportedType() string {
	return "any"
}

func entryField(entry map[string]any, key string) string {
	v, ok := entry[key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// RankingsTextFormatter handles text formatting for ranked candidate lists
type RankingsTextFormatter struct{}

func (rtf *RankingsTextFormatter) Format(data any) (string, error) {
	rankings, ok := data.([]map[string]any)
	if !ok {
		return "", fmt.Errorf("expected ranked candidate list, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CANDIDATE RANKING ===\n\n")
	for i, entry := range rankings {
		output.WriteString(fmt.Sprintf("%d. %s (score: %s)\n", i+1, entryField(entry, "id"), entryField(entry, "match_score")))
		if msg := entryField(entry, "error"); msg != "" {
			output.WriteString("   Error: " + msg + "\n")
		}
		if explanation := entryField(entry, "explanation"); explanation != "" {
			output.WriteString("   " + explanation + "\n")
		}
	}

	return output.String(), nil
}

func (rtf *RankingsTextFormatter) SupportedType() string {
	return "Rankings"
}

// RankingsMarkdownFormatter handles markdown formatting for ranked candidate lists
type RankingsMarkdownFormatter struct{}

func (rmf *RankingsMarkdownFormatter) Format(data any) (string, error) {
	rankings, ok := data.([]map[string]any)
	if !ok {
		return "", fmt.Errorf("expected ranked candidate list, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Candidate Ranking\n\n")
	output.WriteString("| Rank | Candidate | Score | Notes |\n")
	output.WriteString("|------|-----------|-------|-------|\n")
	for i, entry := range rankings {
		notes := entryField(entry, "explanation")
		if msg := entryField(entry, "error"); msg != "" {
			notes = msg
		}
		output.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n",
			i+1, entryField(entry, "id"), entryField(entry, "match_score"), notes))
	}

	return output.String(), nil
}

func (rmf *RankingsMarkdownFormatter) SupportedType() string {
	return "Rankings"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
