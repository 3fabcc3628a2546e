package common

import (
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	configured := []string{"json", "text", "markdown"}

	tests := []struct {
		name             string
		format           string
		supportedFormats []string
		expectError      bool
	}{
		{"valid json", "json", configured, false},
		{"valid text", "text", configured, false},
		{"valid markdown", "markdown", configured, false},
		{"unsupported xml", "xml", configured, true},
		{"case sensitive", "JSON", configured, true},
		{"empty format", "", configured, true},
		{"no restrictions configured", "xml", []string{}, false},
		{"single format valid", "json", []string{"json"}, false},
		{"single format invalid", "text", []string{"json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supportedFormats)

			if tt.expectError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error but got: %v", err)
			}
		})
	}
}

func TestValidateOutputFormatErrorMessage(t *testing.T) {
	err := ValidateOutputFormat("csv", []string{"json", "text"})
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}

	expected := "unsupported output format 'csv'. Supported formats: [json text]"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestGetSupportedFormats(t *testing.T) {
	formats := []string{"json", "text", "markdown"}
	result := GetSupportedFormats(formats)

	if len(result) != len(formats) {
		t.Fatalf("expected %d formats, got %d", len(formats), len(result))
	}
	for i, f := range formats {
		if result[i] != f {
			t.Errorf("expected format[%d] = %q, got %q", i, f, result[i])
		}
	}
}
