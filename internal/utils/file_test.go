package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateInputFile(t *testing.T) {
	tempDir := t.TempDir()
	resumeFile := filepath.Join(tempDir, "resume.txt")
	if err := os.WriteFile(resumeFile, []byte("candidate resume"), 0600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name        string
		filename    string
		expectError bool
	}{
		{"existing file", resumeFile, false},
		{"empty filename", "", true},
		{"missing file", filepath.Join(tempDir, "missing.txt"), true},
		{"directory instead of file", tempDir, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFile(tt.filename)
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

func TestValidateOutputFile(t *testing.T) {
	tempDir := t.TempDir()

	if err := ValidateOutputFile(""); err != nil {
		t.Errorf("empty output path (stdout) should be valid: %v", err)
	}

	nested := filepath.Join(tempDir, "reports", "ranking.json")
	if err := ValidateOutputFile(nested); err != nil {
		t.Errorf("expected parent directory creation, got: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "reports")); err != nil {
		t.Errorf("expected reports directory to exist: %v", err)
	}
}

func TestIsTextFile(t *testing.T) {
	tests := []struct {
		filename string
		expected bool
	}{
		{"resume.txt", true},
		{"resume.md", true},
		{"job.MARKDOWN", true},
		{"resume.pdf", false},
		{"resume.docx", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		if got := IsTextFile(tt.filename); got != tt.expected {
			t.Errorf("IsTextFile(%q) = %v, expected %v", tt.filename, got, tt.expected)
		}
	}
}
