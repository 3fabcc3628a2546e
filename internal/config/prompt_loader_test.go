package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemplateFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create template file %s: %v", name, err)
	}
	return path
}

func TestLoadTemplatesFromFiles(t *testing.T) {
	tempDir := t.TempDir()

	analyzeContent := "Analyze this resume: {resume_text}"
	matchContent := "Match {resume_text} against {job_description}"

	analyzeFile := writeTemplateFile(t, tempDir, "analyze.md", analyzeContent)
	matchFile := writeTemplateFile(t, tempDir, "match.md", matchContent)

	config := &Config{
		AI: AIConfig{
			Analyze: OperationAIConfig{
				CustomPrompts: PromptConfig{
					AnalyzeResumeFile: analyzeFile,
				},
			},
			Match: OperationAIConfig{
				CustomPrompts: PromptConfig{
					MatchResumeFile: matchFile,
				},
			},
		},
	}

	if err := config.loadTemplatesFromFiles(); err != nil {
		t.Fatalf("Failed to load templates from files: %v", err)
	}

	if got := GetTemplateForOperation("analyze"); got != analyzeContent {
		t.Errorf("Expected analyze template %q, got %q", analyzeContent, got)
	}
	if got := GetTemplateForOperation("match"); got != matchContent {
		t.Errorf("Expected match template %q, got %q", matchContent, got)
	}
	if got := GetTemplateForOperation("rank"); got != "" {
		t.Errorf("Expected no rank template, got %q", got)
	}

	// File paths stay in the config; only content is loaded into the store
	if config.AI.Analyze.CustomPrompts.AnalyzeResumeFile != analyzeFile {
		t.Error("Expected analyze template file path to be preserved")
	}

	t.Cleanup(func() { setLoadedTemplates(AllLoadedTemplates{}) })
}

func TestGetTemplateForOperationPrecedence(t *testing.T) {
	setLoadedTemplates(AllLoadedTemplates{
		Global: LoadedTemplates{
			AnalyzeResume:  "global analyze",
			RankCandidates: "global rank",
		},
		Analyze: LoadedTemplates{
			AnalyzeResume: "operation analyze",
		},
	})
	t.Cleanup(func() { setLoadedTemplates(AllLoadedTemplates{}) })

	tests := []struct {
		operation string
		expected  string
	}{
		{"analyze", "operation analyze"}, // operation scope wins
		{"rank", "global rank"},          // falls back to global
		{"match", ""},                    // nothing loaded
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			if got := GetTemplateForOperation(tt.operation); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestValidateTemplateFiles(t *testing.T) {
	tempDir := t.TempDir()

	validFile := writeTemplateFile(t, tempDir, "valid.md", "Valid content")

	config := &Config{
		AI: AIConfig{
			Rank: OperationAIConfig{
				CustomPrompts: PromptConfig{
					RankCandidatesFile: validFile,
				},
			},
		},
	}

	if err := config.validateTemplateFiles(); err != nil {
		t.Errorf("Expected validation to pass for valid file, got error: %v", err)
	}

	config.AI.Rank.CustomPrompts.RankCandidatesFile = filepath.Join(tempDir, "nonexistent.md")

	if err := config.validateTemplateFiles(); err == nil {
		t.Error("Expected validation to fail for non-existent file")
	}
}

func TestLoadTemplateFromFile(t *testing.T) {
	tempDir := t.TempDir()

	content := "Rank these candidates: {resumes}"
	testFile := writeTemplateFile(t, tempDir, "rank.md", content+"\n\n")

	loadedContent, err := loadTemplateFromFile(testFile, "rank", "rankCandidates")
	if err != nil {
		t.Fatalf("Failed to load template from file: %v", err)
	}

	// Content is trimmed on load
	if loadedContent != content {
		t.Errorf("Expected content %q, got %q", content, loadedContent)
	}

	emptyFile := writeTemplateFile(t, tempDir, "empty.md", "   \n")
	if _, err := loadTemplateFromFile(emptyFile, "rank", "rankCandidates"); err == nil {
		t.Error("Expected error for empty file")
	}

	if _, err := loadTemplateFromFile(filepath.Join(tempDir, "nonexistent.md"), "rank", "rankCandidates"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestTemplateFilePaths(t *testing.T) {
	config := &Config{
		AI: AIConfig{
			CustomPrompts: PromptConfig{
				AnalyzeResumeFile: "global-analyze.md",
			},
			Match: OperationAIConfig{
				CustomPrompts: PromptConfig{
					MatchResumeFile: "match.md",
				},
			},
		},
	}

	paths := config.TemplateFilePaths()
	if len(paths) != 2 {
		t.Fatalf("Expected 2 template paths, got %d: %v", len(paths), paths)
	}
}

func TestReloadTemplatesFromFiles(t *testing.T) {
	tempDir := t.TempDir()

	analyzeFile := writeTemplateFile(t, tempDir, "analyze.md", "first version")

	config := &Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "test-model",
			Timeout:     60 * time.Second,
			APIKey:      "test-key",
			MaxRetries:  3,
			Temperature: 0.7,
			Analyze: OperationAIConfig{
				CustomPrompts: PromptConfig{
					AnalyzeResumeFile: analyzeFile,
				},
			},
		},
	}
	t.Cleanup(func() { setLoadedTemplates(AllLoadedTemplates{}) })

	if err := config.loadTemplatesFromFiles(); err != nil {
		t.Fatalf("Failed to load templates: %v", err)
	}
	if got := GetTemplateForOperation("analyze"); got != "first version" {
		t.Fatalf("Expected initial template, got %q", got)
	}

	writeTemplateFile(t, tempDir, "analyze.md", "second version")

	if err := config.ReloadTemplatesFromFiles(); err != nil {
		t.Fatalf("Failed to reload templates: %v", err)
	}
	if got := GetTemplateForOperation("analyze"); got != "second version" {
		t.Errorf("Expected reloaded template, got %q", got)
	}

	// A reload failure leaves the previous store intact
	if err := os.Remove(analyzeFile); err != nil {
		t.Fatalf("Failed to remove template file: %v", err)
	}
	if err := config.ReloadTemplatesFromFiles(); err == nil {
		t.Error("Expected reload to fail for missing file")
	}
	if got := GetTemplateForOperation("analyze"); got != "second version" {
		t.Errorf("Expected previous template to survive failed reload, got %q", got)
	}
}
