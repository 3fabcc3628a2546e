package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadTemplatesFromFiles loads prompt templates from external files if file paths are specified
func (c *Config) loadTemplatesFromFiles() error {
	log.Println("[CONFIG] Starting prompt template loading from files")

	templates, err := c.readAllTemplateFiles()
	if err != nil {
		return err
	}

	setLoadedTemplates(templates)

	c.logTemplateLoadingSummary(templates)
	return nil
}

// ReloadTemplatesFromFiles re-reads all configured template files and swaps
// the store. Invoked by the template watcher on file changes; a read failure
// leaves the previous templates in place.
func (c *Config) ReloadTemplatesFromFiles() error {
	templates, err := c.readAllTemplateFiles()
	if err != nil {
		return err
	}
	setLoadedTemplates(templates)
	return nil
}

// readAllTemplateFiles reads every configured template file into a fresh store
func (c *Config) readAllTemplateFiles() (AllLoadedTemplates, error) {
	var templates AllLoadedTemplates

	// Global templates
	if err := loadScopeTemplates(&c.AI.CustomPrompts, &templates.Global, "global"); err != nil {
		return templates, err
	}

	// Operation-specific templates
	if err := loadScopeTemplates(&c.AI.Analyze.CustomPrompts, &templates.Analyze, "analyze"); err != nil {
		return templates, err
	}
	if err := loadScopeTemplates(&c.AI.Match.CustomPrompts, &templates.Match, "match"); err != nil {
		return templates, err
	}
	if err := loadScopeTemplates(&c.AI.Rank.CustomPrompts, &templates.Rank, "rank"); err != nil {
		return templates, err
	}

	return templates, nil
}

// loadScopeTemplates loads the template files configured for one scope
func loadScopeTemplates(prompts *PromptConfig, target *LoadedTemplates, scope string) error {
	if prompts.AnalyzeResumeFile != "" {
		content, err := loadTemplateFromFile(prompts.AnalyzeResumeFile, scope, "analyzeResume")
		if err != nil {
			return err
		}
		target.AnalyzeResume = content
	}

	if prompts.MatchResumeFile != "" {
		content, err := loadTemplateFromFile(prompts.MatchResumeFile, scope, "matchResume")
		if err != nil {
			return err
		}
		target.MatchResume = content
	}

	if prompts.RankCandidatesFile != "" {
		content, err := loadTemplateFromFile(prompts.RankCandidatesFile, scope, "rankCandidates")
		if err != nil {
			return err
		}
		target.RankCandidates = content
	}

	return nil
}

// loadTemplateFromFile loads a template from a file with proper error handling and logging
func loadTemplateFromFile(filePath, scope, name string) (string, error) {
	// Resolve relative paths
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s template file '%s': %w", scope, name, filePath, err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s template file not found: %s", scope, name, absPath)
	}

	// Read file content
	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s template file '%s': %w", scope, name, absPath, err)
	}

	// Validate content is not empty
	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s template file '%s' is empty", scope, name, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s %s template from file: %s (%d characters)",
		scope, name, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validateTemplateFiles validates that template files exist before loading
func (c *Config) validateTemplateFiles() error {
	var validationErrors []string

	validateFile := func(filePath, scope, name string) {
		if filePath == "" {
			return // No file specified, skip validation
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s template: %s", scope, name, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s template file not found: %s", scope, name, absPath))
		}
	}

	// Validate global template files
	validateFile(c.AI.CustomPrompts.AnalyzeResumeFile, "global", "analyzeResume")
	validateFile(c.AI.CustomPrompts.MatchResumeFile, "global", "matchResume")
	validateFile(c.AI.CustomPrompts.RankCandidatesFile, "global", "rankCandidates")

	// Validate operation-specific template files
	validateFile(c.AI.Analyze.CustomPrompts.AnalyzeResumeFile, "analyze", "analyzeResume")
	validateFile(c.AI.Match.CustomPrompts.MatchResumeFile, "match", "matchResume")
	validateFile(c.AI.Rank.CustomPrompts.RankCandidatesFile, "rank", "rankCandidates")

	if len(validationErrors) > 0 {
		return fmt.Errorf("template file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// TemplateFilePaths returns the set of configured template file paths, used
// by the template watcher to know what to watch
func (c *Config) TemplateFilePaths() []string {
	var paths []string
	add := func(p string) {
		if p != "" {
			paths = append(paths, p)
		}
	}

	add(c.AI.CustomPrompts.AnalyzeResumeFile)
	add(c.AI.CustomPrompts.MatchResumeFile)
	add(c.AI.CustomPrompts.RankCandidatesFile)
	add(c.AI.Analyze.CustomPrompts.AnalyzeResumeFile)
	add(c.AI.Match.CustomPrompts.MatchResumeFile)
	add(c.AI.Rank.CustomPrompts.RankCandidatesFile)

	return paths
}

// logTemplateLoadingSummary logs a summary of loaded templates
func (c *Config) logTemplateLoadingSummary(templates AllLoadedTemplates) {
	log.Println("[CONFIG] === Prompt Template Loading Summary ===")

	templateChecks := []struct {
		content string
		message string
	}{
		{templates.Global.AnalyzeResume, "[CONFIG] Global analyze template: loaded from file"},
		{templates.Global.MatchResume, "[CONFIG] Global match template: loaded from file"},
		{templates.Global.RankCandidates, "[CONFIG] Global rank template: loaded from file"},
		{templates.Analyze.AnalyzeResume, "[CONFIG] Analyze-specific template: loaded from file"},
		{templates.Match.MatchResume, "[CONFIG] Match-specific template: loaded from file"},
		{templates.Rank.RankCandidates, "[CONFIG] Rank-specific template: loaded from file"},
	}

	count := 0
	for _, check := range templateChecks {
		if check.content != "" {
			log.Println(check.message)
			count++
		}
	}

	if count == 0 {
		log.Println("[CONFIG] No template files loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total templates loaded: %d", count)
	}

	log.Println("[CONFIG] ==========================================")
}
