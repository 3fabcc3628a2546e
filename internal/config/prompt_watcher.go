package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sms03/resume-mcp/internal/errors"
)

// TemplateWatcher watches prompt template files for changes and reloads the
// template store when they are rewritten, so prompts can be tuned without a
// restart.
type TemplateWatcher struct {
	mu sync.RWMutex

	config *Config
	files  []string

	// File metadata
	lastModTime map[string]time.Time

	// Watcher components
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	// Control channels
	stopChan   chan struct{}
	reloadChan chan struct{}

	logger *errors.Logger

	running bool
}

// NewTemplateWatcher creates a watcher for the config's template files.
// Returns nil when no template files are configured.
func NewTemplateWatcher(cfg *Config, debounceDelay time.Duration, logger *errors.Logger) *TemplateWatcher {
	files := cfg.TemplateFilePaths()
	if len(files) == 0 {
		return nil
	}

	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &TemplateWatcher{
		config:        cfg,
		files:         files,
		lastModTime:   make(map[string]time.Time),
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1), // Buffered to prevent blocking
		logger:        logger,
	}
}

// Start begins watching template files for changes
func (tw *TemplateWatcher) Start() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.running {
		return fmt.Errorf("template watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	tw.fsWatcher = watcher

	if err := tw.updateModTimes(); err != nil {
		tw.cleanupWatcher()
		return fmt.Errorf("failed to get initial file modification times: %w", err)
	}

	for _, file := range tw.files {
		if err := tw.addFileToWatcher(file); err != nil && tw.logger != nil {
			tw.logger.Warn("Failed to watch template file", "file", file, "error", err)
		}
	}

	tw.running = true
	go tw.watchLoop()

	if tw.logger != nil {
		tw.logger.Info("Prompt template file watcher started",
			"files", tw.files,
			"debounce_delay", tw.debounceDelay)
	}
	return nil
}

// Stop stops the template file watcher
func (tw *TemplateWatcher) Stop() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if !tw.running {
		return nil
	}

	close(tw.stopChan)

	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}

	if tw.fsWatcher != nil {
		if err := tw.fsWatcher.Close(); err != nil {
			if tw.logger != nil {
				tw.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	tw.running = false

	if tw.logger != nil {
		tw.logger.Info("Prompt template file watcher stopped")
	}

	return nil
}

// cleanupWatcher closes the file watcher and logs any errors
func (tw *TemplateWatcher) cleanupWatcher() {
	if tw.fsWatcher != nil {
		if closeErr := tw.fsWatcher.Close(); closeErr != nil && tw.logger != nil {
			tw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
	}
}

// addFileToWatcher adds a file and its directory to the file system watcher
func (tw *TemplateWatcher) addFileToWatcher(file string) error {
	if err := tw.fsWatcher.Add(file); err != nil {
		// If the file doesn't exist, watch its directory instead
		if os.IsNotExist(err) {
			dir := filepath.Dir(file)
			if err := tw.fsWatcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", dir, err)
			}
			if tw.logger != nil {
				tw.logger.Info("Watching directory for template file",
					"file", file, "directory", dir)
			}
		} else {
			return fmt.Errorf("failed to watch file %s: %w", file, err)
		}
	}

	// Also watch the directory to catch atomic writes (rename operations)
	dir := filepath.Dir(file)
	if err := tw.fsWatcher.Add(dir); err != nil {
		if tw.logger != nil {
			tw.logger.Warn("Failed to watch directory for atomic writes",
				"directory", dir, "error", err)
		}
	}

	return nil
}

// updateModTimes updates the stored modification times for all watched files
func (tw *TemplateWatcher) updateModTimes() error {
	for _, file := range tw.files {
		if stat, err := os.Stat(file); err == nil {
			tw.lastModTime[file] = stat.ModTime()
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat file %s: %w", file, err)
		}
	}
	return nil
}

// hasFileChanged checks if a file has been modified since last check
func (tw *TemplateWatcher) hasFileChanged(file string) bool {
	stat, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			// File was deleted
			if _, exists := tw.lastModTime[file]; exists {
				delete(tw.lastModTime, file)
				return true
			}
		}
		return false
	}

	lastMod, exists := tw.lastModTime[file]
	if !exists || stat.ModTime().After(lastMod) {
		tw.lastModTime[file] = stat.ModTime()
		return true
	}

	return false
}

// watchLoop is the main event loop for file watching
func (tw *TemplateWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-tw.fsWatcher.Events:
			if !ok {
				return
			}

			if tw.shouldProcessEvent(event) {
				tw.scheduleReload()
			}

		case err, ok := <-tw.fsWatcher.Errors:
			if !ok {
				return
			}
			if tw.logger != nil {
				tw.logger.LogError(err, "File watcher error")
			}

		case <-tw.reloadChan:
			// Debounced reload trigger
			if slices.ContainsFunc(tw.files, tw.hasFileChanged) {
				tw.reloadTemplates()
			}

		case <-tw.stopChan:
			return
		}
	}
}

// reloadTemplates re-reads the template files, keeping the old store on failure
func (tw *TemplateWatcher) reloadTemplates() {
	if tw.logger != nil {
		tw.logger.Info("Prompt template files changed, reloading")
	}

	if err := tw.config.ReloadTemplatesFromFiles(); err != nil {
		if tw.logger != nil {
			tw.logger.LogError(err, "Template reload failed, keeping previous templates")
		}
		return
	}

	if tw.logger != nil {
		tw.logger.Info("Prompt templates reloaded")
	}
}

// shouldProcessEvent determines if a file system event should trigger a reload check
func (tw *TemplateWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	isWatchedFile := false
	for _, file := range tw.files {
		if event.Name == file || filepath.Base(event.Name) == filepath.Base(file) {
			isWatchedFile = true
			break
		}
	}

	if !isWatchedFile {
		return false
	}

	// Process write, create, and rename events
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload schedules a debounced reload
func (tw *TemplateWatcher) scheduleReload() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}

	tw.debounceTimer = time.AfterFunc(tw.debounceDelay, func() {
		select {
		case tw.reloadChan <- struct{}{}:
			// Reload scheduled
		default:
			// Channel is full, reload already scheduled
		}
	})
}

// IsRunning returns whether the watcher is currently running
func (tw *TemplateWatcher) IsRunning() bool {
	tw.mu.RLock()
	defer tw.mu.RUnlock()
	return tw.running
}
