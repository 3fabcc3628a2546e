package config

import (
	"sync"
)

var (
	loadedTemplatesMu sync.RWMutex
	loadedTemplates   AllLoadedTemplates
)

// LoadedTemplates holds template content loaded from files for one scope
type LoadedTemplates struct {
	AnalyzeResume  string
	MatchResume    string
	RankCandidates string
}

// AllLoadedTemplates holds file-loaded templates for all scopes. Operation
// scopes win over the global scope.
type AllLoadedTemplates struct {
	Global  LoadedTemplates
	Analyze LoadedTemplates
	Match   LoadedTemplates
	Rank    LoadedTemplates
}

// GetTemplateForOperation returns the file-loaded template for an operation,
// or the empty string when none is loaded. Safe for concurrent use; the
// template watcher updates the store while the server is running.
func GetTemplateForOperation(operationType string) string {
	loadedTemplatesMu.RLock()
	defer loadedTemplatesMu.RUnlock()

	switch operationType {
	case "analyze":
		if loadedTemplates.Analyze.AnalyzeResume != "" {
			return loadedTemplates.Analyze.AnalyzeResume
		}
		return loadedTemplates.Global.AnalyzeResume
	case "match":
		if loadedTemplates.Match.MatchResume != "" {
			return loadedTemplates.Match.MatchResume
		}
		return loadedTemplates.Global.MatchResume
	case "rank":
		if loadedTemplates.Rank.RankCandidates != "" {
			return loadedTemplates.Rank.RankCandidates
		}
		return loadedTemplates.Global.RankCandidates
	default:
		return ""
	}
}

// setLoadedTemplates replaces the whole template store
func setLoadedTemplates(t AllLoadedTemplates) {
	loadedTemplatesMu.Lock()
	defer loadedTemplatesMu.Unlock()
	loadedTemplates = t
}

// GetLoadedTemplates returns a copy of the current template store
func GetLoadedTemplates() AllLoadedTemplates {
	loadedTemplatesMu.RLock()
	defer loadedTemplatesMu.RUnlock()
	return loadedTemplates
}
