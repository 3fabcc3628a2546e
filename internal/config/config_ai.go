package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
}

// GetAnalyzeConfig returns the AI configuration for resume analysis with fallback to global config
func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	config := c.AI.Analyze

	c.applyOperationDefaults(&config)

	// Apply analyze-specific template fallbacks
	if config.CustomPrompts.AnalyzeResume == "" {
		config.CustomPrompts.AnalyzeResume = c.AI.CustomPrompts.AnalyzeResume
	}
	if config.CustomPrompts.AnalyzeResumeFile == "" {
		config.CustomPrompts.AnalyzeResumeFile = c.AI.CustomPrompts.AnalyzeResumeFile
	}

	return config
}

// GetMatchConfig returns the AI configuration for resume-to-job matching with fallback to global config
func (c *Config) GetMatchConfig() OperationAIConfig {
	config := c.AI.Match

	c.applyOperationDefaults(&config)

	// Apply match-specific template fallbacks
	if config.CustomPrompts.MatchResume == "" {
		config.CustomPrompts.MatchResume = c.AI.CustomPrompts.MatchResume
	}
	if config.CustomPrompts.MatchResumeFile == "" {
		config.CustomPrompts.MatchResumeFile = c.AI.CustomPrompts.MatchResumeFile
	}

	return config
}

// GetRankConfig returns the AI configuration for candidate ranking with fallback to global config
func (c *Config) GetRankConfig() OperationAIConfig {
	config := c.AI.Rank

	c.applyOperationDefaults(&config)

	// Apply rank-specific template fallbacks
	if config.CustomPrompts.RankCandidates == "" {
		config.CustomPrompts.RankCandidates = c.AI.CustomPrompts.RankCandidates
	}
	if config.CustomPrompts.RankCandidatesFile == "" {
		config.CustomPrompts.RankCandidatesFile = c.AI.CustomPrompts.RankCandidatesFile
	}

	return config
}
