package analyzer

import "strings"

// Template substitution slots. Templates reference these by name so files
// loaded from disk stay readable and slot order does not matter.
const (
	slotResumeText     = "{resume_text}"
	slotJobDescription = "{job_description}"
	slotResumesJSON    = "{resumes_json}"
)

// Templates contains the prompt templates for the three operations
type Templates struct {
	AnalyzeResume  string
	MatchResume    string
	RankCandidates string
}

// DefaultTemplates provides the built-in prompt templates
var DefaultTemplates = Templates{
	AnalyzeResume: `I need you to analyze the following resume and extract key information in a structured format.
Focus on:
1. Personal information (name, contact, etc.)
2. Education history
3. Work experience
4. Skills (technical and soft)
5. Projects
6. Certifications
7. Summary/highlights

RESUME TEXT:
{resume_text}

Provide your analysis in valid JSON format with the following structure:
{
  "personal_info": {
    "name": "...",
    "email": "...",
    "phone": "...",
    "location": "...",
    "linkedin": "..."
  },
  "summary": "...",
  "skills": ["skill1", "skill2", ...],
  "education": [
    {
      "institution": "...",
      "degree": "...",
      "field": "...",
      "dates": "...",
      "gpa": "..."
    }
  ],
  "experience": [
    {
      "company": "...",
      "title": "...",
      "dates": "...",
      "description": "...",
      "achievements": ["..."]
    }
  ],
  "projects": [
    {
      "name": "...",
      "description": "...",
      "technologies": ["..."],
      "url": "..."
    }
  ],
  "certifications": [
    {
      "name": "...",
      "issuer": "...",
      "date": "..."
    }
  ]
}

IMPORTANT: Provide only valid JSON as your response, with no additional text.`,

	MatchResume: `I need you to compare a resume against a job description and determine how well the candidate matches the position.

JOB DESCRIPTION:
{job_description}

RESUME:
{resume_text}

Analyze the match based on:
1. Skills match (required and preferred skills)
2. Experience relevance (years and quality)
3. Education fit
4. Overall suitability

Provide your analysis in valid JSON format with the following structure:
{
  "match_score": 85,
  "skill_match": {
    "score": 80,
    "matched_skills": ["skill1", "skill2", ...],
    "missing_skills": ["skill3", "skill4", ...],
    "explanation": "..."
  },
  "experience_match": {
    "score": 90,
    "explanation": "..."
  },
  "education_match": {
    "score": 85,
    "explanation": "..."
  },
  "highlights": [
    "Key strength 1 relevant to the position",
    "Key strength 2 relevant to the position"
  ],
  "concerns": [
    "Potential issue or gap 1",
    "Potential issue or gap 2"
  ],
  "recommendations": "Actions the candidate could take to improve their fit"
}

The match_score is the overall match score out of 100; the section scores are also out of 100.

IMPORTANT: Provide only valid JSON as your response, with no additional text.`,

	RankCandidates: `I need you to rank multiple candidates based on their resumes against a job description.

JOB DESCRIPTION:
{job_description}

CANDIDATES (in JSON format):
{resumes_json}

Analyze each candidate's match to the job based on:
1. Skills match
2. Experience relevance
3. Education fit
4. Overall suitability

Then rank the candidates from best to worst fit.

Provide your analysis in valid JSON format with the following structure:
{
  "rankings": [
    {
      "id": "candidate_id",
      "match_score": 85,
      "strengths": ["strength1", "strength2"],
      "weaknesses": ["weakness1", "weakness2"],
      "recommendation": "Brief hiring recommendation"
    },
    {
      "id": "candidate_id",
      "match_score": 75,
      ...
    }
  ]
}

IMPORTANT: Provide only valid JSON as your response, with no additional text.`,
}

// renderAnalyzePrompt fills the analysis template's slots
func renderAnalyzePrompt(template, resumeText string) string {
	return strings.ReplaceAll(template, slotResumeText, resumeText)
}

// renderMatchPrompt fills the matching template's slots
func renderMatchPrompt(template, resumeText, jobDescription string) string {
	prompt := strings.ReplaceAll(template, slotJobDescription, jobDescription)
	return strings.ReplaceAll(prompt, slotResumeText, resumeText)
}

// renderRankPrompt fills the ranking template's slots
func renderRankPrompt(template, resumesJSON, jobDescription string) string {
	prompt := strings.ReplaceAll(template, slotJobDescription, jobDescription)
	return strings.ReplaceAll(prompt, slotResumesJSON, resumesJSON)
}

// resolveTemplate selects the template string based on a clear priority order:
// 1. A template loaded from a file.
// 2. A template defined directly in the configuration.
// 3. The hardcoded default template.
func resolveTemplate(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
