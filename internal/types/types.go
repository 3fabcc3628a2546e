package types

// ResumeRecord is a single candidate resume submitted for ranking. ID may be
// empty, in which case the ranker synthesizes one from the record's position.
type ResumeRecord struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// AnalyzeResumeInput represents the input for analyzing a resume
type AnalyzeResumeInput struct {
	ResumeText string `json:"resume_text"`
}

// MatchResumeInput represents the input for matching a resume against a job
type MatchResumeInput struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

// RankCandidatesInput represents the input for ranking candidate resumes
type RankCandidatesInput struct {
	Resumes        []ResumeRecord `json:"resumes"`
	JobDescription string         `json:"job_description"`
}

// Operation identifies the request kind on the model-context endpoint.
type Operation string

const (
	OperationExecuteFunction Operation = "execute_function"
)

// Function names dispatchable through the model-context endpoint.
const (
	FunctionAnalyzeResume    = "analyze_resume"
	FunctionMatchResumeToJob = "match_resume_to_job"
	FunctionRankCandidates   = "rank_candidates"
)

// ModelContextRequest is the envelope accepted by the /mcp endpoint.
type ModelContextRequest struct {
	Operation    Operation      `json:"operation"`
	FunctionName string         `json:"function_name,omitempty"`
	Parameters   map[string]any `json:"parameters,omitempty"`
}

// ModelContextResponse is the envelope returned by the /mcp endpoint. Content
// carries a short human-readable line; FunctionResponse carries the payload.
type ModelContextResponse struct {
	Content          string `json:"content"`
	FunctionResponse any    `json:"function_response,omitempty"`
	Error            string `json:"error,omitempty"`
}
