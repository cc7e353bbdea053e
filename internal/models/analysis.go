// internal/models/analysis.go
package models

// ResumeAnalysis is the structured result of comparing a resume against
// a job description.
type ResumeAnalysis struct {
	MatchScore  int      `json:"match_score"` // 0-100
	Strengths   []string `json:"strengths"`
	Gaps        []string `json:"gaps"`
	Suggestions []string `json:"suggestions"`
	Summary     string   `json:"summary"`
}

// InterviewQuestion is one generated preparation question.
type InterviewQuestion struct {
	Question  string `json:"question"`
	Category  string `json:"category"` // technical, behavioral, company
	Rationale string `json:"rationale,omitempty"`
}

// InterviewPrep is the set of questions generated for a job application.
type InterviewPrep struct {
	JobID     string              `json:"job_id"`
	Questions []InterviewQuestion `json:"questions"`
}
