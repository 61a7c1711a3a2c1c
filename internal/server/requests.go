package server

import "github.com/jonathan/resume-screener/internal/analysis"

// MaxBatchResumes caps the number of resumes in one batch request.
const MaxBatchResumes = 50

// AnalyzeRequest is the body of POST /analyze. Exactly one of JobText and
// JobURL carries the job description; blank text is rejected by the analyzer
// with its own message.
type AnalyzeRequest struct {
	ResumeText string `json:"resume_text"`
	JobText    string `json:"job_text"`
	JobURL     string `json:"job_url" validate:"omitempty,url,excluded_with=JobText"`
	Strategy   string `json:"strategy" validate:"omitempty,oneof=overlap statistical"`
}

// BatchResume is one entry in a batch request.
type BatchResume struct {
	Name string `json:"name" validate:"required,max=200"`
	Text string `json:"text"`
}

// BatchRequest is the body of POST /analyze/batch.
type BatchRequest struct {
	JobText string        `json:"job_text"`
	// Resumes is capped at MaxBatchResumes by the handler.
	Resumes []BatchResume `json:"resumes" validate:"min=1,dive"`
}

// BatchResponse is returned by POST /analyze/batch with items ranked best first.
type BatchResponse struct {
	Count int                  `json:"count"`
	Items []analysis.BatchItem `json:"items"`
}

// VocabularyResponse is returned by GET /vocabulary.
type VocabularyResponse struct {
	Size   int      `json:"size"`
	Skills []string `json:"skills"`
}
