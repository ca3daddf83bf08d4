package judged

import "time"

// Submission is a submission as returned by the API. Code, OutputText and
// ErrorText are populated only by the single-submission endpoint;
// SubmissionTime only by the per-user-per-problem history.
type Submission struct {
	ID             string    `json:"id"`
	ProgramLang    string    `json:"program_lang"`
	LinkedUser     int64     `json:"linked_user"`
	ProblemID      int64     `json:"problem_id"`
	Status         string    `json:"status"`
	Result         string    `json:"result"`
	ResultTimeMS   int       `json:"result_time_ms"`
	ResultMemoryKB int       `json:"result_memory_kb"`
	Code           string    `json:"code,omitempty"`
	OutputText     string    `json:"output_text,omitempty"`
	ErrorText      string    `json:"error_text,omitempty"`
	SubmissionTime time.Time `json:"submission_time,omitempty"`
}

// CreateSubmissionRequest creates a new submission. All fields are required.
type CreateSubmissionRequest struct {
	ProgramLang string `json:"program_lang"`
	Code        string `json:"code"`
	ProblemID   int64  `json:"problem_id"`
}

// CreateSubmissionResponse acknowledges a created submission.
type CreateSubmissionResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// document is the server's response envelope.
type document[T any] struct {
	Data  T               `json:"data"`
	Links map[string]link `json:"_links"`
}

type link struct {
	Href string `json:"href"`
}

type submissionCollection struct {
	Submissions []document[Submission] `json:"submissions"`
}
