// Package submission owns the submission lifecycle: the state a new
// submission must carry, and the single terminal update a grader may apply.
package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ojlab/judged/internal/store"
)

// Status values. A submission is created PENDING, claimed RUNNING by a
// grader, and finishes DONE or ERROR. No transition leaves a terminal state.
const (
	StatusPending = "PENDING"
	StatusRunning = "RUNNING"
	StatusDone    = "DONE"
	StatusError   = "ERROR"
)

// Result values, decoupled from status so lifecycle and outcome report
// separately.
const (
	ResultPending             = "PENDING"
	ResultAccepted            = "ACCEPTED"
	ResultWrongAnswer         = "WRONG_ANSWER"
	ResultTimeLimitExceeded   = "TIME_LIMIT_EXCEEDED"
	ResultMemoryLimitExceeded = "MEMORY_LIMIT_EXCEEDED"
	ResultRuntimeError        = "RUNTIME_ERROR"
	ResultCompileError        = "COMPILE_ERROR"
	ResultInternalError       = "INTERNAL_ERROR"
)

// MetricUnmeasured marks result_time_ms / result_memory_kb as not yet
// measured. It is never a real measurement.
const MetricUnmeasured = -1

var (
	// ErrMissingFields is returned before any persistence when a required
	// creation field is absent or empty.
	ErrMissingFields = errors.New("missing required fields")

	// ErrAlreadyGraded is returned when a terminal update targets a
	// submission that is not RUNNING.
	ErrAlreadyGraded = errors.New("submission already graded")
)

// CreateInput is a creation request; all fields are required.
type CreateInput struct {
	ProgramLang string
	Code        string
	ProblemID   int64
}

// Verdict is the one terminal update a grader applies to a submission.
type Verdict struct {
	Status   string
	Result   string
	TimeMS   int32
	MemoryKB int32
	Output   string
	Errors   string
}

type Service struct {
	queries store.Querier
}

func NewService(queries store.Querier) *Service {
	return &Service{queries: queries}
}

// Create persists a new submission owned by user with the creation-state
// invariants: PENDING status and result, unmeasured metrics, empty grader
// output. Code is written once here and never mutated by this service.
func (s *Service) Create(ctx context.Context, user *store.User, in CreateInput) (*store.Submission, error) {
	if in.ProgramLang == "" || in.Code == "" || in.ProblemID == 0 {
		return nil, ErrMissingFields
	}

	sub, err := s.queries.CreateSubmission(ctx, store.CreateSubmissionParams{
		UserID:         user.ID,
		ProblemID:      in.ProblemID,
		ProgramLang:    in.ProgramLang,
		Code:           in.Code,
		Status:         StatusPending,
		Result:         ResultPending,
		ResultTimeMs:   MetricUnmeasured,
		ResultMemoryKb: MetricUnmeasured,
		OutputText:     "",
		ErrorText:      "",
	})
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return &sub, nil
}

// ApplyVerdict writes the terminal state for a claimed submission as a single
// atomic update. The status guard makes it exactly-once: a second apply, or
// an apply against an unclaimed row, gets ErrAlreadyGraded.
func (s *Service) ApplyVerdict(ctx context.Context, id uuid.UUID, v Verdict) error {
	if v.Status != StatusDone && v.Status != StatusError {
		return fmt.Errorf("verdict status %q is not terminal", v.Status)
	}
	if v.Result == ResultPending || v.Result == "" {
		return fmt.Errorf("verdict result %q is not terminal", v.Result)
	}

	rows, err := s.queries.FinalizeSubmission(ctx, store.FinalizeSubmissionParams{
		ID:             id,
		Status:         v.Status,
		Result:         v.Result,
		ResultTimeMs:   v.TimeMS,
		ResultMemoryKb: v.MemoryKB,
		OutputText:     v.Output,
		ErrorText:      v.Errors,
	})
	if err != nil {
		return fmt.Errorf("finalize submission: %w", err)
	}
	if rows == 0 {
		return ErrAlreadyGraded
	}
	return nil
}
