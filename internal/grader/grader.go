package grader

import (
	"context"

	"github.com/ojlab/judged/internal/store"
	"github.com/ojlab/judged/internal/submission"
)

// Grader is the external grading engine contract. Grade must either return a
// terminal verdict for the submission or an error; an error means the attempt
// failed before a judgement was reached and may be retried.
type Grader interface {
	Grade(ctx context.Context, sub *store.Submission) (*submission.Verdict, error)
}
