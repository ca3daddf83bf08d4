// Package worker drives the grading engine: it claims pending submissions
// from the database and applies exactly one terminal verdict to each.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ojlab/judged/internal/grader"
	"github.com/ojlab/judged/internal/store"
	"github.com/ojlab/judged/internal/submission"
)

const (
	pollInterval = 500 * time.Millisecond
	maxAttempts  = 3
)

// Worker polls the database for pending submissions and grades them
// concurrently.
type Worker struct {
	queries     store.Querier
	subs        *submission.Service
	grader      grader.Grader
	concurrency int
}

func New(queries store.Querier, g grader.Grader, concurrency int) *Worker {
	return &Worker{
		queries:     queries,
		subs:        submission.NewService(queries),
		grader:      g,
		concurrency: concurrency,
	}
}

// Start spawns concurrency goroutines that each poll for pending submissions.
// It blocks until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.concurrency; i++ {
		go w.loop(ctx)
	}
	<-ctx.Done()
}

func (w *Worker) loop(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processNext(ctx)
		}
	}
}

// processNext claims one pending submission and grades it. The claim takes
// the row to RUNNING; concurrent workers skip claimed rows, so every
// submission is graded by at most one worker at a time.
func (w *Worker) processNext(ctx context.Context) {
	sub, err := w.queries.ClaimNextSubmission(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return
		}
		log.Printf("worker: claim error: %v", err)
		return
	}

	verdict, gradeErr := w.grader.Grade(ctx, &sub)
	if gradeErr == nil {
		if err := w.subs.ApplyVerdict(ctx, sub.ID, *verdict); err != nil {
			log.Printf("worker: apply verdict for %s: %v", sub.ID, err)
			return
		}
		log.Printf("worker: graded %s: %s/%s", sub.ID, verdict.Status, verdict.Result)
		return
	}

	// The grading attempt failed before a judgement was reached. Retry with
	// backoff until the attempt budget runs out, then record the one terminal
	// update as an internal error.
	if sub.Attempts < maxAttempts {
		backoff := time.Duration(int64(1)<<uint(sub.Attempts)) * 10 * time.Second
		err = w.queries.ReleaseSubmission(ctx, store.ReleaseSubmissionParams{
			ID:       sub.ID,
			RunAfter: time.Now().Add(backoff),
		})
		if err != nil {
			log.Printf("worker: release %s: %v", sub.ID, err)
			return
		}
		log.Printf("worker: grading %s failed (attempt %d): %v", sub.ID, sub.Attempts, gradeErr)
		return
	}

	err = w.subs.ApplyVerdict(ctx, sub.ID, submission.Verdict{
		Status:   submission.StatusError,
		Result:   submission.ResultInternalError,
		TimeMS:   submission.MetricUnmeasured,
		MemoryKB: submission.MetricUnmeasured,
		Errors:   fmt.Sprintf("grading failed after %d attempts: %v", sub.Attempts, gradeErr),
	})
	if err != nil {
		log.Printf("worker: mark failed %s: %v", sub.ID, err)
	}
}
