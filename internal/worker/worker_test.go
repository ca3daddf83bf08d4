package worker_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ojlab/judged/internal/grader"
	"github.com/ojlab/judged/internal/store"
	"github.com/ojlab/judged/internal/submission"
	"github.com/ojlab/judged/internal/worker"
)

// stubQuerier implements store.Querier for worker tests.
// Only ClaimNextSubmission, FinalizeSubmission and ReleaseSubmission are
// exercised; all others return zero values.
type stubQuerier struct {
	claimNextSubmissionFn func(ctx context.Context) (store.Submission, error)
	finalizeSubmissionFn  func(ctx context.Context, arg store.FinalizeSubmissionParams) (int64, error)
	releaseSubmissionFn   func(ctx context.Context, arg store.ReleaseSubmissionParams) error
}

func (s *stubQuerier) ClaimNextSubmission(ctx context.Context) (store.Submission, error) {
	if s.claimNextSubmissionFn != nil {
		return s.claimNextSubmissionFn(ctx)
	}
	return store.Submission{}, pgx.ErrNoRows
}
func (s *stubQuerier) FinalizeSubmission(ctx context.Context, arg store.FinalizeSubmissionParams) (int64, error) {
	if s.finalizeSubmissionFn != nil {
		return s.finalizeSubmissionFn(ctx, arg)
	}
	return 1, nil
}
func (s *stubQuerier) ReleaseSubmission(ctx context.Context, arg store.ReleaseSubmissionParams) error {
	if s.releaseSubmissionFn != nil {
		return s.releaseSubmissionFn(ctx, arg)
	}
	return nil
}
func (s *stubQuerier) CreateSubmission(ctx context.Context, arg store.CreateSubmissionParams) (store.Submission, error) {
	return store.Submission{}, nil
}
func (s *stubQuerier) GetSubmission(ctx context.Context, id uuid.UUID) (store.Submission, error) {
	return store.Submission{}, pgx.ErrNoRows
}
func (s *stubQuerier) GetUserByID(ctx context.Context, id int64) (store.User, error) {
	return store.User{}, pgx.ErrNoRows
}
func (s *stubQuerier) GetUserByUsername(ctx context.Context, username string) (store.User, error) {
	return store.User{}, pgx.ErrNoRows
}
func (s *stubQuerier) ListSubmissions(ctx context.Context, maxRows int32) ([]store.Submission, error) {
	return nil, nil
}
func (s *stubQuerier) ListUserProblemSubmissions(ctx context.Context, arg store.ListUserProblemSubmissionsParams) ([]store.Submission, error) {
	return nil, nil
}

var _ store.Querier = (*stubQuerier)(nil)

// stubGrader implements grader.Grader.
type stubGrader struct {
	gradeFn func(ctx context.Context, sub *store.Submission) (*submission.Verdict, error)
}

func (s *stubGrader) Grade(ctx context.Context, sub *store.Submission) (*submission.Verdict, error) {
	if s.gradeFn != nil {
		return s.gradeFn(ctx, sub)
	}
	return &submission.Verdict{
		Status:   submission.StatusDone,
		Result:   submission.ResultAccepted,
		TimeMS:   1,
		MemoryKB: 1,
	}, nil
}

var _ grader.Grader = (*stubGrader)(nil)

// runWorkerUntilDone starts a single-goroutine worker and waits for done to
// be closed or the test to time out.
func runWorkerUntilDone(t *testing.T, q store.Querier, g grader.Grader, done <-chan struct{}) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	w := worker.New(q, g, 1)
	go w.Start(ctx)
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("timed out waiting for worker to grade submission")
	}
}

func claimedSubmission(attempts int32) store.Submission {
	return store.Submission{
		ID:          uuid.New(),
		UserID:      1,
		ProblemID:   42,
		ProgramLang: "python",
		Code:        "print('hi')",
		Status:      submission.StatusRunning,
		Result:      submission.ResultPending,
		Attempts:    attempts,
	}
}

// claimOnce returns sub on the first claim and ErrNoRows afterwards.
func claimOnce(sub store.Submission) func(context.Context) (store.Submission, error) {
	var claims int
	return func(_ context.Context) (store.Submission, error) {
		claims++
		if claims == 1 {
			return sub, nil
		}
		return store.Submission{}, pgx.ErrNoRows
	}
}

func TestWorker_NothingPending(t *testing.T) {
	// When no submissions are claimable the worker must write nothing.
	finalized := false
	q := &stubQuerier{
		finalizeSubmissionFn: func(_ context.Context, _ store.FinalizeSubmissionParams) (int64, error) {
			finalized = true
			return 1, nil
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 700*time.Millisecond)
	defer cancel()
	w := worker.New(q, &stubGrader{}, 1)
	w.Start(ctx) // blocks until timeout
	if finalized {
		t.Error("FinalizeSubmission should not be called with nothing pending")
	}
}

func TestWorker_AppliesVerdict(t *testing.T) {
	sub := claimedSubmission(1)
	var captured store.FinalizeSubmissionParams
	done := make(chan struct{})

	q := &stubQuerier{
		claimNextSubmissionFn: claimOnce(sub),
		finalizeSubmissionFn: func(_ context.Context, arg store.FinalizeSubmissionParams) (int64, error) {
			captured = arg
			close(done)
			return 1, nil
		},
	}
	g := &stubGrader{
		gradeFn: func(_ context.Context, got *store.Submission) (*submission.Verdict, error) {
			if got.ID != sub.ID {
				t.Errorf("graded the wrong submission: %s", got.ID)
			}
			return &submission.Verdict{
				Status:   submission.StatusDone,
				Result:   submission.ResultWrongAnswer,
				TimeMS:   120,
				MemoryKB: 4096,
				Output:   "nope\n",
			}, nil
		},
	}
	runWorkerUntilDone(t, q, g, done)

	if captured.ID != sub.ID {
		t.Error("verdict must target the claimed submission")
	}
	if captured.Status != submission.StatusDone || captured.Result != submission.ResultWrongAnswer {
		t.Errorf("expected DONE/WRONG_ANSWER, got %s/%s", captured.Status, captured.Result)
	}
	if captured.ResultTimeMs != 120 || captured.ResultMemoryKb != 4096 {
		t.Errorf("metrics not carried into the terminal update: %+v", captured)
	}
}

func TestWorker_RetriesWithBackoff(t *testing.T) {
	// attempts=1 of 3 → the submission goes back to PENDING with a future
	// run_after; no terminal update is written.
	sub := claimedSubmission(1)
	var captured store.ReleaseSubmissionParams
	finalized := false
	done := make(chan struct{})

	q := &stubQuerier{
		claimNextSubmissionFn: claimOnce(sub),
		finalizeSubmissionFn: func(_ context.Context, _ store.FinalizeSubmissionParams) (int64, error) {
			finalized = true
			return 1, nil
		},
		releaseSubmissionFn: func(_ context.Context, arg store.ReleaseSubmissionParams) error {
			captured = arg
			close(done)
			return nil
		},
	}
	g := &stubGrader{
		gradeFn: func(_ context.Context, _ *store.Submission) (*submission.Verdict, error) {
			return nil, errors.New("judge0 unreachable")
		},
	}
	runWorkerUntilDone(t, q, g, done)

	if captured.ID != sub.ID {
		t.Error("release must target the claimed submission")
	}
	if captured.RunAfter.Before(time.Now().Add(15 * time.Second)) {
		t.Errorf("expected run_after pushed into the future, got %v", captured.RunAfter)
	}
	if finalized {
		t.Error("a retryable failure must not write a terminal update")
	}
}

func TestWorker_ExhaustedAttemptsAreTerminal(t *testing.T) {
	// attempts=3 of 3 → exactly one terminal update: ERROR/INTERNAL_ERROR
	// with the grader failure recorded in error_text.
	sub := claimedSubmission(3)
	var captured store.FinalizeSubmissionParams
	released := false
	done := make(chan struct{})

	q := &stubQuerier{
		claimNextSubmissionFn: claimOnce(sub),
		finalizeSubmissionFn: func(_ context.Context, arg store.FinalizeSubmissionParams) (int64, error) {
			captured = arg
			close(done)
			return 1, nil
		},
		releaseSubmissionFn: func(_ context.Context, _ store.ReleaseSubmissionParams) error {
			released = true
			return nil
		},
	}
	g := &stubGrader{
		gradeFn: func(_ context.Context, _ *store.Submission) (*submission.Verdict, error) {
			return nil, errors.New("judge0 unreachable")
		},
	}
	runWorkerUntilDone(t, q, g, done)

	if released {
		t.Error("exhausted submissions must not be released for retry")
	}
	if captured.Status != submission.StatusError || captured.Result != submission.ResultInternalError {
		t.Errorf("expected ERROR/INTERNAL_ERROR, got %s/%s", captured.Status, captured.Result)
	}
	if !strings.Contains(captured.ErrorText, "judge0 unreachable") {
		t.Errorf("expected grader failure in error_text, got %q", captured.ErrorText)
	}
	if captured.ResultTimeMs != submission.MetricUnmeasured || captured.ResultMemoryKb != submission.MetricUnmeasured {
		t.Errorf("metrics must stay unmeasured, got %d/%d", captured.ResultTimeMs, captured.ResultMemoryKb)
	}
}
