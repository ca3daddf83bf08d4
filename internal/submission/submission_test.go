package submission_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ojlab/judged/internal/store"
	"github.com/ojlab/judged/internal/submission"
)

// stubQuerier implements store.Querier for lifecycle tests.
// Only CreateSubmission and FinalizeSubmission are exercised.
type stubQuerier struct {
	createSubmissionFn   func(ctx context.Context, arg store.CreateSubmissionParams) (store.Submission, error)
	finalizeSubmissionFn func(ctx context.Context, arg store.FinalizeSubmissionParams) (int64, error)
}

func (s *stubQuerier) CreateSubmission(ctx context.Context, arg store.CreateSubmissionParams) (store.Submission, error) {
	if s.createSubmissionFn != nil {
		return s.createSubmissionFn(ctx, arg)
	}
	return store.Submission{}, nil
}
func (s *stubQuerier) FinalizeSubmission(ctx context.Context, arg store.FinalizeSubmissionParams) (int64, error) {
	if s.finalizeSubmissionFn != nil {
		return s.finalizeSubmissionFn(ctx, arg)
	}
	return 1, nil
}
func (s *stubQuerier) ClaimNextSubmission(ctx context.Context) (store.Submission, error) {
	return store.Submission{}, pgx.ErrNoRows
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
func (s *stubQuerier) ReleaseSubmission(ctx context.Context, arg store.ReleaseSubmissionParams) error {
	return nil
}

var _ store.Querier = (*stubQuerier)(nil)

func TestCreate_SetsCreationInvariants(t *testing.T) {
	alice := store.User{ID: 1, Username: "alice"}
	var captured store.CreateSubmissionParams
	q := &stubQuerier{
		createSubmissionFn: func(_ context.Context, arg store.CreateSubmissionParams) (store.Submission, error) {
			captured = arg
			return store.Submission{ID: uuid.New()}, nil
		},
	}
	svc := submission.NewService(q)

	_, err := svc.Create(context.Background(), &alice, submission.CreateInput{
		ProgramLang: "rust",
		Code:        "fn main(){}",
		ProblemID:   42,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.UserID != 1 {
		t.Errorf("expected owner=1, got %d", captured.UserID)
	}
	if captured.ProblemID != 42 || captured.ProgramLang != "rust" || captured.Code != "fn main(){}" {
		t.Errorf("creation fields not passed through: %+v", captured)
	}
	if captured.Status != submission.StatusPending {
		t.Errorf("expected status=PENDING, got %s", captured.Status)
	}
	if captured.Result != submission.ResultPending {
		t.Errorf("expected result=PENDING, got %s", captured.Result)
	}
	if captured.ResultTimeMs != submission.MetricUnmeasured || captured.ResultMemoryKb != submission.MetricUnmeasured {
		t.Errorf("expected metric sentinel -1, got time=%d memory=%d", captured.ResultTimeMs, captured.ResultMemoryKb)
	}
	if captured.OutputText != "" || captured.ErrorText != "" {
		t.Errorf("expected empty grader text at creation, got %+v", captured)
	}
}

func TestCreate_MissingField_NoPersistence(t *testing.T) {
	cases := []struct {
		name string
		in   submission.CreateInput
	}{
		{"no language", submission.CreateInput{Code: "x", ProblemID: 42}},
		{"no code", submission.CreateInput{ProgramLang: "rust", ProblemID: 42}},
		{"no problem", submission.CreateInput{ProgramLang: "rust", Code: "x"}},
		{"all empty", submission.CreateInput{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			createCalled := false
			q := &stubQuerier{
				createSubmissionFn: func(_ context.Context, _ store.CreateSubmissionParams) (store.Submission, error) {
					createCalled = true
					return store.Submission{}, nil
				},
			}
			svc := submission.NewService(q)

			_, err := svc.Create(context.Background(), &store.User{ID: 1}, tc.in)
			if !errors.Is(err, submission.ErrMissingFields) {
				t.Errorf("expected ErrMissingFields, got %v", err)
			}
			if createCalled {
				t.Error("no row may be persisted when validation fails")
			}
		})
	}
}

func TestApplyVerdict_WritesTerminalState(t *testing.T) {
	id := uuid.New()
	var captured store.FinalizeSubmissionParams
	q := &stubQuerier{
		finalizeSubmissionFn: func(_ context.Context, arg store.FinalizeSubmissionParams) (int64, error) {
			captured = arg
			return 1, nil
		},
	}
	svc := submission.NewService(q)

	err := svc.ApplyVerdict(context.Background(), id, submission.Verdict{
		Status:   submission.StatusDone,
		Result:   submission.ResultAccepted,
		TimeMS:   34,
		MemoryKB: 2048,
		Output:   "hello\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.ID != id {
		t.Error("verdict must target the claimed submission")
	}
	if captured.Status != submission.StatusDone || captured.Result != submission.ResultAccepted {
		t.Errorf("terminal state not written: %+v", captured)
	}
	if captured.ResultTimeMs != 34 || captured.ResultMemoryKb != 2048 {
		t.Errorf("metrics not written: %+v", captured)
	}
}

func TestApplyVerdict_RejectsNonTerminal(t *testing.T) {
	finalizeCalled := false
	q := &stubQuerier{
		finalizeSubmissionFn: func(_ context.Context, _ store.FinalizeSubmissionParams) (int64, error) {
			finalizeCalled = true
			return 1, nil
		},
	}
	svc := submission.NewService(q)

	cases := []submission.Verdict{
		{Status: submission.StatusPending, Result: submission.ResultAccepted},
		{Status: submission.StatusRunning, Result: submission.ResultAccepted},
		{Status: submission.StatusDone, Result: submission.ResultPending},
		{Status: submission.StatusDone},
	}
	for _, v := range cases {
		err := svc.ApplyVerdict(context.Background(), uuid.New(), v)
		if err == nil {
			t.Errorf("verdict %+v should be rejected", v)
			continue
		}
		if !strings.Contains(err.Error(), "not terminal") {
			t.Errorf("unexpected error for %+v: %v", v, err)
		}
	}
	if finalizeCalled {
		t.Error("rejected verdicts must not reach the store")
	}
}

func TestApplyVerdict_AlreadyGraded(t *testing.T) {
	q := &stubQuerier{
		finalizeSubmissionFn: func(_ context.Context, _ store.FinalizeSubmissionParams) (int64, error) {
			return 0, nil // status guard matched no row
		},
	}
	svc := submission.NewService(q)

	err := svc.ApplyVerdict(context.Background(), uuid.New(), submission.Verdict{
		Status: submission.StatusDone,
		Result: submission.ResultWrongAnswer,
	})
	if !errors.Is(err, submission.ErrAlreadyGraded) {
		t.Errorf("expected ErrAlreadyGraded, got %v", err)
	}
}
