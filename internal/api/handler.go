package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ojlab/judged/internal/auth"
	"github.com/ojlab/judged/internal/store"
	"github.com/ojlab/judged/internal/submission"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type Handler struct {
	queries store.Querier
	subs    *submission.Service
}

// submissionSummary is the listing projection: no code, no grader text.
type submissionSummary struct {
	ID             uuid.UUID `json:"id"`
	ProgramLang    string    `json:"program_lang"`
	LinkedUser     int64     `json:"linked_user"`
	ProblemID      int64     `json:"problem_id"`
	Status         string    `json:"status"`
	Result         string    `json:"result"`
	ResultTimeMS   int32     `json:"result_time_ms"`
	ResultMemoryKB int32     `json:"result_memory_kb"`
}

// submissionDetail adds the fields only the single-submission view exposes.
type submissionDetail struct {
	submissionSummary
	Code       string `json:"code"`
	OutputText string `json:"output_text"`
	ErrorText  string `json:"error_text"`
}

// submissionHistory adds the creation timestamp to the summary projection.
type submissionHistory struct {
	submissionSummary
	SubmissionTime time.Time `json:"submission_time"`
}

func summarize(s store.Submission) submissionSummary {
	return submissionSummary{
		ID:             s.ID,
		ProgramLang:    s.ProgramLang,
		LinkedUser:     s.UserID,
		ProblemID:      s.ProblemID,
		Status:         s.Status,
		Result:         s.Result,
		ResultTimeMS:   s.ResultTimeMs,
		ResultMemoryKB: s.ResultMemoryKb,
	}
}

// ListSubmissions returns the summary projection for recent submissions,
// newest first. The window is bounded: ?limit= defaults to 50, capped at 500.
func (h *Handler) ListSubmissions(c *gin.Context) {
	limit := int32(defaultListLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		if n > maxListLimit {
			n = maxListLimit
		}
		limit = int32(n)
	}

	subs, err := h.queries.ListSubmissions(c.Request.Context(), limit)
	if err != nil {
		log.Printf("api: list submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	collection := make([]Document, 0, len(subs))
	for _, s := range subs {
		collection = append(collection, newDocument(summarize(s), map[string]string{
			"self":       "/submissions/" + s.ID.String(),
			"collection": "/submissions",
		}))
	}

	c.JSON(http.StatusOK, newDocument(gin.H{"submissions": collection}, map[string]string{
		"self": "/submissions",
	}))
}

// GetSubmission returns the full projection for one submission.
func (h *Handler) GetSubmission(c *gin.Context) {
	rawID := c.Param("id")
	id, err := uuid.Parse(rawID)
	if err != nil {
		// Not a submission id, so nothing it could resolve to.
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Submission %s not found", rawID)})
		return
	}

	s, err := h.queries.GetSubmission(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Submission %s not found", rawID)})
			return
		}
		log.Printf("api: get submission %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	detail := submissionDetail{
		submissionSummary: summarize(s),
		Code:              s.Code,
		OutputText:        s.OutputText,
		ErrorText:         s.ErrorText,
	}
	c.JSON(http.StatusOK, newDocument(detail, map[string]string{
		"self":       "/submissions/" + s.ID.String(),
		"collection": "/submissions",
	}))
}

// ListUserProblemSubmissions returns a user's history for one problem:
// exactly the submissions owned by that user with that problem id.
func (h *Handler) ListUserProblemSubmissions(c *gin.Context) {
	username := c.Param("username")
	problemID, err := strconv.ParseInt(c.Param("problemID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid problem id"})
		return
	}

	ctx := c.Request.Context()

	user, err := h.queries.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("User %s not found", username)})
			return
		}
		log.Printf("api: lookup user %s: %v", username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	subs, err := h.queries.ListUserProblemSubmissions(ctx, store.ListUserProblemSubmissionsParams{
		UserID:    user.ID,
		ProblemID: problemID,
	})
	if err != nil {
		log.Printf("api: list history for %s/%d: %v", username, problemID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	historyHref := fmt.Sprintf("/users/%s/problems/%d/submissions", username, problemID)
	collection := make([]Document, 0, len(subs))
	for _, s := range subs {
		collection = append(collection, newDocument(submissionHistory{
			submissionSummary: summarize(s),
			SubmissionTime:    s.CreatedAt,
		}, map[string]string{
			"self":       "/submissions/" + s.ID.String(),
			"collection": historyHref,
		}))
	}

	c.JSON(http.StatusOK, newDocument(gin.H{"submissions": collection}, map[string]string{
		"self": historyHref,
	}))
}

// CreateSubmission records a new submission for the authenticated user.
func (h *Handler) CreateSubmission(c *gin.Context) {
	user := auth.FromContext(c)

	var body struct {
		ProgramLang string `json:"program_lang"`
		Code        string `json:"code"`
		ProblemID   int64  `json:"problem_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	sub, err := h.subs.Create(c.Request.Context(), user, submission.CreateInput{
		ProgramLang: body.ProgramLang,
		Code:        body.Code,
		ProblemID:   body.ProblemID,
	})
	if err != nil {
		if errors.Is(err, submission.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
			return
		}
		log.Printf("api: create submission for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Submission created successfully!",
		"id":      sub.ID,
	})
}
