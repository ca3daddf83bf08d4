package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ojlab/judged/internal/auth"
	"github.com/ojlab/judged/internal/store"
	"github.com/ojlab/judged/internal/submission"
)

// RegisterRoutes wires the submission API onto the engine. Reads are open;
// the create endpoint sits behind the bearer-token middleware.
func RegisterRoutes(r *gin.Engine, queries store.Querier, verifier *auth.Verifier) *Handler {
	h := &Handler{
		queries: queries,
		subs:    submission.NewService(queries),
	}

	r.GET("/submissions", h.ListSubmissions)
	r.GET("/submissions/:id", h.GetSubmission)
	r.GET("/users/:username/problems/:problemID/submissions", h.ListUserProblemSubmissions)

	// Mutations require a verified identity.
	authed := r.Group("/", verifier.Middleware())
	{
		authed.POST("/create_submission", h.CreateSubmission)
	}

	return h
}
