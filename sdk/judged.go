// Package judged provides a Go client for the judged submission API.
//
// Reads need no credentials; creating a submission needs a bearer token
// signed with the server's shared secret.
//
// Usage:
//
//	client := judged.New("http://localhost:8080", judged.WithToken(token))
//
//	resp, err := client.CreateSubmission(ctx, judged.CreateSubmissionRequest{
//	    ProgramLang: "python",
//	    Code:        "print('hello')",
//	    ProblemID:   42,
//	})
//
//	sub, err := client.GetSubmission(ctx, resp.ID)
package judged

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to a judged server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token used for mutating calls.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListSubmissions returns the summary projection of recent submissions.
// limit <= 0 uses the server default window.
func (c *Client) ListSubmissions(ctx context.Context, limit int) ([]Submission, error) {
	path := "/submissions"
	if limit > 0 {
		path += "?limit=" + fmt.Sprint(limit)
	}
	var doc document[submissionCollection]
	if err := c.do(ctx, http.MethodGet, path, nil, &doc); err != nil {
		return nil, err
	}
	return unwrap(doc.Data.Submissions), nil
}

// GetSubmission returns the full projection of one submission.
func (c *Client) GetSubmission(ctx context.Context, id string) (*Submission, error) {
	var doc document[Submission]
	if err := c.do(ctx, http.MethodGet, "/submissions/"+url.PathEscape(id), nil, &doc); err != nil {
		return nil, err
	}
	return &doc.Data, nil
}

// UserProblemSubmissions returns a user's submission history for one problem.
func (c *Client) UserProblemSubmissions(ctx context.Context, username string, problemID int64) ([]Submission, error) {
	path := fmt.Sprintf("/users/%s/problems/%d/submissions", url.PathEscape(username), problemID)
	var doc document[submissionCollection]
	if err := c.do(ctx, http.MethodGet, path, nil, &doc); err != nil {
		return nil, err
	}
	return unwrap(doc.Data.Submissions), nil
}

// CreateSubmission submits code for grading. Requires a token.
func (c *Client) CreateSubmission(ctx context.Context, req CreateSubmissionRequest) (*CreateSubmissionResponse, error) {
	var resp CreateSubmissionResponse
	if err := c.do(ctx, http.MethodPost, "/create_submission", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return newAPIError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func unwrap(docs []document[Submission]) []Submission {
	subs := make([]Submission, 0, len(docs))
	for _, d := range docs {
		subs = append(subs, d.Data)
	}
	return subs
}
