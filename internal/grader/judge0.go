package grader

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ojlab/judged/internal/store"
	"github.com/ojlab/judged/internal/submission"
)

// Judge0Config holds the connection settings for a Judge0 CE instance.
// URL is the base URL of the Judge0 server (e.g. "http://judge0-server:2358").
// AuthToken is optional; send it as X-Auth-Token when AUTHN_TOKEN is configured.
type Judge0Config struct {
	URL       string
	AuthToken string
}

// Judge0 grades submissions against the Judge0 CE REST API.
type Judge0 struct {
	url       string
	authToken string
	client    *http.Client
}

// languageIDs maps a submission's program_lang tag to a Judge0 CE language id.
var languageIDs = map[string]int{
	"c":          50,
	"cpp":        54,
	"go":         60,
	"java":       62,
	"javascript": 63,
	"python":     71,
	"ruby":       72,
	"rust":       73,
}

func NewJudge0(cfg Judge0Config) *Judge0 {
	return &Judge0{
		url:       strings.TrimRight(cfg.URL, "/"),
		authToken: cfg.AuthToken,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Grade submits source code to Judge0 and waits synchronously for the
// outcome. Source code is base64-encoded in the request; Judge0 returns
// stdout/stderr as base64 which we decode before returning. An unsupported
// language is a terminal verdict, not an error: retrying cannot fix it.
func (g *Judge0) Grade(ctx context.Context, sub *store.Submission) (*submission.Verdict, error) {
	langID, ok := languageIDs[strings.ToLower(sub.ProgramLang)]
	if !ok {
		return &submission.Verdict{
			Status:   submission.StatusDone,
			Result:   submission.ResultCompileError,
			TimeMS:   submission.MetricUnmeasured,
			MemoryKB: submission.MetricUnmeasured,
			Errors:   fmt.Sprintf("unsupported language: %s", sub.ProgramLang),
		}, nil
	}

	reqBody := map[string]interface{}{
		"source_code": base64.StdEncoding.EncodeToString([]byte(sub.Code)),
		"language_id": langID,
	}
	bodyJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.url+"/submissions?base64_encoded=true&wait=true", bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.authToken != "" {
		req.Header.Set("X-Auth-Token", g.authToken)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit to judge0: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("judge0 returned HTTP %d", resp.StatusCode)
	}

	var raw struct {
		Stdout        *string `json:"stdout"`
		Stderr        *string `json:"stderr"`
		CompileOutput *string `json:"compile_output"`
		Time          *string `json:"time"`
		Memory        *int    `json:"memory"`
		Status        struct {
			Description string `json:"description"`
		} `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode judge0 response: %w", err)
	}

	v := &submission.Verdict{
		Status:   submission.StatusDone,
		Result:   mapResult(raw.Status.Description),
		TimeMS:   submission.MetricUnmeasured,
		MemoryKB: submission.MetricUnmeasured,
	}
	if raw.Stdout != nil {
		if dec, err := base64.StdEncoding.DecodeString(*raw.Stdout); err == nil {
			v.Output = string(dec)
		}
	}
	if raw.Stderr != nil {
		if dec, err := base64.StdEncoding.DecodeString(*raw.Stderr); err == nil {
			v.Errors = string(dec)
		}
	}
	if raw.CompileOutput != nil && v.Errors == "" {
		if dec, err := base64.StdEncoding.DecodeString(*raw.CompileOutput); err == nil {
			v.Errors = string(dec)
		}
	}
	if raw.Time != nil {
		// Judge0 reports wall time as a seconds string, e.g. "0.034".
		if secs, err := strconv.ParseFloat(*raw.Time, 64); err == nil {
			v.TimeMS = int32(secs * 1000)
		}
	}
	if raw.Memory != nil {
		v.MemoryKB = int32(*raw.Memory)
	}
	return v, nil
}

// mapResult translates a Judge0 status description into a result value.
func mapResult(description string) string {
	switch {
	case description == "Accepted":
		return submission.ResultAccepted
	case description == "Wrong Answer":
		return submission.ResultWrongAnswer
	case description == "Time Limit Exceeded":
		return submission.ResultTimeLimitExceeded
	case description == "Compilation Error":
		return submission.ResultCompileError
	case strings.HasPrefix(description, "Runtime Error"):
		return submission.ResultRuntimeError
	case description == "Exec Format Error":
		return submission.ResultRuntimeError
	default:
		return submission.ResultInternalError
	}
}
