// testclient is a dev smoke tool: it mints a short-lived token for a user id
// with the shared JWT_SECRET, creates a submission, and polls it until the
// grader writes a verdict.
//
// Usage:
//
//	JWT_SECRET=... go run ./cmd/testclient -user 1 -problem 42
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "judged base URL")
		userID  = flag.Int64("user", 1, "user id to submit as")
		problem = flag.Int64("problem", 42, "problem id")
		lang    = flag.String("lang", "python", "program language tag")
		code    = flag.String("code", "print('hello')", "source code to submit")
	)
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": *userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}

	body, _ := json.Marshal(map[string]interface{}{
		"program_lang": *lang,
		"code":         *code,
		"problem_id":   *problem,
	})
	req, _ := http.NewRequest(http.MethodPost, *baseURL+"/create_submission", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signed)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("create submission: %v", err)
	}
	defer resp.Body.Close()

	var created struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		log.Fatalf("decode create response: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("create returned HTTP %d: %s", resp.StatusCode, created.Message)
	}
	log.Printf("created submission %s", created.ID)

	for i := 0; i < 60; i++ {
		time.Sleep(time.Second)

		r, err := http.Get(*baseURL + "/submissions/" + created.ID)
		if err != nil {
			log.Fatalf("get submission: %v", err)
		}
		var doc struct {
			Data struct {
				Status     string `json:"status"`
				Result     string `json:"result"`
				TimeMS     int    `json:"result_time_ms"`
				MemoryKB   int    `json:"result_memory_kb"`
				OutputText string `json:"output_text"`
				ErrorText  string `json:"error_text"`
			} `json:"data"`
		}
		err = json.NewDecoder(r.Body).Decode(&doc)
		r.Body.Close()
		if err != nil {
			log.Fatalf("decode submission: %v", err)
		}

		if doc.Data.Status == "PENDING" || doc.Data.Status == "RUNNING" {
			log.Printf("status %s, waiting...", doc.Data.Status)
			continue
		}

		fmt.Printf("status:  %s\nresult:  %s\ntime:    %d ms\nmemory:  %d KB\n",
			doc.Data.Status, doc.Data.Result, doc.Data.TimeMS, doc.Data.MemoryKB)
		if doc.Data.OutputText != "" {
			fmt.Printf("output:\n%s", doc.Data.OutputText)
		}
		if doc.Data.ErrorText != "" {
			fmt.Printf("errors:\n%s", doc.Data.ErrorText)
		}
		return
	}
	log.Fatal("timed out waiting for a verdict")
}
