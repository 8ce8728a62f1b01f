// Package client is the HTTP consumer side of the quizbank API: the catalog
// and exam loaders used by the exam-taking flow, and the admin editor's
// write path. Failures never mutate caller state; they surface as *Error
// with a Kind from errors.go.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quizbank/internal/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Catalog fetches the list of active exams.
func (c *Client) Catalog(ctx context.Context) ([]models.ExamSummary, error) {
	var exams []models.ExamSummary
	if err := c.getJSON(ctx, "/api/exams", &exams); err != nil {
		return nil, err
	}
	return exams, nil
}

// Exam fetches one exam's full question and answer tree.
func (c *Client) Exam(ctx context.Context, examID uint) (*models.ExamDetail, error) {
	var exam models.ExamDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/api/exams/%d", examID), &exam); err != nil {
		return nil, err
	}
	return &exam, nil
}

// Question fetches one question detail (admin read).
func (c *Client) Question(ctx context.Context, questionID uint) (*models.QuestionDetail, error) {
	var q models.QuestionDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/api/questions/%d", questionID), &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// ImageURL builds the fetch URL for a question's image attachment.
func (c *Client) ImageURL(questionID uint) string {
	return fmt.Sprintf("%s/api/questions/%d/image", c.baseURL, questionID)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return newError(KindLoad, "building request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return newError(KindLoad, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return newError(KindNotFound, notFoundMessage(resp.Body), nil)
	case resp.StatusCode != http.StatusOK:
		return newError(KindLoad, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newError(KindLoad, "decoding response", err)
	}
	return nil
}

func notFoundMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return "not found"
}
