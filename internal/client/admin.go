package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"quizbank/internal/models"
)

// MaxAnswers matches the form contract: Answer1..Answer4, blanks omitted.
const MaxAnswers = 4

// QuestionForm is the admin editor's one aggregate: a question, its answers
// and an optional image, validated locally before any request goes out.
type QuestionForm struct {
	ExamID       uint
	QuestionText string
	Explanation  string
	Answers      [MaxAnswers]string
	// CorrectAnswerIndex is 1-based, pointing into Answers.
	CorrectAnswerIndex int

	ImageName string
	Image     io.Reader
}

// Validate enforces the editor rules: non-empty question text, at least two
// non-empty answers, and the designated correct answer must be one of them.
func (f *QuestionForm) Validate(forCreate bool) error {
	if strings.TrimSpace(f.QuestionText) == "" {
		return newError(KindValidation, "question text must not be empty", nil)
	}
	if forCreate && f.ExamID == 0 {
		return newError(KindValidation, "an exam must be selected", nil)
	}

	filled := 0
	for _, a := range f.Answers {
		if strings.TrimSpace(a) != "" {
			filled++
		}
	}
	if filled < 2 {
		return newError(KindValidation, "at least two answers are required", nil)
	}

	if f.CorrectAnswerIndex < 1 || f.CorrectAnswerIndex > MaxAnswers {
		return newError(KindValidation, "a correct answer must be designated", nil)
	}
	if strings.TrimSpace(f.Answers[f.CorrectAnswerIndex-1]) == "" {
		return newError(KindValidation, "the correct answer must not be blank", nil)
	}
	return nil
}

// CreateQuestion posts the form and returns the new question id.
func (c *Client) CreateQuestion(ctx context.Context, form *QuestionForm) (uint, error) {
	if err := form.Validate(true); err != nil {
		return 0, err
	}

	result, err := c.sendForm(ctx, http.MethodPost, "/api/questions", form, true)
	if err != nil {
		return 0, err
	}
	return result.QuestionID, nil
}

// UpdateQuestion replaces the question's text, explanation and all answers;
// the image is replaced only when the form carries a new one.
func (c *Client) UpdateQuestion(ctx context.Context, questionID uint, form *QuestionForm) error {
	if err := form.Validate(false); err != nil {
		return err
	}

	path := fmt.Sprintf("/api/questions/%d", questionID)
	_, err := c.sendForm(ctx, http.MethodPut, path, form, false)
	return err
}

// DeleteQuestion removes the question, its answers and its exam association.
func (c *Client) DeleteQuestion(ctx context.Context, examID, questionID uint) error {
	path := fmt.Sprintf("/api/exams/%d/questions/%d", examID, questionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return newError(KindLoad, "building request", err)
	}
	return c.doMutation(req)
}

func (c *Client) sendForm(ctx context.Context, method, path string, form *QuestionForm, includeExam bool) (*models.MutationResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	writer.WriteField("QuestionText", form.QuestionText)
	writer.WriteField("Explanation", form.Explanation)
	if includeExam {
		writer.WriteField("ExamID", strconv.FormatUint(uint64(form.ExamID), 10))
	}
	for i, a := range form.Answers {
		writer.WriteField(fmt.Sprintf("Answer%d", i+1), a)
	}
	writer.WriteField("CorrectAnswerIndex", strconv.Itoa(form.CorrectAnswerIndex))

	if form.Image != nil {
		part, err := writer.CreateFormFile("Image", form.ImageName)
		if err != nil {
			return nil, newError(KindLoad, "building image part", err)
		}
		if _, err := io.Copy(part, form.Image); err != nil {
			return nil, newError(KindLoad, "reading image", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, newError(KindLoad, "closing form", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return nil, newError(KindLoad, "building request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.doMutationResult(req)
}

func (c *Client) doMutation(req *http.Request) error {
	_, err := c.doMutationResult(req)
	return err
}

// doMutationResult delivers a write and interprets the MutationResult body.
// A server-provided message rides back verbatim on rejection.
func (c *Client) doMutationResult(req *http.Request) (*models.MutationResult, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newError(KindLoad, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, newError(KindNotFound, notFoundMessage(resp.Body), nil)
	}

	var result models.MutationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, newError(KindServerRejection, fmt.Sprintf("status %d", resp.StatusCode), nil)
		}
		return nil, newError(KindLoad, "decoding response", err)
	}

	if !result.Success {
		return nil, newError(KindServerRejection, result.Message, nil)
	}
	return &result, nil
}
