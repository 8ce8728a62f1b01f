package session

import (
	"math"

	"quizbank/internal/models"
)

// UnansweredText marks a skipped question in remediation records.
const UnansweredText = "unanswered"

type PolicyMode string

const (
	PassByPercent PolicyMode = "percent"
	PassByCount   PolicyMode = "count"
)

// PassPolicy decides pass/fail. Percent mode compares the rounded
// percentage against Threshold; count mode compares the absolute number of
// correct answers (e.g. 21 of 25).
type PassPolicy struct {
	Mode      PolicyMode
	Threshold float64
}

func DefaultPassPolicy() PassPolicy {
	return PassPolicy{Mode: PassByPercent, Threshold: 80}
}

func (p PassPolicy) passed(correctCount int, percentage float64) bool {
	if p.Mode == PassByCount {
		return float64(correctCount) >= p.Threshold
	}
	return percentage >= p.Threshold
}

type Result struct {
	CorrectCount int
	Total        int
	Percentage   float64
	Passed       bool
	Remediation  []Remediation
}

// Remediation is the review record produced for every incorrect or
// unanswered question.
type Remediation struct {
	Number            int
	QuestionText      string
	UserAnswerText    string
	CorrectAnswerText string
	Explanation       string
}

// Score is a pure function of the question sequence and the selections map;
// scoring the same inputs twice yields the same Result.
func Score(questions []models.QuestionDetail, selections map[uint]Selection, policy PassPolicy) Result {
	result := Result{Total: len(questions)}

	for i, q := range questions {
		sel, answered := selections[q.QuestionID]
		if answered && sel.IsCorrect {
			result.CorrectCount++
			continue
		}

		userText := UnansweredText
		if answered {
			userText = answerText(q, sel.AnswerID)
		}
		result.Remediation = append(result.Remediation, Remediation{
			Number:            i + 1,
			QuestionText:      q.QuestionText,
			UserAnswerText:    userText,
			CorrectAnswerText: correctAnswerText(q),
			Explanation:       q.Explanation,
		})
	}

	if result.Total > 0 {
		result.Percentage = roundPercent(float64(result.CorrectCount) / float64(result.Total) * 100)
	}
	result.Passed = policy.passed(result.CorrectCount, result.Percentage)
	return result
}

func roundPercent(p float64) float64 {
	return math.Round(p*10) / 10
}

func answerText(q models.QuestionDetail, answerID uint) string {
	for _, a := range q.Answers {
		if a.AnswerID == answerID {
			return a.AnswerText
		}
	}
	return ""
}

func correctAnswerText(q models.QuestionDetail) string {
	for _, a := range q.Answers {
		if a.IsCorrect {
			return a.AnswerText
		}
	}
	return ""
}
