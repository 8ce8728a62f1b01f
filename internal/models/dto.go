package models

// Wire shapes consumed by the exam-taking client and the admin editor.

type ExamSummary struct {
	ExamID      uint   `json:"examId"`
	ExamName    string `json:"examName"`
	Description string `json:"description"`
}

type ExamDetail struct {
	ExamID    uint             `json:"examId"`
	ExamName  string           `json:"examName"`
	Questions []QuestionDetail `json:"questions"`
}

type QuestionDetail struct {
	QuestionID   uint           `json:"questionId"`
	QuestionText string         `json:"questionText"`
	HasImage     bool           `json:"hasImage"`
	Explanation  string         `json:"explanation"`
	Answers      []AnswerOption `json:"answers"`
}

type AnswerOption struct {
	AnswerID   uint   `json:"answerId"`
	AnswerText string `json:"answerText"`
	IsCorrect  bool   `json:"isCorrect"`
}

// MutationResult is the body of every admin write response, success or not.
type MutationResult struct {
	Success    bool   `json:"success"`
	QuestionID uint   `json:"questionId,omitempty"`
	Message    string `json:"message"`
}

func (e Exam) ToSummary() ExamSummary {
	return ExamSummary{
		ExamID:      e.ExamID,
		ExamName:    e.ExamName,
		Description: e.Description,
	}
}

func (q Question) ToDetail() QuestionDetail {
	answers := make([]AnswerOption, 0, len(q.Answers))
	for _, a := range q.Answers {
		if a.Inactive {
			continue
		}
		answers = append(answers, AnswerOption{
			AnswerID:   a.AnswerID,
			AnswerText: a.AnswerText,
			IsCorrect:  a.IsCorrect,
		})
	}

	return QuestionDetail{
		QuestionID:   q.QuestionID,
		QuestionText: q.QuestionText,
		HasImage:     len(q.ImageData) > 0,
		Explanation:  q.Explanation,
		Answers:      answers,
	}
}
