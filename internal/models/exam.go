package models

import (
	"time"
)

type Exam struct {
	ExamID      uint      `json:"examId" gorm:"primaryKey"`
	ExamName    string    `json:"examName" gorm:"not null"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`

	ExamQuestions []ExamQuestion `json:"exam_questions,omitempty" gorm:"foreignKey:ExamID"`
}

type Question struct {
	QuestionID    uint      `json:"questionId" gorm:"primaryKey"`
	QuestionText  string    `json:"questionText" gorm:"not null"`
	Explanation   string    `json:"explanation"`
	ImageData     []byte    `json:"-"`
	ImageFileName string    `json:"-"`
	ImageMimeType string    `json:"-"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`

	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:QuestionID"`
}

type Answer struct {
	AnswerID   uint   `json:"answerId" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"index"`
	AnswerText string `json:"answerText" gorm:"not null"`
	IsCorrect  bool   `json:"isCorrect"`
	// Stored inverted so a zero value means active, matching the legacy column.
	Inactive bool `json:"-" gorm:"column:inactive;default:false"`
}

// ExamQuestion links a question into an exam. DisplayOrder is nullable: rows
// without one sort after ordered rows, ties broken by question id.
type ExamQuestion struct {
	ExamID       uint `json:"exam_id" gorm:"primaryKey;autoIncrement:false"`
	QuestionID   uint `json:"question_id" gorm:"primaryKey;autoIncrement:false"`
	DisplayOrder *int `json:"display_order"`

	Question Question `json:"question,omitempty" gorm:"foreignKey:QuestionID;references:QuestionID"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}
