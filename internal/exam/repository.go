package exam

import (
	"errors"

	"gorm.io/gorm"

	"quizbank/internal/models"
)

var ErrNotFound = errors.New("exam not found")

// Repository is the read side of the exam catalog.
type Repository interface {
	ListActive(limit int) ([]models.Exam, error)
	ExamTree(examID uint) (*models.Exam, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListActive(limit int) ([]models.Exam, error) {
	var exams []models.Exam
	err := r.db.Where("is_active = ?", true).
		Order("exam_id").
		Limit(limit).
		Find(&exams).Error
	if err != nil {
		return nil, err
	}
	return exams, nil
}

// ExamTree loads one exam with its active questions and answers. Join rows
// come back ordered by display_order (nulls last), ties by question id.
func (r *gormRepository) ExamTree(examID uint) (*models.Exam, error) {
	var exam models.Exam
	err := r.db.
		Preload("ExamQuestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order IS NULL, display_order, question_id")
		}).
		Preload("ExamQuestions.Question", "is_active = ?", true).
		Preload("ExamQuestions.Question.Answers", "inactive = ?", false).
		First(&exam, examID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}
