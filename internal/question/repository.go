package question

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"quizbank/internal/models"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrExamNotFound     = errors.New("exam not found")
	ErrNoImage          = errors.New("question has no image")
)

// Repository covers the question aggregate: the question row, its answers
// and its exam association move together.
type Repository interface {
	QuestionByID(questionID uint) (*models.Question, error)
	Image(questionID uint) ([]byte, string, error)
	ExamsForQuestion(questionID uint) ([]uint, error)
	Create(q *models.Question, examID uint) error
	Update(q *models.Question, replaceImage bool) error
	Delete(examID, questionID uint) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) QuestionByID(questionID uint) (*models.Question, error) {
	var q models.Question
	err := r.db.Preload("Answers", "inactive = ?", false).
		First(&q, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *gormRepository) Image(questionID uint) ([]byte, string, error) {
	var q models.Question
	err := r.db.Select("question_id", "image_data", "image_mime_type").
		First(&q, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrQuestionNotFound
		}
		return nil, "", err
	}
	if len(q.ImageData) == 0 {
		return nil, "", ErrNoImage
	}
	return q.ImageData, q.ImageMimeType, nil
}

// ExamsForQuestion lists the exams a question is assigned to, used to
// invalidate their cached trees after a write.
func (r *gormRepository) ExamsForQuestion(questionID uint) ([]uint, error) {
	var examIDs []uint
	err := r.db.Model(&models.ExamQuestion{}).
		Where("question_id = ?", questionID).
		Pluck("exam_id", &examIDs).Error
	if err != nil {
		return nil, err
	}
	return examIDs, nil
}

// Create inserts the question with its answers and appends it to the exam
// at max display order + 1, all in one transaction.
func (r *gormRepository) Create(q *models.Question, examID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var exam models.Exam
		if err := tx.Select("exam_id").First(&exam, examID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrExamNotFound
			}
			return err
		}

		if err := tx.Create(q).Error; err != nil {
			return err
		}

		var maxOrder sql.NullInt64
		if err := tx.Model(&models.ExamQuestion{}).
			Where("exam_id = ?", examID).
			Select("MAX(display_order)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}
		next := int(maxOrder.Int64) + 1

		return tx.Create(&models.ExamQuestion{
			ExamID:       examID,
			QuestionID:   q.QuestionID,
			DisplayOrder: &next,
		}).Error
	})
}

// Update replaces text, explanation and the whole answer set; image columns
// are touched only when a replacement was uploaded.
func (r *gormRepository) Update(q *models.Question, replaceImage bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Question
		if err := tx.Select("question_id").First(&existing, q.QuestionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}
			return err
		}

		columns := map[string]interface{}{
			"question_text": q.QuestionText,
			"explanation":   q.Explanation,
		}
		if replaceImage {
			columns["image_data"] = q.ImageData
			columns["image_file_name"] = q.ImageFileName
			columns["image_mime_type"] = q.ImageMimeType
		}
		if err := tx.Model(&models.Question{}).
			Where("question_id = ?", q.QuestionID).
			Updates(columns).Error; err != nil {
			return err
		}

		if err := tx.Where("question_id = ?", q.QuestionID).
			Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		for i := range q.Answers {
			q.Answers[i].AnswerID = 0
			q.Answers[i].QuestionID = q.QuestionID
		}
		return tx.Create(&q.Answers).Error
	})
}

// Delete removes the join row, the answers and the question together; from
// the admin's point of view the aggregate disappears atomically.
func (r *gormRepository) Delete(examID, questionID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("exam_id = ? AND question_id = ?", examID, questionID).
			Delete(&models.ExamQuestion{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrQuestionNotFound
		}

		if err := tx.Where("question_id = ?", questionID).
			Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, questionID).Error
	})
}
