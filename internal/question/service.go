package question

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"quizbank/internal/models"
	"quizbank/pkg/logger"
)

// ErrInvalidForm wraps every server-side form rejection; the wrapped text
// is what the admin sees.
var ErrInvalidForm = errors.New("invalid form")

const maxAnswers = 4

// Form carries one parsed create/update request: the multipart fields of
// the admin contract plus an optional image payload.
type Form struct {
	ExamID       uint
	QuestionText string
	Explanation  string
	Answers      [maxAnswers]string
	// CorrectAnswerIndex is 1-based over the Answer1..Answer4 slots.
	CorrectAnswerIndex int

	HasImage      bool
	ImageData     []byte
	ImageFileName string
	ImageMimeType string
}

// CacheInvalidator drops cached exam trees after a write.
type CacheInvalidator interface {
	InvalidateExam(examID uint) error
}

// Notifier tells connected catalog viewers that the question bank changed.
type Notifier interface {
	CatalogChanged(event string, examID uint)
}

type Service struct {
	repo     Repository
	cache    CacheInvalidator
	notifier Notifier
}

func NewService(repo Repository, cache CacheInvalidator, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
	}
}

func (s *Service) Detail(questionID uint) (*models.QuestionDetail, error) {
	q, err := s.repo.QuestionByID(questionID)
	if err != nil {
		return nil, err
	}
	detail := q.ToDetail()
	return &detail, nil
}

func (s *Service) Image(questionID uint) ([]byte, string, error) {
	data, mime, err := s.repo.Image(questionID)
	if err != nil {
		return nil, "", err
	}
	if mime == "" {
		mime = "image/jpeg"
	}
	return data, mime, nil
}

// Create validates the form, persists the aggregate and appends it to the
// exam. Returns the new question id.
func (s *Service) Create(form *Form) (uint, error) {
	if err := validateForm(form, true); err != nil {
		return 0, err
	}

	q := buildQuestion(form)
	if err := s.repo.Create(q, form.ExamID); err != nil {
		if !errors.Is(err, ErrExamNotFound) {
			logger.Log.Error("creating question", zap.Error(err))
		}
		return 0, err
	}

	s.afterWrite("question_created", form.ExamID)
	logger.Log.Info("question created",
		zap.Uint("question_id", q.QuestionID),
		zap.Uint("exam_id", form.ExamID))
	return q.QuestionID, nil
}

// Update replaces the question's text, explanation and answers; the stored
// image survives unless the form carries a new one.
func (s *Service) Update(questionID uint, form *Form) error {
	if err := validateForm(form, false); err != nil {
		return err
	}

	q := buildQuestion(form)
	q.QuestionID = questionID
	if err := s.repo.Update(q, form.HasImage); err != nil {
		if !errors.Is(err, ErrQuestionNotFound) {
			logger.Log.Error("updating question", zap.Uint("question_id", questionID), zap.Error(err))
		}
		return err
	}

	examIDs, err := s.repo.ExamsForQuestion(questionID)
	if err != nil {
		logger.Log.Warn("listing exams for cache invalidation", zap.Error(err))
	}
	for _, examID := range examIDs {
		s.afterWrite("question_updated", examID)
	}
	return nil
}

func (s *Service) Delete(examID, questionID uint) error {
	if err := s.repo.Delete(examID, questionID); err != nil {
		if !errors.Is(err, ErrQuestionNotFound) {
			logger.Log.Error("deleting question",
				zap.Uint("exam_id", examID),
				zap.Uint("question_id", questionID),
				zap.Error(err))
		}
		return err
	}

	s.afterWrite("question_deleted", examID)
	return nil
}

func (s *Service) afterWrite(event string, examID uint) {
	if err := s.cache.InvalidateExam(examID); err != nil {
		logger.Log.Warn("invalidating exam cache", zap.Uint("exam_id", examID), zap.Error(err))
	}
	if s.notifier != nil {
		s.notifier.CatalogChanged(event, examID)
	}
}

func validateForm(form *Form, forCreate bool) error {
	if strings.TrimSpace(form.QuestionText) == "" {
		return fmt.Errorf("%w: question text must not be empty", ErrInvalidForm)
	}
	if forCreate && form.ExamID == 0 {
		return fmt.Errorf("%w: an exam id is required", ErrInvalidForm)
	}

	filled := 0
	for _, a := range form.Answers {
		if strings.TrimSpace(a) != "" {
			filled++
		}
	}
	if filled < 2 {
		return fmt.Errorf("%w: at least two answers are required", ErrInvalidForm)
	}

	if form.CorrectAnswerIndex < 1 || form.CorrectAnswerIndex > maxAnswers ||
		strings.TrimSpace(form.Answers[form.CorrectAnswerIndex-1]) == "" {
		return fmt.Errorf("%w: the correct answer index must point at a filled answer", ErrInvalidForm)
	}
	return nil
}

// buildQuestion maps form slots onto rows: blank answers are dropped and
// correctness follows the 1-based slot index, so Answer1="A", Answer2="B",
// blanks after, index 1 persists exactly two answers with the first correct.
func buildQuestion(form *Form) *models.Question {
	q := &models.Question{
		QuestionText: form.QuestionText,
		Explanation:  form.Explanation,
		IsActive:     true,
	}
	if form.HasImage {
		q.ImageData = form.ImageData
		q.ImageFileName = form.ImageFileName
		q.ImageMimeType = form.ImageMimeType
	}

	for i, text := range form.Answers {
		if strings.TrimSpace(text) == "" {
			continue
		}
		q.Answers = append(q.Answers, models.Answer{
			AnswerText: text,
			IsCorrect:  form.CorrectAnswerIndex == i+1,
		})
	}
	return q
}
