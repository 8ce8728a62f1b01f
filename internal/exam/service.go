package exam

import (
	"go.uber.org/zap"

	"quizbank/internal/models"
	"quizbank/pkg/logger"
)

// Cache is what the service needs from pkg/cache; a fake stands in for
// redis in tests.
type Cache interface {
	GetCatalog() ([]models.ExamSummary, error)
	SetCatalog(exams []models.ExamSummary) error
	GetExam(examID uint) (*models.ExamDetail, error)
	SetExam(exam *models.ExamDetail) error
}

type Service struct {
	repo        Repository
	cache       Cache
	catalogSize int
}

func NewService(repo Repository, cache Cache, catalogSize int) *Service {
	if catalogSize <= 0 {
		catalogSize = 10
	}
	return &Service{
		repo:        repo,
		cache:       cache,
		catalogSize: catalogSize,
	}
}

// Catalog lists active exams, read-through cached.
func (s *Service) Catalog() ([]models.ExamSummary, error) {
	if cached, err := s.cache.GetCatalog(); err == nil {
		return cached, nil
	}

	exams, err := s.repo.ListActive(s.catalogSize)
	if err != nil {
		logger.Log.Error("listing exams", zap.Error(err))
		return nil, err
	}

	summaries := make([]models.ExamSummary, 0, len(exams))
	for _, e := range exams {
		summaries = append(summaries, e.ToSummary())
	}

	if err := s.cache.SetCatalog(summaries); err != nil {
		logger.Log.Warn("caching exam catalog", zap.Error(err))
	}
	return summaries, nil
}

// ExamTree returns the full delivery payload for one exam: active questions
// in display order, each with its active answers.
func (s *Service) ExamTree(examID uint) (*models.ExamDetail, error) {
	if cached, err := s.cache.GetExam(examID); err == nil {
		return cached, nil
	}

	exam, err := s.repo.ExamTree(examID)
	if err != nil {
		if err != ErrNotFound {
			logger.Log.Error("loading exam tree", zap.Uint("exam_id", examID), zap.Error(err))
		}
		return nil, err
	}

	detail := &models.ExamDetail{
		ExamID:    exam.ExamID,
		ExamName:  exam.ExamName,
		Questions: make([]models.QuestionDetail, 0, len(exam.ExamQuestions)),
	}
	for _, eq := range exam.ExamQuestions {
		// Preload filters leave a zero Question for inactive rows.
		if eq.Question.QuestionID == 0 {
			continue
		}
		detail.Questions = append(detail.Questions, eq.Question.ToDetail())
	}

	if err := s.cache.SetExam(detail); err != nil {
		logger.Log.Warn("caching exam", zap.Uint("exam_id", examID), zap.Error(err))
	}
	return detail, nil
}
