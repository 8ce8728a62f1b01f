package exam

import (
	"errors"
	"testing"

	"quizbank/internal/models"
)

type fakeRepo struct {
	exams    []models.Exam
	tree     *models.Exam
	treeErr  error
	listHits int
	treeHits int
}

func (f *fakeRepo) ListActive(limit int) ([]models.Exam, error) {
	f.listHits++
	if limit < len(f.exams) {
		return f.exams[:limit], nil
	}
	return f.exams, nil
}

func (f *fakeRepo) ExamTree(examID uint) (*models.Exam, error) {
	f.treeHits++
	if f.treeErr != nil {
		return nil, f.treeErr
	}
	return f.tree, nil
}

type fakeCache struct {
	catalog []models.ExamSummary
	exams   map[uint]*models.ExamDetail
}

func newFakeCache() *fakeCache {
	return &fakeCache{exams: make(map[uint]*models.ExamDetail)}
}

func (f *fakeCache) GetCatalog() ([]models.ExamSummary, error) {
	if f.catalog == nil {
		return nil, errors.New("miss")
	}
	return f.catalog, nil
}

func (f *fakeCache) SetCatalog(exams []models.ExamSummary) error {
	f.catalog = exams
	return nil
}

func (f *fakeCache) GetExam(examID uint) (*models.ExamDetail, error) {
	if d, ok := f.exams[examID]; ok {
		return d, nil
	}
	return nil, errors.New("miss")
}

func (f *fakeCache) SetExam(exam *models.ExamDetail) error {
	f.exams[exam.ExamID] = exam
	return nil
}

func TestCatalogReadThrough(t *testing.T) {
	repo := &fakeRepo{exams: []models.Exam{
		{ExamID: 1, ExamName: "Networking Basics", Description: "intro", IsActive: true},
		{ExamID: 2, ExamName: "Routing", IsActive: true},
	}}
	cache := newFakeCache()
	svc := NewService(repo, cache, 10)

	exams, err := svc.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(exams) != 2 || exams[0].ExamName != "Networking Basics" {
		t.Fatalf("unexpected catalog: %+v", exams)
	}
	if repo.listHits != 1 {
		t.Fatalf("repo hit %d times, want 1", repo.listHits)
	}

	// Second call must come out of the cache.
	if _, err := svc.Catalog(); err != nil {
		t.Fatalf("cached Catalog: %v", err)
	}
	if repo.listHits != 1 {
		t.Fatalf("repo hit %d times after cached read, want 1", repo.listHits)
	}
}

func TestCatalogRespectsPageSize(t *testing.T) {
	repo := &fakeRepo{exams: []models.Exam{
		{ExamID: 1, ExamName: "One"},
		{ExamID: 2, ExamName: "Two"},
		{ExamID: 3, ExamName: "Three"},
	}}
	svc := NewService(repo, newFakeCache(), 2)

	exams, err := svc.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(exams) != 2 {
		t.Fatalf("got %d exams, want 2", len(exams))
	}
}

func TestExamTreeProjection(t *testing.T) {
	order1, order2 := 1, 2
	repo := &fakeRepo{tree: &models.Exam{
		ExamID:   5,
		ExamName: "Subnetting",
		ExamQuestions: []models.ExamQuestion{
			{ExamID: 5, QuestionID: 10, DisplayOrder: &order1, Question: models.Question{
				QuestionID:   10,
				QuestionText: "How many hosts in a /30?",
				Answers: []models.Answer{
					{AnswerID: 101, AnswerText: "2", IsCorrect: true},
					{AnswerID: 102, AnswerText: "4"},
				},
			}},
			// Inactive question, left zero by the preload filter.
			{ExamID: 5, QuestionID: 11, DisplayOrder: &order2},
		},
	}}
	cache := newFakeCache()
	svc := NewService(repo, cache, 10)

	detail, err := svc.ExamTree(5)
	if err != nil {
		t.Fatalf("ExamTree: %v", err)
	}
	if detail.ExamName != "Subnetting" {
		t.Fatalf("exam name %q", detail.ExamName)
	}
	if len(detail.Questions) != 1 {
		t.Fatalf("got %d questions, want inactive row skipped", len(detail.Questions))
	}
	q := detail.Questions[0]
	if q.QuestionID != 10 || len(q.Answers) != 2 {
		t.Fatalf("unexpected question: %+v", q)
	}
	if !q.Answers[0].IsCorrect {
		t.Fatal("correctness flag lost in projection")
	}

	// Second read is served from the cache.
	if _, err := svc.ExamTree(5); err != nil {
		t.Fatalf("cached ExamTree: %v", err)
	}
	if repo.treeHits != 1 {
		t.Fatalf("repo hit %d times, want 1", repo.treeHits)
	}
}

func TestExamTreeNotFound(t *testing.T) {
	repo := &fakeRepo{treeErr: ErrNotFound}
	svc := NewService(repo, newFakeCache(), 10)

	_, err := svc.ExamTree(99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
