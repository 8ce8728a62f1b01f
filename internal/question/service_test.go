package question

import (
	"errors"
	"testing"

	"quizbank/internal/models"
)

type fakeRepo struct {
	created       *models.Question
	createdExamID uint
	createErr     error

	updated       *models.Question
	replacedImage bool
	updateErr     error

	deletedExamID     uint
	deletedQuestionID uint
	deleteErr         error

	examsForQuestion []uint
}

func (f *fakeRepo) QuestionByID(questionID uint) (*models.Question, error) {
	return nil, ErrQuestionNotFound
}

func (f *fakeRepo) Image(questionID uint) ([]byte, string, error) {
	return nil, "", ErrNoImage
}

func (f *fakeRepo) ExamsForQuestion(questionID uint) ([]uint, error) {
	return f.examsForQuestion, nil
}

func (f *fakeRepo) Create(q *models.Question, examID uint) error {
	if f.createErr != nil {
		return f.createErr
	}
	q.QuestionID = 42
	f.created = q
	f.createdExamID = examID
	return nil
}

func (f *fakeRepo) Update(q *models.Question, replaceImage bool) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = q
	f.replacedImage = replaceImage
	return nil
}

func (f *fakeRepo) Delete(examID, questionID uint) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedExamID = examID
	f.deletedQuestionID = questionID
	return nil
}

type fakeCache struct {
	invalidated []uint
}

func (f *fakeCache) InvalidateExam(examID uint) error {
	f.invalidated = append(f.invalidated, examID)
	return nil
}

type fakeNotifier struct {
	events  []string
	examIDs []uint
}

func (f *fakeNotifier) CatalogChanged(event string, examID uint) {
	f.events = append(f.events, event)
	f.examIDs = append(f.examIDs, examID)
}

func newTestService() (*Service, *fakeRepo, *fakeCache, *fakeNotifier) {
	repo := &fakeRepo{}
	cache := &fakeCache{}
	notifier := &fakeNotifier{}
	return NewService(repo, cache, notifier), repo, cache, notifier
}

func validCreateForm() *Form {
	return &Form{
		ExamID:             3,
		QuestionText:       "What color is the sky?",
		Explanation:        "look up",
		Answers:            [maxAnswers]string{"Blue", "Green", "", ""},
		CorrectAnswerIndex: 1,
	}
}

func TestCreatePersistsFilledAnswersOnly(t *testing.T) {
	svc, repo, cache, notifier := newTestService()

	id, err := svc.Create(validCreateForm())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected new id 42, got %d", id)
	}
	if repo.createdExamID != 3 {
		t.Fatalf("created under exam %d, want 3", repo.createdExamID)
	}

	q := repo.created
	if len(q.Answers) != 2 {
		t.Fatalf("persisted %d answers, want 2 (blanks dropped)", len(q.Answers))
	}
	if !q.Answers[0].IsCorrect || q.Answers[1].IsCorrect {
		t.Fatalf("correctness flags wrong: %+v", q.Answers)
	}
	if q.Answers[0].AnswerText != "Blue" || q.Answers[1].AnswerText != "Green" {
		t.Fatalf("answer texts wrong: %+v", q.Answers)
	}
	if !q.IsActive {
		t.Fatal("new questions must be active")
	}

	if len(cache.invalidated) != 1 || cache.invalidated[0] != 3 {
		t.Fatalf("cache invalidation: %v", cache.invalidated)
	}
	if len(notifier.events) != 1 || notifier.events[0] != "question_created" {
		t.Fatalf("notifications: %v", notifier.events)
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
	}{
		{name: "blank question text", mutate: func(f *Form) { f.QuestionText = "   " }},
		{name: "missing exam id", mutate: func(f *Form) { f.ExamID = 0 }},
		{name: "only one answer", mutate: func(f *Form) { f.Answers = [maxAnswers]string{"Blue", "", "", ""} }},
		{name: "zero correct index", mutate: func(f *Form) { f.CorrectAnswerIndex = 0 }},
		{name: "correct index past last slot", mutate: func(f *Form) { f.CorrectAnswerIndex = 5 }},
		{name: "correct index on blank slot", mutate: func(f *Form) { f.CorrectAnswerIndex = 4 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _, notifier := newTestService()
			form := validCreateForm()
			tc.mutate(form)

			_, err := svc.Create(form)
			if !errors.Is(err, ErrInvalidForm) {
				t.Fatalf("expected ErrInvalidForm, got %v", err)
			}
			if repo.created != nil {
				t.Fatal("invalid form must not reach the repository")
			}
			if len(notifier.events) != 0 {
				t.Fatal("invalid form must not notify")
			}
		})
	}
}

func TestCreateUnknownExam(t *testing.T) {
	svc, repo, cache, _ := newTestService()
	repo.createErr = ErrExamNotFound

	_, err := svc.Create(validCreateForm())
	if !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("expected ErrExamNotFound, got %v", err)
	}
	if len(cache.invalidated) != 0 {
		t.Fatal("failed create must not invalidate the cache")
	}
}

func TestUpdateKeepsImageUnlessReplaced(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.examsForQuestion = []uint{3}

	form := validCreateForm()
	form.ExamID = 0 // updates never carry the exam
	if err := svc.Update(7, form); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if repo.replacedImage {
		t.Fatal("image must survive when the form has none")
	}
	if repo.updated.QuestionID != 7 {
		t.Fatalf("updated id %d, want 7", repo.updated.QuestionID)
	}

	form.HasImage = true
	form.ImageData = []byte{0xff, 0xd8}
	form.ImageMimeType = "image/jpeg"
	if err := svc.Update(7, form); err != nil {
		t.Fatalf("Update with image: %v", err)
	}
	if !repo.replacedImage {
		t.Fatal("a new image must replace the stored one")
	}
	if len(repo.updated.ImageData) == 0 {
		t.Fatal("image payload lost")
	}
}

func TestUpdateInvalidatesEveryExam(t *testing.T) {
	svc, repo, cache, notifier := newTestService()
	repo.examsForQuestion = []uint{3, 8}

	form := validCreateForm()
	form.ExamID = 0
	if err := svc.Update(7, form); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(cache.invalidated) != 2 {
		t.Fatalf("invalidated %v, want both exams", cache.invalidated)
	}
	for _, event := range notifier.events {
		if event != "question_updated" {
			t.Fatalf("unexpected event %q", event)
		}
	}
}

func TestDeleteNotifies(t *testing.T) {
	svc, repo, cache, notifier := newTestService()

	if err := svc.Delete(3, 7); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if repo.deletedExamID != 3 || repo.deletedQuestionID != 7 {
		t.Fatalf("deleted (%d,%d), want (3,7)", repo.deletedExamID, repo.deletedQuestionID)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != 3 {
		t.Fatalf("cache invalidation: %v", cache.invalidated)
	}
	if len(notifier.events) != 1 || notifier.events[0] != "question_deleted" {
		t.Fatalf("notifications: %v", notifier.events)
	}
}

func TestDeleteUnknownQuestion(t *testing.T) {
	svc, repo, cache, _ := newTestService()
	repo.deleteErr = ErrQuestionNotFound

	err := svc.Delete(3, 99)
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
	if len(cache.invalidated) != 0 {
		t.Fatal("failed delete must not invalidate the cache")
	}
}

func TestImageDefaultsMimeType(t *testing.T) {
	repo := &imageRepo{data: []byte{1, 2, 3}}
	svc := NewService(repo, &fakeCache{}, nil)

	data, mime, err := svc.Image(7)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if len(data) != 3 {
		t.Fatalf("image payload: %v", data)
	}
	if mime != "image/jpeg" {
		t.Fatalf("default mime type %q, want image/jpeg", mime)
	}
}

type imageRepo struct {
	fakeRepo
	data []byte
}

func (r *imageRepo) Image(questionID uint) ([]byte, string, error) {
	return r.data, "", nil
}
