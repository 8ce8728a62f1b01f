// Package session holds one client-side attempt at a single exam, from load
// to submit or reset. All state lives in a single Session value mutated only
// through its transition methods; views of it are built by render.go.
package session

import (
	"errors"
	"math/rand"
	"time"

	"quizbank/internal/models"
)

type Phase int

const (
	Idle Phase = iota
	Loaded
	InProgress
	Confirming
	Submitted
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case InProgress:
		return "in_progress"
	case Confirming:
		return "confirming"
	case Submitted:
		return "submitted"
	}
	return "unknown"
}

type Mode int

const (
	ListMode Mode = iota
	SingleMode
)

var (
	ErrNoExamLoaded     = errors.New("no exam loaded")
	ErrAlreadyLoaded    = errors.New("an exam is already loaded")
	ErrNoSelections     = errors.New("no answers selected")
	ErrSessionSubmitted = errors.New("session already submitted")
	ErrNotConfirming    = errors.New("no submission pending confirmation")
	ErrUnknownQuestion  = errors.New("question not in this session")
	ErrUnknownAnswer    = errors.New("answer not in this question")
	ErrIndexOutOfRange  = errors.New("question index out of range")
	ErrNotSingleMode    = errors.New("session is not in single-question mode")
)

// Selection is one recorded answer for one question. Re-selecting a question
// overwrites it; there is never more than one per question.
type Selection struct {
	AnswerID  uint
	IsCorrect bool
}

type Options struct {
	Randomize   bool
	Mode        Mode
	AutoAdvance bool
	// Rand seeds the shuffle; nil gets a time-seeded source.
	Rand *rand.Rand
}

type Session struct {
	phase        Phase
	examID       uint
	examName     string
	questions    []models.QuestionDetail
	selections   map[uint]Selection
	revealed     map[uint]bool
	currentIndex int
	mode         Mode
	autoAdvance  bool
	policy       PassPolicy
	result       *Result
}

func New(policy PassPolicy) *Session {
	return &Session{
		phase:      Idle,
		selections: map[uint]Selection{},
		revealed:   map[uint]bool{},
		policy:     policy,
	}
}

// Start moves Idle -> Loaded. The question and answer orderings are fixed
// here, shuffled at most once; nothing later in the session reorders them.
func (s *Session) Start(exam *models.ExamDetail, opts Options) error {
	if s.phase != Idle {
		return ErrAlreadyLoaded
	}

	questions := cloneQuestions(exam.Questions)
	if opts.Randomize {
		r := opts.Rand
		if r == nil {
			r = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		shuffleExam(r, questions)
	}

	s.phase = Loaded
	s.examID = exam.ExamID
	s.examName = exam.ExamName
	s.questions = questions
	s.selections = map[uint]Selection{}
	s.revealed = map[uint]bool{}
	s.currentIndex = 0
	s.mode = opts.Mode
	s.autoAdvance = opts.AutoAdvance
	s.result = nil
	return nil
}

// Select records {answerID, isCorrect} for a question, overwriting any prior
// selection. Locked once the session is submitted.
func (s *Session) Select(questionID, answerID uint) error {
	switch s.phase {
	case Idle:
		return ErrNoExamLoaded
	case Submitted:
		return ErrSessionSubmitted
	}

	q := s.findQuestion(questionID)
	if q == nil {
		return ErrUnknownQuestion
	}
	var picked *models.AnswerOption
	for i := range q.Answers {
		if q.Answers[i].AnswerID == answerID {
			picked = &q.Answers[i]
			break
		}
	}
	if picked == nil {
		return ErrUnknownAnswer
	}

	s.selections[questionID] = Selection{AnswerID: picked.AnswerID, IsCorrect: picked.IsCorrect}
	if s.phase == Loaded {
		s.phase = InProgress
	}
	return nil
}

// ToggleReveal flips per-question feedback visibility. Reveal state is
// orthogonal to the phase; it stays toggleable after submission too.
func (s *Session) ToggleReveal(questionID uint) error {
	if s.phase == Idle {
		return ErrNoExamLoaded
	}
	if s.findQuestion(questionID) == nil {
		return ErrUnknownQuestion
	}
	s.revealed[questionID] = !s.revealed[questionID]
	return nil
}

// RequestSubmit gates submission on an explicit acknowledgement: it moves to
// Confirming and reports answered/total for the confirmation prompt. Fails
// closed when nothing is selected.
func (s *Session) RequestSubmit() (answered, total int, err error) {
	switch s.phase {
	case Idle:
		return 0, 0, ErrNoExamLoaded
	case Submitted:
		return 0, 0, ErrSessionSubmitted
	case Confirming:
		return len(s.selections), len(s.questions), nil
	}
	if len(s.selections) == 0 {
		return 0, len(s.questions), ErrNoSelections
	}
	s.phase = Confirming
	return len(s.selections), len(s.questions), nil
}

func (s *Session) CancelSubmit() error {
	if s.phase != Confirming {
		return ErrNotConfirming
	}
	s.phase = InProgress
	return nil
}

// ConfirmSubmit completes the Confirming -> Submitted transition: every
// question is force-revealed and the score is computed once and kept.
func (s *Session) ConfirmSubmit() (*Result, error) {
	if s.phase != Confirming {
		return nil, ErrNotConfirming
	}

	for _, q := range s.questions {
		s.revealed[q.QuestionID] = true
	}
	result := Score(s.questions, s.selections, s.policy)
	s.result = &result
	s.phase = Submitted
	return s.result, nil
}

// Retry keeps the loaded exam (same question order) and clears everything
// the user did with it.
func (s *Session) Retry() error {
	if s.phase != Submitted {
		return ErrSessionSubmitted
	}
	s.phase = Loaded
	s.selections = map[uint]Selection{}
	s.revealed = map[uint]bool{}
	s.currentIndex = 0
	s.result = nil
	return nil
}

// Reset drops the session back to Idle from any phase.
func (s *Session) Reset() {
	s.phase = Idle
	s.examID = 0
	s.examName = ""
	s.questions = nil
	s.selections = map[uint]Selection{}
	s.revealed = map[uint]bool{}
	s.currentIndex = 0
	s.result = nil
}

// Advance moves to the next question in single mode, stopping at the last.
func (s *Session) Advance() error {
	if s.phase == Idle {
		return ErrNoExamLoaded
	}
	if s.mode != SingleMode {
		return ErrNotSingleMode
	}
	if s.currentIndex+1 < len(s.questions) {
		s.currentIndex++
	}
	return nil
}

func (s *Session) JumpTo(index int) error {
	if s.phase == Idle {
		return ErrNoExamLoaded
	}
	if s.mode != SingleMode {
		return ErrNotSingleMode
	}
	if index < 0 || index >= len(s.questions) {
		return ErrIndexOutOfRange
	}
	s.currentIndex = index
	return nil
}

func (s *Session) Phase() Phase       { return s.phase }
func (s *Session) Mode() Mode         { return s.mode }
func (s *Session) AutoAdvance() bool  { return s.autoAdvance }
func (s *Session) ExamID() uint       { return s.examID }
func (s *Session) ExamName() string   { return s.examName }
func (s *Session) QuestionCount() int { return len(s.questions) }
func (s *Session) CurrentIndex() int  { return s.currentIndex }
func (s *Session) AnsweredCount() int { return len(s.selections) }

func (s *Session) Selection(questionID uint) (Selection, bool) {
	sel, ok := s.selections[questionID]
	return sel, ok
}

func (s *Session) Revealed(questionID uint) bool {
	return s.revealed[questionID]
}

// Result returns the score computed at submission, or nil before it.
func (s *Session) Result() *Result {
	return s.result
}

func (s *Session) findQuestion(questionID uint) *models.QuestionDetail {
	for i := range s.questions {
		if s.questions[i].QuestionID == questionID {
			return &s.questions[i]
		}
	}
	return nil
}

// cloneQuestions deep-copies the question slice so shuffling and session
// bookkeeping never alias the loader's data.
func cloneQuestions(qs []models.QuestionDetail) []models.QuestionDetail {
	out := make([]models.QuestionDetail, len(qs))
	copy(out, qs)
	for i := range out {
		answers := make([]models.AnswerOption, len(out[i].Answers))
		copy(answers, out[i].Answers)
		out[i].Answers = answers
	}
	return out
}
