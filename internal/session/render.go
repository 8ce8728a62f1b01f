package session

// Views are plain read-only projections of session state. Anything a
// renderer paints comes from here; anything it changes goes back through
// the transition methods on Session.

type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictUnanswered
	VerdictCorrect
	VerdictIncorrect
)

type AnswerView struct {
	AnswerID   uint
	AnswerText string
	Selected   bool
	// Reveal marks, only set while the question's feedback is shown.
	MarkCorrect   bool
	MarkIncorrect bool
}

type QuestionView struct {
	Number       int
	QuestionID   uint
	QuestionText string
	HasImage     bool
	Answers      []AnswerView
	Revealed     bool
	// Verdict and the texts below are populated only when Revealed.
	Verdict           Verdict
	CorrectAnswerText string
	Explanation       string
}

type PageStatus int

const (
	PageUnanswered PageStatus = iota
	PageAnswered
	PageCorrect
	PageIncorrect
)

// ProjectAll renders every question in session order (list mode).
func (s *Session) ProjectAll() []QuestionView {
	views := make([]QuestionView, len(s.questions))
	for i := range s.questions {
		views[i] = s.projectQuestion(i)
	}
	return views
}

// ProjectCurrent renders the question at currentIndex (single mode).
func (s *Session) ProjectCurrent() (QuestionView, bool) {
	if len(s.questions) == 0 || s.currentIndex >= len(s.questions) {
		return QuestionView{}, false
	}
	return s.projectQuestion(s.currentIndex), true
}

// Pagination reports per-question status for the jump control. Correctness
// shows only after submission; before that answered questions are just
// answered.
func (s *Session) Pagination() []PageStatus {
	statuses := make([]PageStatus, len(s.questions))
	for i, q := range s.questions {
		sel, answered := s.selections[q.QuestionID]
		switch {
		case !answered:
			statuses[i] = PageUnanswered
		case s.phase != Submitted:
			statuses[i] = PageAnswered
		case sel.IsCorrect:
			statuses[i] = PageCorrect
		default:
			statuses[i] = PageIncorrect
		}
	}
	return statuses
}

func (s *Session) projectQuestion(index int) QuestionView {
	q := s.questions[index]
	sel, answered := s.selections[q.QuestionID]
	revealed := s.revealed[q.QuestionID]

	view := QuestionView{
		Number:       index + 1,
		QuestionID:   q.QuestionID,
		QuestionText: q.QuestionText,
		HasImage:     q.HasImage,
		Revealed:     revealed,
		Answers:      make([]AnswerView, len(q.Answers)),
	}

	for i, a := range q.Answers {
		av := AnswerView{
			AnswerID:   a.AnswerID,
			AnswerText: a.AnswerText,
			Selected:   answered && sel.AnswerID == a.AnswerID,
		}
		if revealed {
			if a.IsCorrect {
				av.MarkCorrect = true
			} else if av.Selected {
				av.MarkIncorrect = true
			}
		}
		view.Answers[i] = av
	}

	if revealed {
		view.CorrectAnswerText = correctAnswerText(q)
		view.Explanation = q.Explanation
		switch {
		case !answered:
			view.Verdict = VerdictUnanswered
		case sel.IsCorrect:
			view.Verdict = VerdictCorrect
		default:
			view.Verdict = VerdictIncorrect
		}
	}

	return view
}
