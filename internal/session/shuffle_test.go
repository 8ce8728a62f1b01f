package session

import (
	"math/rand"
	"sort"
	"testing"

	"quizbank/internal/models"
)

func buildQuestions(n int) []models.QuestionDetail {
	questions := make([]models.QuestionDetail, n)
	for i := 0; i < n; i++ {
		questions[i] = models.QuestionDetail{
			QuestionID: uint(i + 1),
			Answers: []models.AnswerOption{
				{AnswerID: uint(100 + i*10)},
				{AnswerID: uint(101 + i*10)},
				{AnswerID: uint(102 + i*10)},
				{AnswerID: uint(103 + i*10)},
			},
		}
	}
	return questions
}

func sortedIDs(questions []models.QuestionDetail) []uint {
	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.QuestionID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestShuffleIsPermutation(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 50} {
		questions := buildQuestions(n)
		want := sortedIDs(questions)

		answerSets := map[uint][]uint{}
		for _, q := range questions {
			set := make([]uint, len(q.Answers))
			for i, a := range q.Answers {
				set[i] = a.AnswerID
			}
			sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
			answerSets[q.QuestionID] = set
		}

		shuffleExam(rand.New(rand.NewSource(42)), questions)

		got := sortedIDs(questions)
		if len(got) != len(want) {
			t.Fatalf("n=%d: question count changed: %d -> %d", n, len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("n=%d: question set changed: %v vs %v", n, got, want)
			}
		}

		// Each question keeps exactly its own answers, in some order.
		for _, q := range questions {
			set := make([]uint, len(q.Answers))
			for i, a := range q.Answers {
				set[i] = a.AnswerID
			}
			sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
			want := answerSets[q.QuestionID]
			for i := range want {
				if set[i] != want[i] {
					t.Fatalf("n=%d: answers of question %d changed: %v vs %v",
						n, q.QuestionID, set, want)
				}
			}
		}
	}
}

func TestShuffleMovesElements(t *testing.T) {
	// With 50 questions the identity permutation is vanishingly unlikely;
	// a fixed seed keeps this deterministic either way.
	questions := buildQuestions(50)
	shuffleExam(rand.New(rand.NewSource(1)), questions)

	moved := false
	for i, q := range questions {
		if q.QuestionID != uint(i+1) {
			moved = true
			break
		}
	}
	if !moved {
		t.Fatal("shuffle left 50 questions in their original order")
	}
}

func TestDisabledRandomizationPreservesOrder(t *testing.T) {
	exam := testExam()
	s := New(DefaultPassPolicy())
	if err := s.Start(exam, Options{Randomize: false}); err != nil {
		t.Fatalf("starting session: %v", err)
	}

	views := s.ProjectAll()
	for i, view := range views {
		if view.QuestionID != exam.Questions[i].QuestionID {
			t.Fatalf("question order changed without randomization at %d", i)
		}
		for j, a := range view.Answers {
			if a.AnswerID != exam.Questions[i].Answers[j].AnswerID {
				t.Fatalf("answer order changed without randomization at %d/%d", i, j)
			}
		}
	}
}

func TestShuffleStablePerSession(t *testing.T) {
	s := New(DefaultPassPolicy())
	err := s.Start(testExam(), Options{
		Randomize: true,
		Rand:      rand.New(rand.NewSource(7)),
	})
	if err != nil {
		t.Fatalf("starting session: %v", err)
	}

	first := s.ProjectAll()
	second := s.ProjectAll()
	for i := range first {
		if first[i].QuestionID != second[i].QuestionID {
			t.Fatal("question order changed between renders")
		}
		for j := range first[i].Answers {
			if first[i].Answers[j].AnswerID != second[i].Answers[j].AnswerID {
				t.Fatal("answer order changed between renders")
			}
		}
	}
}

func TestShuffleDoesNotAliasInput(t *testing.T) {
	exam := testExam()
	originalFirst := exam.Questions[0].QuestionID

	s := New(DefaultPassPolicy())
	if err := s.Start(exam, Options{Randomize: true, Rand: rand.New(rand.NewSource(3))}); err != nil {
		t.Fatalf("starting session: %v", err)
	}

	if exam.Questions[0].QuestionID != originalFirst {
		t.Fatal("session start mutated the loader's exam data")
	}
}
