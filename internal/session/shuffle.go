package session

import (
	"math/rand"

	"quizbank/internal/models"
)

// shuffleExam permutes the question order and, independently, each
// question's answer order. Fisher-Yates from the top: every permutation is
// equally likely. N of 0 or 1 falls through untouched.
func shuffleExam(r *rand.Rand, questions []models.QuestionDetail) {
	for i := len(questions) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		questions[i], questions[j] = questions[j], questions[i]
	}
	for k := range questions {
		shuffleAnswers(r, questions[k].Answers)
	}
}

func shuffleAnswers(r *rand.Rand, answers []models.AnswerOption) {
	for i := len(answers) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		answers[i], answers[j] = answers[j], answers[i]
	}
}
