// Command quiz is a terminal exam-taking client: it lists the catalog,
// loads an exam, runs one session (list or single-question mode) and prints
// the score report on submission.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"quizbank/internal/client"
	"quizbank/internal/config"
	"quizbank/internal/models"
	"quizbank/internal/session"
)

const autoAdvanceDelay = 700 * time.Millisecond

func main() {
	server := flag.String("server", "http://localhost:8080", "quizbank server base URL")
	flag.Parse()

	policy := session.DefaultPassPolicy()
	if cfg, err := config.LoadConfig("."); err == nil {
		policy = session.PassPolicy{
			Mode:      session.PolicyMode(cfg.Pass.Mode),
			Threshold: cfg.Pass.Threshold,
		}
	}

	app := &app{
		api:    client.New(*server),
		sess:   session.New(policy),
		stdin:  bufio.NewScanner(os.Stdin),
		stdout: os.Stdout,
	}
	app.run()
}

type app struct {
	api    *client.Client
	sess   *session.Session
	stdin  *bufio.Scanner
	stdout *os.File
}

func (a *app) run() {
	for {
		exam, ok := a.pickExam()
		if !ok {
			return
		}
		a.takeExam(exam)
	}
}

// pickExam shows the catalog and loads the chosen exam. Load failures keep
// the catalog displayed; q quits.
func (a *app) pickExam() (*models.ExamDetail, bool) {
	ctx := context.Background()

	exams, err := a.api.Catalog(ctx)
	if err != nil {
		fmt.Fprintf(a.stdout, "could not load the exam list: %v\n", err)
		return nil, false
	}
	if len(exams) == 0 {
		fmt.Fprintln(a.stdout, "no exams available")
		return nil, false
	}

	for {
		fmt.Fprintln(a.stdout, "\nAvailable exams:")
		for i, e := range exams {
			fmt.Fprintf(a.stdout, "  %d. %s", i+1, e.ExamName)
			if e.Description != "" {
				fmt.Fprintf(a.stdout, " - %s", e.Description)
			}
			fmt.Fprintln(a.stdout)
		}

		choice := a.prompt("Pick an exam (q to quit): ")
		if choice == "q" {
			return nil, false
		}
		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(exams) {
			fmt.Fprintln(a.stdout, "not a valid exam number")
			continue
		}

		detail, err := a.api.Exam(ctx, exams[n-1].ExamID)
		if err != nil {
			if client.IsNotFound(err) {
				fmt.Fprintln(a.stdout, "that exam no longer exists")
			} else {
				fmt.Fprintf(a.stdout, "could not load the exam: %v\n", err)
			}
			continue
		}
		return detail, true
	}
}

func (a *app) takeExam(exam *models.ExamDetail) {
	opts := session.Options{
		Randomize: a.promptYesNo("Randomize questions and answers?"),
	}
	if a.promptYesNo("One question at a time?") {
		opts.Mode = session.SingleMode
		opts.AutoAdvance = a.promptYesNo("Auto-advance after answering?")
	}

	if err := a.sess.Start(exam, opts); err != nil {
		fmt.Fprintf(a.stdout, "could not start the session: %v\n", err)
		return
	}
	defer a.sess.Reset()

	for {
		if a.sess.Mode() == session.SingleMode {
			a.printCurrent()
		} else {
			a.printAll()
		}

		line := a.prompt("> ")
		if done := a.handleCommand(line); done {
			return
		}
	}
}

// handleCommand parses one input line; returns true when the session ends
// (back to catalog).
func (a *app) handleCommand(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "back":
		return true
	case "submit":
		return a.submit()
	case "retry":
		if err := a.sess.Retry(); err != nil {
			fmt.Fprintln(a.stdout, "nothing to retry yet")
		}
		return false
	case "n":
		a.sess.Advance()
		return false
	case "j":
		if len(fields) == 2 {
			if n, err := strconv.Atoi(fields[1]); err == nil {
				if err := a.sess.JumpTo(n - 1); err != nil {
					fmt.Fprintln(a.stdout, "no such question")
				}
				return false
			}
		}
		fmt.Fprintln(a.stdout, "usage: j <question number>")
		return false
	case "r":
		a.toggleReveal(fields)
		return false
	case "help":
		a.printHelp()
		return false
	default:
		a.selectAnswer(fields)
		return false
	}
}

// selectAnswer accepts "a 3 b" in list mode (question 3, answer B) or a
// bare letter in single mode.
func (a *app) selectAnswer(fields []string) {
	var view session.QuestionView
	var letter string

	if a.sess.Mode() == session.SingleMode {
		current, ok := a.sess.ProjectCurrent()
		if !ok {
			return
		}
		view, letter = current, fields[0]
	} else {
		if fields[0] != "a" || len(fields) != 3 {
			fmt.Fprintln(a.stdout, "type 'a <question> <letter>' to answer, or 'help'")
			return
		}
		n, err := strconv.Atoi(fields[1])
		views := a.sess.ProjectAll()
		if err != nil || n < 1 || n > len(views) {
			fmt.Fprintln(a.stdout, "no such question")
			return
		}
		view, letter = views[n-1], fields[2]
	}

	idx := int(letter[0] - 'a')
	if len(letter) != 1 || idx < 0 || idx >= len(view.Answers) {
		fmt.Fprintln(a.stdout, "no such answer")
		return
	}

	if err := a.sess.Select(view.QuestionID, view.Answers[idx].AnswerID); err != nil {
		if err == session.ErrSessionSubmitted {
			fmt.Fprintln(a.stdout, "already submitted; 'retry' or 'back'")
		} else {
			fmt.Fprintf(a.stdout, "could not record the answer: %v\n", err)
		}
		return
	}

	if a.sess.Mode() == session.SingleMode && a.sess.AutoAdvance() {
		time.Sleep(autoAdvanceDelay)
		a.sess.Advance()
	}
}

func (a *app) toggleReveal(fields []string) {
	if a.sess.Mode() == session.SingleMode {
		if view, ok := a.sess.ProjectCurrent(); ok {
			a.sess.ToggleReveal(view.QuestionID)
		}
		return
	}
	if len(fields) != 2 {
		fmt.Fprintln(a.stdout, "usage: r <question number>")
		return
	}
	n, err := strconv.Atoi(fields[1])
	views := a.sess.ProjectAll()
	if err != nil || n < 1 || n > len(views) {
		fmt.Fprintln(a.stdout, "no such question")
		return
	}
	a.sess.ToggleReveal(views[n-1].QuestionID)
}

// submit runs the confirmation gate and, once confirmed, prints the score
// report. Returns true when the user leaves afterwards.
func (a *app) submit() bool {
	answered, total, err := a.sess.RequestSubmit()
	if err != nil {
		switch err {
		case session.ErrNoSelections:
			fmt.Fprintln(a.stdout, "nothing selected yet")
		case session.ErrSessionSubmitted:
			fmt.Fprintln(a.stdout, "already submitted")
		default:
			fmt.Fprintf(a.stdout, "cannot submit: %v\n", err)
		}
		return false
	}

	if !a.promptYesNo(fmt.Sprintf("You answered %d of %d. Submit?", answered, total)) {
		a.sess.CancelSubmit()
		return false
	}

	result, err := a.sess.ConfirmSubmit()
	if err != nil {
		fmt.Fprintf(a.stdout, "submission failed: %v\n", err)
		return false
	}

	a.printResult(result)
	for {
		switch a.prompt("retry, back? ") {
		case "retry":
			a.sess.Retry()
			return false
		case "back":
			return true
		}
	}
}

func (a *app) printResult(result *session.Result) {
	verdict := "FAIL"
	if result.Passed {
		verdict = "PASS"
	}
	fmt.Fprintf(a.stdout, "\n%d/%d correct (%.1f%%) - %s\n",
		result.CorrectCount, result.Total, result.Percentage, verdict)

	for _, rem := range result.Remediation {
		fmt.Fprintf(a.stdout, "\nQ%d: %s\n", rem.Number, rem.QuestionText)
		fmt.Fprintf(a.stdout, "  your answer:    %s\n", rem.UserAnswerText)
		fmt.Fprintf(a.stdout, "  correct answer: %s\n", rem.CorrectAnswerText)
		if rem.Explanation != "" {
			fmt.Fprintf(a.stdout, "  explanation:    %s\n", rem.Explanation)
		}
	}
}

func (a *app) printAll() {
	fmt.Fprintf(a.stdout, "\n=== %s ===\n", a.sess.ExamName())
	for _, view := range a.sess.ProjectAll() {
		a.printQuestion(view)
	}
	fmt.Fprintf(a.stdout, "\nanswered %d/%d\n", a.sess.AnsweredCount(), a.sess.QuestionCount())
}

func (a *app) printCurrent() {
	view, ok := a.sess.ProjectCurrent()
	if !ok {
		return
	}
	fmt.Fprintf(a.stdout, "\n=== %s (%d/%d) ===\n",
		a.sess.ExamName(), view.Number, a.sess.QuestionCount())
	a.printQuestion(view)

	marks := make([]string, 0, a.sess.QuestionCount())
	for i, status := range a.sess.Pagination() {
		mark := "."
		switch status {
		case session.PageAnswered:
			mark = "o"
		case session.PageCorrect:
			mark = "+"
		case session.PageIncorrect:
			mark = "x"
		}
		marks = append(marks, fmt.Sprintf("%d%s", i+1, mark))
	}
	fmt.Fprintf(a.stdout, "\nprogress: %s\n", strings.Join(marks, " "))
}

func (a *app) printQuestion(view session.QuestionView) {
	fmt.Fprintf(a.stdout, "\nQ%d: %s\n", view.Number, view.QuestionText)
	if view.HasImage {
		fmt.Fprintf(a.stdout, "  [image: %s]\n", a.api.ImageURL(view.QuestionID))
	}

	for i, answer := range view.Answers {
		marker := " "
		if answer.Selected {
			marker = "*"
		}
		suffix := ""
		if answer.MarkCorrect {
			suffix = "  <- correct"
		} else if answer.MarkIncorrect {
			suffix = "  <- wrong"
		}
		fmt.Fprintf(a.stdout, "  %s %c) %s%s\n", marker, 'A'+i, answer.AnswerText, suffix)
	}

	if view.Revealed {
		switch view.Verdict {
		case session.VerdictUnanswered:
			fmt.Fprintf(a.stdout, "  not answered; correct: %s\n", view.CorrectAnswerText)
		case session.VerdictCorrect:
			fmt.Fprintln(a.stdout, "  correct!")
		case session.VerdictIncorrect:
			fmt.Fprintf(a.stdout, "  wrong; correct: %s\n", view.CorrectAnswerText)
		}
		if view.Explanation != "" {
			fmt.Fprintf(a.stdout, "  explanation: %s\n", view.Explanation)
		}
	}
}

func (a *app) printHelp() {
	fmt.Fprintln(a.stdout, `commands:
  a <q> <letter>  answer question q (list mode)
  <letter>        answer the shown question (single mode)
  r [<q>]         toggle answer reveal
  n / j <q>       next question / jump (single mode)
  submit          submit the exam (asks to confirm)
  retry           clear answers and retake after submitting
  back            return to the exam list`)
}

func (a *app) prompt(text string) string {
	fmt.Fprint(a.stdout, text)
	if !a.stdin.Scan() {
		return "q"
	}
	return strings.TrimSpace(a.stdin.Text())
}

func (a *app) promptYesNo(text string) bool {
	for {
		switch a.prompt(text + " [y/n] ") {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}
