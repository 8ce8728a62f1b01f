package question

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"quizbank/internal/models"
)

type Handler struct {
	service       *Service
	maxImageBytes int64
}

func NewHandler(service *Service, maxImageBytes int64) *Handler {
	if maxImageBytes <= 0 {
		maxImageBytes = 5 << 20
	}
	return &Handler{service: service, maxImageBytes: maxImageBytes}
}

func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathID(w, r, "questionId")
	if !ok {
		return
	}

	detail, err := h.service.Detail(questionID)
	if err != nil {
		if errors.Is(err, ErrQuestionNotFound) {
			writeNotFound(w, "question not found")
			return
		}
		http.Error(w, "failed to load question", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathID(w, r, "questionId")
	if !ok {
		return
	}

	data, mime, err := h.service.Image(questionID)
	if err != nil {
		if errors.Is(err, ErrQuestionNotFound) || errors.Is(err, ErrNoImage) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to load image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Write(data)
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseForm(r, true)
	if err != nil {
		writeResult(w, http.StatusBadRequest, models.MutationResult{Message: err.Error()})
		return
	}

	questionID, err := h.service.Create(form)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	writeResult(w, http.StatusOK, models.MutationResult{
		Success:    true,
		QuestionID: questionID,
		Message:    "question created",
	})
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathID(w, r, "questionId")
	if !ok {
		return
	}

	form, err := h.parseForm(r, false)
	if err != nil {
		writeResult(w, http.StatusBadRequest, models.MutationResult{Message: err.Error()})
		return
	}

	if err := h.service.Update(questionID, form); err != nil {
		h.writeMutationError(w, err)
		return
	}

	writeResult(w, http.StatusOK, models.MutationResult{
		Success: true,
		Message: "question updated",
	})
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	examID, err1 := strconv.ParseUint(vars["examId"], 10, 32)
	questionID, err2 := strconv.ParseUint(vars["questionId"], 10, 32)
	if err1 != nil || err2 != nil {
		writeResult(w, http.StatusBadRequest, models.MutationResult{Message: "invalid id"})
		return
	}

	if err := h.service.Delete(uint(examID), uint(questionID)); err != nil {
		h.writeMutationError(w, err)
		return
	}

	writeResult(w, http.StatusOK, models.MutationResult{
		Success: true,
		Message: "question deleted",
	})
}

// parseForm reads the multipart contract: QuestionText, Explanation, ExamID
// (create only), Answer1..Answer4, CorrectAnswerIndex, optional Image file.
func (h *Handler) parseForm(r *http.Request, forCreate bool) (*Form, error) {
	if err := r.ParseMultipartForm(h.maxImageBytes + 1<<20); err != nil {
		return nil, errors.New("malformed multipart form")
	}

	form := &Form{
		QuestionText: r.FormValue("QuestionText"),
		Explanation:  r.FormValue("Explanation"),
	}

	if forCreate {
		examID, err := strconv.ParseUint(r.FormValue("ExamID"), 10, 32)
		if err != nil {
			return nil, errors.New("invalid ExamID")
		}
		form.ExamID = uint(examID)
	}

	for i := 0; i < maxAnswers; i++ {
		form.Answers[i] = r.FormValue("Answer" + strconv.Itoa(i+1))
	}

	index, err := strconv.Atoi(r.FormValue("CorrectAnswerIndex"))
	if err != nil {
		return nil, errors.New("invalid CorrectAnswerIndex")
	}
	form.CorrectAnswerIndex = index

	file, header, err := r.FormFile("Image")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes+1))
		if err != nil {
			return nil, errors.New("reading image upload")
		}
		if int64(len(data)) > h.maxImageBytes {
			return nil, errors.New("image too large")
		}
		if len(data) > 0 {
			form.HasImage = true
			form.ImageData = data
			form.ImageFileName = header.Filename
			form.ImageMimeType = header.Header.Get("Content-Type")
		}
	} else if err != http.ErrMissingFile {
		return nil, errors.New("reading image upload")
	}

	return form, nil
}

func (h *Handler) writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidForm):
		writeResult(w, http.StatusBadRequest, models.MutationResult{Message: err.Error()})
	case errors.Is(err, ErrExamNotFound):
		writeNotFound(w, "exam not found")
	case errors.Is(err, ErrQuestionNotFound):
		writeNotFound(w, "question not found")
	default:
		writeResult(w, http.StatusInternalServerError, models.MutationResult{Message: "internal error"})
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

func writeResult(w http.ResponseWriter, status int, result models.MutationResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(result)
}

func writeNotFound(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
