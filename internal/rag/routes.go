package rag

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/flashlearn/internal/apperr"
	"github.com/ziadkadry99/flashlearn/internal/extract"
	"github.com/ziadkadry99/flashlearn/internal/ledger"
	"github.com/ziadkadry99/flashlearn/internal/logger"
)

// MaxUploadBytes bounds the size of an uploaded document.
const MaxUploadBytes = 32 << 20

// RegisterRoutes mounts the ingestion and question-answering API.
func RegisterRoutes(r chi.Router, svc *Service, ex extract.Extractor) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/process/file", handleProcessFile(svc, ex))
		r.Post("/process/text", handleProcessText(svc))
		r.Get("/subjects", handleListSubjects(svc))
		r.Get("/subjects/{subject}", handleGetSubject(svc))
		r.Get("/subjects/{subject}/ingestions", handleIngestions(svc))
		r.Post("/ask", handleAsk(svc))
		r.Get("/ws/ask", handleAskSocket(svc))
	})
}

type processTextRequest struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type askRequest struct {
	Subject  string `json:"subject"`
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type subjectsResponse struct {
	Subjects []ledger.Subject `json:"subjects"`
}

type ingestionsResponse struct {
	Ingestions []ledger.Ingestion `json:"ingestions"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func handleProcessFile(svc *Service, ex extract.Extractor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
		if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
			writeError(w, r, apperr.Wrap(err, apperr.KindInvalidInput, "expected a multipart form with subject and file"))
			return
		}

		subject := r.FormValue("subject")
		if strings.TrimSpace(subject) == "" {
			writeError(w, r, apperr.InvalidInput("subject cannot be empty"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, apperr.Wrap(err, apperr.KindInvalidInput, "a file is required"))
			return
		}
		defer file.Close()

		if !extract.IsSupported(header.Filename) {
			writeError(w, r, apperr.New(apperr.KindUnsupportedFile, "unsupported file type, expected one of %s", strings.Join(extract.Supported, ", ")))
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, apperr.Wrap(err, apperr.KindInvalidInput, "could not read the uploaded file"))
			return
		}

		text, err := ex.Extract(header.Filename, data)
		if err != nil {
			writeError(w, r, err)
			return
		}

		entry, err := svc.Ingest(r.Context(), subject, text)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func handleProcessText(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
		var req processTextRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, apperr.Wrap(err, apperr.KindInvalidInput, "invalid request body"))
			return
		}

		entry, err := svc.Ingest(r.Context(), req.Subject, req.Text)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func handleListSubjects(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjects, err := svc.Subjects(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, subjectsResponse{Subjects: subjects})
	}
}

func handleGetSubject(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := svc.Subject(r.Context(), chi.URLParam(r, "subject"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func handleIngestions(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		history, err := svc.History(r.Context(), chi.URLParam(r, "subject"), limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ingestionsResponse{Ingestions: history})
	}
}

// handleAsk accepts either a form post or a JSON body.
func handleAsk(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
		var req askRequest
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType == "application/json" {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, r, apperr.Wrap(err, apperr.KindInvalidInput, "invalid request body"))
				return
			}
		} else {
			req.Subject = r.FormValue("subject")
			req.Question = r.FormValue("question")
		}

		answer, err := svc.Answer(r.Context(), req.Subject, req.Question)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, askResponse{Answer: answer})
	}
}

// writeError maps err to its HTTP status. Unclassified errors are logged and
// answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := http.StatusInternalServerError
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		status = appErr.HTTPStatus()
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
	}

	if status >= http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed", err, "path", r.URL.Path, "kind", string(kind))
	} else {
		logger.Debug(r.Context(), "request rejected", "path", r.URL.Path, "kind", string(kind), "error", err.Error())
	}
	writeJSON(w, status, errorResponse{Message: apperr.PublicMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
