package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/resume-screener/internal/analysis"
)

// maxJSONBytes bounds JSON request bodies; batches of pasted resumes are the largest.
const maxJSONBytes = 8 << 20

// handleAnalyze scores pasted resume text against a job description given as
// text or as a job board URL.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, err)
		return
	}

	jobText := req.JobText
	if req.JobURL != "" {
		if s.fetcher == nil {
			s.writeError(w, &ErrValidation{Field: "job_url", Message: "URL fetching is disabled"})
			return
		}
		page, err := s.fetcher.JobText(r.Context(), req.JobURL)
		if err != nil {
			s.writeError(w, err)
			return
		}
		log.Printf("[analyze] fetched %s board=%s rendered=%t", page.URL, page.Board, page.Rendered)
		jobText = page.Text
	}

	report, err := s.analyzer.AnalyzeRequest(r.Context(), analysis.Request{
		ResumeText: req.ResumeText,
		JobText:    jobText,
		Strategy:   req.Strategy,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleAnalyzeUpload accepts a multipart form with an optional "resume"
// file plus "resume_text", "job_text" and "strategy" fields.
func (s *Server) handleAnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, err)
			return
		}
		s.writeError(w, &ErrValidation{Field: "form", Message: err.Error()})
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	strategy := r.FormValue("strategy")
	if err := s.validate.Var(strategy, "omitempty,oneof=overlap statistical"); err != nil {
		s.writeError(w, &ErrValidation{Field: "strategy", Message: "oneof"})
		return
	}

	req := analysis.Request{
		ResumeText: r.FormValue("resume_text"),
		JobText:    r.FormValue("job_text"),
		Strategy:   strategy,
	}

	file, header, err := r.FormFile("resume")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// pasted text only
	case err != nil:
		s.writeError(w, &ErrValidation{Field: "resume", Message: err.Error()})
		return
	default:
		defer func() { _ = file.Close() }()
		data, err := io.ReadAll(file)
		if err != nil {
			s.writeError(w, fmt.Errorf("failed to read upload: %w", err))
			return
		}
		req.ResumeFile = &analysis.ResumeFile{
			Name: header.Filename,
			MIME: header.Header.Get("Content-Type"),
			Data: data,
		}
	}

	report, err := s.analyzer.AnalyzeRequest(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleAnalyzeBatch scores several pasted resumes against one job description.
func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, err)
		return
	}
	if len(req.Resumes) > MaxBatchResumes {
		s.writeError(w, &ErrValidation{Field: "resumes", Message: fmt.Sprintf("at most %d resumes per batch", MaxBatchResumes)})
		return
	}

	candidates := make([]analysis.Candidate, len(req.Resumes))
	for i, res := range req.Resumes {
		candidates[i] = analysis.Candidate{Name: res.Name, Text: res.Text}
	}

	items, err := s.analyzer.AnalyzeBatch(r.Context(), req.JobText, candidates, s.batchLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, BatchResponse{Count: len(items), Items: items})
}

// handleVocabulary lists the skills the analyzer matches against.
func (s *Server) handleVocabulary(w http.ResponseWriter, _ *http.Request) {
	phrases := s.analyzer.Vocabulary().Phrases()
	s.jsonResponse(w, http.StatusOK, VocabularyResponse{Size: len(phrases), Skills: phrases})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"strategy": s.analyzer.Strategy(),
	})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] request failed: %v", err)
	}
	s.errorResponse(w, status, errorMessage(err))
}
