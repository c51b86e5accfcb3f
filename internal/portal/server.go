// Package portal is the web surface of the disclosure desk: upload form,
// document preview, report display, and the escalate action, backed by the
// workflow controller.
package portal

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/eastridge-analytics/disclosure-desk/internal/assess"
	"github.com/eastridge-analytics/disclosure-desk/internal/docload"
	"github.com/eastridge-analytics/disclosure-desk/internal/intakelog"
	"github.com/eastridge-analytics/disclosure-desk/internal/notify"
	"github.com/eastridge-analytics/disclosure-desk/internal/workflow"
)

type Server struct {
	controller *workflow.Controller
	store      *SessionStore
	events     *intakelog.Log
	webDir     string
	pdf        ReportPDFRenderer
	markdown   goldmark.Markdown
}

func NewServer(controller *workflow.Controller, store *SessionStore, events *intakelog.Log, webDir string) http.Handler {
	return newServer(controller, store, events, webDir, NewChromiumPDFRenderer(webDir))
}

func newServer(controller *workflow.Controller, store *SessionStore, events *intakelog.Log, webDir string, pdf ReportPDFRenderer) http.Handler {
	s := &Server{
		controller: controller,
		store:      store,
		events:     events,
		webDir:     webDir,
		pdf:        pdf,
		markdown:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/session/", s.handleSession)
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// statusForError maps the workflow error taxonomy onto HTTP statuses. All
// failures leave the session in its prior state, so every non-2xx response is
// retryable by the user.
func statusForError(err error) int {
	var (
		pre     *workflow.PreconditionError
		loadErr *docload.LoadError
		genErr  *assess.GenerationError
		sendErr *notify.SendError
	)
	switch {
	case errors.Is(err, docload.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &pre):
		return http.StatusConflict
	case errors.As(err, &loadErr):
		return http.StatusBadRequest
	case errors.As(err, &genErr), errors.As(err, &sendErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) record(token string, kind intakelog.EventKind, filename, detail string) {
	if s.events == nil {
		return
	}
	if err := s.events.Record(token, kind, filename, detail); err != nil {
		log.Printf("intake log: %v", err)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" || r.URL.Path == "/index.html" {
		http.ServeFile(w, r, filepath.Join(s.webDir, "index.html"))
		return
	}
	path := filepath.Join(s.webDir, filepath.Clean(r.URL.Path))
	if _, err := fs.Stat(os.DirFS(s.webDir), strings.TrimPrefix(filepath.Clean(r.URL.Path), "/")); err == nil {
		http.ServeFile(w, r, path)
		return
	}
	http.NotFound(w, r)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	res, err := s.controller.Init(r.Context(), file, header.Filename)
	if err != nil {
		log.Printf("upload %s: %v", header.Filename, err)
		writeError(w, statusForError(err), err.Error())
		return
	}
	token := s.store.Put(res.Session)
	s.record(token, intakelog.EventUploaded, header.Filename, "")

	view := s.sessionView(token, res.Session)
	view.NoticeSent = res.NoticeErr == nil
	if res.NoticeErr != nil {
		log.Printf("upload notice for %s: %v", header.Filename, res.NoticeErr)
		s.record(token, intakelog.EventUploadNoticeError, header.Filename, res.NoticeErr.Error())
		view.NoticeError = "Failed to send initial review email. Please try again."
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/session/")
	token, action, _ := strings.Cut(rest, "/")
	action = strings.TrimSuffix(action, "/")
	if token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}
	sess := s.store.Get(token)
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, s.sessionView(token, sess))
	case "generate":
		s.handleGenerate(w, r, token, sess)
	case "escalate":
		s.handleEscalate(w, r, token, sess)
	case "report.pdf":
		s.handleReportPDF(w, r, sess)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request, token string, sess *workflow.Session) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.controller.Generate(r.Context(), sess); err != nil {
		log.Printf("generate %s: %v", token, err)
		s.record(token, intakelog.EventGenerationError, sess.UploadedFileName, err.Error())
		writeError(w, statusForError(err), err.Error())
		return
	}
	s.record(token, intakelog.EventReportGenerated, sess.UploadedFileName, "")
	writeJSON(w, http.StatusOK, s.sessionView(token, sess))
}

func (s *Server) handleEscalate(w http.ResponseWriter, r *http.Request, token string, sess *workflow.Session) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.controller.Escalate(r.Context(), sess); err != nil {
		log.Printf("escalate %s: %v", token, err)
		s.record(token, intakelog.EventEscalationError, sess.UploadedFileName, err.Error())
		writeError(w, statusForError(err), err.Error())
		return
	}
	s.record(token, intakelog.EventEscalated, sess.UploadedFileName, "")
	view := s.sessionView(token, sess)
	view.Message = "Email sent successfully! Please allow 48 hours for Eastridge Analytics to reply."
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request, sess *workflow.Session) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if sess.Report == nil {
		writeError(w, http.StatusNotFound, "report not generated yet")
		return
	}
	pdf, err := s.pdf.Render(r.Context(), sess.UploadedFileName, sess.Report)
	if err != nil {
		log.Printf("render pdf: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to render report PDF")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "patent_assessment.pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

type sectionView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Text  string `json:"text"`
	HTML  string `json:"html"`
}

type sessionView struct {
	Token       string        `json:"token"`
	FileName    string        `json:"file_name"`
	Stage       string        `json:"stage"`
	Preview     string        `json:"preview"`
	CanGenerate bool          `json:"can_generate"`
	CanEscalate bool          `json:"can_escalate"`
	NoticeSent  bool          `json:"notice_sent,omitempty"`
	NoticeError string        `json:"notice_error,omitempty"`
	Message     string        `json:"message,omitempty"`
	Report      []sectionView `json:"report,omitempty"`
}

func (s *Server) sessionView(token string, sess *workflow.Session) sessionView {
	view := sessionView{
		Token:       token,
		FileName:    sess.UploadedFileName,
		Stage:       string(sess.Stage),
		Preview:     sess.RawText,
		CanGenerate: sess.CanGenerate(),
		CanEscalate: sess.CanEscalate(),
	}
	if sess.Report != nil {
		for _, key := range assess.SectionOrder {
			view.Report = append(view.Report, sectionView{
				Key:   string(key),
				Label: key.Label(),
				Text:  sess.Report[key],
				HTML:  s.renderMarkdown(sess.Report[key]),
			})
		}
	}
	return view
}

// renderMarkdown converts one report section to HTML for the five-pane
// display. The LLM is asked for plain text but routinely returns light
// markdown anyway.
func (s *Server) renderMarkdown(text string) string {
	var sb strings.Builder
	if err := s.markdown.Convert([]byte(text), &sb); err != nil {
		return "<pre>" + html.EscapeString(text) + "</pre>"
	}
	return sb.String()
}
