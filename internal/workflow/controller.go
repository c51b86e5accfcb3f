package workflow

import (
	"context"
	"fmt"
	"io"

	"github.com/eastridge-analytics/disclosure-desk/internal/assess"
	"github.com/eastridge-analytics/disclosure-desk/internal/docload"
	"github.com/eastridge-analytics/disclosure-desk/internal/notify"
)

const (
	uploadNoticeSubject = "New File Upload"
	uploadNoticeBody    = "A new file has been uploaded. Please find the content attached."

	escalationSubject = "Novelty Score Request"
	escalationBody    = "Please find attached:\n" +
		"1. The document content in .txt format for novelty assessment.\n" +
		"2. The LLM-generated responses for reference."
)

// Generator produces a full report for disclosure text, all-or-nothing.
type Generator interface {
	Generate(ctx context.Context, text string) (assess.Report, error)
}

// Controller sequences the workflow transitions. It holds no session state
// itself: sessions are explicit values passed into each transition, and the
// calling layer is responsible for keeping them between requests.
type Controller struct {
	generator Generator
	mailer    notify.Mailer
	recipient string
	workDir   string
}

func NewController(generator Generator, mailer notify.Mailer, recipient, workDir string) *Controller {
	return &Controller{
		generator: generator,
		mailer:    mailer,
		recipient: recipient,
		workDir:   workDir,
	}
}

// InitResult carries the upload transition's outcome. NoticeErr is non-nil
// when the upload-notification email failed; the session is still usable.
type InitResult struct {
	Session   *Session
	NoticeErr error
}

// Init handles the upload event: load the document, create a fresh session at
// StageUploaded, and send the upload notice with the raw text attached. A
// loader failure aborts before any session exists; a notice failure is
// reported but does not block the session.
func (c *Controller) Init(ctx context.Context, file io.Reader, filename string) (InitResult, error) {
	text, err := docload.Load(file, filename)
	if err != nil {
		return InitResult{}, err
	}
	sess := &Session{
		RawText:          text,
		UploadedFileName: filename,
		Stage:            StageUploaded,
	}
	return InitResult{Session: sess, NoticeErr: c.sendUploadNotice(sess)}, nil
}

func (c *Controller) sendUploadNotice(sess *Session) error {
	path, err := notify.WriteArtifact(c.workDir, "file_upload", sess.RawText)
	if err != nil {
		return fmt.Errorf("upload notice: %w", err)
	}
	defer notify.RemoveArtifacts(path)
	return c.mailer.Send(notify.OutboundMessage{
		To:          c.recipient,
		Subject:     fmt.Sprintf("%s (%s)", uploadNoticeSubject, sess.UploadedFileName),
		Body:        uploadNoticeBody,
		Attachments: []string{path},
	})
}

// Generate runs the report generator against the session's raw text. On
// success the session moves to StageReportGenerated and any prior report is
// replaced entirely; on failure the session is left untouched. A session that
// has already been escalated is closed to further generation.
func (c *Controller) Generate(ctx context.Context, sess *Session) error {
	if sess.Stage == StageEscalated {
		return &PreconditionError{Reason: "session already escalated"}
	}
	report, err := c.generator.Generate(ctx, sess.RawText)
	if err != nil {
		return err
	}
	sess.Report = report
	sess.Stage = StageReportGenerated
	return nil
}

// Escalate emails the raw text and the serialized report to the back office.
// It requires a report even though the UI gates the action. The session moves
// to StageEscalated only when the notifier succeeds; on failure it stays at
// StageReportGenerated so the user may retry. Both artifacts are deleted
// whether or not the send succeeded.
func (c *Controller) Escalate(ctx context.Context, sess *Session) error {
	if sess.Report == nil {
		return &PreconditionError{Reason: "no report has been generated for this session"}
	}
	if sess.Stage == StageEscalated {
		return &PreconditionError{Reason: "session already escalated"}
	}

	docPath, err := notify.WriteArtifact(c.workDir, "document_content", sess.RawText)
	if err != nil {
		return fmt.Errorf("escalate: %w", err)
	}
	reportPath, err := notify.WriteArtifact(c.workDir, "llm_responses", sess.Report.Artifact())
	if err != nil {
		notify.RemoveArtifacts(docPath)
		return fmt.Errorf("escalate: %w", err)
	}
	defer notify.RemoveArtifacts(docPath, reportPath)

	err = c.mailer.Send(notify.OutboundMessage{
		To:          c.recipient,
		Subject:     fmt.Sprintf("%s (%s)", escalationSubject, sess.UploadedFileName),
		Body:        escalationBody,
		Attachments: []string{docPath, reportPath},
	})
	if err != nil {
		return err
	}
	sess.Stage = StageEscalated
	return nil
}
