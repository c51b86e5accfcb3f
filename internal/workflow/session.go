// Package workflow implements the upload → generate → escalate session state
// machine that gates user actions and sequences the document loader, report
// generator, and notifier.
package workflow

import "github.com/eastridge-analytics/disclosure-desk/internal/assess"

// Stage is the linear position of a session in the workflow. There are no
// backward transitions; re-running generate from ReportGenerated re-enters
// the same stage with a refreshed report.
type Stage string

const (
	StageUploaded        Stage = "uploaded"
	StageReportGenerated Stage = "report_generated"
	StageEscalated       Stage = "escalated"
)

// Session is one unit of interaction tied to a single uploaded document. It
// exists only for the lifetime of the interactive session and is never
// persisted across process restarts. A Report is present only at stage
// ReportGenerated or later.
type Session struct {
	RawText          string
	UploadedFileName string
	Stage            Stage
	Report           assess.Report
}

// CanGenerate reports whether the generate action is available.
func (s *Session) CanGenerate() bool {
	return s.Stage == StageUploaded || s.Stage == StageReportGenerated
}

// CanEscalate reports whether the escalate action is available.
func (s *Session) CanEscalate() bool {
	return s.Stage == StageReportGenerated && s.Report != nil
}
