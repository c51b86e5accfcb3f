package notify

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestWriteArtifactTimestampQualifiedName(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteArtifact(dir, "file_upload", "Widget X reduces latency.")
	if err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}
	name := filepath.Base(path)
	if ok, _ := regexp.MatchString(`^file_upload_\d{8}_\d{6}\.txt$`, name); !ok {
		t.Fatalf("unexpected artifact name %q", name)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(content) != "Widget X reduces latency." {
		t.Fatalf("got %q", content)
	}
}

func TestWriteArtifactCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	if _, err := WriteArtifact(dir, "document_content", "x"); err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}
}

func TestRemoveArtifacts(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteArtifact(dir, "llm_responses", "x")
	if err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}
	RemoveArtifacts(path, "", filepath.Join(dir, "never_existed.txt"))
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("artifact still present after RemoveArtifacts: %v", err)
	}
}

func TestTimestampedSubject(t *testing.T) {
	subject := TimestampedSubject("New File Upload")
	if ok, _ := regexp.MatchString(`^New File Upload - \d{8}_\d{6}$`, subject); !ok {
		t.Fatalf("unexpected subject %q", subject)
	}
}

func TestSendFailsOnMissingAttachment(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", SubmissionPort, "desk@example.com", "secret")
	err := m.Send(OutboundMessage{
		To:          "info@example.com",
		Subject:     "Novelty Score Request",
		Body:        "body",
		Attachments: []string{filepath.Join(t.TempDir(), "missing.txt")},
	})
	var sendErr *SendError
	if !errors.As(err, &sendErr) {
		t.Fatalf("expected *SendError, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing.txt") {
		t.Fatalf("error should name the missing attachment: %v", err)
	}
}
