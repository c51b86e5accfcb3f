package assess

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubCaller struct {
	responses map[string]string // instruction suffix -> response
	fixed     string
	err       error
	prompts   []string
}

func (s *stubCaller) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	for suffix, resp := range s.responses {
		if strings.HasSuffix(prompt, suffix) {
			return resp, nil
		}
	}
	return s.fixed, nil
}

func TestGeneratePopulatesAllFiveSections(t *testing.T) {
	caller := &stubCaller{fixed: "STUB"}
	report, err := NewGenerator(caller).Generate(context.Background(), "Widget X reduces latency.")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(report) != 5 {
		t.Fatalf("expected 5 sections, got %d", len(report))
	}
	for _, key := range SectionOrder {
		if report[key] != "STUB" {
			t.Fatalf("section %s: got %q, want STUB", key, report[key])
		}
	}
}

func TestGeneratePromptIsTextBlankLineInstruction(t *testing.T) {
	caller := &stubCaller{fixed: "ok"}
	if _, err := NewGenerator(caller).Generate(context.Background(), "Widget X."); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(caller.prompts) != 5 {
		t.Fatalf("expected 5 prompts, got %d", len(caller.prompts))
	}
	for i, key := range SectionOrder {
		want := "Widget X.\n\n" + sectionPrompts[key]
		if caller.prompts[i] != want {
			t.Fatalf("prompt %d:\ngot  %q\nwant %q", i, caller.prompts[i], want)
		}
	}
}

func TestGenerateEmptyCompletionSubstitutesPlaceholder(t *testing.T) {
	caller := &stubCaller{
		fixed:     "real text",
		responses: map[string]string{sectionPrompts[SectionMarketReport]: "   \n"},
	}
	report, err := NewGenerator(caller).Generate(context.Background(), "Widget X.")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report[SectionMarketReport] != placeholderResponse {
		t.Fatalf("got %q, want placeholder", report[SectionMarketReport])
	}
	if report[SectionSummary] != "real text" {
		t.Fatalf("unaffected section changed: %q", report[SectionSummary])
	}
}

func TestGenerateTransportErrorDiscardsBatch(t *testing.T) {
	caller := &stubCaller{err: errors.New("429 rate limited")}
	report, err := NewGenerator(caller).Generate(context.Background(), "Widget X.")
	if report != nil {
		t.Fatalf("expected no report on transport failure, got %v", report)
	}
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError, got %v", err)
	}
	// The first section fails; nothing else should have been attempted beyond it.
	if len(caller.prompts) != 1 {
		t.Fatalf("expected 1 attempted prompt, got %d", len(caller.prompts))
	}
}

func TestReportArtifactFormat(t *testing.T) {
	report := Report{}
	for _, key := range SectionOrder {
		report[key] = "text for " + string(key)
	}
	artifact := report.Artifact()

	for _, key := range SectionOrder {
		section := strings.ToUpper(string(key)) + ":\n\ntext for " + string(key) + "\n\n" + strings.Repeat("-", 50) + "\n\n"
		if !strings.Contains(artifact, section) {
			t.Fatalf("artifact missing serialized section for %s:\n%s", key, artifact)
		}
	}
	// Sections appear in declared order.
	last := -1
	for _, key := range SectionOrder {
		idx := strings.Index(artifact, strings.ToUpper(string(key))+":")
		if idx <= last {
			t.Fatalf("section %s out of order at %d (previous %d)", key, idx, last)
		}
		last = idx
	}
}

func TestSectionLabels(t *testing.T) {
	if SectionPotentialCustomers.Label() != "Potential Customers" {
		t.Fatalf("unexpected label: %q", SectionPotentialCustomers.Label())
	}
	for _, key := range SectionOrder {
		if key.Label() == "" {
			t.Fatalf("missing label for %s", key)
		}
	}
}

func TestNewAnthropicCallerRequiresKey(t *testing.T) {
	if _, err := NewAnthropicCaller("  "); err == nil {
		t.Fatal("expected error for blank API key")
	}
}
