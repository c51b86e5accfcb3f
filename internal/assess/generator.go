// Package assess turns disclosure text into a five-section patentability and
// commercialization report via an LLM endpoint.
package assess

import (
	"context"
	"fmt"
	"strings"
)

// Temperature controls generation randomness. Fixed configuration, not
// tunable per call.
const Temperature = 0.8

// placeholderResponse substitutes for a section when the endpoint returns an
// empty completion.
const placeholderResponse = "No response generated"

var sectionPrompts = map[SectionKey]string{
	SectionSummary:            "Provide a summary of the above information in 50-200 words. Format as plain text, not Markdown.",
	SectionPotentialCustomers: "Based on the above information, list potential customers for this idea. Use plain text bullet points starting with a hyphen and a space.",
	SectionMarketReport:       "Generate a market report based on the above information between 100-500 words. Format as plain text paragraphs.",
	SectionSimilarProducts:    "List similar products related to this idea. Use plain text bullet points starting with a hyphen and a space.",
	SectionProvisionalPatent:  "Draft a provisional patent based on the above information. Format it as plain text with sections labeled Patent_Title, Patent_Abstract, and Patent_Claims.",
}

// GenerationError wraps an LLM transport, auth, or quota failure. When it
// occurs no Report is produced; partial results are discarded.
type GenerationError struct {
	Section SectionKey
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s section: %v", e.Section, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// LLMCaller issues one fresh single-turn completion per call. No conversation
// state is shared between calls.
type LLMCaller interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Generator struct {
	caller LLMCaller
}

func NewGenerator(caller LLMCaller) *Generator {
	return &Generator{caller: caller}
}

// Generate produces a Report for the disclosure text: one independent
// completion per section, prompt = text + blank line + instruction. The batch
// is all-or-nothing — any transport error discards everything — but an empty
// completion for a single section only substitutes the placeholder string.
func (g *Generator) Generate(ctx context.Context, text string) (Report, error) {
	report := make(Report, len(SectionOrder))
	for _, key := range SectionOrder {
		prompt := text + "\n\n" + sectionPrompts[key]
		out, err := g.caller.Complete(ctx, prompt)
		if err != nil {
			return nil, &GenerationError{Section: key, Err: err}
		}
		if strings.TrimSpace(out) == "" {
			out = placeholderResponse
		}
		report[key] = out
	}
	return report, nil
}
