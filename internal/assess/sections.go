package assess

import "strings"

// SectionKey identifies one of the five fixed report sections. The set is
// closed and never extended at runtime.
type SectionKey string

const (
	SectionSummary            SectionKey = "summary"
	SectionPotentialCustomers SectionKey = "potential_customers"
	SectionMarketReport       SectionKey = "market_report"
	SectionSimilarProducts    SectionKey = "similar_products"
	SectionProvisionalPatent  SectionKey = "provisional_patent"
)

// SectionOrder is the fixed iteration order for generation and serialization.
// The order carries no semantic weight but keeps logs and artifacts
// reproducible.
var SectionOrder = []SectionKey{
	SectionSummary,
	SectionPotentialCustomers,
	SectionMarketReport,
	SectionSimilarProducts,
	SectionProvisionalPatent,
}

var sectionLabels = map[SectionKey]string{
	SectionSummary:            "Summary",
	SectionPotentialCustomers: "Potential Customers",
	SectionMarketReport:       "Market Report",
	SectionSimilarProducts:    "Similar Products",
	SectionProvisionalPatent:  "Provisional Patent Draft",
}

// Label returns the human-readable heading for a section.
func (k SectionKey) Label() string {
	return sectionLabels[k]
}

// Report maps each section key to its generated text. A Report is created
// with all five keys present or not at all.
type Report map[SectionKey]string

const artifactSeparator = "--------------------------------------------------"

// Artifact serializes the report for email attachment: for each section an
// uppercase label line, a blank line, the section text, a blank line, and a
// fixed-width separator line.
func (r Report) Artifact() string {
	var sb strings.Builder
	for _, key := range SectionOrder {
		sb.WriteString(strings.ToUpper(string(key)))
		sb.WriteString(":\n\n")
		sb.WriteString(r[key])
		sb.WriteString("\n\n")
		sb.WriteString(artifactSeparator)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
