package review

import (
	"fmt"
	"strings"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
)

const reviewSystemPrompt = `You are a senior real-estate contracts lawyer reviewing property-service agreements.
Assess the agreement for legal compliance with the stated jurisdiction, completeness of the required clauses,
and risks to either party. Respond with a single JSON object and nothing else, using exactly these keys:
{
  "confidence_score": integer 0-100, your confidence that the agreement is sound and can be signed as-is,
  "risk_factors": [string],
  "recommendations": [string],
  "warnings": [string],
  "compliance_check": {"<check name>": {"passed": boolean, "note": string}}
}`

const draftSystemPrompt = `You draft optional clauses for real-estate property-service agreements.
Respond with a single JSON object {"clauses": [string]} containing at most five short, self-contained clauses
appropriate for the agreement described. Do not repeat clauses already present in the template.`

// buildReviewPrompt renders the user prompt for a legal review.
func buildReviewPrompt(data domainContract.ContractData, meta domainContract.TemplateMeta, lead *domainContract.Lead) string {
	var b strings.Builder
	writeTemplate(&b, meta)
	writeContract(&b, data)
	if lead != nil {
		b.WriteString("\nLEAD CONTEXT\n")
		fmt.Fprintf(&b, "- Timeline: %s\n", orNA(lead.Timeline))
		fmt.Fprintf(&b, "- Urgency: %s\n", orNA(lead.Urgency))
		fmt.Fprintf(&b, "- Contact is decision-maker: %t\n", lead.IsDecisionMaker)
	}
	b.WriteString("\nReturn the JSON review now.")
	return b.String()
}

func buildDraftPrompt(data domainContract.ContractData, meta domainContract.TemplateMeta) string {
	var b strings.Builder
	writeTemplate(&b, meta)
	writeContract(&b, data)
	b.WriteString("\nReturn the JSON object with proposed clauses now.")
	return b.String()
}

func writeTemplate(b *strings.Builder, meta domainContract.TemplateMeta) {
	b.WriteString("TEMPLATE\n")
	fmt.Fprintf(b, "- %s (id %s, version %s)\n", meta.Title, meta.ID, meta.Version)
	fmt.Fprintf(b, "- Jurisdiction: %s; governing law: %s\n", orNA(meta.Jurisdiction), orNA(meta.GoverningLaw))
	fmt.Fprintf(b, "- Exclusive: %t\n", meta.Exclusive)
	if len(meta.RequiredClauses) > 0 {
		fmt.Fprintf(b, "- Required clauses: %s\n", strings.Join(meta.RequiredClauses, ", "))
	}
}

func writeContract(b *strings.Builder, d domainContract.ContractData) {
	b.WriteString("\nAGREEMENT\n")
	fmt.Fprintf(b, "- Contract id: %s, type: %s\n", d.ContractID, d.ContractType)
	fmt.Fprintf(b, "- Client: %s; %s\n", d.Client.FullName, d.Client.AuthorityNote)
	fmt.Fprintf(b, "- Property: %s in %s, size %s, condition %s\n",
		d.Property.Type, d.Property.Location, d.Property.Size, d.Property.Condition)
	fmt.Fprintf(b, "- Price range: %s (estimated %s %s)\n",
		d.Property.PriceRange, d.Property.EstimatedValue.StringFixed(0), d.Property.Currency)
	fmt.Fprintf(b, "- Term: %d months from %s to %s; termination notice %d days; viewing notice %d hours\n",
		d.Terms.DurationMonths, d.Terms.StartDate.Format("2006-01-02"), d.Terms.EndDate.Format("2006-01-02"),
		d.Terms.TerminationNoticeDays, d.Terms.ViewingNoticeHours)
	fmt.Fprintf(b, "- Commission: %s%% (%s %s), %s\n",
		d.Commission.RatePercent.String(), d.Commission.Amount.StringFixed(2), d.Commission.Currency, d.Commission.PaymentTerms)
	m := d.Marketing
	fmt.Fprintf(b, "- Marketing authorizations: platform=%t photography=%t virtual_tour=%t social=%t signage=%t open_house=%t\n",
		m.ListOnPlatform, m.Photography, m.VirtualTour, m.SocialMedia, m.Signage, m.OpenHouse)
	fmt.Fprintf(b, "- Jurisdiction: %s; dispute resolution: %s\n", d.Legal.Jurisdiction, d.Legal.DisputeResolution)
	if len(d.AdditionalServices.Services) > 0 {
		fmt.Fprintf(b, "- Additional services: %s\n", strings.Join(d.AdditionalServices.Services, ", "))
	}
	fmt.Fprintf(b, "- Special conditions: %s\n", d.AdditionalServices.SpecialConditions)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "n/a"
	}
	return s
}

//Personal.AI order the ending
