package contract

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type identifies the agreement template family.
type Type string

const (
	TypeExclusiveMarketing    Type = "exclusive_marketing"
	TypeNonExclusiveMarketing Type = "non_exclusive_marketing"
	TypeSaleMandate           Type = "sale_mandate"
	TypeRentalMandate         Type = "rental_mandate"
)

// Placeholder tokens rendered in place of absent values.
const (
	NotSpecified   = "Not specified"
	ToBeDetermined = "To be determined"
)

// ContractData is the fully resolved model of a property-service agreement.
// A value is created once per request by the assembler and never modified;
// copies returned by With* helpers keep the same ContractID.
type ContractData struct {
	ContractID      string    `json:"contract_id"`
	ContractType    Type      `json:"contract_type"`
	TemplateID      string    `json:"template_id"`
	TemplateTitle   string    `json:"template_title"`
	TemplateVersion string    `json:"template_version"`
	GeneratedAt     time.Time `json:"generated_at"`
	GeneratedBy     string    `json:"generated_by"`
	LeadID          string    `json:"lead_id"`

	Client             ClientBlock            `json:"client"`
	Property           PropertyBlock          `json:"property"`
	Terms              TermBlock              `json:"terms"`
	Marketing          MarketingAuthorization `json:"marketing"`
	Commission         CommissionBlock        `json:"commission"`
	Legal              LegalBlock             `json:"legal"`
	AdditionalServices AdditionalServices     `json:"additional_services"`
}

type ClientBlock struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	NationalID string `json:"national_id"`
	Address    string `json:"address"`
	// AuthorityNote records who signs when the contact is not the owner.
	AuthorityNote string `json:"authority_note"`
}

type PropertyBlock struct {
	Location       string          `json:"location"`
	Type           string          `json:"type"`
	Size           string          `json:"size"`
	Condition      string          `json:"condition"`
	PriceRange     string          `json:"price_range"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	Currency       string          `json:"currency"`
}

type TermBlock struct {
	DurationMonths int       `json:"duration_months"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	// TerminationNoticeDays is the written notice either party gives to end the agreement.
	TerminationNoticeDays int `json:"termination_notice_days"`
	// ViewingNoticeHours is the notice the agent gives the owner before a viewing.
	ViewingNoticeHours int `json:"viewing_notice_hours"`
}

// MarketingAuthorization holds the six opt-out marketing permissions.
type MarketingAuthorization struct {
	ListOnPlatform bool `json:"list_on_platform"`
	Photography    bool `json:"photography"`
	VirtualTour    bool `json:"virtual_tour"`
	SocialMedia    bool `json:"social_media"`
	Signage        bool `json:"signage"`
	OpenHouse      bool `json:"open_house"`
}

type CommissionBlock struct {
	RatePercent    decimal.Decimal `json:"rate_percent"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PaymentTerms   string          `json:"payment_terms"`
	PaymentDueDays int             `json:"payment_due_days"`
}

type LegalBlock struct {
	Jurisdiction      string `json:"jurisdiction"`
	GoverningLaw      string `json:"governing_law"`
	DisputeResolution string `json:"dispute_resolution"`
}

type AdditionalServices struct {
	Services          []string `json:"services"`
	SpecialConditions string   `json:"special_conditions"`
	// DraftedClauses are optional clauses proposed by AI-assisted drafting.
	DraftedClauses []string `json:"drafted_clauses,omitempty"`
}

// WithDraftedClauses returns a copy carrying clauses. The receiver is unchanged.
func (d ContractData) WithDraftedClauses(clauses []string) ContractData {
	out := d
	out.AdditionalServices.Services = append([]string(nil), d.AdditionalServices.Services...)
	out.AdditionalServices.DraftedClauses = append([]string(nil), clauses...)
	return out
}

//Personal.AI order the ending
