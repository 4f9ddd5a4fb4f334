package contract

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

// Platform defaults applied when neither overrides nor the lead supply a value.
var (
	DefaultCommissionRate = decimal.RequireFromString("2.5")
)

const (
	DefaultDurationMonths        = 6
	DefaultTerminationNoticeDays = 30
	DefaultViewingNoticeHours    = 24
	DefaultDisputeResolution     = "mediation"
	DefaultJurisdiction          = "Egypt"
	DefaultCurrency              = "EGP"
	DefaultPaymentTerms          = "Payable in full upon signing of the final sale or lease contract"
	DefaultPaymentDueDays        = 14

	maxDurationMonths = 120
	idSuffixLength    = 6
)

// MarketingOverrides flips individual marketing permissions. Nil keeps the
// permissive default.
type MarketingOverrides struct {
	ListOnPlatform *bool `json:"list_on_platform,omitempty"`
	Photography    *bool `json:"photography,omitempty"`
	VirtualTour    *bool `json:"virtual_tour,omitempty"`
	SocialMedia    *bool `json:"social_media,omitempty"`
	Signage        *bool `json:"signage,omitempty"`
	OpenHouse      *bool `json:"open_house,omitempty"`
}

// Overrides are operator-supplied values that take priority over anything
// derived from the lead.
type Overrides struct {
	ClientName       *string `json:"client_name,omitempty"`
	ClientEmail      *string `json:"client_email,omitempty"`
	ClientPhone      *string `json:"client_phone,omitempty"`
	ClientNationalID *string `json:"client_national_id,omitempty"`
	ClientAddress    *string `json:"client_address,omitempty"`

	PropertyLocation *string          `json:"property_location,omitempty"`
	PropertyType     *string          `json:"property_type,omitempty"`
	PropertySize     *string          `json:"property_size,omitempty"`
	EstimatedValue   *decimal.Decimal `json:"estimated_value,omitempty"`
	Currency         *string          `json:"currency,omitempty"`

	StartDate             *time.Time `json:"start_date,omitempty"`
	DurationMonths        *int       `json:"duration_months,omitempty"`
	TerminationNoticeDays *int       `json:"termination_notice_days,omitempty"`
	ViewingNoticeHours    *int       `json:"viewing_notice_hours,omitempty"`

	CommissionRate *decimal.Decimal `json:"commission_rate,omitempty"`
	PaymentTerms   *string          `json:"payment_terms,omitempty"`
	PaymentDueDays *int             `json:"payment_due_days,omitempty"`

	Jurisdiction      *string `json:"jurisdiction,omitempty"`
	DisputeResolution *string `json:"dispute_resolution,omitempty"`

	Marketing          *MarketingOverrides `json:"marketing,omitempty"`
	AdditionalServices []string            `json:"additional_services,omitempty"`
	SpecialConditions  *string             `json:"special_conditions,omitempty"`
}

// Validate rejects overrides that cannot produce a coherent contract.
func (o *Overrides) Validate() error {
	if o == nil {
		return nil
	}
	if o.DurationMonths != nil && (*o.DurationMonths < 1 || *o.DurationMonths > maxDurationMonths) {
		return assemblyError("duration_months must be between 1 and %d", maxDurationMonths)
	}
	if o.CommissionRate != nil && (o.CommissionRate.IsNegative() || o.CommissionRate.GreaterThan(decimal.NewFromInt(100))) {
		return assemblyError("commission_rate must be within [0,100]")
	}
	if o.EstimatedValue != nil && o.EstimatedValue.IsNegative() {
		return assemblyError("estimated_value must not be negative")
	}
	if o.TerminationNoticeDays != nil && *o.TerminationNoticeDays < 0 {
		return assemblyError("termination_notice_days must not be negative")
	}
	if o.ViewingNoticeHours != nil && *o.ViewingNoticeHours < 0 {
		return assemblyError("viewing_notice_hours must not be negative")
	}
	if o.PaymentDueDays != nil && *o.PaymentDueDays < 0 {
		return assemblyError("payment_due_days must not be negative")
	}
	if o.StartDate != nil && o.StartDate.IsZero() {
		return assemblyError("start_date must be a valid date")
	}
	return nil
}

func assemblyError(format string, args ...interface{}) error {
	return errors.New(errors.ErrCodeAssemblyFailed, "contract assembly failed").
		WithDetail(fmt.Sprintf(format, args...))
}

// Assembler builds ContractData from a lead, a template and overrides.
type Assembler struct {
	catalog     *TemplateCatalog
	prefix      string
	generatedBy string
	now         func() time.Time
	suffix      func() string
}

// AssemblerOption customizes an Assembler.
type AssemblerOption func(*Assembler)

// WithClock replaces the time source used for start dates and ids.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) { a.now = now }
}

// WithIDSuffix replaces the random id suffix generator.
func WithIDSuffix(fn func() string) AssemblerOption {
	return func(a *Assembler) { a.suffix = fn }
}

func NewAssembler(catalog *TemplateCatalog, idPrefix, generatedBy string, opts ...AssemblerOption) *Assembler {
	if catalog == nil {
		catalog = DefaultTemplateCatalog()
	}
	a := &Assembler{
		catalog:     catalog,
		prefix:      idPrefix,
		generatedBy: generatedBy,
		now:         time.Now,
		suffix:      randomBase36,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Catalog exposes the template catalog used by the assembler.
func (a *Assembler) Catalog() *TemplateCatalog { return a.catalog }

// Assemble resolves every field as overrides → lead → platform default.
func (a *Assembler) Assemble(lead *domainContract.Lead, contractType domainContract.Type, overrides *Overrides) (domainContract.ContractData, error) {
	if lead == nil {
		return domainContract.ContractData{}, assemblyError("lead is required")
	}
	meta, err := a.catalog.Lookup(contractType)
	if err != nil {
		return domainContract.ContractData{}, err
	}
	if err := overrides.Validate(); err != nil {
		return domainContract.ContractData{}, err
	}
	if overrides == nil {
		overrides = &Overrides{}
	}

	now := a.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if overrides.StartDate != nil {
		s := overrides.StartDate.UTC()
		start = time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	}
	duration := intOr(overrides.DurationMonths, DefaultDurationMonths)

	estimated := ParsePriceRange(lead.PriceRange)
	if overrides.EstimatedValue != nil {
		estimated = *overrides.EstimatedValue
	}
	currency := strOr(overrides.Currency, CurrencyOf(lead.PriceRange, DefaultCurrency))
	rate := DefaultCommissionRate
	if overrides.CommissionRate != nil {
		rate = *overrides.CommissionRate
	}

	authorityNote := "The client confirms they are the owner or sole decision-maker for the property."
	if !lead.IsDecisionMaker {
		authorityNote = "The client acts on behalf of the owner; written owner authorization must be attached."
	}

	data := domainContract.ContractData{
		ContractID:      a.newContractID(now),
		ContractType:    contractType,
		TemplateID:      meta.ID,
		TemplateTitle:   meta.Title,
		TemplateVersion: meta.Version,
		GeneratedAt:     now,
		GeneratedBy:     a.generatedBy,
		LeadID:          lead.ID,
		Client: domainContract.ClientBlock{
			FullName:      strOr(overrides.ClientName, lead.FullName, domainContract.NotSpecified),
			Email:         strOr(overrides.ClientEmail, lead.Email, domainContract.NotSpecified),
			Phone:         strOr(overrides.ClientPhone, lead.Phone, domainContract.NotSpecified),
			NationalID:    strOr(overrides.ClientNationalID, domainContract.ToBeDetermined),
			Address:       strOr(overrides.ClientAddress, domainContract.NotSpecified),
			AuthorityNote: authorityNote,
		},
		Property: domainContract.PropertyBlock{
			Location:       strOr(overrides.PropertyLocation, lead.Location, domainContract.NotSpecified),
			Type:           strOr(overrides.PropertyType, lead.PropertyType, "residential"),
			Size:           strOr(overrides.PropertySize, lead.PropertySize, domainContract.NotSpecified),
			Condition:      strOr(nil, lead.PropertyCondition, domainContract.NotSpecified),
			PriceRange:     strOr(nil, lead.PriceRange, domainContract.ToBeDetermined),
			EstimatedValue: estimated,
			Currency:       currency,
		},
		Terms: domainContract.TermBlock{
			DurationMonths:        duration,
			StartDate:             start,
			EndDate:               start.AddDate(0, duration, 0),
			TerminationNoticeDays: intOr(overrides.TerminationNoticeDays, DefaultTerminationNoticeDays),
			ViewingNoticeHours:    intOr(overrides.ViewingNoticeHours, DefaultViewingNoticeHours),
		},
		Marketing: resolveMarketing(overrides.Marketing),
		Commission: domainContract.CommissionBlock{
			RatePercent:    rate,
			Amount:         estimated.Mul(rate).Div(decimal.NewFromInt(100)).Round(2),
			Currency:       currency,
			PaymentTerms:   strOr(overrides.PaymentTerms, DefaultPaymentTerms),
			PaymentDueDays: intOr(overrides.PaymentDueDays, DefaultPaymentDueDays),
		},
		Legal: domainContract.LegalBlock{
			Jurisdiction:      strOr(overrides.Jurisdiction, meta.Jurisdiction, DefaultJurisdiction),
			GoverningLaw:      strOr(nil, meta.GoverningLaw, domainContract.NotSpecified),
			DisputeResolution: strOr(overrides.DisputeResolution, DefaultDisputeResolution),
		},
		AdditionalServices: domainContract.AdditionalServices{
			Services:          defaultServices(contractType, overrides.AdditionalServices),
			SpecialConditions: strOr(overrides.SpecialConditions, "None"),
		},
	}
	return data, nil
}

// newContractID returns {prefix}-{epoch_millis}-{6 base36 chars}.
func (a *Assembler) newContractID(now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", a.prefix, now.UnixMilli(), strings.ToUpper(a.suffix()))
}

func randomBase36() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		buf = [8]byte{byte(time.Now().UnixNano())}
	}
	// 36^6 fits comfortably in the low bits of a uint64.
	n := binary.BigEndian.Uint64(buf[:]) % 2176782336
	s := strconv.FormatUint(n, 36)
	return strings.Repeat("0", idSuffixLength-len(s)) + s
}

func resolveMarketing(o *MarketingOverrides) domainContract.MarketingAuthorization {
	if o == nil {
		o = &MarketingOverrides{}
	}
	return domainContract.MarketingAuthorization{
		ListOnPlatform: boolOr(o.ListOnPlatform, true),
		Photography:    boolOr(o.Photography, true),
		VirtualTour:    boolOr(o.VirtualTour, true),
		SocialMedia:    boolOr(o.SocialMedia, true),
		Signage:        boolOr(o.Signage, true),
		OpenHouse:      boolOr(o.OpenHouse, true),
	}
}

func defaultServices(t domainContract.Type, requested []string) []string {
	if len(requested) > 0 {
		out := make([]string, 0, len(requested))
		for _, s := range requested {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	switch t {
	case domainContract.TypeRentalMandate:
		return []string{"Tenant screening", "Lease drafting", "Rent collection reporting"}
	case domainContract.TypeSaleMandate:
		return []string{"Buyer qualification", "Negotiation support", "Closing coordination"}
	default:
		return []string{"Professional photography", "Listing promotion", "Viewing coordination"}
	}
}

// strOr returns the override when set and non-blank, else the first
// non-blank fallback.
func strOr(override *string, fallbacks ...string) string {
	if override != nil && strings.TrimSpace(*override) != "" {
		return strings.TrimSpace(*override)
	}
	for _, f := range fallbacks {
		if strings.TrimSpace(f) != "" {
			return strings.TrimSpace(f)
		}
	}
	return domainContract.NotSpecified
}

func intOr(override *int, def int) int {
	if override != nil {
		return *override
	}
	return def
}

func boolOr(override *bool, def bool) bool {
	if override != nil {
		return *override
	}
	return def
}

//Personal.AI order the ending
