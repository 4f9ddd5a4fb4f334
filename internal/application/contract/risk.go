package contract

import (
	"strings"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
)

// RiskWeights are the additive contributions of each rule.
type RiskWeights struct {
	Base             int
	LowRiskLocation  int
	HighRiskLocation int
	OtherLocation    int
	HighValue        int
	Commercial       int
	Land             int
	Luxury           int
	DefaultProperty  int
	Urgency          int
	NotDecisionMaker int
	MaxScore         int
}

// DefaultRiskWeights returns the production weights.
func DefaultRiskWeights() RiskWeights {
	return RiskWeights{
		Base:             10,
		LowRiskLocation:  5,
		HighRiskLocation: 20,
		OtherLocation:    10,
		HighValue:        15,
		Commercial:       25,
		Land:             30,
		Luxury:           20,
		DefaultProperty:  5,
		Urgency:          15,
		NotDecisionMaker: 10,
		MaxScore:         100,
	}
}

var (
	defaultLowRiskDistricts = []string{
		"new cairo", "sheikh zayed", "maadi", "zamalek", "6th of october",
		"new administrative capital", "rehab",
	}
	// Districts with legacy or fragmented ownership records.
	defaultHighRiskDistricts = []string{
		"downtown", "old cairo", "islamic cairo", "shubra", "imbaba", "bulaq",
	}
)

// Risk factor and recommendation texts.
const (
	FactorComplexOwnership   = "Property located in an area with complex ownership history"
	FactorCommercialLicense  = "Commercial property requires licensing and zoning verification"
	FactorLandSurvey         = "Land transactions require a mandatory survey and title verification"
	FactorLuxuryRestrictions = "Luxury property may be subject to covenant and HOA restrictions"

	RecommendVerifyTitle        = "Verify title deed and full ownership chain with the real estate registry"
	RecommendHighValueReview    = "High-value transaction: obtain additional legal review before signing"
	RecommendUrgentDocs         = "Verify all ownership documentation despite the urgent timeline"
	RecommendOwnerAuthorization = "Obtain written authorization from the property owner"
)

// RiskEngine scores a lead. It holds no mutable state and is safe for
// concurrent use.
type RiskEngine struct {
	weights  RiskWeights
	lowRisk  []string
	highRisk []string
}

// RiskOption customizes a RiskEngine.
type RiskOption func(*RiskEngine)

func WithRiskWeights(w RiskWeights) RiskOption {
	return func(e *RiskEngine) { e.weights = w }
}

// WithDistricts replaces the curated district lists. Matching is a
// case-insensitive substring test.
func WithDistricts(lowRisk, highRisk []string) RiskOption {
	return func(e *RiskEngine) {
		e.lowRisk = lowerAll(lowRisk)
		e.highRisk = lowerAll(highRisk)
	}
}

func NewRiskEngine(opts ...RiskOption) *RiskEngine {
	e := &RiskEngine{
		weights:  DefaultRiskWeights(),
		lowRisk:  defaultLowRiskDistricts,
		highRisk: defaultHighRiskDistricts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assess applies every rule in a fixed order and clamps the total to
// [0, MaxScore]. It is pure and total.
func (e *RiskEngine) Assess(lead *domainContract.Lead) domainContract.RiskAssessment {
	w := e.weights
	score := w.Base
	factors := []string{}
	recommendations := []string{}

	if lead == nil {
		lead = &domainContract.Lead{IsDecisionMaker: true}
	}

	switch e.classifyLocation(lead.Location) {
	case locationHigh:
		score += w.HighRiskLocation
		factors = append(factors, FactorComplexOwnership)
		recommendations = append(recommendations, RecommendVerifyTitle)
	case locationLow:
		score += w.LowRiskLocation
	default:
		score += w.OtherLocation
	}

	if HasMillionMarker(lead.PriceRange) {
		score += w.HighValue
		recommendations = append(recommendations, RecommendHighValueReview)
	}

	switch strings.ToLower(strings.TrimSpace(lead.PropertyType)) {
	case "commercial":
		score += w.Commercial
		factors = append(factors, FactorCommercialLicense)
	case "land":
		score += w.Land
		factors = append(factors, FactorLandSurvey)
	case "luxury":
		score += w.Luxury
		factors = append(factors, FactorLuxuryRestrictions)
	default:
		score += w.DefaultProperty
	}

	if strings.Contains(strings.ToLower(lead.Urgency), "emergency") ||
		strings.Contains(strings.ToLower(lead.Timeline), "immediate") {
		score += w.Urgency
		recommendations = append(recommendations, RecommendUrgentDocs)
	}

	if !lead.IsDecisionMaker {
		score += w.NotDecisionMaker
		recommendations = append(recommendations, RecommendOwnerAuthorization)
	}

	score = clamp(score, 0, w.MaxScore)
	return domainContract.RiskAssessment{
		Score:           score,
		Level:           domainContract.RiskLevelFor(score),
		Factors:         factors,
		Recommendations: recommendations,
	}
}

type locationClass int

const (
	locationOther locationClass = iota
	locationLow
	locationHigh
)

// classifyLocation checks the high-risk list first so that an address naming
// both kinds of district is treated conservatively.
func (e *RiskEngine) classifyLocation(location string) locationClass {
	loc := strings.ToLower(location)
	if strings.TrimSpace(loc) == "" {
		return locationOther
	}
	for _, d := range e.highRisk {
		if strings.Contains(loc, d) {
			return locationHigh
		}
	}
	for _, d := range e.lowRisk {
		if strings.Contains(loc, d) {
			return locationLow
		}
	}
	return locationOther
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

//Personal.AI order the ending
