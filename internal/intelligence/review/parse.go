package review

import (
	"encoding/json"
	"math"
	"strings"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
)

// ParseResult is either a parsed review or a parse failure. The zero value
// is a failure.
type ParseResult struct {
	review  *domainContract.AIReview
	failure string
}

func parsed(r domainContract.AIReview) ParseResult { return ParseResult{review: &r} }

func parseFailure(reason string) ParseResult { return ParseResult{failure: reason} }

// Review returns the parsed review and true, or false on a parse failure.
func (p ParseResult) Review() (domainContract.AIReview, bool) {
	if p.review == nil {
		return domainContract.AIReview{}, false
	}
	return *p.review, true
}

// FailureReason is empty for a successful parse.
func (p ParseResult) FailureReason() string {
	if p.review != nil {
		return ""
	}
	if p.failure == "" {
		return "empty parse result"
	}
	return p.failure
}

// ParseReviewOutput extracts a review from model output. It tolerates code
// fences, prose around the JSON object, camelCase keys and list entries given
// as objects. A missing or non-numeric confidence score is a failure.
func ParseReviewOutput(text string) ParseResult {
	obj, ok := extractObject(text)
	if !ok {
		return parseFailure("no JSON object in response")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return parseFailure("invalid JSON: " + err.Error())
	}
	normalized := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		normalized[normalizeKey(k)] = v
	}

	rawScore, ok := normalized["confidencescore"]
	if !ok {
		return parseFailure("confidence_score missing")
	}
	score, ok := parseScore(rawScore)
	if !ok {
		return parseFailure("confidence_score is not a number")
	}

	return parsed(domainContract.AIReview{
		ConfidenceScore: score,
		RiskFactors:     parseStringList(normalized["riskfactors"]),
		Recommendations: parseStringList(normalized["recommendations"]),
		Warnings:        parseStringList(normalized["warnings"]),
		ComplianceCheck: parseCompliance(normalized["compliancecheck"]),
		Source:          domainContract.ReviewSourceAI,
	})
}

// ParseClausesOutput extracts {"clauses": [...]} from a drafting response.
func ParseClausesOutput(text string) ([]string, bool) {
	obj, ok := extractObject(text)
	if !ok {
		return nil, false
	}
	var doc struct {
		Clauses json.RawMessage `json:"clauses"`
	}
	if err := json.Unmarshal([]byte(obj), &doc); err != nil || len(doc.Clauses) == 0 {
		return nil, false
	}
	clauses := parseStringList(doc.Clauses)
	if len(clauses) > 5 {
		clauses = clauses[:5]
	}
	return clauses, len(clauses) > 0
}

func extractObject(text string) (string, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(k))
}

func parseScore(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		if err := json.Unmarshal([]byte(strings.TrimSuffix(strings.TrimSpace(s), "%")), &f); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	// A fractional score in (0,1) is read as a probability.
	if f > 0 && f < 1 {
		f *= 100
	}
	return int(math.Round(math.Max(0, math.Min(100, f)))), true
}

func parseStringList(raw json.RawMessage) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		var single string
		if json.Unmarshal(raw, &single) == nil && strings.TrimSpace(single) != "" {
			out = append(out, strings.TrimSpace(single))
		}
		return out
	}
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}
		var obj map[string]interface{}
		if json.Unmarshal(item, &obj) != nil {
			continue
		}
		for _, key := range []string{"description", "text", "factor", "recommendation", "warning", "message"} {
			if v, ok := obj[key].(string); ok && strings.TrimSpace(v) != "" {
				out = append(out, strings.TrimSpace(v))
				break
			}
		}
	}
	return out
}

func parseCompliance(raw json.RawMessage) map[string]domainContract.ComplianceItem {
	out := map[string]domainContract.ComplianceItem{}
	if len(raw) == 0 {
		return out
	}
	var entries map[string]json.RawMessage
	if json.Unmarshal(raw, &entries) != nil {
		return out
	}
	for name, entry := range entries {
		var b bool
		if json.Unmarshal(entry, &b) == nil {
			out[name] = domainContract.ComplianceItem{Passed: b}
			continue
		}
		var s string
		if json.Unmarshal(entry, &s) == nil {
			lower := strings.ToLower(strings.TrimSpace(s))
			out[name] = domainContract.ComplianceItem{
				Passed: lower == "pass" || lower == "passed" || lower == "compliant" || lower == "ok",
				Note:   s,
			}
			continue
		}
		var item domainContract.ComplianceItem
		if json.Unmarshal(entry, &item) == nil {
			out[name] = item
		}
	}
	return out
}

//Personal.AI order the ending
