package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
)

func TestParseReviewOutput_Valid(t *testing.T) {
	text := "```json\n" + `{
		"confidence_score": 88.6,
		"risk_factors": ["Title chain incomplete", {"description": "No HOA disclosure"}, 42, ""],
		"recommendations": "Attach the registry extract",
		"warnings": [],
		"compliance_check": {
			"jurisdiction": {"passed": true, "note": "Egyptian law cited"},
			"commission_cap": false,
			"signatures": "pass"
		}
	}` + "\n```"

	res := ParseReviewOutput(text)
	review, ok := res.Review()
	require.True(t, ok, res.FailureReason())
	assert.Empty(t, res.FailureReason())

	assert.Equal(t, 89, review.ConfidenceScore)
	assert.Equal(t, []string{"Title chain incomplete", "No HOA disclosure"}, review.RiskFactors)
	assert.Equal(t, []string{"Attach the registry extract"}, review.Recommendations)
	assert.Equal(t, []string{}, review.Warnings)
	assert.Equal(t, domainContract.ReviewSourceAI, review.Source)
	assert.Equal(t, domainContract.ComplianceItem{Passed: true, Note: "Egyptian law cited"}, review.ComplianceCheck["jurisdiction"])
	assert.False(t, review.ComplianceCheck["commission_cap"].Passed)
	assert.True(t, review.ComplianceCheck["signatures"].Passed)
}

func TestParseReviewOutput_Variants(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		score int
	}{
		{"camel case with prose", `Here you go: {"confidenceScore": 93, "riskFactors": []} Thanks.`, 93},
		{"string percentage", `{"confidence_score": "81%"}`, 81},
		{"probability", `{"confidence_score": 0.9}`, 90},
		{"clamped high", `{"confidence_score": 140}`, 100},
		{"clamped low", `{"confidence_score": -3}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review, ok := ParseReviewOutput(tt.text).Review()
			require.True(t, ok)
			assert.Equal(t, tt.score, review.ConfidenceScore)
		})
	}
}

func TestParseReviewOutput_Failures(t *testing.T) {
	for name, text := range map[string]string{
		"plain text":    "The contract looks fine to me.",
		"empty":         "",
		"broken json":   `{"confidence_score": 90,`,
		"missing score": `{"risk_factors": []}`,
		"non numeric":   `{"confidence_score": "high"}`,
	} {
		t.Run(name, func(t *testing.T) {
			res := ParseReviewOutput(text)
			_, ok := res.Review()
			assert.False(t, ok)
			assert.NotEmpty(t, res.FailureReason())
		})
	}

	var zero ParseResult
	_, ok := zero.Review()
	assert.False(t, ok)
	assert.NotEmpty(t, zero.FailureReason())
}

func TestParseClausesOutput(t *testing.T) {
	clauses, ok := ParseClausesOutput(`{"clauses": ["a", "b", "c", "d", "e", "f"]}`)
	require.True(t, ok)
	assert.Len(t, clauses, 5)

	_, ok = ParseClausesOutput(`{"clauses": []}`)
	assert.False(t, ok)
	_, ok = ParseClausesOutput("no json")
	assert.False(t, ok)
}

//Personal.AI order the ending
