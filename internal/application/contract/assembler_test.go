package contract

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

var fixedNow = time.Date(2024, 1, 31, 15, 4, 5, 0, time.UTC)

func newTestAssembler() *Assembler {
	return NewAssembler(DefaultTemplateCatalog(), "PMC", "contractpilot-test",
		WithClock(func() time.Time { return fixedNow }),
		WithIDSuffix(func() string { return "a1b2c3" }),
	)
}

func sampleLead() *domainContract.Lead {
	return &domainContract.Lead{
		ID:              "lead-1",
		FullName:        "Mona Hassan",
		Email:           "mona@example.com",
		Phone:           "+20 100 000 0000",
		Location:        "Maadi",
		PropertyType:    "apartment",
		PropertySize:    "180 sqm",
		PriceRange:      "2.5M EGP",
		IsDecisionMaker: true,
	}
}

func ptr[T any](v T) *T { return &v }

func TestAssemble_Defaults(t *testing.T) {
	data, err := newTestAssembler().Assemble(sampleLead(), domainContract.TypeExclusiveMarketing, nil)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("PMC-%d-A1B2C3", fixedNow.UnixMilli()), data.ContractID)
	assert.Equal(t, "tpl-exclusive-marketing-v3", data.TemplateID)
	assert.Equal(t, "contractpilot-test", data.GeneratedBy)
	assert.Equal(t, "lead-1", data.LeadID)

	assert.Equal(t, "Mona Hassan", data.Client.FullName)
	assert.Equal(t, domainContract.ToBeDetermined, data.Client.NationalID)
	assert.Equal(t, domainContract.NotSpecified, data.Client.Address)
	assert.Equal(t, domainContract.NotSpecified, data.Property.Condition)

	assert.True(t, decimal.NewFromInt(2_500_000).Equal(data.Property.EstimatedValue))
	assert.Equal(t, "EGP", data.Property.Currency)
	assert.True(t, DefaultCommissionRate.Equal(data.Commission.RatePercent))
	assert.True(t, decimal.NewFromInt(62_500).Equal(data.Commission.Amount))

	assert.Equal(t, DefaultDurationMonths, data.Terms.DurationMonths)
	assert.Equal(t, 30, data.Terms.TerminationNoticeDays)
	assert.Equal(t, 24, data.Terms.ViewingNoticeHours)
	assert.Equal(t, "mediation", data.Legal.DisputeResolution)
	assert.Equal(t, "Egypt", data.Legal.Jurisdiction)

	assert.Equal(t, domainContract.MarketingAuthorization{
		ListOnPlatform: true, Photography: true, VirtualTour: true,
		SocialMedia: true, Signage: true, OpenHouse: true,
	}, data.Marketing)
	assert.NotEmpty(t, data.AdditionalServices.Services)
}

func TestAssemble_OverridesWin(t *testing.T) {
	start := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	o := &Overrides{
		ClientName:         ptr("Omar Khaled"),
		StartDate:          &start,
		DurationMonths:     ptr(12),
		CommissionRate:     ptr(decimal.RequireFromString("3")),
		EstimatedValue:     ptr(decimal.NewFromInt(1_000_000)),
		DisputeResolution:  ptr("arbitration"),
		Jurisdiction:       ptr("UAE"),
		Marketing:          &MarketingOverrides{SocialMedia: ptr(false), Signage: ptr(false)},
		AdditionalServices: []string{" staging ", ""},
	}
	data, err := newTestAssembler().Assemble(sampleLead(), domainContract.TypeSaleMandate, o)
	require.NoError(t, err)

	assert.Equal(t, "Omar Khaled", data.Client.FullName)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), data.Terms.StartDate)
	assert.Equal(t, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), data.Terms.EndDate)
	assert.True(t, decimal.NewFromInt(30_000).Equal(data.Commission.Amount))
	assert.Equal(t, "arbitration", data.Legal.DisputeResolution)
	assert.Equal(t, "UAE", data.Legal.Jurisdiction)
	assert.False(t, data.Marketing.SocialMedia)
	assert.False(t, data.Marketing.Signage)
	assert.True(t, data.Marketing.Photography)
	assert.Equal(t, []string{"staging"}, data.AdditionalServices.Services)
}

func TestAssemble_BlankOverrideFallsBackToLead(t *testing.T) {
	data, err := newTestAssembler().Assemble(sampleLead(), domainContract.TypeExclusiveMarketing,
		&Overrides{ClientName: ptr("   ")})
	require.NoError(t, err)
	assert.Equal(t, "Mona Hassan", data.Client.FullName)
}

func TestAssemble_EndDateAddsDuration(t *testing.T) {
	start := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, months := range []int{1, 6, 12, 24} {
		t.Run(fmt.Sprintf("%d months", months), func(t *testing.T) {
			data, err := newTestAssembler().Assemble(sampleLead(), domainContract.TypeExclusiveMarketing,
				&Overrides{StartDate: &start, DurationMonths: ptr(months)})
			require.NoError(t, err)
			assert.Equal(t, data.Terms.StartDate.AddDate(0, months, 0), data.Terms.EndDate)
			assert.Equal(t, months, data.Terms.DurationMonths)
		})
	}
}

func TestAssemble_MissingLeadFields(t *testing.T) {
	data, err := newTestAssembler().Assemble(&domainContract.Lead{ID: "lead-empty"}, domainContract.TypeRentalMandate, nil)
	require.NoError(t, err)

	assert.Equal(t, domainContract.NotSpecified, data.Client.FullName)
	assert.Equal(t, domainContract.NotSpecified, data.Property.Location)
	assert.Equal(t, domainContract.ToBeDetermined, data.Property.PriceRange)
	assert.True(t, data.Property.EstimatedValue.IsZero())
	assert.True(t, data.Commission.Amount.IsZero())
	assert.Contains(t, data.Client.AuthorityNote, "on behalf of the owner")
}

func TestAssemble_Errors(t *testing.T) {
	a := newTestAssembler()

	_, err := a.Assemble(nil, domainContract.TypeExclusiveMarketing, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAssemblyFailed))

	_, err = a.Assemble(sampleLead(), "barter", nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownContractType))

	bad := []*Overrides{
		{DurationMonths: ptr(0)},
		{DurationMonths: ptr(500)},
		{CommissionRate: ptr(decimal.NewFromInt(-1))},
		{CommissionRate: ptr(decimal.NewFromInt(101))},
		{EstimatedValue: ptr(decimal.NewFromInt(-5))},
		{TerminationNoticeDays: ptr(-1)},
		{ViewingNoticeHours: ptr(-1)},
		{PaymentDueDays: ptr(-3)},
		{StartDate: &time.Time{}},
	}
	for i, o := range bad {
		_, err := a.Assemble(sampleLead(), domainContract.TypeExclusiveMarketing, o)
		assert.True(t, errors.IsCode(err, errors.ErrCodeAssemblyFailed), "case %d", i)
	}
}

func TestContractID_Format(t *testing.T) {
	a := NewAssembler(nil, "PMC", "test")
	pattern := regexp.MustCompile(`^PMC-\d{13}-[0-9A-Z]{6}$`)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		data, err := a.Assemble(sampleLead(), domainContract.TypeExclusiveMarketing, nil)
		require.NoError(t, err)
		assert.Regexp(t, pattern, data.ContractID)
		seen[data.ContractID] = true
	}
	assert.Greater(t, len(seen), 190)
}

//Personal.AI order the ending
