package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	appcontract "github.com/turtacn/ContractPilot/internal/application/contract"
	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
)

// NewRiskCmd scores a lead offline. No infrastructure is contacted.
func NewRiskCmd() *cobra.Command {
	var (
		leadFile string
		lead     domainContract.Lead
	)

	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Score the legal risk of a lead",
		Long: "Score a lead described either by a JSON file (--lead-file, \"-\" for stdin)\n" +
			"or by individual flags. Flags override fields read from the file.",
		Example: "  contractctl risk --location \"New Cairo\" --price-range \"2.5M EGP\" --timeline immediate\n" +
			"  contractctl risk --lead-file lead.json -o json",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := lead
			if leadFile != "" {
				fromFile, err := readLeadFile(cmd, leadFile)
				if err != nil {
					return err
				}
				l = mergeLeadFlags(cmd, *fromFile, lead)
			}
			res := appcontract.NewRiskEngine().Assess(&l)
			return PrintResult(cmd, riskView(res))
		},
	}

	f := cmd.Flags()
	f.StringVar(&leadFile, "lead-file", "", "JSON file describing the lead")
	f.StringVar(&lead.Location, "location", "", "property location")
	f.StringVar(&lead.PropertyType, "property-type", "", "property type")
	f.StringVar(&lead.PropertyCondition, "property-condition", "", "property condition")
	f.StringVar(&lead.PriceRange, "price-range", "", "asking price, e.g. \"2.5M EGP\"")
	f.StringVar(&lead.Timeline, "timeline", "", "selling timeline")
	f.StringVar(&lead.Urgency, "urgency", "", "seller urgency")
	f.BoolVar(&lead.IsDecisionMaker, "decision-maker", true, "contact is the decision maker")
	return cmd
}

func readLeadFile(cmd *cobra.Command, path string) (*domainContract.Lead, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("read lead file: %w", err)
		}
		defer f.Close()
		r = f
	}
	var l domainContract.Lead
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode lead: %w", err)
	}
	return &l, nil
}

// mergeLeadFlags copies explicitly set flags over the file contents.
func mergeLeadFlags(cmd *cobra.Command, base, flags domainContract.Lead) domainContract.Lead {
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("location") {
		base.Location = flags.Location
	}
	if set("property-type") {
		base.PropertyType = flags.PropertyType
	}
	if set("property-condition") {
		base.PropertyCondition = flags.PropertyCondition
	}
	if set("price-range") {
		base.PriceRange = flags.PriceRange
	}
	if set("timeline") {
		base.Timeline = flags.Timeline
	}
	if set("urgency") {
		base.Urgency = flags.Urgency
	}
	if set("decision-maker") {
		base.IsDecisionMaker = flags.IsDecisionMaker
	}
	return base
}

type riskView domainContract.RiskAssessment

func (r riskView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Risk score: %d (%s)\n", r.Score, r.Level)
	writeList(&sb, "Factors", r.Factors)
	writeList(&sb, "Recommendations", r.Recommendations)
	return strings.TrimRight(sb.String(), "\n")
}

func (r riskView) TableHeaders() []string { return []string{"KIND", "DETAIL"} }

func (r riskView) TableRows() [][]string {
	rows := [][]string{{"score", strconv.Itoa(r.Score)}, {"level", r.Level}}
	for _, f := range r.Factors {
		rows = append(rows, []string{"factor", f})
	}
	for _, rec := range r.Recommendations {
		rows = append(rows, []string{"recommendation", rec})
	}
	return rows
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(sb, "  - %s\n", it)
	}
}

//Personal.AI order the ending
