package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	appcontract "github.com/turtacn/ContractPilot/internal/application/contract"
	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/render"
)

type contractFlags struct {
	leadID        string
	contractType  string
	overridesFile string
}

func (f *contractFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.leadID, "lead-id", "", "lead to build the contract for [REQUIRED]")
	cmd.Flags().StringVar(&f.contractType, "type", "", "contract type (default from pipeline.default_contract_type)")
	cmd.Flags().StringVar(&f.overridesFile, "overrides", "", "JSON file with field overrides")
	_ = cmd.MarkFlagRequired("lead-id")
}

func (f *contractFlags) overrides() (*appcontract.Overrides, error) {
	if f.overridesFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(f.overridesFile)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	var o appcontract.Overrides
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("decode overrides: %w", err)
	}
	return &o, nil
}

// NewPreviewCmd assembles, reviews and serializes a contract without
// rendering or persisting it.
func NewPreviewCmd(open ServiceOpener) *cobra.Command {
	var (
		flags   contractFlags
		htmlOut string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview a contract for a lead",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			overrides, err := flags.overrides()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			svc, closeFn, err := open(ctx, cc)
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.GeneratePreview(ctx, &appcontract.PreviewRequest{
				LeadID:       flags.leadID,
				ContractType: domainContract.Type(flags.contractType),
				Overrides:    overrides,
			})
			if err != nil {
				return err
			}
			if htmlOut != "" {
				if err := os.WriteFile(htmlOut, []byte(res.HTML), 0o644); err != nil {
					return fmt.Errorf("write html: %w", err)
				}
			}
			return PrintResult(cmd, previewView{res})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&htmlOut, "html-out", "", "write the contract HTML to this file")
	return cmd
}

// NewGenerateCmd runs the full pipeline. A failed run prints its result
// and exits non-zero.
func NewGenerateCmd(open ServiceOpener) *cobra.Command {
	var (
		flags        contractFlags
		expedited    bool
		manualReview bool
		pageSize     string
		orientation  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate, review, render and store a contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			overrides, err := flags.overrides()
			if err != nil {
				return err
			}
			req := &appcontract.GenerateRequest{
				LeadID:       flags.leadID,
				ContractType: domainContract.Type(flags.contractType),
				Expedited:    expedited,
				ManualReview: manualReview,
				Overrides:    overrides,
			}
			if pageSize != "" || orientation != "" {
				req.Render = &render.RenderOptions{
					PageSize:    render.PageSize(pageSize),
					Orientation: render.Orientation(strings.ToLower(orientation)),
				}
			}

			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			svc, closeFn, err := open(ctx, cc)
			if err != nil {
				return err
			}
			defer closeFn()

			res := svc.Generate(ctx, req)
			if err := PrintResult(cmd, generationView{res}); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("contract generation failed in state %s (%s)", res.State, res.Code)
			}
			return nil
		},
	}
	flags.register(cmd)
	f := cmd.Flags()
	f.BoolVar(&expedited, "expedited", false, "expedited processing; never auto-approved")
	f.BoolVar(&manualReview, "manual-review", false, "force manual review")
	f.StringVar(&pageSize, "page-size", "", "paper format (A4, A3, Letter, Legal)")
	f.StringVar(&orientation, "orientation", "", "portrait or landscape")
	return cmd
}

func NewGetCmd(open ServiceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "get <contract-id>",
		Short: "Show a stored contract and its review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			svc, closeFn, err := open(ctx, cc)
			if err != nil {
				return err
			}
			defer closeFn()

			details, err := svc.GetContract(ctx, args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, detailsView{details})
		},
	}
}

func NewApproveCmd(open ServiceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <contract-id>",
		Short: "Approve a generated or pending contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			svc, closeFn, err := open(ctx, cc)
			if err != nil {
				return err
			}
			defer closeFn()

			c, err := svc.Approve(ctx, args[0])
			if err != nil {
				return err
			}
			if strings.EqualFold(cc.OutputFormat, "json") {
				return printJSON(cmd, c)
			}
			PrintSuccess(cmd, fmt.Sprintf("contract %s is %s", c.ID, c.Status))
			return nil
		},
	}
}

type previewView struct{ *appcontract.PreviewResult }

func (v previewView) String() string {
	var sb strings.Builder
	d := v.ContractData
	fmt.Fprintf(&sb, "Contract %s (%s, %s v%s)\n", d.ContractID, d.ContractType, d.TemplateTitle, d.TemplateVersion)
	fmt.Fprintf(&sb, "Risk score: %d (%s)\n", v.Risk.Score, v.Risk.Level)
	fmt.Fprintf(&sb, "Review: %s, confidence %d\n", reviewSource(v.AIReview), v.AIReview.ConfidenceScore)
	writeList(&sb, "Review warnings", v.AIReview.Warnings)
	fmt.Fprintf(&sb, "HTML: %d bytes", len(v.HTML))
	return sb.String()
}

type generationView struct{ *appcontract.GenerationResult }

func (v generationView) String() string {
	var sb strings.Builder
	if v.Success {
		fmt.Fprintf(&sb, "Contract %s generated: %s\n", v.ContractID, v.Status)
	} else {
		fmt.Fprintf(&sb, "Generation failed in state %s (%s)\n", v.State, v.Code)
	}
	fmt.Fprintf(&sb, "Risk %d, confidence %d, %d ms\n", v.RiskScore, v.ConfidenceScore, v.TimingMs)
	if v.DocumentURL != "" {
		doc := v.DocumentURL
		if render.IsInlineURL(doc) {
			doc = "(inline HTML fallback)"
		}
		fmt.Fprintf(&sb, "Document: %s\n", doc)
	}
	if v.Approval != nil {
		writeList(&sb, "Approval", v.Approval.Reasons)
	}
	writeList(&sb, "Warnings", v.Warnings)
	writeList(&sb, "Errors", v.Errors)
	return strings.TrimRight(sb.String(), "\n")
}

func (v generationView) TableHeaders() []string {
	return []string{"CONTRACT", "STATUS", "STATE", "RISK", "CONFIDENCE", "MS"}
}

func (v generationView) TableRows() [][]string {
	return [][]string{{
		v.ContractID, string(v.Status), string(v.State),
		strconv.Itoa(v.RiskScore), strconv.Itoa(v.ConfidenceScore), strconv.FormatInt(v.TimingMs, 10),
	}}
}

type detailsView struct{ *appcontract.ContractDetails }

func (v detailsView) String() string {
	var sb strings.Builder
	c := v.Contract
	fmt.Fprintf(&sb, "Contract %s for lead %s\n", c.ID, c.LeadID)
	fmt.Fprintf(&sb, "Type: %s  Status: %s  Created: %s\n", c.ContractType, c.Status, c.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "Risk %d, confidence %d\n", c.LegalRiskScore, c.AIConfidenceScore)
	writeList(&sb, "Risk factors", c.RiskFactors)
	if v.Review != nil {
		fmt.Fprintf(&sb, "Review: %s\n", reviewSource(*v.Review))
		writeList(&sb, "Recommendations", v.Review.Recommendations)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (v detailsView) TableHeaders() []string {
	return []string{"CONTRACT", "LEAD", "TYPE", "STATUS", "RISK", "CONFIDENCE"}
}

func (v detailsView) TableRows() [][]string {
	c := v.Contract
	return [][]string{{
		c.ID, c.LeadID, string(c.ContractType), string(c.Status),
		strconv.Itoa(c.LegalRiskScore), strconv.Itoa(c.AIConfidenceScore),
	}}
}

func reviewSource(r domainContract.AIReview) string {
	if r.FallbackReason != "" {
		return fmt.Sprintf("%s (%s)", r.Source, r.FallbackReason)
	}
	return string(r.Source)
}

//Personal.AI order the ending
