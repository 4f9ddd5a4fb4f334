package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
)

func NewLeadCmd(open LeadStoreOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lead",
		Short: "Manage leads",
	}
	cmd.AddCommand(newLeadImportCmd(open))
	return cmd
}

// newLeadImportCmd upserts leads from a JSON array or a single JSON object.
func newLeadImportCmd(open LeadStoreOpener) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import leads from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			leads, err := readLeads(cmd, file)
			if err != nil {
				return err
			}
			for i, l := range leads {
				if l == nil || strings.TrimSpace(l.ID) == "" {
					return fmt.Errorf("lead #%d has no id", i+1)
				}
				if l.Status == "" {
					leads[i].Status = domainContract.LeadStatusNew
				}
			}

			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			store, closeFn, err := open(ctx, cc)
			if err != nil {
				return err
			}
			defer closeFn()

			for _, l := range leads {
				if err := store.Upsert(ctx, l); err != nil {
					return fmt.Errorf("import lead %s: %w", l.ID, err)
				}
				cc.Logger.Debug("lead imported", logging.LeadID(l.ID))
			}
			PrintSuccess(cmd, fmt.Sprintf("imported %d lead(s)", len(leads)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with one lead or an array of leads (\"-\" for stdin) [REQUIRED]")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readLeads(cmd *cobra.Command, path string) ([]*domainContract.Lead, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("read leads: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read leads: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var leads []*domainContract.Lead
		if err := json.Unmarshal(data, &leads); err != nil {
			return nil, fmt.Errorf("decode leads: %w", err)
		}
		return leads, nil
	}
	var l domainContract.Lead
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode lead: %w", err)
	}
	return []*domainContract.Lead{&l}, nil
}

//Personal.AI order the ending
