package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/internal/infrastructure/render"
)

func NewEventsCmd(open EventSourceOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect contract events",
	}
	cmd.AddCommand(newEventsTailCmd(open))
	return cmd
}

// newEventsTailCmd prints contract.generated events until interrupted or
// until --max events have been seen. --timeout does not apply.
func newEventsTailCmd(open EventSourceOpener) *cobra.Command {
	var (
		groupID    string
		fromLatest bool
		maxEvents  int
	)

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow contract.generated events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			src, err := open(cc, groupID, fromLatest)
			if err != nil {
				return err
			}
			defer src.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			var seen atomic.Int64
			handler := func(_ context.Context, msg *kafka.Message) error {
				ev, err := kafka.DecodeContractGenerated(msg)
				if err != nil {
					// Foreign events on the topic are skipped, not retried.
					cc.Logger.Debug("skipping message", logging.Int64("offset", msg.Offset), logging.Err(err))
					return nil
				}
				if err := PrintResult(cmd, eventView{ev}); err != nil {
					return err
				}
				if maxEvents > 0 && seen.Add(1) >= int64(maxEvents) {
					cancel()
				}
				return nil
			}
			return src.Run(ctx, handler)
		},
	}

	f := cmd.Flags()
	f.StringVar(&groupID, "group", "contractctl-tail", "consumer group id")
	f.BoolVar(&fromLatest, "from-latest", true, "start a new group at the end of the topic")
	f.IntVar(&maxEvents, "max", 0, "stop after this many events (0 = unlimited)")
	return cmd
}

type eventView struct{ *domainContract.GeneratedEvent }

func (v eventView) String() string {
	doc := v.DocumentURL
	if v.DocumentFallback || render.IsInlineURL(doc) {
		doc = "(inline)"
	}
	return fmt.Sprintf("%s  %s  lead=%s  status=%s  risk=%d  confidence=%d  %s",
		v.OccurredAt.Format("2006-01-02T15:04:05Z07:00"), v.ContractID, v.LeadID, v.Status,
		v.RiskScore, v.ConfidenceScore, doc)
}

func (v eventView) TableHeaders() []string {
	return []string{"CONTRACT", "LEAD", "STATUS", "RISK", "CONFIDENCE"}
}

func (v eventView) TableRows() [][]string {
	return [][]string{{v.ContractID, v.LeadID, string(v.Status), strconv.Itoa(v.RiskScore), strconv.Itoa(v.ConfidenceScore)}}
}

//Personal.AI order the ending
