package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Valentin39220/bini-crm/internal/prospects/domain"
	"github.com/Valentin39220/bini-crm/internal/prospects/pipeline"
	"github.com/Valentin39220/bini-crm/internal/prospects/service"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	var today string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withService(cmd.Context(), func(svc *service.ProspectService) error {
				day := svc.Today()
				if today != "" {
					d, err := domain.ParseDate(today)
					if err != nil {
						return err
					}
					day = d
				}
				return writeStats(cmd.OutOrStdout(), rootOpts.Format, day, pipeline.ComputeStats(svc.List(), day))
			})
		},
	}

	cmd.Flags().StringVar(&today, "today", "", "evaluate urgency as of this date (YYYY-MM-DD)")

	return cmd
}

func writeStats(w io.Writer, format string, today domain.Date, s pipeline.Stats) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Today domain.Date    `json:"today"`
			Stats pipeline.Stats `json:"stats"`
		}{today, s})
	}

	_, err := fmt.Fprintf(w,
		"today: %s\ntotal: %d\nhot: %d\nurgent follow-ups: %d\nopen pipeline: %s EUR\nwon: %d\n",
		today, s.Total, s.HotCount, s.UrgentFollowUps, s.OpenPipelineValue, s.WonCount)
	return err
}
