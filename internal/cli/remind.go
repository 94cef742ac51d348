package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Valentin39220/bini-crm/internal/prospects/domain"
	"github.com/Valentin39220/bini-crm/internal/prospects/reminder"
	"github.com/Valentin39220/bini-crm/internal/prospects/service"
)

type reminderLine struct {
	ID           string         `json:"id"`
	Company      string         `json:"company"`
	Contact      string         `json:"contact"`
	NextFollowUp domain.Date    `json:"nextFollowUp"`
	Urgency      domain.Urgency `json:"urgency"`
}

// NewRemindCommand creates the remind command, a one-shot run of the daily
// follow-up reminder.
func NewRemindCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "List open prospects whose follow-up is due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withService(cmd.Context(), func(svc *service.ProspectService) error {
				var lines []reminderLine
				notify := func(_ context.Context, today domain.Date, urgent []domain.Prospect) {
					lines = make([]reminderLine, 0, len(urgent))
					for _, p := range urgent {
						lines = append(lines, reminderLine{
							ID:           p.ID,
							Company:      p.Company,
							Contact:      p.Contact,
							NextFollowUp: p.NextFollowUp,
							Urgency:      domain.Classify(p.NextFollowUp, today),
						})
					}
				}
				reminder.NewScheduler(svc, "", nil, notify).RunOnce(cmd.Context())
				return writeReminders(cmd.OutOrStdout(), rootOpts.Format, lines)
			})
		},
	}
}

func writeReminders(w io.Writer, format string, lines []reminderLine) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lines)
	}

	if len(lines) == 0 {
		_, err := fmt.Fprintln(w, "no follow-up due")
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.NextFollowUp, l.Urgency, l.Company, l.Contact); err != nil {
			return err
		}
	}
	return nil
}
