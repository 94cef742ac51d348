// Package cli implements the bini-crm maintenance commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Valentin39220/bini-crm/internal/prospects/service"
)

// Opener hands the commands a hydrated service and a release func.
type Opener func(ctx context.Context) (*service.ProspectService, func() error, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"
	open   Opener
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the worker binary.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "bini-worker",
		Short: "Maintenance commands for the bini-crm prospect store",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range ValidFormats {
				if f == opts.Format {
					return nil
				}
			}
			return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewRemindCommand(opts))

	return cmd
}

// withService opens the store, runs fn and releases the store.
func (o *RootOptions) withService(ctx context.Context, fn func(*service.ProspectService) error) (err error) {
	svc, release, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := release(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(svc)
}
