package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Valentin39220/bini-crm/internal/prospects/export"
	"github.com/Valentin39220/bini-crm/internal/prospects/service"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		out     string
		rfc4180 bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the prospects as CSV",
		Long: `Write the persisted prospects as CSV, one row per prospect in
insertion order. The default output matches the browser export byte for
byte; --rfc4180 quotes fields that contain commas, quotes or newlines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withService(cmd.Context(), func(svc *service.ProspectService) error {
				if out == "" || out == "-" {
					return writeExport(cmd.OutOrStdout(), svc, rfc4180)
				}
				return writeExportFile(out, svc, rfc4180)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout, \"-\" for stdout)")
	cmd.Flags().BoolVar(&rfc4180, "rfc4180", false, "quote fields per RFC 4180")

	return cmd
}

// createFile is swapped in tests.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeExportFile writes the export to path. A failed close is reported,
// since the data may not have reached the disk.
func writeExportFile(path string, svc *service.ProspectService, rfc4180 bool) (err error) {
	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return writeExport(f, svc, rfc4180)
}

func writeExport(w io.Writer, svc *service.ProspectService, rfc4180 bool) error {
	prospects := svc.List()
	body := export.ToCSV(prospects)
	if rfc4180 {
		var err error
		if body, err = export.ToRFC4180(prospects); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, body)
	return err
}
