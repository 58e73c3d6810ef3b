package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prlpayroll/timecard/internal/cli"
	"github.com/prlpayroll/timecard/internal/export"
	"github.com/prlpayroll/timecard/internal/service"
	"github.com/prlpayroll/timecard/internal/storage"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [output.xlsx]",
		Short: "Write stored records to a payroll workbook",
		Long: `Export stored timesheet records to an XLSX payroll workbook.

By default pay columns hold literal values rounded to two decimal places.
With --formulas they hold live spreadsheet formulas over the hours and rate
cells, so corrections made in the workbook reprice themselves.`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().Bool("formulas", false, "Write pay columns as live formulas")
	cmd.Flags().String("since", "", "Date preset limiting the upload window")
	cmd.Flags().Bool("unpaid", false, "Only export unpaid records")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formulas, _ := cmd.Flags().GetBool("formulas")
	preset, _ := cmd.Flags().GetString("since")
	unpaid, _ := cmd.Flags().GetBool("unpaid")

	policy, err := loadPolicy()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	filter := service.RecordFilter{UnpaidOnly: unpaid}
	if preset != "" {
		from, to, err := storage.UploadWindow(preset, time.Now())
		if err != nil {
			return err
		}
		filter.UploadedFrom = &from
		filter.UploadedTo = &to
	}

	records, err := store.ListRecords(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	if len(records) == 0 {
		fmt.Println(cli.FormatWarning("Nothing to export"))
		return nil
	}

	exporter := export.NewExporter(policy.Calc, nil)
	if err := exporter.WriteFile(args[0], records, export.Options{Formulas: formulas}); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d records to %s", len(records), args[0])))
	return nil
}
