package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/prlpayroll/timecard/internal/cli"
	"github.com/prlpayroll/timecard/internal/service"
	"github.com/prlpayroll/timecard/internal/storage"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and manage stored timesheet records",
		Long: `List stored timesheet records by upload date. Records can be marked as
paid or deleted by id.

Date presets: last-30-days, this-month, last-month, year-to-date.`,
		RunE: runHistory,
	}

	cmd.Flags().String("since", "last-30-days", "Date preset for the upload window")
	cmd.Flags().Bool("all", false, "Ignore the date window")
	cmd.Flags().Bool("unpaid", false, "Only show unpaid records")
	cmd.Flags().Int("limit", 0, "Maximum records to show (0 = no limit)")
	cmd.Flags().Int64Slice("mark-paid", nil, "Record ids to mark as paid")
	cmd.Flags().Int64Slice("delete", nil, "Record ids to delete")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	preset, _ := cmd.Flags().GetString("since")
	all, _ := cmd.Flags().GetBool("all")
	unpaid, _ := cmd.Flags().GetBool("unpaid")
	limit, _ := cmd.Flags().GetInt("limit")
	markPaid, _ := cmd.Flags().GetInt64Slice("mark-paid")
	toDelete, _ := cmd.Flags().GetInt64Slice("delete")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	if len(markPaid) > 0 {
		if err := store.MarkPaid(ctx, markPaid); err != nil {
			return fmt.Errorf("failed to mark records paid: %w", err)
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Marked %d records as paid", len(markPaid))))
	}
	if len(toDelete) > 0 {
		if err := store.DeleteRecords(ctx, toDelete); err != nil {
			return fmt.Errorf("failed to delete records: %w", err)
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted %d records", len(toDelete))))
	}

	filter := service.RecordFilter{UnpaidOnly: unpaid, Limit: limit}
	if !all {
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

	title := fmt.Sprintf("History (%d records)", len(records))
	if !all {
		title += " " + preset
	}
	fmt.Println(cli.TitleStyle.Render(title))

	if len(records) == 0 {
		fmt.Println(cli.SubtleStyle.Render("Nothing stored in this window"))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMATCHED AS\tSTATUS\tHOURS\tRATE\tPERIOD\tPAID")
	for _, rec := range records {
		paid := ""
		if rec.IsPaid {
			paid = cli.SuccessIcon
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t£%.2f\t%s\t%s\n",
			rec.ID,
			rec.Name,
			rec.Match.MatchedName,
			rec.Status,
			strconv.FormatFloat(rec.Pay.TotalHours(), 'f', -1, 64),
			rec.Match.Rate,
			rec.DateRange,
			paid,
		)
	}
	return w.Flush()
}
