package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/prlpayroll/timecard/internal/cli"
	"github.com/prlpayroll/timecard/internal/service"
)

func reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "List timesheets that need manual matching",
		Long: `Show stored records whose extracted name found no acceptable match in
the rate directory. These are paid at the default rate until resolved with
'timecard override'.`,
		RunE: runReview,
	}
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	records, err := store.ListRecords(ctx, service.RecordFilter{NeedsReview: true})
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	if len(records) == 0 {
		fmt.Println(cli.FormatSuccess("No timesheets waiting for review"))
		return nil
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Needs review (%d)", len(records))))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBEST RATIO\tCLIENT\tPERIOD\tSOURCE")
	for _, rec := range records {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\t%s\n",
			rec.ID, rec.Name, rec.Match.Confidence, rec.Client, rec.DateRange, rec.SourceFile)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println(cli.SubtleStyle.Render("Resolve with: timecard override <id> <directory name>"))
	return nil
}

func overrideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override [id] [name]",
		Short: "Manually resolve a timesheet against a directory worker",
		Long: `Record that the timesheet belongs to the given rate-directory worker.
The worker's directory rate replaces the stored one and the record becomes
permanently resolved; a second override of the same record is rejected.`,
		Args: cobra.ExactArgs(2),
		RunE: runOverride,
	}
	cmd.Flags().StringSlice("rates", nil, "Rate sheet paths (overrides config)")
	return cmd
}

func runOverride(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ratePaths, _ := cmd.Flags().GetStringSlice("rates")

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record id %q", args[0])
	}

	eng, store, err := newEngine(ctx, ratePaths)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	if err := eng.Override(ctx, id, args[1]); err != nil {
		return err
	}

	rec, err := store.GetRecordByID(ctx, id)
	if err != nil {
		return err
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Record %d resolved: %s is now %s at £%.2f",
		id, rec.Name, rec.Match.MatchedName, rec.Match.Rate)))
	return nil
}
