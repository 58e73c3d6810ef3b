package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/prlpayroll/timecard/internal/cli"
	"github.com/prlpayroll/timecard/internal/matcher"
)

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Inspect the pay-rate directory",
	}

	cmd.AddCommand(ratesListCmd())
	cmd.AddCommand(ratesCheckCmd())

	return cmd
}

func ratesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all workers in the rate directory",
		RunE:  runRatesList,
	}
	cmd.Flags().StringSlice("rates", nil, "Rate sheet paths (overrides config)")
	return cmd
}

func runRatesList(cmd *cobra.Command, _ []string) error {
	ratePaths, _ := cmd.Flags().GetStringSlice("rates")
	dir, err := loadDirectory(ratePaths)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Rate directory (%d workers)", dir.Len())))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRATE")
	for _, entry := range dir.Entries() {
		fmt.Fprintf(w, "%s\t£%.2f\n", entry.RawName, entry.Rate)
	}
	return w.Flush()
}

func ratesCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [name]",
		Short: "Show how a name would resolve against the directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runRatesCheck,
	}
	cmd.Flags().StringSlice("rates", nil, "Rate sheet paths (overrides config)")
	return cmd
}

func runRatesCheck(cmd *cobra.Command, args []string) error {
	ratePaths, _ := cmd.Flags().GetStringSlice("rates")
	dir, err := loadDirectory(ratePaths)
	if err != nil {
		return err
	}

	policy, err := loadPolicy()
	if err != nil {
		return err
	}

	result := matcher.Match(args[0], dir, policy.SimilarityThreshold, policy.DefaultRate)
	if result.Matched() {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("%q matches %q (ratio %.2f, rate £%.2f)",
			args[0], result.MatchedName, result.Confidence, result.Rate)))
		return nil
	}

	fmt.Println(cli.FormatWarning(fmt.Sprintf("%q has no match above %.2f (best ratio %.2f); default rate £%.2f applies",
		args[0], policy.SimilarityThreshold, result.Confidence, result.Rate)))
	return nil
}
