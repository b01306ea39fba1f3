package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/camden-git/gallerymanifest/database"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent builds recorded in the build ledger",
	Long: `Reads the sqlite build ledger and prints the most recent runs, newest
first. The ledger path comes from --ledger or BUILD_LEDGER_PATH.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := os.Getenv("BUILD_LEDGER_PATH")
	if cmd.Flags().Changed("ledger") {
		path = buildFlags.ledger
	}
	if path == "" {
		return errors.New("no build ledger configured: set BUILD_LEDGER_PATH or pass --ledger")
	}

	ledger, err := database.OpenLedger(path, logger)
	if err != nil {
		return err
	}
	defer ledger.Close()

	runs, err := ledger.RecentBuildRuns(historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No builds recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tDURATION\tPHOTOS\tADDED\tREMOVED\tPREVIEWS\tSORT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			time.Unix(run.StartedAt, 0).UTC().Format(time.RFC3339),
			time.Duration(run.DurationMillis)*time.Millisecond,
			run.Photos, run.SidecarAdded, run.SidecarRemoved, run.PreviewsGenerated, run.SortOrder)
	}
	return w.Flush()
}
