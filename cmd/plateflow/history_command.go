package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"plateflow/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var batchID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent publish batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				if batchID != "" {
					return renderBatchDetail(cmd, store, batchID)
				}
				return renderBatchList(cmd, store, limit)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of batches to show")
	cmd.Flags().StringVar(&batchID, "batch", "", "Show the shots of one batch")
	return cmd
}

func renderBatchList(cmd *cobra.Command, store *journal.Store, limit int) error {
	batches, err := store.RecentBatches(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No batches recorded")
		return nil
	}

	headers := []string{
		headerLabel("batch"),
		headerLabel("sheet"),
		headerLabel("colorspace"),
		headerLabel("codec"),
		headerLabel("stage"),
		headerLabel("status"),
		headerLabel("started"),
	}
	rows := make([][]string, 0, len(batches))
	for _, batch := range batches {
		rows = append(rows, []string{
			batch.ID,
			batch.SheetPath,
			batch.Colorspace,
			batch.Codec,
			string(batch.Stage),
			string(batch.Status),
			batch.CreatedAt.Local().Format(time.DateTime),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, nil))
	return nil
}

func renderBatchDetail(cmd *cobra.Command, store *journal.Store, batchID string) error {
	batch, err := store.GetBatch(cmd.Context(), batchID)
	if err != nil {
		return err
	}
	jobs, err := store.JobsForBatch(cmd.Context(), batchID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Batch %s  %s  %s\n", batch.ID, batch.Status, batch.SheetPath)
	if batch.ErrorMessage != "" {
		fmt.Fprintf(out, "Error: %s\n", batch.ErrorMessage)
	}
	if len(jobs) == 0 {
		fmt.Fprintln(out, "No shot outcomes recorded")
		return nil
	}

	headers := []string{
		headerLabel("shot"),
		headerLabel("version"),
		headerLabel("status"),
		headerLabel("exit_code"),
		headerLabel("duration"),
		headerLabel("detail"),
	}
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, []string{
			job.Shot,
			strconv.Itoa(job.Version),
			string(job.Status),
			strconv.Itoa(job.ExitCode),
			job.Duration.Round(time.Second).String(),
			job.Detail,
		})
	}
	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignRight, alignLeft}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	return nil
}
