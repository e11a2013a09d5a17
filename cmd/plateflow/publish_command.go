package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"plateflow/internal/journal"
	"plateflow/internal/pipeline"
	"plateflow/internal/sheet"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	var rowsFlag []int
	var colorspace string
	var frameOutputs bool
	var applyRetime bool
	var updateSheet bool

	cmd := &cobra.Command{
		Use:   "publish <sheet>",
		Short: "Convert selected plate rows and publish versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			client, err := ctx.trackingClient()
			if err != nil {
				return err
			}

			if colorspace == "" {
				if len(cfg.Converter.Colorspaces) == 0 {
					return fmt.Errorf("no colorspace given and none configured")
				}
				colorspace = cfg.Converter.Colorspaces[0]
			}

			var result *pipeline.Result
			journalErr := ctx.withJournal(func(store *journal.Store) error {
				p, err := pipeline.New(cfg, store, client, logger)
				if err != nil {
					return err
				}
				result, err = p.Run(cmd.Context(), pipeline.Options{
					SheetPath:    args[0],
					Selected:     rowsFlag,
					Colorspace:   colorspace,
					FrameOutputs: frameOutputs,
					ApplyRetime:  applyRetime,
				})
				return err
			})
			if journalErr != nil {
				return journalErr
			}

			out := cmd.OutOrStdout()
			color := shouldColorize(out)
			fmt.Fprintf(out, "Batch %s\n", result.BatchID)
			fmt.Fprintf(out, "  %s\n", colorize(fmt.Sprintf("published: %d", len(result.Publish.Published)), ansiGreen, color))
			if n := len(result.Publish.Skipped); n > 0 {
				fmt.Fprintf(out, "  %s\n", colorize(fmt.Sprintf("skipped (no movie): %d", n), ansiYellow, color))
			}
			if n := len(result.Failed) + len(result.Publish.Failed); n > 0 {
				fmt.Fprintf(out, "  %s\n", colorize(fmt.Sprintf("failed: %d", n), ansiRed, color))
			}

			if updateSheet {
				saved, err := writeVersionsBack(args[0], result)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Sheet saved as %s\n", saved)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&rowsFlag, "rows", nil, "Sheet row indices to publish (default: checked rows)")
	cmd.Flags().StringVar(&colorspace, "colorspace", "", "Working colorspace (default: first configured)")
	cmd.Flags().BoolVar(&frameOutputs, "frames", false, "Also render dpx and jpg frame sequences")
	cmd.Flags().BoolVar(&applyRetime, "retime", false, "Apply retime segments where present")
	cmd.Flags().BoolVar(&updateSheet, "update-sheet", false, "Write assigned versions back to a versioned sheet copy")
	return cmd
}

// writeVersionsBack stamps each contributing row with its assigned version
// and saves the sheet as a versioned copy, leaving the original untouched.
func writeVersionsBack(sheetPath string, result *pipeline.Result) (string, error) {
	table, err := sheet.Load(sheetPath)
	if err != nil {
		return "", err
	}
	for _, record := range result.Records {
		for _, rowID := range record.RowIDs {
			table.SetCell(rowID, sheet.ColVersion, strconv.Itoa(record.Version))
		}
	}
	return sheet.Save(table, true)
}
