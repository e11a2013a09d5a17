package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"plateflow/internal/plate"
	"plateflow/internal/sheet"
	"plateflow/internal/versioning"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var rowsFlag []int
	var colorspace string

	cmd := &cobra.Command{
		Use:   "validate <sheet>",
		Short: "Resolve next version numbers without converting or publishing",
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

			table, err := sheet.Load(args[0])
			if err != nil {
				return err
			}
			selected := rowsFlag
			if selected == nil {
				selected = table.Checked()
			}
			rows := sheet.Normalize(table, selected, logger)
			if len(rows) == 0 {
				return fmt.Errorf("no usable rows selected in %s", args[0])
			}
			records, err := plate.Group(rows)
			if err != nil {
				return err
			}

			codes, err := client.FindVersionCodes(cmd.Context())
			if err != nil {
				return err
			}
			selections := make([]versioning.Selection, len(records))
			for i, record := range records {
				selections[i] = versioning.Selection{RowID: i, Shot: record.Shot, Type: record.Type.Scalar()}
			}
			assigned := versioning.Resolve(codes, selections, colorspace)

			headers := []string{
				headerLabel("shot"),
				headerLabel("type"),
				headerLabel("colorspace"),
				headerLabel("next_version"),
			}
			tableRows := make([][]string, 0, len(records))
			for i, record := range records {
				tableRows = append(tableRows, []string{
					record.Shot,
					displayValue(record.Type),
					colorspace,
					strconv.Itoa(assigned[i]),
				})
			}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(headers, tableRows, aligns))
			fmt.Fprintf(out, "%d existing codes consulted\n", len(codes))
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&rowsFlag, "rows", nil, "Sheet row indices to validate (default: checked rows)")
	cmd.Flags().StringVar(&colorspace, "colorspace", "", "Working colorspace (default: first configured)")
	return cmd
}
