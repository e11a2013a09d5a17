package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"plateflow/internal/plate"
	"plateflow/internal/sheet"
)

func newLoadCommand(ctx *commandContext) *cobra.Command {
	var rowsFlag []int
	var saveVersion bool

	cmd := &cobra.Command{
		Use:   "load <sheet>",
		Short: "Load a plate sheet and show grouped shots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger()
			if err != nil {
				return err
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

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderRecordTable(records))
			fmt.Fprintf(out, "%d rows grouped into %d shots\n", len(rows), len(records))

			if saveVersion {
				saved, err := sheet.Save(table, true)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Sheet saved as %s\n", saved)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&rowsFlag, "rows", nil, "Sheet row indices to load (default: checked rows)")
	cmd.Flags().BoolVar(&saveVersion, "save-version", false, "Save a versioned copy of the sheet")
	return cmd
}

func renderRecordTable(records []plate.Record) string {
	headers := []string{
		headerLabel("shot"),
		headerLabel("rows"),
		headerLabel("type"),
		headerLabel("start_frame"),
		headerLabel("end_frame"),
		headerLabel("duration"),
		headerLabel("timecode_in"),
		headerLabel("timecode_out"),
		headerLabel("retime"),
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		retime := ""
		if n := len(record.RetimeSegments()); n > 0 {
			retime = strconv.Itoa(n) + " segment(s)"
		}
		rows = append(rows, []string{
			record.Shot,
			strconv.Itoa(len(record.RowIDs)),
			displayValue(record.Type),
			displayValue(record.StartFrame),
			displayValue(record.EndFrame),
			displayValue(record.Duration),
			displayValue(record.TimecodeIn),
			displayValue(record.TimecodeOut),
			retime,
		})
	}
	aligns := []columnAlignment{
		alignLeft, alignRight, alignLeft,
		alignRight, alignRight, alignRight,
		alignLeft, alignLeft, alignLeft,
	}
	return renderTable(headers, rows, aligns)
}

func displayValue(value plate.Value) string {
	if value.IsList() {
		return value.Join(", ")
	}
	return value.Scalar()
}
