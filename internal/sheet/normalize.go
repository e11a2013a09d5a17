package sheet

import (
	"fmt"
	"log/slog"

	"plateflow/internal/logging"
	"plateflow/internal/plate"
	"plateflow/internal/services"
)

// Normalize converts the selected rows of a table into typed plate rows.
// Rows missing their sequence or shot name are skipped with a warning; the
// rest of the batch continues. The returned rows preserve sheet order.
func Normalize(table *Table, selected []int, logger *slog.Logger) []plate.Row {
	if logger == nil {
		logger = logging.NewNop()
	}

	rows := make([]plate.Row, 0, len(selected))
	for _, idx := range selected {
		if idx < 0 || idx >= table.RowCount() {
			logger.Warn("selected row outside sheet, skipping",
				logging.Int("row", idx),
				logging.String(logging.FieldSheet, table.Path))
			continue
		}
		row, err := NormalizeRow(table, idx)
		if err != nil {
			logger.Warn("skipping row",
				logging.Int("row", idx),
				logging.String(logging.FieldSheet, table.Path),
				logging.Error(err))
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// NormalizeRow converts one table row into a typed plate row. A row without
// its sequence or shot identity fails with a missing-field classification;
// callers treat that as a row-local skip, not a batch abort.
func NormalizeRow(table *Table, idx int) (plate.Row, error) {
	seq := table.Cell(idx, ColSeqName)
	shot := table.Cell(idx, ColShotName)
	if seq == "" || shot == "" {
		return plate.Row{}, services.Wrap(services.ErrMissingField, "normalize",
			fmt.Sprintf("row %d", idx), "sequence or shot name is empty", nil)
	}

	return plate.Row{
		ID:               idx,
		Sequence:         seq,
		Shot:             shot,
		Roll:             table.Cell(idx, ColRoll),
		Type:             table.Cell(idx, ColType),
		ScanPath:         table.Cell(idx, ColScanPath),
		ScanName:         table.Cell(idx, ColScanName),
		Pad:              table.Cell(idx, ColPad),
		Ext:              table.Cell(idx, ColExt),
		Resolution:       table.Cell(idx, ColResolution),
		StartFrame:       table.Cell(idx, ColStartFrame),
		EndFrame:         table.Cell(idx, ColEndFrame),
		Duration:         table.Cell(idx, ColDuration),
		RetimeStartFrame: table.Cell(idx, ColRetimeStartFrame),
		RetimeDuration:   table.Cell(idx, ColRetimeDuration),
		RetimePercent:    table.Cell(idx, ColRetimePercent),
		TimecodeIn:       table.Cell(idx, ColTimecodeIn),
		TimecodeOut:      table.Cell(idx, ColTimecodeOut),
		JustIn:           table.Cell(idx, ColJustIn),
		JustOut:          table.Cell(idx, ColJustOut),
		Framerate:        table.Cell(idx, ColFramerate),
		Date:             table.Cell(idx, ColDate),
		ClipTag:          table.Cell(idx, ColClipTag),
	}, nil
}
