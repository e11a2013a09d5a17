package sheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Canonical column names. The loader matches header labels
// case-insensitively after trimming.
const (
	ColCheck            = "check"
	ColSeqName          = "seq_name"
	ColShotName         = "shot_name"
	ColRoll             = "roll"
	ColVersion          = "version"
	ColType             = "type"
	ColScanPath         = "scan_path"
	ColScanName         = "scan_name"
	ColPad              = "pad"
	ColExt              = "ext"
	ColResolution       = "resolution"
	ColStartFrame       = "start_frame"
	ColEndFrame         = "end_frame"
	ColDuration         = "duration"
	ColRetimeStartFrame = "retime_start_frame"
	ColRetimeDuration   = "retime_duration"
	ColRetimePercent    = "retime_percent"
	ColTimecodeIn       = "timecode_in"
	ColTimecodeOut      = "timecode_out"
	ColJustIn           = "just_in"
	ColJustOut          = "just_out"
	ColFramerate        = "framerate"
	ColDate             = "date"
	ColClipTag          = "clip_tag"
)

// Table is one loaded plate sheet: an ordered header row plus data rows of
// string cells. Row indices are zero-based over data rows.
type Table struct {
	Path    string
	Headers []string
	Cells   [][]string

	columns map[string]int
}

// Load reads a CSV plate sheet. The first record is the header row; ragged
// rows are padded so every row spans the full header width.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sheet: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sheet %s: no header row", path)
	}

	headers := records[0]
	cells := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]string, len(headers))
		copy(row, record)
		cells = append(cells, row)
	}

	table := &Table{Path: path, Headers: headers, Cells: cells}
	table.indexColumns()
	return table, nil
}

func (t *Table) indexColumns() {
	t.columns = make(map[string]int, len(t.Headers))
	for i, header := range t.Headers {
		key := strings.ToLower(strings.TrimSpace(header))
		if key == "" {
			continue
		}
		if _, exists := t.columns[key]; !exists {
			t.columns[key] = i
		}
	}
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int { return len(t.Cells) }

// Cell returns a cell by data-row index and canonical column name. Unknown
// columns and out-of-range rows read as empty, the same shape an empty
// spreadsheet cell has.
func (t *Table) Cell(row int, column string) string {
	if row < 0 || row >= len(t.Cells) {
		return ""
	}
	idx, ok := t.columns[column]
	if !ok || idx >= len(t.Cells[row]) {
		return ""
	}
	return strings.TrimSpace(t.Cells[row][idx])
}

// RowMap returns the full column-name to cell-value mapping for one row.
func (t *Table) RowMap(row int) map[string]string {
	values := make(map[string]string, len(t.columns))
	for name := range t.columns {
		values[name] = t.Cell(row, name)
	}
	return values
}

// HasColumn reports whether the sheet carries a column.
func (t *Table) HasColumn(column string) bool {
	_, ok := t.columns[column]
	return ok
}

// Checked returns the indices of rows whose check column holds a truthy
// marker, in sheet order.
func (t *Table) Checked() []int {
	if !t.HasColumn(ColCheck) {
		return nil
	}
	var rows []int
	for i := range t.Cells {
		if isChecked(t.Cell(i, ColCheck)) {
			rows = append(rows, i)
		}
	}
	return rows
}

func isChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "x", "v", "o", "1", "y", "yes", "true", "checked":
		return true
	default:
		return false
	}
}

// SetCell writes a cell by data-row index and canonical column name.
// Writes outside the sheet are ignored.
func (t *Table) SetCell(row int, column, value string) {
	if row < 0 || row >= len(t.Cells) {
		return
	}
	idx, ok := t.columns[column]
	if !ok || idx >= len(t.Cells[row]) {
		return
	}
	t.Cells[row][idx] = value
}
