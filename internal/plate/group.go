package plate

import (
	"fmt"
	"strconv"

	"plateflow/internal/services"

	"plateflow/internal/timecode"
)

const stageGrouping = "grouping"

// Group merges selected rows into one record per shot key. Rows are
// consumed in input order (the sheet's row order); records come back in
// first-seen key order.
//
// Any numeric field that fails to parse while collapsing aborts the whole
// batch: partial aggregation would publish silently wrong ranges.
func Group(rows []Row) ([]Record, error) {
	type accumulator struct {
		record *Record
		seen   map[string]map[string]struct{}
	}

	order := make([]Key, 0, len(rows))
	groups := make(map[Key]*accumulator, len(rows))
	slots := fieldSlots()

	for _, row := range rows {
		if row.retimePartial() {
			return nil, services.Wrap(services.ErrParse, stageGrouping, row.Shot,
				"retime triplet incomplete", nil)
		}

		key := row.GroupKey()
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{
				record: &Record{Sequence: key.Sequence, Shot: key.Shot},
				seen:   make(map[string]map[string]struct{}, len(slots)),
			}
			groups[key] = acc
			order = append(order, key)
		}
		acc.record.RowIDs = append(acc.record.RowIDs, row.ID)

		for _, slot := range slots {
			value := slot.get(row)
			if slot.retime {
				// Retime segments are order-significant and duplicates are
				// meaningful; empty triplets contribute nothing.
				if row.HasRetime() {
					appendItem(slot.slot(acc.record), value)
				}
				continue
			}
			seen, ok := acc.seen[slot.name]
			if !ok {
				seen = make(map[string]struct{}, 2)
				acc.seen[slot.name] = seen
			}
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			appendItem(slot.slot(acc.record), value)
		}
	}

	records := make([]Record, 0, len(order))
	for _, key := range order {
		record := groups[key].record
		flatten(record, slots)
		if err := collapse(record); err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

func appendItem(v *Value, item string) {
	if v.IsZero() {
		*v = Scalar(item)
		return
	}
	*v = List(append(v.Items(), item)...)
}

// flatten demotes single-element lists to scalars. Multi-element lists keep
// their list shape for the collapsing pass (and for downstream consumers
// when no collapse rule applies).
func flatten(record *Record, slots []fieldSlot) {
	for _, slot := range slots {
		v := slot.slot(record)
		if v.IsZero() {
			*v = Scalar("")
			continue
		}
		if v.Len() == 1 {
			*v = Scalar(v.Scalar())
		}
	}
}

// collapse applies the numeric-range, just-in/out, and timecode rules.
// Each rule fires only when every field it covers is still a list; shots
// with one contributing row are never touched.
func collapse(record *Record) error {
	if record.StartFrame.IsList() && record.EndFrame.IsList() && record.Duration.IsList() {
		starts, err := toInts(record.StartFrame, "start_frame", record.Shot)
		if err != nil {
			return err
		}
		ends, err := toInts(record.EndFrame, "end_frame", record.Shot)
		if err != nil {
			return err
		}
		durations, err := toInts(record.Duration, "duration", record.Shot)
		if err != nil {
			return err
		}
		record.StartFrame = Scalar(strconv.Itoa(minInt(starts)))
		record.EndFrame = Scalar(strconv.Itoa(maxInt(ends)))
		record.Duration = Scalar(strconv.Itoa(sumInt(durations)))
	}

	if record.JustIn.IsList() && record.JustOut.IsList() {
		ins, err := toInts(record.JustIn, "just_in", record.Shot)
		if err != nil {
			return err
		}
		outs, err := toInts(record.JustOut, "just_out", record.Shot)
		if err != nil {
			return err
		}
		record.JustIn = Scalar(strconv.Itoa(minInt(ins)))
		record.JustOut = Scalar(strconv.Itoa(maxInt(outs)))
	}

	if record.TimecodeIn.IsList() && record.TimecodeOut.IsList() {
		earliest, _, err := timecode.MinMax(record.TimecodeIn.Items())
		if err != nil {
			return services.Wrap(services.ErrParse, stageGrouping, record.Shot, "timecode_in", err)
		}
		_, latest, err := timecode.MinMax(record.TimecodeOut.Items())
		if err != nil {
			return services.Wrap(services.ErrParse, stageGrouping, record.Shot, "timecode_out", err)
		}
		record.TimecodeIn = Scalar(earliest)
		record.TimecodeOut = Scalar(latest)
	}

	return nil
}

func toInts(v Value, field, shot string) ([]int, error) {
	items := v.Items()
	numbers := make([]int, 0, len(items))
	for _, item := range items {
		n, err := strconv.Atoi(item)
		if err != nil {
			return nil, services.Wrap(services.ErrParse, stageGrouping, shot,
				fmt.Sprintf("%s value %q is not an integer", field, item), nil)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

func minInt(values []int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxInt(values []int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func sumInt(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
