package plate

// Record is the aggregated, flattened result for one shot. Fields carry the
// Scalar/List variant; a field stays a list only when the contributing rows
// disagreed on its value (or, for retime fields, contributed multiple
// segments).
type Record struct {
	Sequence string
	Shot     string

	Roll       Value
	Type       Value
	ScanPath   Value
	ScanName   Value
	Pad        Value
	Ext        Value
	Resolution Value

	StartFrame Value
	EndFrame   Value
	Duration   Value

	// Retime segments, index-aligned across the three fields. Never
	// deduplicated or reordered; segment i is
	// (RetimeStartFrame[i], RetimeDuration[i], RetimePercent[i]).
	RetimeStartFrame Value
	RetimeDuration   Value
	RetimePercent    Value

	TimecodeIn  Value
	TimecodeOut Value
	JustIn      Value
	JustOut     Value

	Framerate Value
	Date      Value
	ClipTag   Value

	// RowIDs lists the contributing sheet rows in input order.
	RowIDs []int

	// Version is assigned by the resolver after grouping; zero until then.
	Version int
}

// ShotKey returns the record's shot key.
func (r Record) ShotKey() Key {
	return Key{Sequence: r.Sequence, Shot: r.Shot}
}

// HasRetime reports whether the record carries any retime segments.
func (r Record) HasRetime() bool {
	return !r.RetimeStartFrame.IsEmpty() &&
		!r.RetimeDuration.IsEmpty() &&
		!r.RetimePercent.IsEmpty()
}

// RetimeSegments pairs the three retime fields back into ordered
// (start, duration, percent) segments.
func (r Record) RetimeSegments() [][3]string {
	if !r.HasRetime() {
		return nil
	}
	starts := r.RetimeStartFrame.Items()
	durations := r.RetimeDuration.Items()
	percents := r.RetimePercent.Items()
	count := len(starts)
	if len(durations) < count {
		count = len(durations)
	}
	if len(percents) < count {
		count = len(percents)
	}
	segments := make([][3]string, 0, count)
	for i := 0; i < count; i++ {
		segments = append(segments, [3]string{starts[i], durations[i], percents[i]})
	}
	return segments
}

// fieldSlot binds a schema field name to its row accessor and record slot so
// the grouper can treat all fields uniformly.
type fieldSlot struct {
	name   string
	get    func(Row) string
	slot   func(*Record) *Value
	retime bool
}

func fieldSlots() []fieldSlot {
	return []fieldSlot{
		{name: "roll", get: func(r Row) string { return r.Roll }, slot: func(rec *Record) *Value { return &rec.Roll }},
		{name: "type", get: func(r Row) string { return r.Type }, slot: func(rec *Record) *Value { return &rec.Type }},
		{name: "scan_path", get: func(r Row) string { return r.ScanPath }, slot: func(rec *Record) *Value { return &rec.ScanPath }},
		{name: "scan_name", get: func(r Row) string { return r.ScanName }, slot: func(rec *Record) *Value { return &rec.ScanName }},
		{name: "pad", get: func(r Row) string { return r.Pad }, slot: func(rec *Record) *Value { return &rec.Pad }},
		{name: "ext", get: func(r Row) string { return r.Ext }, slot: func(rec *Record) *Value { return &rec.Ext }},
		{name: "resolution", get: func(r Row) string { return r.Resolution }, slot: func(rec *Record) *Value { return &rec.Resolution }},
		{name: "start_frame", get: func(r Row) string { return r.StartFrame }, slot: func(rec *Record) *Value { return &rec.StartFrame }},
		{name: "end_frame", get: func(r Row) string { return r.EndFrame }, slot: func(rec *Record) *Value { return &rec.EndFrame }},
		{name: "duration", get: func(r Row) string { return r.Duration }, slot: func(rec *Record) *Value { return &rec.Duration }},
		{name: "retime_start_frame", get: func(r Row) string { return r.RetimeStartFrame }, slot: func(rec *Record) *Value { return &rec.RetimeStartFrame }, retime: true},
		{name: "retime_duration", get: func(r Row) string { return r.RetimeDuration }, slot: func(rec *Record) *Value { return &rec.RetimeDuration }, retime: true},
		{name: "retime_percent", get: func(r Row) string { return r.RetimePercent }, slot: func(rec *Record) *Value { return &rec.RetimePercent }, retime: true},
		{name: "timecode_in", get: func(r Row) string { return r.TimecodeIn }, slot: func(rec *Record) *Value { return &rec.TimecodeIn }},
		{name: "timecode_out", get: func(r Row) string { return r.TimecodeOut }, slot: func(rec *Record) *Value { return &rec.TimecodeOut }},
		{name: "just_in", get: func(r Row) string { return r.JustIn }, slot: func(rec *Record) *Value { return &rec.JustIn }},
		{name: "just_out", get: func(r Row) string { return r.JustOut }, slot: func(rec *Record) *Value { return &rec.JustOut }},
		{name: "framerate", get: func(r Row) string { return r.Framerate }, slot: func(rec *Record) *Value { return &rec.Framerate }},
		{name: "date", get: func(r Row) string { return r.Date }, slot: func(rec *Record) *Value { return &rec.Date }},
		{name: "clip_tag", get: func(r Row) string { return r.ClipTag }, slot: func(rec *Record) *Value { return &rec.ClipTag }},
	}
}
