package plate

// Row is one selected plate-sheet line with its fields normalized to the
// fixed schema. Numeric fields stay string-typed until aggregation; the
// grouper parses them when collapsing and treats failures as batch errors.
type Row struct {
	// ID is the sheet row index, the identifier version assignments key on.
	ID int

	Sequence string
	Shot     string
	Roll     string
	Type     string

	ScanPath   string
	ScanName   string
	Pad        string
	Ext        string
	Resolution string

	StartFrame string
	EndFrame   string
	Duration   string

	// Retime triplet. Either all three are set for a row or none; a row may
	// contribute one retime segment to its shot.
	RetimeStartFrame string
	RetimeDuration   string
	RetimePercent    string

	TimecodeIn  string
	TimecodeOut string
	JustIn      string
	JustOut     string

	Framerate string
	Date      string
	ClipTag   string
}

// Key identifies the shot a row belongs to. Rows sharing a key merge into
// one grouped record.
type Key struct {
	Sequence string
	Shot     string
}

// GroupKey returns the row's shot key.
func (r Row) GroupKey() Key {
	return Key{Sequence: r.Sequence, Shot: r.Shot}
}

// HasRetime reports whether the row carries a complete retime triplet.
func (r Row) HasRetime() bool {
	return r.RetimeStartFrame != "" && r.RetimeDuration != "" && r.RetimePercent != ""
}

// retimePartial reports whether the triplet is inconsistently filled.
func (r Row) retimePartial() bool {
	filled := 0
	for _, v := range []string{r.RetimeStartFrame, r.RetimeDuration, r.RetimePercent} {
		if v != "" {
			filled++
		}
	}
	return filled != 0 && filled != 3
}
