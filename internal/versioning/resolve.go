package versioning

import (
	"strconv"
	"strings"
)

// Code is a parsed tracking-database version code.
type Code struct {
	SeqShot    string
	Colorspace string
	Type       string
	Version    int
}

// ParseCode splits a composite code of the form
// {seq}_{shot}_{colorspace}_{type}_v{NNN}. The version number is the last
// token's digits after its leading marker character. Codes that do not fit
// the shape are reported as unparseable and take no part in resolution;
// they cannot collide with codes this system writes.
func ParseCode(code string) (Code, bool) {
	parts := strings.Split(strings.TrimSpace(code), "_")
	if len(parts) < 5 {
		return Code{}, false
	}
	last := parts[len(parts)-1]
	if len(last) < 2 {
		return Code{}, false
	}
	version, err := strconv.Atoi(last[1:])
	if err != nil {
		return Code{}, false
	}
	return Code{
		SeqShot:    parts[0] + "_" + parts[1],
		Colorspace: parts[2],
		Type:       parts[3],
		Version:    version,
	}, true
}

// Index holds existing version numbers nested by shot, colorspace, and type.
type Index map[string]map[string]map[string][]int

// BuildIndex parses every existing code into the nested lookup structure.
func BuildIndex(codes []string) Index {
	idx := make(Index)
	for _, raw := range codes {
		code, ok := ParseCode(raw)
		if !ok {
			continue
		}
		byColorspace, ok := idx[code.SeqShot]
		if !ok {
			byColorspace = make(map[string]map[string][]int)
			idx[code.SeqShot] = byColorspace
		}
		byType, ok := byColorspace[code.Colorspace]
		if !ok {
			byType = make(map[string][]int)
			byColorspace[code.Colorspace] = byType
		}
		byType[code.Type] = append(byType[code.Type], code.Version)
	}
	return idx
}

// Next returns the next version for a (shot, colorspace, type) tuple:
// max(existing)+1 when prior versions exist, otherwise 1. Only the maximum
// matters; gaps in the sequence never reduce the answer.
func (idx Index) Next(seqShot, colorspace, mediaType string) int {
	byColorspace, ok := idx[seqShot]
	if !ok {
		return 1
	}
	byType, ok := byColorspace[colorspace]
	if !ok {
		return 1
	}
	versions, ok := byType[mediaType]
	if !ok || len(versions) == 0 {
		return 1
	}
	latest := versions[0]
	for _, v := range versions[1:] {
		if v > latest {
			latest = v
		}
	}
	return latest + 1
}

// Selection carries the per-row inputs resolution needs.
type Selection struct {
	RowID int
	Shot  string
	Type  string
}

// Resolve computes the next version for every selected row against the
// provided snapshot of existing codes. An empty snapshot short-circuits:
// every row gets version 1.
//
// The snapshot can go stale between this call and the eventual publish;
// resolution makes no attempt to reserve numbers.
func Resolve(codes []string, rows []Selection, colorspace string) map[int]int {
	assigned := make(map[int]int, len(rows))
	if len(codes) == 0 {
		for _, row := range rows {
			assigned[row.RowID] = 1
		}
		return assigned
	}

	idx := BuildIndex(codes)
	for _, row := range rows {
		assigned[row.RowID] = idx.Next(row.Shot, colorspace, row.Type)
	}
	return assigned
}
