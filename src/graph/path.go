package graph

import (
	"fmt"
	"strings"
)

// Step is one oriented visit to a segment: (segment id, sign). Forward
// means '+', reverse means '-'.
type Step struct {
	Seg     uint32
	Forward bool
}

// PanSN is a path name decomposed per the sample#haplotype#contig
// convention. Names that don't carry the full convention still populate
// Sample with the whole name and leave Haplotype/Contig empty, so the
// group resolver always has something to key on.
type PanSN struct {
	Sample    string
	Haplotype string
	Contig    string
}

// ParsePanSN splits a path/walk name on '#' into up to three fields.
func ParsePanSN(name string) PanSN {
	parts := strings.SplitN(name, "#", 3)
	p := PanSN{Sample: parts[0]}
	if len(parts) > 1 {
		p.Haplotype = parts[1]
	}
	if len(parts) > 2 {
		p.Contig = parts[2]
	}
	return p
}

// SampleHaplotypeKey returns the "sample#haplotype" group key used by
// haplotype-mode grouping.
func (p PanSN) SampleHaplotypeKey() string {
	if p.Haplotype == "" {
		return p.Sample
	}
	return p.Sample + "#" + p.Haplotype
}

// Path is one P or W line: a dense id, its external name, the PanSN
// decomposition of that name, and its ordered steps. Immutable once
// built.
type Path struct {
	ID    uint32
	Name  string
	PanSN PanSN
	Steps []Step
}

// ParseOrientedSegment splits a single "<name><sign>" token (as found in
// a comma-separated P line) into the segment name and its sign.
func ParseOrientedSegment(token string) (name string, forward bool, err error) {
	if len(token) < 2 {
		return "", false, &Error{Kind: MalformedStep, Msg: fmt.Sprintf("step token too short: %q", token)}
	}
	sign := token[len(token)-1]
	switch sign {
	case '+':
		return token[:len(token)-1], true, nil
	case '-':
		return token[:len(token)-1], false, nil
	default:
		return "", false, &Error{Kind: MalformedStep, Msg: fmt.Sprintf("step %q has no +/- orientation", token)}
	}
}

// ParseWalkSegments splits a walk-line traversal string (a run of
// '>'/'<' prefixed segment names, no separators) into individual steps.
func ParseWalkSegments(walk string) (names []string, forwards []bool, err error) {
	i := 0
	for i < len(walk) {
		sign := walk[i]
		var forward bool
		switch sign {
		case '>':
			forward = true
		case '<':
			forward = false
		default:
			return nil, nil, &Error{Kind: MalformedStep, Msg: fmt.Sprintf("walk step at offset %d has no >/< orientation", i)}
		}
		i++
		start := i
		for i < len(walk) && walk[i] != '>' && walk[i] != '<' {
			i++
		}
		if i == start {
			return nil, nil, &Error{Kind: MalformedStep, Msg: fmt.Sprintf("empty segment name at offset %d in walk", start)}
		}
		names = append(names, walk[start:i])
		forwards = append(forwards, forward)
	}
	return names, forwards, nil
}
