package gfa1

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/marschall-lab/panacus-go/src/kind"
)

// bufferSize is the scanner's token buffer size, large enough for the
// long comma-separated P-line step lists seen in real pangenome graphs.
const bufferSize = 1 << 20

// Reader scans a GFA1 byte stream line by line and decodes each
// recognised record. It does not buffer the whole file: Next returns one
// Record at a time, pulled by the caller rather than pushed down a
// channel, since graph ingest happens before any worker pool exists to
// consume one.
type Reader struct {
	scanner *bufio.Scanner
	offset  int64
	lineNum int
}

// NewReader wraps r. If gzipped is true, r is first unwrapped through
// gzip.NewReader.
func NewReader(r io.Reader, gzipped bool) (*Reader, error) {
	if gzipped {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gfa1: not a gzip stream: %w", err)
		}
		r = gz
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), bufferSize)
	return &Reader{scanner: sc}, nil
}

// Next returns the next decoded record, or io.EOF once the stream is
// exhausted. Blank lines, comment and header lines, and unrecognised
// record types are skipped: they decode to Comment internally and are
// never returned.
func (r *Reader) Next() (Record, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		r.offset += int64(len(line)) + 1
		r.lineNum++
		if line == "" {
			continue
		}
		rec, err := decodeLine(line)
		if err != nil {
			return Record{}, &kind.Error{
				Kind:  kind.MalformedInput,
				Msg:   fmt.Sprintf("line %d (byte offset %d)", r.lineNum, r.offset),
				Cause: err,
			}
		}
		if rec.Kind == Comment {
			continue
		}
		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("gfa1: %w", err)
	}
	return Record{}, io.EOF
}

func decodeLine(line string) (Record, error) {
	switch line[0] {
	case '#':
		return Record{Kind: Comment}, nil
	case 'H':
		return Record{Kind: Comment}, nil
	case 'S':
		return decodeSegment(line)
	case 'L':
		return decodeLink(line)
	case 'P':
		return decodePath(line)
	case 'W':
		return decodeWalk(line)
	default:
		return Record{Kind: Comment}, nil
	}
}

func decodeSegment(line string) (Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 3 {
		return Record{}, fmt.Errorf("S line needs at least 3 fields, got %d", len(fields))
	}
	name := fields[1]
	length := -1
	if fields[2] != "*" {
		length = len(fields[2])
	}
	for _, tag := range fields[3:] {
		if strings.HasPrefix(tag, "LN:i:") {
			n, err := strconv.Atoi(tag[len("LN:i:"):])
			if err != nil {
				return Record{}, fmt.Errorf("bad LN tag %q: %w", tag, err)
			}
			length = n
		}
	}
	if length < 0 {
		return Record{}, fmt.Errorf("segment %q has no sequence and no LN tag", name)
	}
	return Record{Kind: Segment, Segment: SegmentRecord{Name: name, Length: length}}, nil
}

func decodeLink(line string) (Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 6 {
		return Record{}, fmt.Errorf("L line needs at least 6 fields, got %d", len(fields))
	}
	if len(fields[2]) != 1 || len(fields[4]) != 1 {
		return Record{}, fmt.Errorf("L line orientation must be a single +/- character")
	}
	overlap := fields[5]
	if overlap != "0M" && overlap != "*" {
		return Record{}, &kind.Error{
			Kind: kind.BluntnessViolated,
			Msg:  fmt.Sprintf("non-blunt link overlap %q (only 0M or * supported)", overlap),
		}
	}
	return Record{Kind: Link, Link: LinkRecord{
		From:       fields[1],
		FromOrient: fields[2][0],
		To:         fields[3],
		ToOrient:   fields[4][0],
		Overlap:    overlap,
	}}, nil
}

func decodePath(line string) (Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 3 {
		return Record{}, fmt.Errorf("P line needs at least 3 fields, got %d", len(fields))
	}
	steps := strings.Split(fields[2], ",")
	return Record{Kind: PathLine, Path: PathRecord{Name: fields[1], Steps: steps}}, nil
}

func decodeWalk(line string) (Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 7 {
		return Record{}, fmt.Errorf("W line needs at least 7 fields, got %d", len(fields))
	}
	start, err := strconv.Atoi(fields[4])
	if err != nil {
		return Record{}, fmt.Errorf("bad walk start offset %q: %w", fields[4], err)
	}
	end, err := strconv.Atoi(fields[5])
	if err != nil {
		return Record{}, fmt.Errorf("bad walk end offset %q: %w", fields[5], err)
	}
	return Record{Kind: WalkLine, Walk: WalkRecord{
		Sample: fields[1],
		Hap:    fields[2],
		Contig: fields[3],
		Start:  start,
		End:    end,
		Walk:   fields[6],
	}}, nil
}
