package gfa1_test

import (
	"io"
	"strings"
	"testing"

	"github.com/marschall-lab/panacus-go/src/gfa1"
	"github.com/marschall-lab/panacus-go/src/graph"
)

func readAll(t *testing.T, data string) []gfa1.Record {
	t.Helper()
	r, err := gfa1.NewReader(strings.NewReader(data), false)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	var recs []gfa1.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		recs = append(recs, rec)
	}
	return recs
}

func TestReaderDecodesCoreRecordKinds(t *testing.T) {
	data := "H\tVN:Z:1.0\n" +
		"S\t1\tAAA\n" +
		"S\t2\t*\tLN:i:4\n" +
		"L\t1\t+\t2\t+\t0M\n" +
		"P\tp1\t1+,2+\t*\n" +
		"W\tsampleA\t0\tctg1\t0\t10\t>1>2\n"
	recs := readAll(t, data)
	if len(recs) != 5 {
		t.Fatalf("got %d records, want 5 (H line skipped): %+v", len(recs), recs)
	}
	if recs[0].Kind != gfa1.Segment || recs[0].Segment.Length != 3 {
		t.Fatalf("segment 1 = %+v", recs[0])
	}
	if recs[1].Kind != gfa1.Segment || recs[1].Segment.Length != 4 {
		t.Fatalf("segment 2 (LN tag) = %+v", recs[1])
	}
	if recs[2].Kind != gfa1.Link || recs[2].Link.Overlap != "0M" {
		t.Fatalf("link = %+v", recs[2])
	}
	if recs[3].Kind != gfa1.PathLine || len(recs[3].Path.Steps) != 2 {
		t.Fatalf("path = %+v", recs[3])
	}
	if recs[4].Kind != gfa1.WalkLine || recs[4].Walk.Walk != ">1>2" {
		t.Fatalf("walk = %+v", recs[4])
	}
	if got := recs[4].Name(); got != "sampleA#0#ctg1" {
		t.Fatalf("walk Name() = %q, want sampleA#0#ctg1", got)
	}
}

func TestReaderRejectsNonBluntLink(t *testing.T) {
	data := "S\t1\tAAA\nS\t2\tCC\nL\t1\t+\t2\t+\t5M\n"
	r, err := gfa1.NewReader(strings.NewReader(data), false)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := r.Next(); err != nil {
		t.Fatalf("segment 1: %v", err)
	}
	if _, err := r.Next(); err != nil {
		t.Fatalf("segment 2: %v", err)
	}
	_, err = r.Next()
	if err == nil {
		t.Fatal("expected MalformedInput/BluntnessViolated error for non-blunt link")
	}
	gerr, ok := err.(*graph.Error)
	if !ok || gerr.Kind != graph.MalformedInput {
		t.Fatalf("got %v, want a wrapped MalformedInput error", err)
	}
	cause, ok := gerr.Unwrap().(*graph.Error)
	if !ok || cause.Kind != graph.BluntnessViolated {
		t.Fatalf("cause = %v, want BluntnessViolated", gerr.Unwrap())
	}
}

func TestReaderRejectsShortSegmentLine(t *testing.T) {
	r, err := gfa1.NewReader(strings.NewReader("S\t1\n"), false)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := r.Next(); err == nil {
		t.Fatal("expected error for malformed S line")
	}
}
