package group_test

import (
	"testing"

	"github.com/marschall-lab/panacus-go/src/graph"
	"github.com/marschall-lab/panacus-go/src/group"
)

func mkPath(id uint32, name string) *graph.Path {
	return &graph.Path{ID: id, Name: name, PanSN: graph.ParsePanSN(name)}
}

func samplePaths() []*graph.Path {
	return []*graph.Path{
		mkPath(0, "HG002#1#chr1"),
		mkPath(1, "HG002#2#chr1"),
		mkPath(2, "HG003#1#chr1"),
	}
}

func TestResolverByPathOneGroupPerPath(t *testing.T) {
	r, err := group.NewResolver(group.ByPath, samplePaths(), group.Selection{}, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if r.NumGroups() != 3 {
		t.Fatalf("NumGroups = %d, want 3", r.NumGroups())
	}
}

func TestResolverByHaplotypeCollapsesNothingHere(t *testing.T) {
	r, err := group.NewResolver(group.ByHaplotype, samplePaths(), group.Selection{}, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	// HG002#1, HG002#2, HG003#1 - three distinct haplotype keys.
	if r.NumGroups() != 3 {
		t.Fatalf("NumGroups = %d, want 3", r.NumGroups())
	}
}

func TestResolverBySampleCollapsesHaplotypes(t *testing.T) {
	r, err := group.NewResolver(group.BySample, samplePaths(), group.Selection{}, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	// HG002's two haplotypes collapse into one sample group; HG003 is its own.
	if r.NumGroups() != 2 {
		t.Fatalf("NumGroups = %d, want 2", r.NumGroups())
	}
	g0, ok := r.GroupOf(0)
	if !ok {
		t.Fatal("path 0 not resolved")
	}
	g1, ok := r.GroupOf(1)
	if !ok {
		t.Fatal("path 1 not resolved")
	}
	if g0 != g1 {
		t.Fatalf("HG002's two haplotypes landed in different groups: %d vs %d", g0, g1)
	}
}

func TestResolverExclusionRemovesPath(t *testing.T) {
	r, err := group.NewResolver(group.ByPath, samplePaths(), group.Selection{Exclude: []string{"HG003#1#chr1"}}, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if r.NumGroups() != 2 {
		t.Fatalf("NumGroups = %d, want 2", r.NumGroups())
	}
	if _, ok := r.GroupOf(2); ok {
		t.Fatal("excluded path should not resolve to a group")
	}
}

func TestResolverInclusionRestrictsToSubset(t *testing.T) {
	r, err := group.NewResolver(group.ByPath, samplePaths(), group.Selection{Include: []string{"HG002#1#chr1"}}, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if r.NumGroups() != 1 {
		t.Fatalf("NumGroups = %d, want 1", r.NumGroups())
	}
}

func TestResolverEmptySelectionFails(t *testing.T) {
	_, err := group.NewResolver(group.ByPath, samplePaths(), group.Selection{Include: []string{"nope"}}, nil)
	if err == nil {
		t.Fatal("expected EmptySelection error")
	}
	gerr, ok := err.(*graph.Error)
	if !ok || gerr.Kind != graph.EmptySelection {
		t.Fatalf("got %v, want EmptySelection", err)
	}
}

func TestResolverOrderListSkipsAbsentGroupWithWarning(t *testing.T) {
	var warnings []string
	warn := func(kind graph.Kind, msg string) { warnings = append(warnings, msg) }
	sel := group.Selection{Order: []string{"HG003#1#chr1", "no-such-group", "HG002#1#chr1"}}
	r, err := group.NewResolver(group.ByPath, samplePaths(), sel, warn)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	id, ok := r.GroupID("HG003#1#chr1")
	if !ok || id != 0 {
		t.Fatalf("HG003#1#chr1 should be group 0 per explicit order, got %d, %v", id, ok)
	}
}
