package graph

import (
	"io"

	"github.com/marschall-lab/panacus-go/src/gfa1"
)

// recordSource is satisfied by *gfa1.Reader. Kept as an interface here
// (rather than importing gfa1.Reader directly into every signature) so
// tests can feed Build a canned slice of records without going through a
// byte-level scanner.
type recordSource interface {
	Next() (gfa1.Record, error)
}

// Warn is called for every recoverable condition raised during ingest
// (DuplicatePath). Callers wire this to their own warning collection.
type Warn func(kind Kind, msg string)

// Graph is the frozen, post-ingest product of Build: the segment/edge
// interners plus every path and walk, keyed by their external name. Once
// returned it is append-only no more and read-only for the lifetime of
// a request.
type Graph struct {
	Segments *Interner
	Edges    *EdgeInterner
	Paths    []*Path

	// DuplicatePaths counts path/walk names seen more than once; the
	// first occurrence wins and later ones are skipped.
	DuplicatePaths int
}

// Build reads every record from src and assembles a Graph. Segments and
// links must precede any path/walk that references them (the ordering a
// well-formed GFA1 file already guarantees); a step referencing an
// undeclared segment fails with UnknownSegment.
func Build(src recordSource, warn Warn) (*Graph, error) {
	if warn == nil {
		warn = func(Kind, string) {}
	}
	g := &Graph{
		Segments: NewInterner(),
		Edges:    NewEdgeInterner(),
	}
	seenPaths := make(map[string]struct{})

	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch rec.Kind {
		case gfa1.Segment:
			g.Segments.Intern(rec.Segment.Name, rec.Segment.Length)

		case gfa1.Link:
			if err := g.internLink(rec.Link); err != nil {
				return nil, err
			}

		case gfa1.PathLine:
			steps, err := g.resolvePathSteps(rec.Path.Steps)
			if err != nil {
				return nil, err
			}
			g.addPath(rec.Path.Name, steps, seenPaths, warn)

		case gfa1.WalkLine:
			names, forwards, err := ParseWalkSegments(rec.Walk.Walk)
			if err != nil {
				return nil, err
			}
			steps, err := g.resolveSteps(names, forwards)
			if err != nil {
				return nil, err
			}
			g.addPath(rec.Name(), steps, seenPaths, warn)
		}
	}
	return g, nil
}

func (g *Graph) internLink(l gfa1.LinkRecord) error {
	fromID, err := g.Segments.Lookup(l.From)
	if err != nil {
		return err
	}
	toID, err := g.Segments.Lookup(l.To)
	if err != nil {
		return err
	}
	fromForward := l.FromOrient == '+'
	toForward := l.ToOrient == '+'
	g.Edges.Edge(fromID, exitSide(fromForward), toID, entrySide(toForward))
	return nil
}

func (g *Graph) resolvePathSteps(tokens []string) ([]Step, error) {
	steps := make([]Step, len(tokens))
	for i, tok := range tokens {
		name, forward, err := ParseOrientedSegment(tok)
		if err != nil {
			return nil, err
		}
		id, err := g.Segments.Lookup(name)
		if err != nil {
			return nil, err
		}
		steps[i] = Step{Seg: id, Forward: forward}
	}
	return steps, nil
}

func (g *Graph) resolveSteps(names []string, forwards []bool) ([]Step, error) {
	steps := make([]Step, len(names))
	for i, name := range names {
		id, err := g.Segments.Lookup(name)
		if err != nil {
			return nil, err
		}
		steps[i] = Step{Seg: id, Forward: forwards[i]}
	}
	return steps, nil
}

func (g *Graph) addPath(name string, steps []Step, seen map[string]struct{}, warn Warn) {
	if _, ok := seen[name]; ok {
		g.DuplicatePaths++
		warn(DuplicatePath, "duplicate path/walk name, keeping first occurrence: "+name)
		return
	}
	seen[name] = struct{}{}
	// Intern every step transition now, while ingest is still
	// single-threaded. The edge interner is frozen once Build returns, so
	// the abundance builder's worker pool only ever reads it, even for
	// transitions no L record declared.
	for i := 0; i+1 < len(steps); i++ {
		a, b := steps[i], steps[i+1]
		g.Edges.Edge(a.Seg, exitSide(a.Forward), b.Seg, entrySide(b.Forward))
	}
	p := &Path{
		ID:    uint32(len(g.Paths)),
		Name:  name,
		PanSN: ParsePanSN(name),
		Steps: steps,
	}
	g.Paths = append(g.Paths, p)
}
