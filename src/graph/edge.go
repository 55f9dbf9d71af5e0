package graph

// Side identifies which end of a segment an edge touches. A blunt L-record
// or a path-internal step transition always joins one segment's "far" side
// to the next segment's "near" side, and the sides flip when a step is
// traversed in reverse orientation.
type Side uint8

const (
	// SideStart is the 5' / left end of a segment.
	SideStart Side = iota
	// SideEnd is the 3' / right end of a segment.
	SideEnd
)

// endpoint is one half of an edge: a segment id and the side of it that is
// joined.
type endpoint struct {
	Seg  uint32
	Side Side
}

func (a endpoint) less(b endpoint) bool {
	if a.Seg != b.Seg {
		return a.Seg < b.Seg
	}
	return a.Side < b.Side
}

// edgeKey is the canonical, orientation-independent identity of an edge:
// its two endpoints sorted so that {u,v} and {v,u} hash to the same key.
// This is the only place orientation semantics feed into feature identity.
type edgeKey struct {
	a, b endpoint
}

func canonicalKey(a, b endpoint) edgeKey {
	if a.less(b) {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

// EdgeInterner assigns dense ids to canonical edges. Like Interner it is
// populated single-threaded during graph ingest (from L-records) and
// during path/walk pre-scan (any step transition not already covered by
// an L-record is interned on first sight), then frozen before the
// abundance builder's worker pool starts reading it.
type EdgeInterner struct {
	index map[edgeKey]uint32
	keys  []edgeKey
}

// NewEdgeInterner returns an empty EdgeInterner.
func NewEdgeInterner() *EdgeInterner {
	return &EdgeInterner{index: make(map[edgeKey]uint32)}
}

// Edge returns the canonical edge id for the join between (segA, sideA)
// and (segB, sideB), creating one if this is the first time the pair has
// been seen.
func (ei *EdgeInterner) Edge(segA uint32, sideA Side, segB uint32, sideB Side) uint32 {
	key := canonicalKey(endpoint{segA, sideA}, endpoint{segB, sideB})
	if id, ok := ei.index[key]; ok {
		return id
	}
	id := uint32(len(ei.keys))
	ei.index[key] = id
	ei.keys = append(ei.keys, key)
	return id
}

// NumEdges returns the number of distinct canonical edges interned (|E|).
func (ei *EdgeInterner) NumEdges() int {
	return len(ei.keys)
}

// Describe renders edge id as its two oriented endpoints in canonical
// order, e.g. "1+2+" for the join leaving segment 1's end and entering
// segment 2's start. segs resolves segment names.
func (ei *EdgeInterner) Describe(id uint32, segs *Interner) string {
	k := ei.keys[id]
	ao := byte('-')
	if k.a.Side == SideEnd {
		ao = '+'
	}
	bo := byte('-')
	if k.b.Side == SideStart {
		bo = '+'
	}
	return segs.Name(k.a.Seg) + string(ao) + segs.Name(k.b.Seg) + string(bo)
}

// exitSide returns the side of a segment that traversal leaves by, given
// the orientation the step was taken in.
func exitSide(forward bool) Side {
	if forward {
		return SideEnd
	}
	return SideStart
}

// entrySide returns the side of a segment that traversal enters by, given
// the orientation the step was taken in.
func entrySide(forward bool) Side {
	if forward {
		return SideStart
	}
	return SideEnd
}
