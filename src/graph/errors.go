package graph

import "github.com/marschall-lab/panacus-go/src/kind"

// Kind and Error are defined in src/kind so that gfa1 (which graph itself
// imports) can use them without creating an import cycle. They are
// re-exported here unchanged so every existing graph.Kind/graph.Error
// reference keeps working.
type Kind = kind.Kind

const (
	MalformedInput         = kind.MalformedInput
	UnknownSegment         = kind.UnknownSegment
	MalformedStep          = kind.MalformedStep
	BluntnessViolated      = kind.BluntnessViolated
	DuplicatePath          = kind.DuplicatePath
	EmptySelection         = kind.EmptySelection
	ThresholdShapeMismatch = kind.ThresholdShapeMismatch
	Cancelled              = kind.Cancelled
	OutOfMemory            = kind.OutOfMemory
)

type Error = kind.Error
