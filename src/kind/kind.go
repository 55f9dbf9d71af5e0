// Package kind holds the Kind/Error types shared by every package on the
// ingest path (gfa1, graph, group, abacus, core) so neither side of the
// gfa1<->graph relationship needs to import the other just for error
// classification.
package kind

import "fmt"

// Kind identifies one of the fatal or recoverable error categories this
// engine raises. It is shared (via Error) by every package on the
// ingest path so the façade and CLI can switch on it without string
// matching.
type Kind int

const (
	// MalformedInput marks an unparsable GFA record.
	MalformedInput Kind = iota
	// UnknownSegment marks a step or link referencing an unseen segment.
	UnknownSegment
	// MalformedStep marks a step with a missing or invalid orientation.
	MalformedStep
	// BluntnessViolated marks a link with a non-blunt overlap.
	BluntnessViolated
	// DuplicatePath marks a path/walk name seen more than once.
	DuplicatePath
	// EmptySelection marks a request where no paths survive inclusion/exclusion.
	EmptySelection
	// ThresholdShapeMismatch marks mismatched -l/-q list lengths.
	ThresholdShapeMismatch
	// Cancelled marks a request stopped by its cancellation flag.
	Cancelled
	// OutOfMemory marks a dense abundance table exceeding budget with no sparse fallback.
	OutOfMemory
)

func (k Kind) String() string {
	switch k {
	case MalformedInput:
		return "MalformedInput"
	case UnknownSegment:
		return "UnknownSegment"
	case MalformedStep:
		return "MalformedStep"
	case BluntnessViolated:
		return "BluntnessViolated"
	case DuplicatePath:
		return "DuplicatePath"
	case EmptySelection:
		return "EmptySelection"
	case ThresholdShapeMismatch:
		return "ThresholdShapeMismatch"
	case Cancelled:
		return "Cancelled"
	case OutOfMemory:
		return "OutOfMemory"
	default:
		return "Unknown"
	}
}

// Error is the engine's one error type: a Kind plus a message and an
// optional wrapped cause. Every fatal condition raised by graph, group,
// abacus, growth, and core is one of these, so the CLI can map Kind to
// an exit code instead of pattern-matching strings.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
