package wirebox

// Sink receives the parameters and definitions produced by a build. The
// Container implements it; the resolver depends only on this interface so
// the merge engine stays independently testable.
//
// Both operations are last-write-wins: a later call for the same name
// overwrites the earlier one. The processing order established by
// SortHierarchy is what turns that into the documented precedence rules.
type Sink interface {
	// SetParameter registers a named parameter value. The name carries the
	// fully composed namespace prefix.
	SetParameter(name string, value any)

	// SetDefinition registers a service definition. The name carries the
	// fully composed namespace prefix. The definition is owned by the sink
	// from this point on.
	SetDefinition(name string, definition *Definition)
}
