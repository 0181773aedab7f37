package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrProvider = "provider"
	AttrStatus   = "status"
	AttrKind     = "kind"
	AttrOutcome  = "outcome"
)
