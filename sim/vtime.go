package sim

// VTimeInSec is a point on a simulated timeline, in seconds. procsim itself
// only orders events by cycle number, not wall or virtual time, but the
// tracing package still stamps tasks with a VTimeInSec so a Tracer written
// against a real akita-style engine could consume the same Task shape.
type VTimeInSec float64
