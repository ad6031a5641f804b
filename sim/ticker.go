package sim

// Ticker is an object that advances its own state by one cycle when asked,
// reporting whether it did anything observable. procsim.Controller.Tick
// satisfies this shape, though the controller drives itself from a plain
// loop rather than through a Ticker-consuming scheduler: procsim has a
// single clock domain, so there is nothing for a scheduler to coordinate.
type Ticker interface {
	Tick() bool
}
