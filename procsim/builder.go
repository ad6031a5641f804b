package procsim

// Default configuration values, matching the reference implementation's
// DEFAULT_K0/K1/K2/R/F constants.
const (
	DefaultResultBuses = 8
	DefaultK0          = 1
	DefaultK1          = 2
	DefaultK2          = 3
	DefaultFetchWidth  = 4
)

// Builder assembles a Controller. Each With* method returns a modified
// copy, so a Builder can be reused as a template for several controllers.
type Builder struct {
	resultBuses int
	k0, k1, k2  int
	fetchWidth  int
	trace       TraceSource
}

// NewBuilder creates a Builder pre-populated with the default
// configuration.
func NewBuilder() Builder {
	return Builder{
		resultBuses: DefaultResultBuses,
		k0:          DefaultK0,
		k1:          DefaultK1,
		k2:          DefaultK2,
		fetchWidth:  DefaultFetchWidth,
	}
}

// WithResultBuses sets R, the number of result buses drained per cycle. It
// panics if r < 1.
func (b Builder) WithResultBuses(r int) Builder {
	if r < 1 {
		panic("procsim: result bus count must be at least 1")
	}

	b.resultBuses = r
	return b
}

// WithFUCounts sets the per-class functional unit pool sizes. It panics if
// any count is negative.
func (b Builder) WithFUCounts(k0, k1, k2 int) Builder {
	if k0 < 0 || k1 < 0 || k2 < 0 {
		panic("procsim: functional unit counts must be non-negative")
	}

	b.k0, b.k1, b.k2 = k0, k1, k2
	return b
}

// WithFetchWidth sets F, the number of instructions fetched per cycle. It
// panics if f < 1.
func (b Builder) WithFetchWidth(f int) Builder {
	if f < 1 {
		panic("procsim: fetch width must be at least 1")
	}

	b.fetchWidth = f
	return b
}

// WithTraceSource sets the instruction source fetch pulls from.
func (b Builder) WithTraceSource(src TraceSource) Builder {
	b.trace = src
	return b
}

// RSCapacity returns the reservation station capacity this configuration
// derives: 2*(k0+k1+k2).
func (b Builder) RSCapacity() int {
	return 2 * (b.k0 + b.k1 + b.k2)
}

// Build constructs a Controller ready to Run. It panics if no trace
// source was set, mirroring the reference implementation's fatal
// trace-open failure, which the caller is expected to have already
// converted into ErrTraceOpen before reaching here.
func (b Builder) Build() *Controller {
	if b.trace == nil {
		panic("procsim: Builder.Build called without WithTraceSource")
	}

	rst := newRegisterStatusTable()
	history := newBroadcastHistory()
	fus := newFuncUnits(b.k0, b.k1, b.k2)
	bus := newResultBus(b.resultBuses)
	rs := newReservationStation(b.RSCapacity())
	dq := newDispatchQueue()

	return &Controller{
		dq:       dq,
		rs:       rs,
		fetch:    newFetchStage(b.trace, b.fetchWidth),
		dispatch: newDispatchStage(rst),
		schedule: newScheduleStage(history),
		execute:  newExecuteStage(rst, history, fus, bus),
		state:    newStateUpdateStage(bus),
		fus:      fus,
		bus:      bus,
		history:  history,
	}
}
