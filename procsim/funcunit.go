package procsim

// funcUnit is one functional unit within a class pool. A busy unit holds
// exactly one in-flight tag until that tag is broadcast; per the
// freed-at-broadcast policy, completion alone does not free it.
type funcUnit struct {
	busy             bool
	executingTag     uint64
	latencyRemaining int
}

// funcUnitPool is one of the three disjoint pools, one per instruction
// class.
type funcUnitPool struct {
	class Class
	units []funcUnit
}

func newFuncUnitPool(class Class, size int) *funcUnitPool {
	return &funcUnitPool{class: class, units: make([]funcUnit, size)}
}

// allocate finds a free unit and marks it busy executing tag, returning
// its index within the pool. ok is false if the pool is fully occupied.
func (p *funcUnitPool) allocate(tag uint64) (idx int, ok bool) {
	for i := range p.units {
		if !p.units[i].busy {
			p.units[i].busy = true
			p.units[i].executingTag = tag
			p.units[i].latencyRemaining = 1

			return i, true
		}
	}

	return 0, false
}

// findByTag locates the busy unit currently holding tag, if any. The
// instruction may have retired already, so lookup goes by tag rather than
// by the retired entry's recorded FUID.
func (p *funcUnitPool) findByTag(tag uint64) (idx int, ok bool) {
	for i := range p.units {
		if p.units[i].busy && p.units[i].executingTag == tag {
			return i, true
		}
	}

	return 0, false
}

// free releases the unit at idx.
func (p *funcUnitPool) free(idx int) {
	p.units[idx] = funcUnit{}
}

func (p *funcUnitPool) busyCount() int {
	n := 0
	for _, u := range p.units {
		if u.busy {
			n++
		}
	}

	return n
}

// funcUnits owns all three class pools.
type funcUnits struct {
	pools [3]*funcUnitPool
}

func newFuncUnits(k0, k1, k2 int) *funcUnits {
	return &funcUnits{pools: [3]*funcUnitPool{
		newFuncUnitPool(Class0, k0),
		newFuncUnitPool(Class1, k1),
		newFuncUnitPool(Class2, k2),
	}}
}

func (f *funcUnits) pool(c Class) *funcUnitPool { return f.pools[c] }

// freeByTag frees whichever pool's unit currently holds tag, searching
// each pool in turn.
func (f *funcUnits) freeByTag(tag uint64) {
	for _, p := range f.pools {
		if idx, ok := p.findByTag(tag); ok {
			p.free(idx)
			return
		}
	}
}
