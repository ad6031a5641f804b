package procsim

import "github.com/sarchlab/procsim/sim"

// dispatchQueue wraps sim.UnboundedBuffer with *Inst-typed access.
type dispatchQueue struct {
	buf *sim.UnboundedBuffer
}

func newDispatchQueue() *dispatchQueue {
	return &dispatchQueue{buf: sim.NewUnboundedBuffer("DQ")}
}

func (dq *dispatchQueue) push(inst *Inst) { dq.buf.Push(inst) }

func (dq *dispatchQueue) pop() *Inst {
	e := dq.buf.Pop()
	if e == nil {
		return nil
	}

	return e.(*Inst)
}

func (dq *dispatchQueue) size() int { return dq.buf.Size() }

// dispatchStage moves up to a snapshotted number of instructions from the
// DQ head into the RS, renaming their sources against the RST.
type dispatchStage struct {
	rst *registerStatusTable
}

func newDispatchStage(rst *registerStatusTable) *dispatchStage {
	return &dispatchStage{rst: rst}
}

// run admits at most slotsFree instructions. slotsFree must be the RS
// free-slot count snapshotted at cycle start, before state_update's retirements
// are applied, per the half-cycle rule: freed slots become visible to
// dispatch only on the next cycle.
func (d *dispatchStage) run(cycle int64, slotsFree int, dq *dispatchQueue, rs *reservationStation) int {
	admitted := 0

	for i := 0; i < slotsFree; i++ {
		inst := dq.pop()
		if inst == nil {
			return admitted
		}

		inst.ScheduleCycle = cycle + 1

		for s := 0; s < 2; s++ {
			if !inst.hasSrc(s) {
				continue
			}

			inst.SrcProducer[s] = d.rst.producerOf(inst.Src[s])
		}

		if inst.hasDst() {
			d.rst.claim(inst.Dst, inst.Tag)
		}

		rs.add(inst)
		admitted++
	}

	return admitted
}
