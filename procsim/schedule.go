package procsim

// broadcastHistory is the authoritative set of tags whose results have
// reached a CDB. It is stricter than the RST's ready bits: under
// write-after-write hazards rdy[r] may already be set by an earlier
// writer than the one a given consumer actually depends on.
type broadcastHistory struct {
	seen map[uint64]bool
}

func newBroadcastHistory() *broadcastHistory {
	return &broadcastHistory{seen: make(map[uint64]bool)}
}

func (h *broadcastHistory) mark(tag uint64)     { h.seen[tag] = true }
func (h *broadcastHistory) has(tag uint64) bool { return h.seen[tag] }

// scheduleStage recomputes ReadyToFire for every not-yet-fired RS entry.
type scheduleStage struct {
	history *broadcastHistory
}

func newScheduleStage(history *broadcastHistory) *scheduleStage {
	return &scheduleStage{history: history}
}

// run latches ReadyToFire true once both sources are satisfied. The flag
// is never unset once set: producers' broadcasts are monotone, so a
// ready source cannot become unready.
func (s *scheduleStage) run(rs *reservationStation) {
	rs.each(func(inst *Inst) {
		if inst.Fired || inst.ReadyToFire {
			return
		}

		ready := true
		for src := 0; src < 2; src++ {
			if !s.sourceReady(inst, src) {
				ready = false
				break
			}
		}

		if ready {
			inst.ReadyToFire = true
		}
	})
}

func (s *scheduleStage) sourceReady(inst *Inst, src int) bool {
	if !inst.hasSrc(src) {
		return true
	}

	producer := inst.SrcProducer[src]
	if producer == 0 {
		return true
	}

	return s.history.has(producer)
}
