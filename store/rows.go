package store

import "github.com/sarchlab/procsim/procsim"

// InstRow is one retired-instruction row: procsim.Inst flattened into the
// scalar field set store.Recorder can persist.
type InstRow struct {
	Tag              int64
	Class            int64
	Src0             int64
	Src1             int64
	Dst              int64
	FetchCycle       int64
	DispatchCycle    int64
	ScheduleCycle    int64
	ExecuteCycle     int64
	StateUpdateCycle int64
}

// StatsRow is one run's summary statistics.
type StatsRow struct {
	AvgInstRetired     float64
	AvgInstFired       float64
	AvgDispSize        float64
	MaxDispSize        int64
	RetiredInstruction int64
	CycleCount         int64
}

const (
	instTable  = "retired_instructions"
	statsTable = "run_stats"
)

// RecordRun persists a completed controller's retirement log and its final
// statistics into rec, creating both tables. It creates them on every
// call, so rec must not already hold tables with those names.
func RecordRun(rec Recorder, log []*procsim.Inst, stats procsim.Statistics) {
	rec.CreateTable(instTable, InstRow{})
	rec.CreateTable(statsTable, StatsRow{})

	for _, inst := range log {
		rec.InsertRow(instTable, instRowOf(inst))
	}

	rec.InsertRow(statsTable, StatsRow{
		AvgInstRetired:     stats.AvgInstRetired,
		AvgInstFired:       stats.AvgInstFired,
		AvgDispSize:        stats.AvgDispSize,
		MaxDispSize:        int64(stats.MaxDispSize),
		RetiredInstruction: int64(stats.RetiredInstruction),
		CycleCount:         stats.CycleCount,
	})

	rec.Flush()
}

func instRowOf(inst *procsim.Inst) InstRow {
	return InstRow{
		Tag:              int64(inst.Tag),
		Class:            int64(inst.Class),
		Src0:             int64(inst.Src[0]),
		Src1:             int64(inst.Src[1]),
		Dst:              int64(inst.Dst),
		FetchCycle:       inst.FetchCycle,
		DispatchCycle:    inst.DispatchCycle,
		ScheduleCycle:    inst.ScheduleCycle,
		ExecuteCycle:     inst.ExecuteCycle,
		StateUpdateCycle: inst.StateUpdateCycle,
	}
}
