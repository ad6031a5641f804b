package sim

import "github.com/rs/xid"

// IDGenerator produces string identifiers.
type IDGenerator interface {
	Generate() string
}

// NewXIDGenerator returns an IDGenerator backed by github.com/rs/xid, used
// where a caller needs a unique name across process runs and did not supply
// one itself, e.g. naming a SQLite database file or a CSV trace file (see
// store.New and tracing.CSVTraceWriter.Init).
func NewXIDGenerator() IDGenerator {
	return xidGenerator{}
}

type xidGenerator struct{}

func (xidGenerator) Generate() string {
	return xid.New().String()
}
