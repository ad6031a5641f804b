// Package store persists a completed run's retired-instruction log and
// summary statistics to a SQLite database, adapted from the teacher's
// datarecording.DataRecorder.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/procsim/sim"
)

// Recorder is a backend that can record and store run data.
type Recorder interface {
	// CreateTable creates a new table named tableName shaped after
	// sampleEntry's exported fields.
	CreateTable(tableName string, sampleEntry any)

	// InsertRow appends entry, a value of the same type passed to
	// CreateTable, into tableName.
	InsertRow(tableName string, entry any)

	// Tables returns the names of every table created so far.
	Tables() []string

	// Flush writes every buffered row to the database.
	Flush()
}

// New creates a Recorder backed by a SQLite file at path + ".sqlite3". An
// empty path derives a unique name from sim.NewXIDGenerator.
func New(path string) Recorder {
	w := &sqliteRecorder{
		dbName:    path,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	w.init()

	atexit.Register(func() { w.Flush() })

	return w
}

// NewWithDB creates a Recorder against an already-open database, for
// tests that want an in-memory connection.
func NewWithDB(db *sql.DB) Recorder {
	w := &sqliteRecorder{
		db:        db,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { w.Flush() })

	return w
}

type table struct {
	fieldNames []string
	entries    []any
}

type sqliteRecorder struct {
	db        *sql.DB
	statement *sql.Stmt

	dbName     string
	tables     map[string]*table
	batchSize  int
	entryCount int
}

func (r *sqliteRecorder) init() {
	if r.dbName == "" {
		r.dbName = "procsim_run_" + sim.NewXIDGenerator().Generate()
	}

	filename := r.dbName + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Recording run to %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	r.db = db
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

// fieldNames returns the exported field names of entry's struct type, in
// declaration order. There is no github.com/fatih/structs in this module's
// dependency surface, so this is a minimal hand-rolled equivalent of
// structs.Names.
func fieldNames(entry any) []string {
	t := reflect.TypeOf(entry)

	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}

		names = append(names, f.Name)
	}

	return names
}

func checkStructFields(entry any) error {
	t := reflect.TypeOf(entry)
	if t.Kind() != reflect.Struct {
		return errors.New("store: sample entry must be a struct")
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}

		if !isAllowedKind(f.Type.Kind()) {
			return fmt.Errorf("store: field %s has unsupported type %s", f.Name, f.Type)
		}
	}

	return nil
}

func (r *sqliteRecorder) CreateTable(tableName string, sampleEntry any) {
	if err := checkStructFields(sampleEntry); err != nil {
		panic(err)
	}

	names := fieldNames(sampleEntry)

	createTableSQL := "CREATE TABLE " + tableName +
		" (\n\t" + strings.Join(names, ",\n\t") + "\n);"
	r.mustExecute(createTableSQL)

	r.tables[tableName] = &table{fieldNames: names}
}

func (r *sqliteRecorder) InsertRow(tableName string, entry any) {
	t, ok := r.tables[tableName]
	if !ok {
		panic(fmt.Sprintf("store: table %s does not exist", tableName))
	}

	t.entries = append(t.entries, entry)

	r.entryCount++
	if r.entryCount >= r.batchSize {
		r.Flush()
	}
}

func (r *sqliteRecorder) Tables() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}

	return names
}

func (r *sqliteRecorder) Flush() {
	if r.entryCount == 0 {
		return
	}

	r.mustExecute("BEGIN TRANSACTION")
	defer r.mustExecute("COMMIT TRANSACTION")

	for tableName, t := range r.tables {
		if len(t.entries) == 0 {
			continue
		}

		r.prepareStatement(tableName, len(t.fieldNames))

		for _, entry := range t.entries {
			values := make([]any, 0, len(t.fieldNames))

			v := reflect.ValueOf(entry)
			for i := 0; i < v.NumField(); i++ {
				if v.Type().Field(i).PkgPath != "" {
					continue
				}

				values = append(values, v.Field(i).Interface())
			}

			if _, err := r.statement.Exec(values...); err != nil {
				panic(err)
			}
		}

		t.entries = nil

		r.statement.Close()
		r.statement = nil
	}

	r.entryCount = 0
}

func (r *sqliteRecorder) mustExecute(query string) sql.Result {
	res, err := r.db.Exec(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "store: failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

func (r *sqliteRecorder) prepareStatement(tableName string, numFields int) {
	placeholders := make([]string, numFields)
	for i := range placeholders {
		placeholders[i] = "?"
	}

	sqlStr := "INSERT INTO " + tableName + " VALUES (" + strings.Join(placeholders, ", ") + ")"

	stmt, err := r.db.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	r.statement = stmt
}
