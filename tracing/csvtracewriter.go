package tracing

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/procsim/sim"
)

// CSVTraceWriter is a Tracer that appends task events to a CSV file: one
// row when a task starts and one when it ends. Rows are buffered and only
// written on Flush, when the buffer fills, or at process exit, matching the
// teacher's tracing.CSVTraceWriter.
type CSVTraceWriter struct {
	path string
	file *os.File

	tasks      []Task
	bufferSize int
}

// NewCSVTraceWriter creates a CSVTraceWriter that will write to path+".csv".
// If path is empty, a random name is generated at Init time.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{path: path, bufferSize: 1000}
}

// Init opens the destination file, refusing to overwrite an existing one,
// and registers a flush-and-close handler to run at process exit.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "procsim_trace_" + sim.NewXIDGenerator().Generate()
	}

	filename := t.path + ".csv"

	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}

	t.file = file

	fmt.Fprintln(t.file, "ID,ParentID,Kind,What,Where,Start,End")

	atexit.Register(func() {
		t.Flush()

		if err := t.file.Close(); err != nil {
			panic(err)
		}
	})
}

// StartTask buffers a task-start row.
func (t *CSVTraceWriter) StartTask(task Task) { t.write(task) }

// StepTask is a no-op: the CSV format only records start/end rows.
func (t *CSVTraceWriter) StepTask(_ Task) {}

// EndTask buffers a task-end row.
func (t *CSVTraceWriter) EndTask(task Task) { t.write(task) }

func (t *CSVTraceWriter) write(task Task) {
	t.tasks = append(t.tasks, task)

	if len(t.tasks) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes every buffered task to disk.
func (t *CSVTraceWriter) Flush() {
	for _, task := range t.tasks {
		fmt.Fprintf(t.file, "%s,%s,%s,%s,%s,%.10f,%.10f\n",
			task.ID, task.ParentID, task.Kind, task.What, task.Where,
			task.StartTime, task.EndTime)
	}

	t.tasks = nil
}
