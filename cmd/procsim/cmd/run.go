package cmd

import (
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/spf13/cobra"

	googlepprofprofile "github.com/google/pprof/profile"

	"github.com/sarchlab/procsim/monitor"
	"github.com/sarchlab/procsim/procsim"
	"github.com/sarchlab/procsim/store"
	"github.com/sarchlab/procsim/trace"
	"github.com/sarchlab/procsim/tracing"
)

var runFlags struct {
	tracePath    string
	resultBuses  int
	k0, k1, k2   int
	fetchWidth   int
	debugLog     bool
	cpuProfile   string
	recordPath   string
	monitor      bool
	monitorPort  int
	openBrowser  bool
	csvTracePath string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a trace through the pipeline model and report statistics.",
	RunE:  runRun,
}

func init() {
	flags := runCmd.Flags()
	flags.StringVar(&runFlags.tracePath, "trace", envOr("PROCSIM_TRACE", ""), "path to the instruction trace file")
	flags.IntVar(&runFlags.resultBuses, "r", envIntOr("PROCSIM_R", procsim.DefaultResultBuses), "number of result buses (R)")
	flags.IntVar(&runFlags.k0, "k0", envIntOr("PROCSIM_K0", procsim.DefaultK0), "class 0 functional unit count")
	flags.IntVar(&runFlags.k1, "k1", envIntOr("PROCSIM_K1", procsim.DefaultK1), "class 1 functional unit count")
	flags.IntVar(&runFlags.k2, "k2", envIntOr("PROCSIM_K2", procsim.DefaultK2), "class 2 functional unit count")
	flags.IntVar(&runFlags.fetchWidth, "f", envIntOr("PROCSIM_F", procsim.DefaultFetchWidth), "fetch width (F)")
	flags.BoolVar(&runFlags.debugLog, "debug-log", false, "print a per-instruction INST/FETCH/DISP/SCHED/EXEC/STATE row as instructions retire")
	flags.StringVar(&runFlags.cpuProfile, "cpuprofile", "", "write a CPU profile to this file")
	flags.StringVar(&runFlags.recordPath, "record", "", "persist the run to a SQLite database at this path plus .sqlite3")
	flags.BoolVar(&runFlags.monitor, "monitor", false, "serve live progress over HTTP while the run executes")
	flags.IntVar(&runFlags.monitorPort, "monitor-port", 0, "port for the live progress monitor (0 = random)")
	flags.BoolVar(&runFlags.openBrowser, "open", false, "open the monitor dashboard in a browser once the server starts (implies --monitor)")
	flags.StringVar(&runFlags.csvTracePath, "csv-trace", "", "write a CSV task trace to this path plus .csv (see tracing.CSVTraceWriter)")

	rootCmd.AddCommand(runCmd)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}

func envIntOr(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return fallback
	}

	return n
}

func runRun(cmd *cobra.Command, _ []string) error {
	if runFlags.tracePath == "" {
		return fmt.Errorf("procsim: --trace (or PROCSIM_TRACE) is required")
	}

	if runFlags.cpuProfile != "" {
		stop, err := startCPUProfile(runFlags.cpuProfile)
		if err != nil {
			return err
		}
		defer stop()
	}

	src, err := trace.Open(runFlags.tracePath)
	if err != nil {
		return err
	}
	defer src.Close()

	ctrl := procsim.NewBuilder().
		WithResultBuses(runFlags.resultBuses).
		WithFUCounts(runFlags.k0, runFlags.k1, runFlags.k2).
		WithFetchWidth(runFlags.fetchWidth).
		WithTraceSource(src).
		Build()

	if runFlags.debugLog {
		ctrl.DebugLog = cmd.OutOrStdout()
	}

	if runFlags.csvTracePath != "" {
		w := tracing.NewCSVTraceWriter(runFlags.csvTracePath)
		w.Init()
		ctrl.AcceptHook(tracing.NewTracerHook(w))
	}

	if runFlags.monitor || runFlags.openBrowser {
		url, err := monitor.New(ctrl).WithPortNumber(runFlags.monitorPort).Start()
		if err != nil {
			return err
		}

		if runFlags.openBrowser {
			if err := browser.OpenURL(url); err != nil {
				fmt.Fprintf(os.Stderr, "procsim: could not open browser: %v\n", err)
			}
		}
	}

	start := time.Now()

	var stats procsim.Statistics
	if err := ctrl.Run(&stats); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	elapsed := time.Since(start)

	if runFlags.recordPath != "" {
		rec := store.New(runFlags.recordPath)
		store.RecordRun(rec, ctrl.RetiredLog(), stats)
	}

	printSummary(cmd, stats, elapsed)

	return nil
}

func printSummary(cmd *cobra.Command, stats procsim.Statistics, elapsed time.Duration) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "cycles              %d\n", stats.CycleCount)
	fmt.Fprintf(out, "instructions        %d\n", stats.RetiredInstruction)
	fmt.Fprintf(out, "avg retired/cycle   %.4f\n", stats.AvgInstRetired)
	fmt.Fprintf(out, "avg fired/cycle     %.4f\n", stats.AvgInstFired)
	fmt.Fprintf(out, "avg dispatch queue  %.4f\n", stats.AvgDispSize)
	fmt.Fprintf(out, "max dispatch queue  %d\n", stats.MaxDispSize)
	fmt.Fprintf(out, "wall time           %s\n", elapsed)

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}

	memInfo, err := proc.MemoryInfo()
	if err == nil {
		fmt.Fprintf(out, "RSS                 %d bytes\n", memInfo.RSS)
	}
}

func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("procsim: could not create cpu profile: %w", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("procsim: could not start cpu profile: %w", err)
	}

	return func() {
		pprof.StopCPUProfile()
		f.Close()

		summarizeProfile(path)
	}, nil
}

func summarizeProfile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	prof, err := googlepprofprofile.Parse(f)
	if err != nil {
		log.Printf("procsim: could not parse profile for summary: %v", err)
		return
	}

	fmt.Fprintf(os.Stderr, "procsim: cpu profile written to %s (%d samples)\n", path, len(prof.Sample))
}
