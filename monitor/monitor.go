// Package monitor turns a running simulation into a small HTTP server that
// reports its progress, adapted from the teacher's monitoring.Monitor. It
// drops the reflection-driven component/buffer discovery that a
// multi-component simulation needs: procsim.Controller is a single
// component, so there is nothing to discover, only one thing to poll.
package monitor

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"

	"github.com/sarchlab/procsim/procsim"
)

// Server exposes a procsim.Controller's live progress over HTTP.
type Server struct {
	ctrl       *procsim.Controller
	portNumber int
}

// New creates a Server monitoring ctrl.
func New(ctrl *procsim.Controller) *Server {
	return &Server{ctrl: ctrl}
}

// WithPortNumber sets the port the server listens on. A value below 1000
// is rejected in favor of a random port, matching the teacher's guard
// against colliding with well-known ports.
func (s *Server) WithPortNumber(portNumber int) *Server {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitor server; "+
				"using a random port instead.\n", portNumber)
		portNumber = 0
	}

	s.portNumber = portNumber

	return s
}

// Start starts the server in the background and returns its listen
// address once bound.
func (s *Server) Start() (string, error) {
	r := mux.NewRouter()
	r.HandleFunc("/api/snapshot", s.snapshot)
	r.HandleFunc("/api/resource", s.resource)

	actualPort := ":0"
	if s.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(s.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	addr := listener.Addr().(*net.TCPAddr)
	url := fmt.Sprintf("http://localhost:%d", addr.Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		if err := http.Serve(listener, r); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "monitor: server stopped: %v\n", err)
		}
	}()

	return url, nil
}

func (s *Server) snapshot(w http.ResponseWriter, _ *http.Request) {
	snap := s.ctrl.Snapshot()

	body, err := json.Marshal(snap)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(body)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (s *Server) resource(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{CPUPercent: cpuPercent, MemorySize: memInfo.RSS}

	body, err := json.Marshal(rsp)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(body)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
