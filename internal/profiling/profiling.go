// SPDX-License-Identifier: Apache-2.0

package profiling

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"path/filepath"
	"runtime"
	rpprof "runtime/pprof"
	"time"
)

type Config struct {
	// Dir is where the cpu.prof and mem.prof files are written. Defaults to
	// the working directory.
	Dir string
	// ServerAddress exposes the /debug/pprof endpoints while profiling when
	// set.
	ServerAddress string
}

const (
	cpuProfileFile = "cpu.prof"
	memProfileFile = "mem.prof"
)

// Profiler records a CPU profile between Start and Stop, and a memory
// profile on Stop.
type Profiler struct {
	dir     string
	cpuFile *os.File
	server  *http.Server
}

func Start(cfg Config) (*Profiler, error) {
	p := &Profiler{dir: cfg.Dir}
	if p.dir != "" {
		if err := os.MkdirAll(p.dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating profile directory: %w", err)
		}
	}

	cpuFile, err := os.Create(filepath.Join(p.dir, cpuProfileFile))
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile file: %w", err)
	}
	if err := rpprof.StartCPUProfile(cpuFile); err != nil {
		cpuFile.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	p.cpuFile = cpuFile

	if cfg.ServerAddress != "" {
		p.server = newServer(cfg.ServerAddress)
		go func() {
			p.server.ListenAndServe() //nolint:errcheck
		}()
	}
	return p, nil
}

// Stop ends the CPU profile and writes the memory profile.
func (p *Profiler) Stop() error {
	rpprof.StopCPUProfile()
	errs := []error{p.cpuFile.Close(), p.writeMemoryProfile()}
	if p.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		errs = append(errs, p.server.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (p *Profiler) writeMemoryProfile() error {
	memFile, err := os.Create(filepath.Join(p.dir, memProfileFile))
	if err != nil {
		return fmt.Errorf("could not create memory profile file: %w", err)
	}
	defer memFile.Close()

	runtime.GC() // get up-to-date statistics
	// allocs reports every allocation since start, like go test -memprofile
	if err := rpprof.Lookup("allocs").WriteTo(memFile, 0); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	return nil
}

func newServer(address string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
