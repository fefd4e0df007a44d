// Package internal hosts the operator-facing debug endpoint. Nothing in
// here is part of the relay protocol; it exists so a running instance
// can be inspected without attaching a client.
package internal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// StatsProvider returns the current occupancy counters.
type StatsProvider func() map[string]any

type healthReport struct {
	Status     string         `json:"status"`
	Uptime     string         `json:"uptime"`
	CPUPercent float64        `json:"cpu_percent"`
	RAMPercent float32        `json:"ram_percent"`
	Stats      map[string]any `json:"stats"`
}

// StartDebugServer exposes /healthz on its own port. Process metrics
// come from gopsutil; occupancy comes from the provider. Best-effort:
// a metric read failure reports zero, never an error page.
func StartDebugServer(log *slog.Logger, port int, statsProvider StatsProvider) {
	startTime := time.Now()
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		report := healthReport{
			Status: "ok",
			Uptime: time.Since(startTime).Round(time.Second).String(),
			Stats:  map[string]any{},
		}
		if statsProvider != nil {
			report.Stats = statsProvider()
		}

		if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
			if cpu, err := p.CPUPercent(); err == nil {
				report.CPUPercent = cpu
			}
			if ram, err := p.MemoryPercent(); err == nil {
				report.RAMPercent = ram
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			log.Debug("Health report write failed", "err", err)
		}
	})

	go func() {
		addr := fmt.Sprintf(":%d", port)
		log.Info("Debug server listening", "address", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("Debug server stopped", "err", err)
		}
	}()
}
