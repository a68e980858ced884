package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemHandler serves the health endpoint with host resource stats.
type SystemHandler struct {
	startedAt time.Time
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{startedAt: time.Now()}
}

// healthResponse is the health endpoint payload.
type healthResponse struct {
	Status         string  `json:"status"`
	UptimeSeconds  int64   `json:"uptimeSeconds"`
	CPUPercent     float64 `json:"cpuPercent"`
	MemUsedPercent float64 `json:"memUsedPercent"`
	Goroutines     int     `json:"goroutines"`
}

// Health reports server liveness and host resource usage.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		resp.CPUPercent = percents[0]
	} else if err != nil {
		log.Warn().Err(err).Msg("Failed to read CPU usage")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		resp.MemUsedPercent = vm.UsedPercent
	} else {
		log.Warn().Err(err).Msg("Failed to read memory usage")
	}

	writeJSON(w, http.StatusOK, resp)
}
