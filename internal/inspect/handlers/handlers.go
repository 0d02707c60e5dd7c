// Package handlers implements the REST endpoint handlers for the
// codec's optional inspection server: a read-only view over an
// already-decoded cdns.File held in memory, plus process/host resource
// stats.
//
// @title cdns inspection API
// @version 1.0
// @description Read-only REST API for inspecting a decoded C-DNS capture.
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8080
// @BasePath /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package handlers

import (
	"log/slog"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/jroosing/cdns/internal/cdns"
	"github.com/jroosing/cdns/internal/format"
	"github.com/jroosing/cdns/internal/inspect/models"
)

// Handler holds the dependencies and the currently loaded capture.
type Handler struct {
	logger    *slog.Logger
	startTime time.Time

	mu   sync.RWMutex
	path string
	file *cdns.File
}

// New creates a new Handler.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger, startTime: time.Now()}
}

// SetFile replaces the currently loaded capture.
func (h *Handler) SetFile(path string, file *cdns.File) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.path = path
	h.file = file
}

func (h *Handler) currentFile() (string, *cdns.File) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.path, h.file
}

// Health godoc
// @Summary Health check
// @Description Returns inspection server health status
// @Tags system
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
}

// Stats godoc
// @Summary Server statistics
// @Description Returns process/host resource usage and the currently loaded capture's shape
// @Tags system
// @Produce json
// @Success 200 {object} models.ServerStatsResponse
// @Security ApiKeyAuth
// @Router /stats [get]
func (h *Handler) Stats(c *gin.Context) {
	uptime := time.Since(h.startTime)

	memStats := models.MemoryStats{}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		memStats.TotalMB = float64(vmStat.Total) / 1024 / 1024
		memStats.FreeMB = float64(vmStat.Available) / 1024 / 1024
		memStats.UsedMB = float64(vmStat.Used) / 1024 / 1024
		memStats.UsedPercent = vmStat.UsedPercent
	}

	cpuStats := models.CPUStats{NumCPU: runtime.NumCPU()}
	if cpuPercent, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(cpuPercent) > 0 {
		cpuStats.UsedPercent = cpuPercent[0]
		cpuStats.IdlePercent = 100.0 - cpuPercent[0]
	}

	c.JSON(http.StatusOK, models.ServerStatsResponse{
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		StartTime:     h.startTime,
		CPU:           cpuStats,
		Memory:        memStats,
		Capture:       h.captureStats(),
	})
}

func (h *Handler) captureStats() models.CaptureStats {
	path, file := h.currentFile()
	if file == nil {
		return models.CaptureStats{Loaded: false}
	}
	stats := models.CaptureStats{Loaded: true, Path: path, Blocks: len(file.FileBlocks)}
	for _, b := range file.FileBlocks {
		stats.QueryResponses += len(b.QueryResponses)
		stats.AddressEvents += len(b.AddressEventCounts)
		stats.MalformedEntries += len(b.MalformedMessages)
	}
	return stats
}

// File godoc
// @Summary Get the loaded capture
// @Description Returns the currently loaded capture, rendered the same way as cdns-debug --json
// @Tags capture
// @Produce json
// @Success 200 {object} cdns.File
// @Failure 404 {object} models.ErrorResponse
// @Router /file [get]
func (h *Handler) File(c *gin.Context) {
	_, file := h.currentFile()
	if file == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "no capture loaded"})
		return
	}
	out, err := format.JSON(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", out)
}

// Blocks godoc
// @Summary List Block summaries
// @Description Returns a compact, indexable summary of every Block in the loaded capture
// @Tags capture
// @Produce json
// @Success 200 {array} models.BlockSummary
// @Router /blocks [get]
func (h *Handler) Blocks(c *gin.Context) {
	_, file := h.currentFile()
	if file == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "no capture loaded"})
		return
	}
	out := make([]models.BlockSummary, len(file.FileBlocks))
	for i, b := range file.FileBlocks {
		s := models.BlockSummary{
			Index:                i,
			BlockParametersIndex: b.BlockPreamble.ResolvedBlockParametersIndex(),
			QueryResponses:       len(b.QueryResponses),
			AddressEvents:        len(b.AddressEventCounts),
			MalformedMessages:    len(b.MalformedMessages),
		}
		if b.BlockPreamble.EarliestTime != nil {
			t := time.Unix(int64(b.BlockPreamble.EarliestTime.Seconds), 0).UTC()
			s.EarliestTime = &t
		}
		out[i] = s
	}
	c.JSON(http.StatusOK, out)
}

// Block godoc
// @Summary Get one Block, rendered in full
// @Tags capture
// @Produce json
// @Param index path int true "Block index"
// @Success 200 {object} cdns.Block
// @Failure 404 {object} models.ErrorResponse
// @Router /blocks/{index} [get]
func (h *Handler) Block(c *gin.Context) {
	_, file := h.currentFile()
	if file == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "no capture loaded"})
		return
	}
	idx, ok := parseIndex(c.Param("index"))
	if !ok || idx < 0 || idx >= len(file.FileBlocks) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "block index out of range"})
		return
	}
	out, err := format.JSON(&file.FileBlocks[idx])
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", out)
}

func parseIndex(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
