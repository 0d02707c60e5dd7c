// Package models defines request and response types for the codec's
// optional HTTP inspection server. All types are JSON-serializable.
package models

import "time"

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse represents a simple status response.
type StatusResponse struct {
	Status string `json:"status"`
}

// CPUStats contains system CPU statistics.
type CPUStats struct {
	NumCPU      int     `json:"num_cpu"`
	UsedPercent float64 `json:"used_percent"`
	IdlePercent float64 `json:"idle_percent"`
}

// MemoryStats contains system memory statistics.
type MemoryStats struct {
	TotalMB     float64 `json:"total_mb"`
	FreeMB      float64 `json:"free_mb"`
	UsedMB      float64 `json:"used_mb"`
	UsedPercent float64 `json:"used_percent"`
}

// CaptureStats describes the currently loaded capture, if any.
type CaptureStats struct {
	Loaded           bool   `json:"loaded"`
	Path             string `json:"path,omitempty"`
	Blocks           int    `json:"blocks"`
	QueryResponses   int    `json:"query_responses"`
	AddressEvents    int    `json:"address_events"`
	MalformedEntries int    `json:"malformed_entries"`
}

// ServerStatsResponse contains process/host resource usage and
// currently loaded capture statistics.
type ServerStatsResponse struct {
	Uptime        string       `json:"uptime"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     time.Time    `json:"start_time"`
	CPU           CPUStats     `json:"cpu"`
	Memory        MemoryStats  `json:"memory"`
	Capture       CaptureStats `json:"capture"`
}

// BlockSummary is a compact, indexable view of one Block's shape.
type BlockSummary struct {
	Index                int        `json:"index"`
	BlockParametersIndex int        `json:"block_parameters_index"`
	EarliestTime         *time.Time `json:"earliest_time,omitempty"`
	QueryResponses       int        `json:"query_responses"`
	AddressEvents        int        `json:"address_events"`
	MalformedMessages    int        `json:"malformed_messages"`
}
