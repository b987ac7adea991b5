package api

import (
	"github.com/ssargent/etlcdb/pkg/record"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port int
	Bind string
}

// RecordSource is a decoded file the browser can read records from. ReadAt
// must be safe for concurrent use; record.Session satisfies this.
type RecordSource interface {
	ReadAt(index int) (*record.Record, error)
	Len() int
	Skip() int
	Decoder() *record.Decoder
}

// FileInfo describes one served file
type FileInfo struct {
	Name            string `json:"name"`
	Format          string `json:"format"`
	OctetsPerRecord int    `json:"octets_per_record"`
	Records         int    `json:"records"`
	FirstIndex      int    `json:"first_index"`
}

// RecordResponse is the JSON view of one record
type RecordResponse struct {
	File   string         `json:"file"`
	Index  int            `json:"index"`
	Format string         `json:"format"`
	Code   string         `json:"code"`
	Char   string         `json:"char"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Fields map[string]any `json:"fields"`
	Image  string         `json:"image"`
}
