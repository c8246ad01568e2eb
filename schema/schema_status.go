package schema

import "time"

// StoreStatus represents the status of the key/value store.
type StoreStatus struct {
	Backend         string    `json:"backend" yaml:"backend"`
	Connected       bool      `json:"connected" yaml:"connected"`
	TotalEntries    int       `json:"total_entries" yaml:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time" yaml:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time" yaml:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes" yaml:"table_size_bytes"`
}
