package domain

import "time"

// BuildInfo records the fingerprint of the last successful build of a document.
type BuildInfo struct {
	BuildID    string    `json:"build_id,omitzero"`
	Document   string    `json:"document,omitzero"`
	InputHash  string    `json:"input_hash,omitzero"`
	OutputPath string    `json:"output_path,omitzero"`
	OutputHash string    `json:"output_hash,omitzero"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}
