package model

import "time"

// TranscriptRecord exists iff the owning job reached JobStateStored.
type TranscriptRecord struct {
	JobID        string    `json:"job_id"`
	OriginalName string    `json:"original_name"`
	Location     string    `json:"location"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}
