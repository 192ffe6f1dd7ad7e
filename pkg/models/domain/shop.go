package domain

// Shop is one Pancake shop the exporter can pull data from. Loaded once
// from configuration and read-only for the rest of a run.
type Shop struct {
	Code   string
	ID     int64
	Name   string
	APIKey string
}
