package api

// ExportRequest is the body of POST /api/v1/exports.
type ExportRequest struct {
	ReportType string   `json:"report_type"`
	TimeFrame  string   `json:"time_frame"`
	Reports    []string `json:"reports"`
}

// ExportAccepted is the 202 response once a run has been started.
type ExportAccepted struct {
	RunID string `json:"run_id"`
}

// ExportStatus is the snapshot returned by GET /api/v1/exports/current.
type ExportStatus struct {
	RunID       string   `json:"run_id,omitempty"`
	State       string   `json:"state"`
	Messages    []string `json:"messages,omitempty"`
	FailedShops []string `json:"failed_shops,omitempty"`
}

// Error is the generic error envelope.
type Error struct {
	Message string `json:"message"`
}
