package workspace

import "time"

// Report is one archived analysis report.
type Report struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Path        string    `json:"path"`
	Kinds       []string  `json:"kinds"`
	Failed      int       `json:"failed"`
	Description string    `json:"description"`
	AddedAt     time.Time `json:"added_at"`
}
