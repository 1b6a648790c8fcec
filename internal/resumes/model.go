package resumes

import (
	"strings"
	"time"
)

// Experience is one position extracted from a resume. Dates are YYYY-MM
// strings; a nil EndDate means the position is current.
type Experience struct {
	Company   *string `json:"company"`
	Title     *string `json:"title"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Summary   *string `json:"summary"`
}

// ParsingResult is one row per identity key in resume_parsing_results.
// Each successful parse replaces the whole row; no history is kept.
type ParsingResult struct {
	ID            string       `json:"id"`
	FullName      *string      `json:"full_name"`
	Email         *string      `json:"email"`
	Phone         *string      `json:"phone"`
	Skills        []string     `json:"skills"`
	Experiences   []Experience `json:"experiences"`
	ResumeSummary *string      `json:"resume_summary"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// HasContent reports whether the parse produced usable resume data:
// at least one experience, or a non-blank summary.
func (r *ParsingResult) HasContent() bool {
	if r == nil {
		return false
	}
	if len(r.Experiences) > 0 {
		return true
	}
	return r.ResumeSummary != nil && strings.TrimSpace(*r.ResumeSummary) != ""
}
