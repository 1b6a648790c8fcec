package llm

import (
	"context"
	"encoding/json"
)

// Client abstracts the language-structuring provider. StructureResume takes
// extracted resume text and returns the provider's strict-JSON object with
// full_name, email, phone, skills, experiences and resume_summary fields.
type Client interface {
	StructureResume(ctx context.Context, resumeText string) (json.RawMessage, error)
}
