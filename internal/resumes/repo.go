package resumes

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "resume parsing result not found" }

// Repo persists parsed-resume rows keyed on the external identity string.
type Repo interface {
	// Upsert replaces the entire row for the result's identity key.
	Upsert(ctx context.Context, result ParsingResult) error
	GetByID(ctx context.Context, id string) (ParsingResult, error)
	// Delete removes the row. Used by test tooling to re-run the flow.
	Delete(ctx context.Context, id string) error
}
