package auditor

import (
	"context"
	"encoding/json"
)

// Session is a loaded browser page the auditor drives. Implementations live
// in internal/browser; the auditor never navigates.
type Session interface {
	// Inject evaluates a raw script (the engine source) in the page.
	Inject(ctx context.Context, source string) error
	// Execute calls a JS function expression with args and returns its JSON
	// encoded result, awaiting it when it returns a promise.
	Execute(ctx context.Context, script string, args ...any) (json.RawMessage, error)
	// ExecuteAsync calls a JS function expression that receives a trailing
	// done callback, and returns the JSON encoded value passed to done.
	ExecuteAsync(ctx context.Context, script string, args ...any) (json.RawMessage, error)
	URL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
}

// EngineSource provides the audit engine script text.
type EngineSource interface {
	Load(ctx context.Context) (string, error)
}
