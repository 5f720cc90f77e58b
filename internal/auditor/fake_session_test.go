package auditor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

type call struct {
	method string
	script string
	args   []any
}

// fakeSession plays a page that may or may not have the engine loaded.
type fakeSession struct {
	url      string
	title    string
	hasAxe   bool
	runJSON  string
	rules    string
	injected []string
	calls    []call

	injectErr error
	runErr    error
	urlErr    error
}

func newFakeSession(runJSON string) *fakeSession {
	return &fakeSession{
		url:     "https://the-internet.herokuapp.com/login",
		title:   "The Internet",
		runJSON: runJSON,
		rules:   `[]`,
	}
}

func (f *fakeSession) Inject(ctx context.Context, source string) error {
	if f.injectErr != nil {
		return f.injectErr
	}
	f.injected = append(f.injected, source)
	f.hasAxe = true
	return nil
}

func (f *fakeSession) Execute(ctx context.Context, script string, args ...any) (json.RawMessage, error) {
	f.calls = append(f.calls, call{method: "execute", script: script, args: args})
	switch script {
	case engineLoadedScript:
		if f.hasAxe {
			return json.RawMessage("true"), nil
		}
		return json.RawMessage("false"), nil
	case runScript:
		return f.run()
	case rulesScript:
		return json.RawMessage(f.rules), nil
	case configureScript, resetScript:
		if !f.hasAxe {
			return nil, errors.New("ReferenceError: axe is not defined")
		}
		return json.RawMessage("null"), nil
	}
	return nil, errors.New("unexpected script")
}

func (f *fakeSession) ExecuteAsync(ctx context.Context, script string, args ...any) (json.RawMessage, error) {
	f.calls = append(f.calls, call{method: "executeAsync", script: script, args: args})
	if !strings.Contains(script, "done(results)") {
		return nil, errors.New("unexpected async script")
	}
	return f.run()
}

func (f *fakeSession) run() (json.RawMessage, error) {
	if f.runErr != nil {
		return nil, f.runErr
	}
	if !f.hasAxe {
		return nil, errors.New("ReferenceError: axe is not defined")
	}
	return json.RawMessage(f.runJSON), nil
}

func (f *fakeSession) URL(ctx context.Context) (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return f.url, nil
}

func (f *fakeSession) Title(ctx context.Context) (string, error) {
	return f.title, nil
}

// lastRunArg returns the argument handed to axe.run.
func (f *fakeSession) lastRunArg() any {
	for i := len(f.calls) - 1; i >= 0; i-- {
		c := f.calls[i]
		if c.script == runScript || c.script == runAsyncScript {
			return c.args[0]
		}
	}
	return nil
}

type fakeSource struct {
	src   string
	err   error
	loads int
}

func (s *fakeSource) Load(ctx context.Context) (string, error) {
	s.loads++
	return s.src, s.err
}
