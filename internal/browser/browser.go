// Package browser opens pages with go-rod or chromedp and exposes them as
// script-evaluation sessions for the auditor.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aleister1102/axeaudit/internal/common"
	"github.com/aleister1102/axeaudit/internal/config"
	"github.com/rs/zerolog"
)

// Page is a loaded browser tab. It satisfies auditor.Session.
type Page interface {
	Inject(ctx context.Context, source string) error
	Execute(ctx context.Context, script string, args ...any) (json.RawMessage, error)
	ExecuteAsync(ctx context.Context, script string, args ...any) (json.RawMessage, error)
	URL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	Close() error
}

// Manager owns the browser process and hands out pages.
type Manager interface {
	Start() error
	Stop()
	// Open creates a tab, navigates to url and waits for the load event.
	Open(ctx context.Context, url string) (Page, error)
}

// NewManager returns the manager for cfg.Driver.
func NewManager(cfg config.BrowserConfig, logger zerolog.Logger) (Manager, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", config.DriverRod:
		return NewRodManager(cfg, logger), nil
	case config.DriverChromedp:
		return NewCDPManager(cfg, logger), nil
	default:
		return nil, common.NewValidationError("driver", cfg.Driver, "unsupported browser driver")
	}
}

func pageLoadTimeout(cfg config.BrowserConfig) time.Duration {
	if cfg.PageLoadTimeoutSecs <= 0 {
		return config.DefaultBrowserPageLoadTimeoutSecs * time.Second
	}
	return time.Duration(cfg.PageLoadTimeoutSecs) * time.Second
}

// settle waits the configured grace period after load, giving late scripts a chance to render.
func settle(ctx context.Context, cfg config.BrowserConfig) error {
	if cfg.WaitAfterLoadMs <= 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(cfg.WaitAfterLoadMs) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// asyncFunction turns a function expecting a trailing done callback into one returning a promise.
func asyncFunction(script string) string {
	return fmt.Sprintf(`function (...args) {
	return new Promise((resolve, reject) => {
		try {
			(%s).apply(this, args.concat([resolve]));
		} catch (e) {
			reject(e);
		}
	});
}`, strings.TrimSpace(script))
}

// callExpression renders script applied to JSON encoded args, for drivers
// that only evaluate expressions.
func callExpression(script string, args ...any) (string, error) {
	encoded := make([]string, 0, len(args))
	for i, arg := range args {
		b, err := json.Marshal(arg)
		if err != nil {
			return "", fmt.Errorf("encode argument %d: %w", i, err)
		}
		encoded = append(encoded, string(b))
	}
	return fmt.Sprintf("(%s)(%s)", strings.TrimSpace(script), strings.Join(encoded, ", ")), nil
}

// rawOrNull maps an empty evaluation result (undefined) to JSON null.
func rawOrNull(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(b)
}

// splitFlag turns "--name=value" into its name and optional value.
func splitFlag(arg string) (string, string) {
	arg = strings.TrimLeft(strings.TrimSpace(arg), "-")
	name, value, _ := strings.Cut(arg, "=")
	return name, value
}
