package axe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aleister1102/axeaudit/internal/common"
	"github.com/aleister1102/axeaudit/internal/config"
	"github.com/rs/zerolog"
)

// SourceLoader provides the axe-core script text, read once and cached.
type SourceLoader struct {
	cfg    config.EngineConfig
	client *http.Client
	logger zerolog.Logger

	mu     sync.Mutex
	source string
}

// NewSourceLoader creates a loader. A nil client gets one with the configured fetch timeout.
func NewSourceLoader(cfg config.EngineConfig, client *http.Client, logger zerolog.Logger) *SourceLoader {
	if client == nil {
		timeout := time.Duration(cfg.FetchTimeoutSecs) * time.Second
		if timeout <= 0 {
			timeout = config.DefaultEngineFetchTimeoutSecs * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &SourceLoader{
		cfg:    cfg,
		client: client,
		logger: logger.With().Str("component", "SourceLoader").Logger(),
	}
}

// NewStaticSource returns a loader that always serves src.
func NewStaticSource(src string) *SourceLoader {
	return &SourceLoader{source: src, logger: zerolog.Nop()}
}

// Load returns the engine script, reading it from SourcePath or downloading SourceURL on first use.
func (l *SourceLoader) Load(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.source != "" {
		return l.source, nil
	}

	var (
		src string
		err error
	)
	switch {
	case l.cfg.SourcePath != "":
		src, err = l.readFile(l.cfg.SourcePath)
	case l.cfg.SourceURL != "":
		src, err = l.download(ctx, l.cfg.SourceURL)
	default:
		return "", common.NewConfigurationError("engine_config", "", "neither source_path nor source_url is set")
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(src) == "" {
		return "", common.NewValidationError("engine_source", l.origin(), "engine source is empty")
	}

	l.source = src
	l.logger.Debug().Str("origin", l.origin()).Int("bytes", len(src)).Msg("Engine source loaded")
	return src, nil
}

func (l *SourceLoader) origin() string {
	if l.cfg.SourcePath != "" {
		return l.cfg.SourcePath
	}
	return l.cfg.SourceURL
}

func (l *SourceLoader) maxSize() int64 {
	mb := l.cfg.MaxSourceSizeMB
	if mb <= 0 {
		mb = config.DefaultEngineMaxSourceSizeMB
	}
	return int64(mb) * 1024 * 1024
}

func (l *SourceLoader) readFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", common.WrapErrorf(err, "failed to stat engine source '%s'", path)
	}
	if info.Size() > l.maxSize() {
		return "", common.NewValidationError("source_path", path, "engine source exceeds max_source_size_mb")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", common.WrapErrorf(err, "failed to read engine source '%s'", path)
	}
	return string(data), nil
}

func (l *SourceLoader) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", common.WrapError(err, "failed to build engine source request")
	}

	l.logger.Info().Str("url", url).Msg("Downloading engine source")
	resp, err := l.client.Do(req)
	if err != nil {
		return "", common.WrapErrorf(err, "failed to download engine source from '%s'", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download engine source from '%s': HTTP %d", url, resp.StatusCode)
	}

	limit := l.maxSize()
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", common.WrapError(err, "failed to read engine source body")
	}
	if int64(len(body)) > limit {
		return "", common.NewValidationError("source_url", url, "engine source exceeds max_source_size_mb")
	}
	return string(body), nil
}
