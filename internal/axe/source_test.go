package axe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aleister1102/axeaudit/internal/common"
	"github.com/aleister1102/axeaudit/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeEngine = "window.axe = { run: function () {} };"

func TestSourceLoader_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "axe.min.js")
	require.NoError(t, os.WriteFile(path, []byte(fakeEngine), 0644))

	loader := NewSourceLoader(config.EngineConfig{SourcePath: path, SourceURL: "http://unused.invalid"}, nil, zerolog.Nop())

	src, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fakeEngine, src)
}

func TestSourceLoader_DownloadsOnce(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write([]byte(fakeEngine))
	}))
	defer server.Close()

	loader := NewSourceLoader(config.EngineConfig{SourceURL: server.URL + "/axe.min.js"}, server.Client(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		src, err := loader.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, fakeEngine, src)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestSourceLoader_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	loader := NewSourceLoader(config.EngineConfig{SourceURL: server.URL}, server.Client(), zerolog.Nop())

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestSourceLoader_TooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 1024*1024+10)))
	}))
	defer server.Close()

	loader := NewSourceLoader(config.EngineConfig{SourceURL: server.URL, MaxSourceSizeMB: 1}, server.Client(), zerolog.Nop())

	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSourceLoader_EmptyAndUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.js")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0644))

	_, err := NewSourceLoader(config.EngineConfig{SourcePath: path}, nil, zerolog.Nop()).Load(context.Background())
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = NewSourceLoader(config.EngineConfig{}, nil, zerolog.Nop()).Load(context.Background())
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
}

func TestNewStaticSource(t *testing.T) {
	src, err := NewStaticSource(fakeEngine).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fakeEngine, src)
}
