package reporter

import (
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/rs/zerolog"
)

// AssetManager reads the embedded template and stylesheet
type AssetManager struct {
	fsys   fs.FS
	logger zerolog.Logger
}

// NewAssetManager creates a new AssetManager over fsys
func NewAssetManager(fsys fs.FS, logger zerolog.Logger) *AssetManager {
	return &AssetManager{
		fsys:   fsys,
		logger: logger,
	}
}

// ReadText returns the asset at path with Windows line endings normalized
func (am *AssetManager) ReadText(path string) (string, error) {
	data, err := fs.ReadFile(am.fsys, path)
	if err != nil {
		am.logger.Error().Err(err).Str("asset", path).Msg("Failed to read embedded asset")
		return "", fmt.Errorf("failed to read embedded asset '%s': %w", path, err)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

// StyleSheet returns the report CSS ready for inlining. A missing stylesheet
// degrades to an unstyled report.
func (am *AssetManager) StyleSheet() template.CSS {
	css, err := am.ReadText(EmbeddedCSSPath)
	if err != nil {
		am.logger.Warn().Err(err).Msg("Failed to embed CSS, report styling might be affected.")
		return ""
	}
	return template.CSS(css)
}
