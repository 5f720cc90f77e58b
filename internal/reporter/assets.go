package reporter

import "embed"

//go:embed assets/* templates/*
var embeddedFS embed.FS
