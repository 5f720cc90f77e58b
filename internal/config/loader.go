package config

import (
	"os"
	"path/filepath"
)

// GetConfigPath determines the configuration file path.
// Priority:
// 1. the path given on the command line, returned as-is so a missing file is reported
// 2. AXEAUDIT_CONFIG environment variable
// 3. config.yaml, config.yml, config.json in the current working directory
func GetConfigPath(configFilePathFlag string) string {
	if configFilePathFlag != "" {
		return configFilePathFlag
	}

	if envPath := os.Getenv(ConfigPathEnv); envPath != "" {
		if fileExists(envPath) {
			return envPath
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for _, file := range []string{"config.yaml", "config.yml", "config.json"} {
		path := filepath.Join(cwd, file)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
