package orchestrator

import (
	"os"
	"path/filepath"
)

func dirOf(path string) string {
	return filepath.Dir(path)
}

func homeDir() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return h
}

func pathEnv() string {
	return os.Getenv("PATH")
}
