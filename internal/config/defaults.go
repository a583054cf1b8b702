package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const (
	defaultBackend        = BackendBbolt
	eager                 = false
	debug                 = false
	sweepMaxAge           = 24 * time.Hour
	responseHeaderTimeout = 30 * time.Second
)

var (
	tempDir = filepath.Join(os.TempDir(), configFileName)
	dataDir = filepath.Join(xdg.DataHome, configFileName)
	logFile = filepath.Join(xdg.StateHome, configFileName, "filemat.log")
)
