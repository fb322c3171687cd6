// Package env loads process-level overrides from a .env file and the environment.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Variables read by the poser.
const (
	AssetsVar   = "POSER_ASSETS"
	PrefsVar    = "POSER_PREFS"
	CatalogVar  = "POSER_CATALOG"
	LogLevelVar = "POSER_LOG_LEVEL"
	LogFileVar  = "POSER_LOG_FILE"
)

// Values are the process-level settings. Empty Catalog means the built-in catalog.
type Values struct {
	Assets   string
	Prefs    string
	Catalog  string
	LogLevel string
	LogFile  string
}

// Defaults used for unset variables.
var Defaults = Values{
	Assets:   "assets",
	Prefs:    "config/poser.json",
	LogLevel: "info",
	LogFile:  "stderr",
}

// Load reads the given file (e.g. ".env") into the environment. Variables that are already set
// win over the file. The file may be missing; that is not an error.
func Load(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("env: load %s: %w", path, err)
	}
	return nil
}

// Read returns the current values, falling back to Defaults for unset or empty variables.
func Read() Values {
	return Values{
		Assets:   get(AssetsVar, Defaults.Assets),
		Prefs:    get(PrefsVar, Defaults.Prefs),
		Catalog:  get(CatalogVar, Defaults.Catalog),
		LogLevel: get(LogLevelVar, Defaults.LogLevel),
		LogFile:  get(LogFileVar, Defaults.LogFile),
	}
}

func get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
