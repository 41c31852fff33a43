package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	ioutils "github.com/handiism/photosite/internal/io"
	"github.com/handiism/photosite/internal/logger"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "PHOTOSITE_"

// Settings holds all program options. Album level options live in the
// album configuration files of the source tree instead.
type Settings struct {
	// Paths
	Source      string `json:"source"`
	Destination string `json:"destination"`
	StaticPath  string `json:"static_path"` // empty uses the bundled assets

	// Run behaviour
	DryRun    bool `json:"dry_run"`
	KeepGoing bool `json:"keep_going"`

	// Logging
	Verbose  bool `json:"verbose"`
	Silent   bool `json:"silent"`
	JSONLogs bool `json:"json_logs"`

	// Built-in image processing
	ImageMaxSize    int `json:"image_max_size"`
	ThumbnailSize   int `json:"thumbnail_size"`
	PreviewTileSize int `json:"preview_tile_size"`
	JPEGQuality     int `json:"jpeg_quality"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		ImageMaxSize:    1600,
		ThumbnailSize:   240,
		PreviewTileSize: 160,
		JPEGQuality:     90,
	}
}

// Load reads settings from a JSON file.
// A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv loads the given dotenv files, if present, and overrides settings
// from PHOTOSITE_* variables. Variables already set in the environment win
// over dotenv files.
func (s *Settings) ApplyEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if v, ok := lookupEnv("SOURCE"); ok {
		s.Source = v
	}
	if v, ok := lookupEnv("DESTINATION"); ok {
		s.Destination = v
	}
	if v, ok := lookupEnv("STATIC_PATH"); ok {
		s.StaticPath = v
	}

	bools := map[string]*bool{
		"DRY_RUN":    &s.DryRun,
		"KEEP_GOING": &s.KeepGoing,
		"VERBOSE":    &s.Verbose,
		"SILENT":     &s.Silent,
		"JSON_LOGS":  &s.JSONLogs,
	}
	for name, dst := range bools {
		if v, ok := lookupEnv(name); ok {
			b, err := cast.ToBoolE(v)
			if err != nil {
				return &EnvError{Name: EnvPrefix + name, Err: err}
			}
			*dst = b
		}
	}

	ints := map[string]*int{
		"IMAGE_MAX_SIZE":    &s.ImageMaxSize,
		"THUMBNAIL_SIZE":    &s.ThumbnailSize,
		"PREVIEW_TILE_SIZE": &s.PreviewTileSize,
		"JPEG_QUALITY":      &s.JPEGQuality,
	}
	for name, dst := range ints {
		if v, ok := lookupEnv(name); ok {
			n, err := cast.ToIntE(v)
			if err != nil {
				return &EnvError{Name: EnvPrefix + name, Err: err}
			}
			*dst = n
		}
	}

	return nil
}

// ToImageConfig converts settings to the built-in image processor configuration.
func (s *Settings) ToImageConfig() ioutils.ImageConfig {
	return ioutils.ImageConfig{
		MaxSize:       s.ImageMaxSize,
		ThumbnailSize: s.ThumbnailSize,
		TileSize:      s.PreviewTileSize,
		Quality:       s.JPEGQuality,
	}
}

// ToLoggerConfig converts settings to the logger configuration.
func (s *Settings) ToLoggerConfig() logger.Config {
	return logger.Config{
		Verbose: s.Verbose,
		Silent:  s.Silent,
		JSON:    s.JSONLogs,
	}
}

// EnvError reports an environment variable that could not be coerced.
type EnvError struct {
	Name string
	Err  error
}

func (e *EnvError) Error() string {
	return "invalid " + e.Name + ": " + e.Err.Error()
}

func (e *EnvError) Unwrap() error {
	return e.Err
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
