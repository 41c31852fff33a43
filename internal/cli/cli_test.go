package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/photosite/internal/config"
)

// chdir moves into an empty directory so no stray .env file is read.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestParse(t *testing.T) {
	chdir(t)

	testCases := []struct {
		name     string
		args     []string
		expected func(s *config.Settings)
	}{
		{
			name: "positional paths and defaults",
			args: []string{"/photos", "/www"},
			expected: func(s *config.Settings) {
				s.Source = "/photos"
				s.Destination = "/www"
			},
		},
		{
			name: "all flags",
			args: []string{"-static", "/assets", "-verbose", "-silent", "--dry-run", "-keep-going", "-json", "/photos", "/www"},
			expected: func(s *config.Settings) {
				s.Source = "/photos"
				s.Destination = "/www"
				s.StaticPath = "/assets"
				s.Verbose = true
				s.Silent = true
				s.DryRun = true
				s.KeepGoing = true
				s.JSONLogs = true
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			settings, exit, err := Parse(tc.args, &out)
			require.NoError(t, err)
			assert.False(t, exit)

			want := config.DefaultSettings()
			tc.expected(want)
			assert.Equal(t, want, settings)
		})
	}
}

func TestParse_Help(t *testing.T) {
	chdir(t)
	var out bytes.Buffer

	settings, exit, err := Parse([]string{"-help"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, settings)
	assert.Contains(t, out.String(), "photosite [options] SOURCE DESTINATION")
}

func TestParse_UsageErrors(t *testing.T) {
	chdir(t)

	for _, args := range [][]string{
		{},
		{"/photos"},
		{"/photos", "/www", "/extra"},
		{"-unknown", "/photos", "/www"},
	} {
		var out bytes.Buffer
		_, _, err := Parse(args, &out)

		var exitErr *ExitError
		if assert.ErrorAs(t, err, &exitErr, "%v", args) {
			assert.Equal(t, ExitUsage, exitErr.Code)
		}
	}
}

func TestParse_BadConfig(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	var out bytes.Buffer
	_, _, err := Parse([]string{"-config", path, "/photos", "/www"}, &out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "load config")
}

func TestParse_ConfigEnvAndFlags(t *testing.T) {
	dir := chdir(t)

	settingsPath := filepath.Join(dir, "settings.json")
	saved := config.DefaultSettings()
	saved.Source = "/from/config"
	saved.Destination = "/www/config"
	saved.ThumbnailSize = 300
	saved.Verbose = true
	require.NoError(t, saved.Save(settingsPath))

	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFile), []byte("PHOTOSITE_JPEG_QUALITY=70\nPHOTOSITE_DESTINATION=/www/env\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("PHOTOSITE_JPEG_QUALITY")
		os.Unsetenv("PHOTOSITE_DESTINATION")
	})

	var out bytes.Buffer
	settings, _, err := Parse([]string{"-config", settingsPath, "-verbose=false"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "/from/config", settings.Source)
	assert.Equal(t, "/www/env", settings.Destination)
	assert.Equal(t, 300, settings.ThumbnailSize)
	assert.Equal(t, 70, settings.JPEGQuality)
	assert.False(t, settings.Verbose)
}
