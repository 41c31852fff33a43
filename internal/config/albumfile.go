package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-ini/ini"
	"github.com/spf13/cast"
)

// AlbumFile is the optional configuration file of one source directory.
//
// The format is a flat list of "key = value" lines. Keys are case
// insensitive. Keys inside [sections] are reported as "section.key" so
// templates can still read them.
//
// Example:
//
//	title     = Summer 2020
//	sort      = descending
//	preview   = 6
//	oblivious = yes
type AlbumFile struct {
	// Path is the file location; Save writes back to it.
	Path string

	file *ini.File
}

// ConfigError reports an album configuration file that cannot be used.
type ConfigError struct {
	Path string
	Key  string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("album config %s: key %q: %v", e.Path, e.Key, e.Err)
	}
	return fmt.Sprintf("album config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var loadOptions = ini.LoadOptions{
	InsensitiveKeys:     true,
	IgnoreInlineComment: true,
}

// LoadAlbumFile reads the album configuration at path.
//
// found is false, with a nil error, when the file does not exist.
// A file that fails to parse returns a *ConfigError naming it.
func LoadAlbumFile(path string) (file *AlbumFile, found bool, err error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, &ConfigError{Path: path, Err: err}
	}

	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, false, &ConfigError{Path: path, Err: err}
	}

	return &AlbumFile{Path: path, file: f}, true, nil
}

// NewAlbumFile returns an empty configuration that saves to path.
func NewAlbumFile(path string) *AlbumFile {
	return &AlbumFile{Path: path, file: ini.Empty(loadOptions)}
}

// String returns the trimmed value of key. Empty values count as absent.
func (f *AlbumFile) String(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	sec := f.file.Section(ini.DefaultSection)
	if !sec.HasKey(key) {
		return "", false
	}
	v := strings.TrimSpace(sec.Key(key).String())
	return v, v != ""
}

// Bool returns the boolean value of key.
// Accepted tokens include 1/0, t/f, true/false, yes/no, y/n and on/off.
func (f *AlbumFile) Bool(key string) (value, ok bool, err error) {
	if _, present := f.String(key); !present {
		return false, false, nil
	}
	b, err := f.file.Section(ini.DefaultSection).Key(key).Bool()
	if err != nil {
		return false, false, &ConfigError{Path: f.Path, Key: key, Err: err}
	}
	return b, true, nil
}

// Int returns the integer value of key.
func (f *AlbumFile) Int(key string) (value int, ok bool, err error) {
	s, present := f.String(key)
	if !present {
		return 0, false, nil
	}
	n, err := cast.ToIntE(s)
	if err != nil {
		return 0, false, &ConfigError{Path: f.Path, Key: key, Err: err}
	}
	return n, true, nil
}

// Time returns the date value of key. Common layouts such as
// "2006-01-02" and RFC 3339 are accepted.
func (f *AlbumFile) Time(key string) (value time.Time, ok bool, err error) {
	s, present := f.String(key)
	if !present {
		return time.Time{}, false, nil
	}
	t, err := cast.ToTimeE(s)
	if err != nil {
		return time.Time{}, false, &ConfigError{Path: f.Path, Key: key, Err: err}
	}
	return t, true, nil
}

// Set assigns key in the default section, adding it if needed.
func (f *AlbumFile) Set(key, value string) {
	f.file.Section(ini.DefaultSection).Key(key).SetValue(value)
}

// Save writes the configuration back to Path.
func (f *AlbumFile) Save() error {
	if err := f.file.SaveTo(f.Path); err != nil {
		return &ConfigError{Path: f.Path, Err: err}
	}
	return nil
}

// Extra returns every key for which known returns false, with its value.
func (f *AlbumFile) Extra(known func(key string) bool) map[string]string {
	extra := make(map[string]string)
	if f == nil {
		return extra
	}
	for _, sec := range f.file.Sections() {
		prefix := ""
		if sec.Name() != ini.DefaultSection {
			prefix = strings.ToLower(sec.Name()) + "."
		}
		for _, key := range sec.Keys() {
			name := prefix + key.Name()
			if prefix == "" && known(name) {
				continue
			}
			extra[name] = key.String()
		}
	}
	return extra
}
