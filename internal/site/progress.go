package site

import (
	"github.com/rs/zerolog"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a build progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel

	// Path is the source or destination the message is about, if any.
	Path string
}

// Stats counts the work done by one build.
type Stats struct {
	Images       int
	Thumbnails   int
	Previews     int
	Pages        int
	Deleted      int
	Failures     int
	BytesWritten int64
}

// report sends the event to the callback and mirrors it to the logger.
func report(log zerolog.Logger, onProgress func(ProgressEvent), event ProgressEvent) {
	var e *zerolog.Event
	switch event.Level {
	case LevelVerbose:
		e = log.Debug()
	case LevelWarning:
		e = log.Warn()
	case LevelError:
		e = log.Error()
	default:
		e = log.Info()
	}
	if event.Path != "" {
		e = e.Str("path", event.Path)
	}
	e.Msg(event.Message)

	if onProgress != nil {
		onProgress(event)
	}
}
