package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	ioutils "github.com/handiism/photosite/internal/io"
	"github.com/handiism/photosite/internal/model"
)

// Kind identifies one of the image processing steps.
type Kind int

const (
	// Scale takes (source, destination).
	Scale Kind = iota

	// Watermark takes (source, watermark, destination).
	Watermark

	// Thumbnail takes (source, destination).
	Thumbnail

	// Preview takes (image1, ..., imageN, destination) with N in {3, 6, 9}.
	Preview
)

// String returns the lower case name of the step.
func (k Kind) String() string {
	switch k {
	case Scale:
		return "scale"
	case Watermark:
		return "watermark"
	case Thumbnail:
		return "thumbnail"
	case Preview:
		return "preview"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrUnknownKind is returned for a Kind outside the defined steps.
var ErrUnknownKind = errors.New("unknown processor kind")

// Runner executes one image processing step.
//
// command is the album's identifier for the step: model.Builtin (or empty)
// for the in-process implementation, anything else names an executable.
type Runner interface {
	Run(ctx context.Context, kind Kind, command string, args ...string) error
}

// Toolbox is the Runner used for real builds.
//
// Built-in steps are served by an ImageService. External commands run
// synchronously with the positional arguments and no timeout; a non-zero
// exit status is returned as a *CommandError.
//
// Example:
//
//	tools := NewToolbox(ioutils.NewImageService(cfg))
//	err := tools.Run(ctx, Scale, model.Builtin, "/photos/a.jpg", "/www/a.jpg")
//	err = tools.Run(ctx, Preview, "/usr/local/bin/collage", t1, t2, t3, "/www/thumbnails/all.jpg")
type Toolbox struct {
	images *ioutils.ImageService
}

// NewToolbox creates a Toolbox serving built-in steps with images.
func NewToolbox(images *ioutils.ImageService) *Toolbox {
	return &Toolbox{images: images}
}

// Run executes the step.
func (t *Toolbox) Run(ctx context.Context, kind Kind, command string, args ...string) error {
	if err := checkArgs(kind, args); err != nil {
		return err
	}
	if command == "" || command == model.Builtin {
		return t.builtin(ctx, kind, args)
	}
	return runCommand(ctx, kind, command, args)
}

func (t *Toolbox) builtin(ctx context.Context, kind Kind, args []string) error {
	switch kind {
	case Scale:
		return t.images.Scale(ctx, args[0], args[1])
	case Watermark:
		return t.images.Watermark(ctx, args[0], args[1], args[2])
	case Thumbnail:
		return t.images.Thumbnail(ctx, args[0], args[1])
	case Preview:
		n := len(args) - 1
		return t.images.Composite(ctx, args[:n], args[n])
	}
	return fmt.Errorf("%w: %v", ErrUnknownKind, kind)
}

func checkArgs(kind Kind, args []string) error {
	var ok bool
	switch kind {
	case Scale, Thumbnail:
		ok = len(args) == 2
	case Watermark:
		ok = len(args) == 3
	case Preview:
		n := len(args) - 1
		ok = n > 0 && model.RoundPreview(n) == n
	default:
		return fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
	if !ok {
		return fmt.Errorf("%v: unexpected argument count %d", kind, len(args))
	}
	return nil
}

// CommandError reports an external processor that failed.
type CommandError struct {
	Kind    Kind
	Command string
	Args    []string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%v command %q failed: %v", e.Kind, e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func runCommand(ctx context.Context, kind Kind, command string, args []string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &CommandError{
			Kind:    kind,
			Command: command,
			Args:    args,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return nil
}
