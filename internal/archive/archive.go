// Package archive packs a directory into a .7z container and unpacks a
// container back into a directory by invoking an external 7z binary. The
// engine sees only Pack/Unpack; the codec is intentionally opaque to it.
package archive

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// CommandRunner invokes name with args in dir and reports the process's
// exit code. The default implementation shells out to the real 7z binary;
// tests substitute a fake.
type CommandRunner func(ctx context.Context, name string, args []string, dir string) (exitCode int, err error)

// ErrCodecFailed reports a non-zero exit from the underlying archive tool.
type ErrCodecFailed struct {
	Op       string
	ExitCode int
}

func (e *ErrCodecFailed) Error() string {
	return fmt.Sprintf("archive: %s exited with code %d", e.Op, e.ExitCode)
}

// Codec packs/unpacks archives. Runner defaults to execCommand when zero.
type Codec struct {
	Runner CommandRunner
}

// New returns a Codec backed by a real 7z subprocess.
func New() *Codec {
	return &Codec{Runner: execCommand}
}

func (c *Codec) runner() CommandRunner {
	if c.Runner != nil {
		return c.Runner
	}
	return execCommand
}

// Pack compresses every entry under srcDir into a new .7z archive at
// dstArchive using maximum compression.
func (c *Codec) Pack(ctx context.Context, srcDir, dstArchive string) error {
	code, err := c.runner()(ctx, "7z", []string{"a", "-mx9", dstArchive, "."}, srcDir)
	if err != nil {
		return fmt.Errorf("archive: pack %s: %w", dstArchive, err)
	}
	if code != 0 {
		return &ErrCodecFailed{Op: "pack", ExitCode: code}
	}
	return nil
}

// Unpack extracts archivePath's contents into dstDir, which must already
// exist.
func (c *Codec) Unpack(ctx context.Context, archivePath, dstDir string) error {
	code, err := c.runner()(ctx, "7z", []string{"x", "-y", archivePath}, dstDir)
	if err != nil {
		return fmt.Errorf("archive: unpack %s: %w", archivePath, err)
	}
	if code != 0 {
		return &ErrCodecFailed{Op: "unpack", ExitCode: code}
	}
	return nil
}

// execCommand is the real CommandRunner, invoking the tool as a
// subprocess and translating a non-zero exit into an ordinary return
// value rather than an error.
func execCommand(ctx context.Context, name string, args []string, dir string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
