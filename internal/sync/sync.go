// Package sync mirrors a live source tree into a staging tree (or back) by
// scanning both sides into sets, deriving an ordered plan of operations,
// executing it, and retrying the whole scan-plan-execute cycle a bounded
// number of times on transient failure classes.
package sync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arkveil/stool/internal/filter"
	"github.com/arkveil/stool/internal/hash"
	"github.com/arkveil/stool/internal/ui"
)

// maxRetries bounds Dir/File to at most 4 total attempts: the source may
// legitimately change between attempts while the game keeps writing.
const maxRetries = 3

// Dir mirrors src onto dst. restoring only affects how the caller wraps
// this call with begin/end UI events (stage vs. restore); scan/plan/execute
// logic is direction-agnostic. The caller must confirm src exists before
// calling; a missing src is the caller's concern (log+skip), not a sync
// error.
func Dir(src, dst string, include, ignore *filter.Matcher, restoring bool, sink ui.ProgressSink) error {
	_ = restoring
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		sink.BeginScan()
		srcDir, err := Scan(src, include, ignore)
		if err != nil {
			sink.EndScan()
			return err
		}
		if err := os.MkdirAll(dst, 0o755); err != nil {
			sink.EndScan()
			return fmt.Errorf("sync: create dst root %s: %w", dst, err)
		}
		dstDir, err := Scan(dst, nil, nil)
		if err != nil {
			sink.EndScan()
			return err
		}
		sink.EndScan()

		sink.BeginPrepare()
		ops, err := Plan(srcDir, dstDir)
		sink.EndPrepare()
		if err != nil {
			if isRetriable(err) && attempt < maxRetries {
				lastErr = err
				continue
			}
			return err
		}

		job := &Job{SrcRoot: src, DstRoot: dst, Ops: ops}
		if err := job.Execute(sink); err != nil {
			if isRetriable(err) && attempt < maxRetries {
				lastErr = err
				continue
			}
			return err
		}
		return nil
	}
	return lastErr
}

// File mirrors a single file into dstDir, keyed by its base name.
func File(srcFile, dstDir string, sink ui.ProgressSink) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := syncFileOnce(srcFile, dstDir, sink)
		if err == nil {
			return nil
		}
		if isRetriable(err) && attempt < maxRetries {
			lastErr = err
			continue
		}
		return err
	}
	return lastErr
}

func syncFileOnce(srcFile, dstDir string, sink ui.ProgressSink) error {
	info, err := os.Stat(srcFile)
	if err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Path: srcFile}
		}
		return &ReadFileError{Path: srcFile, Err: err}
	}

	dstPath := filepath.Join(dstDir, filepath.Base(srcFile))
	if dstInfo, err := os.Stat(dstPath); err == nil {
		if dstInfo.Size() == info.Size() && dstInfo.ModTime().Equal(info.ModTime()) {
			return nil
		}
	}

	crcWant, err := hash.CRC32File(srcFile, nil)
	if err != nil {
		return &ReadFileError{Path: srcFile, Err: err}
	}
	if err := copyFile(srcFile, dstPath, info, sink); err != nil {
		return err
	}
	crcGot, err := hash.CRC32File(dstPath, nil)
	if err != nil {
		return &ReadFileError{Path: dstPath, Err: err}
	}
	if crcGot != crcWant {
		return &ChecksumMismatchError{Path: dstPath, Want: crcWant, Got: crcGot}
	}
	return nil
}

func isRetriable(err error) bool {
	return errors.Is(err, ErrChecksumMismatch) || errors.Is(err, ErrFileNotFound) || errors.Is(err, ErrReadError)
}
