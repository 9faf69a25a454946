package sync

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arkveil/stool/internal/hash"
	"github.com/arkveil/stool/internal/ui"
)

// copyBufferSize is independent of hash's CRC buffer; copy is a plain
// byte-for-byte stream, not a hash accumulator.
const copyBufferSize = 256 * 1024

// Job is an ordered, already-planned sequence of operations mirroring
// SrcRoot onto DstRoot. Dir builds a fresh Job for every attempt and
// discards it after Execute returns.
type Job struct {
	SrcRoot, DstRoot string
	Ops              []Op
}

// Execute runs every op in order, reporting progress through sink. The
// first fatal error aborts the remaining ops; the caller's retry wrapper
// decides whether to re-scan and try again.
func (j *Job) Execute(sink ui.ProgressSink) error {
	sink.BeginSync(len(j.Ops))
	done := 0
	for _, op := range j.Ops {
		if err := j.executeOp(op, sink); err != nil {
			return err
		}
		done++
		sink.SyncProgress(done)
	}
	sink.EndSync()
	return nil
}

func (j *Job) executeOp(op Op, sink ui.ProgressSink) error {
	switch op.Kind {
	case OpCreateDir:
		if err := os.MkdirAll(filepath.Join(j.DstRoot, op.Rel), 0o755); err != nil {
			return fmt.Errorf("sync: create dir %s: %w", op.Rel, err)
		}
		return nil

	case OpCopy:
		srcPath := filepath.Join(j.SrcRoot, op.Rel)
		dstPath := filepath.Join(j.DstRoot, op.Rel)
		info, err := os.Stat(srcPath)
		if err != nil {
			if os.IsNotExist(err) {
				return &NotFoundError{Path: srcPath}
			}
			return &ReadFileError{Path: srcPath, Err: err}
		}
		return copyFile(srcPath, dstPath, info, sink)

	case OpDelete:
		if err := os.Remove(filepath.Join(j.DstRoot, op.Rel)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("sync: delete %s: %w", op.Rel, err)
		}
		return nil

	case OpRemoveDir:
		if err := os.Remove(filepath.Join(j.DstRoot, op.Rel)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("sync: remove dir %s: %w", op.Rel, err)
		}
		return nil

	case OpVerifyChecksum:
		return verifyChecksum(filepath.Join(j.DstRoot, op.Rel), op)

	default:
		return fmt.Errorf("sync: unknown op kind %v", op.Kind)
	}
}

// copyFile streams src to dst, reporting per-buffer progress, then
// preserves src's modification time on dst.
func copyFile(srcPath, dstPath string, info fs.FileInfo, sink ui.ProgressSink) error {
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("sync: mkdir for %s: %w", dstPath, err)
	}

	in, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Path: srcPath}
		}
		return &ReadFileError{Path: srcPath, Err: err}
	}
	defer in.Close()

	out, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("sync: open dest %s: %w", dstPath, err)
	}

	sink.BeginFile(filepath.Dir(dstPath), filepath.Base(dstPath), info.Size())
	buf := make([]byte, copyBufferSize)
	for {
		n, rerr := in.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				out.Close()
				return fmt.Errorf("sync: write %s: %w", dstPath, werr)
			}
			sink.FileProgress(int64(n))
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			out.Close()
			return &ReadFileError{Path: srcPath, Err: rerr}
		}
	}
	sink.EndFile()

	if err := out.Close(); err != nil {
		return fmt.Errorf("sync: close dest %s: %w", dstPath, err)
	}
	if err := os.Chtimes(dstPath, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("sync: preserve mtime for %s: %w", dstPath, err)
	}
	return nil
}

func verifyChecksum(path string, op Op) error {
	crc, err := hash.CRC32File(path, nil)
	if err != nil {
		var readErr *hash.ReadError
		if errors.As(err, &readErr) {
			if os.IsNotExist(readErr.Err) {
				return &NotFoundError{Path: path}
			}
			return &ReadFileError{Path: path, Err: readErr.Err}
		}
		return &ReadFileError{Path: path, Err: err}
	}
	if crc != op.CRC32 {
		return &ChecksumMismatchError{Path: path, Want: op.CRC32, Got: crc}
	}
	return nil
}
