// Package hash computes streaming CRC-32/IEEE checksums over files, reporting
// byte progress as it reads. The checksum is used to cheaply detect mid-copy
// corruption; it is not a security primitive.
package hash

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/crc32"
)

// bufferSize is the read buffer size for streaming checksums.
const bufferSize = 512 * 1024

// ReadError wraps an I/O failure encountered while hashing path.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("hash: read error on %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ProgressFunc is invoked after every buffer read with the number of bytes
// consumed from that read (not the running total).
type ProgressFunc func(bytesRead int64)

// CRC32File streams path through a CRC-32/IEEE accumulator in bufferSize
// chunks, calling progress after each chunk. A nil progress is permitted.
func CRC32File(path string, progress ProgressFunc) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	h := crc32.NewIEEE()
	buf := make([]byte, bufferSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			if progress != nil {
				progress(int64(n))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, &ReadError{Path: path, Err: err}
		}
	}
	return h.Sum32(), nil
}
