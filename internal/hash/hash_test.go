package hash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/crc32"
)

func TestCRC32FileMatchesReference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	content := []byte("alpha\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	want := crc32.ChecksumIEEE(content)
	got, err := CRC32File(path, nil)
	if err != nil {
		t.Fatalf("CRC32File: %v", err)
	}
	if got != want {
		t.Errorf("CRC32File = %08x, want %08x", got, want)
	}
}

func TestCRC32FileProgress(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.bin")
	content := make([]byte, bufferSize+1234)
	for i := range content {
		content[i] = byte(i)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var total int64
	calls := 0
	_, err := CRC32File(path, func(n int64) {
		total += n
		calls++
	})
	if err != nil {
		t.Fatalf("CRC32File: %v", err)
	}
	if total != int64(len(content)) {
		t.Errorf("progress total = %d, want %d", total, len(content))
	}
	if calls < 2 {
		t.Errorf("expected at least 2 progress calls for a file spanning two buffers, got %d", calls)
	}
}

func TestCRC32FileMissing(t *testing.T) {
	_, err := CRC32File(filepath.Join(t.TempDir(), "missing"), nil)
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	var readErr *ReadError
	if !asReadError(err, &readErr) {
		t.Fatalf("expected *ReadError, got %T: %v", err, err)
	}
}

func asReadError(err error, target **ReadError) bool {
	if re, ok := err.(*ReadError); ok {
		*target = re
		return true
	}
	return false
}
