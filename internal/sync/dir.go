package sync

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arkveil/stool/internal/filter"
	"github.com/arkveil/stool/internal/hash"
)

// Dir is the set representation of a directory tree: a root plus the
// relative paths of every retained directory and file, normalised to
// forward slashes. It is built once per job and discarded after planning.
type Dir struct {
	Root  string
	Dirs  map[string]struct{}
	Files map[string]struct{}
}

// Scan walks root depth-first, classifying every entry as a dir or a file.
// Entries matching ignore are dropped; for files only, when include is set
// and the entry fails to match it, the file is also dropped.
func Scan(root string, include, ignore *filter.Matcher) (*Dir, error) {
	root = filepath.Clean(root)
	d := &Dir{Root: root, Dirs: map[string]struct{}{}, Files: map[string]struct{}{}}

	err := filepath.WalkDir(root, func(p string, de fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("sync: relativize %s: %w", p, err)
		}
		rel = filepath.ToSlash(rel)
		if ignore.Match(rel) {
			if de.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if de.IsDir() {
			d.Dirs[rel] = struct{}{}
			return nil
		}
		if include != nil && !include.Match(rel) {
			return nil
		}
		d.Files[rel] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sync: scan %s: %w", root, err)
	}
	return d, nil
}

// OpKind names the five operation shapes a plan can emit.
type OpKind int

const (
	OpCreateDir OpKind = iota
	OpCopy
	OpDelete
	OpRemoveDir
	OpVerifyChecksum
)

func (k OpKind) String() string {
	switch k {
	case OpCreateDir:
		return "CreateDir"
	case OpCopy:
		return "Copy"
	case OpDelete:
		return "Delete"
	case OpRemoveDir:
		return "RemoveDir"
	case OpVerifyChecksum:
		return "VerifyChecksum"
	default:
		return "Unknown"
	}
}

// Op is one step of a SyncJob's plan.
type Op struct {
	Kind  OpKind
	Rel   string
	Size  int64
	CRC32 uint32
}

// Plan derives the ordered operation list: new dirs, new files, changed
// files, deletions, dir removals (deepest first), then every deferred
// VerifyChecksum appended at the end.
func Plan(src, dst *Dir) ([]Op, error) {
	var ops []Op
	var deferred []Op

	for _, rel := range sortedMissing(src.Dirs, dst.Dirs) {
		ops = append(ops, Op{Kind: OpCreateDir, Rel: rel})
	}

	for _, rel := range sortedMissing(src.Files, dst.Files) {
		size, crc, err := statAndHash(filepath.Join(src.Root, rel))
		if err != nil {
			return nil, err
		}
		ops = append(ops, Op{Kind: OpCopy, Rel: rel})
		deferred = append(deferred, Op{Kind: OpVerifyChecksum, Rel: rel, Size: size, CRC32: crc})
	}

	for _, rel := range sortedCommon(src.Files, dst.Files) {
		srcPath := filepath.Join(src.Root, rel)
		dstPath := filepath.Join(dst.Root, rel)
		srcInfo, err := os.Stat(srcPath)
		if err != nil {
			return nil, &ReadFileError{Path: srcPath, Err: err}
		}
		dstInfo, err := os.Stat(dstPath)
		if err != nil {
			return nil, &ReadFileError{Path: dstPath, Err: err}
		}
		if srcInfo.Size() == dstInfo.Size() && srcInfo.ModTime().Equal(dstInfo.ModTime()) {
			continue
		}
		crc, err := hash.CRC32File(srcPath, nil)
		if err != nil {
			return nil, &ReadFileError{Path: srcPath, Err: err}
		}
		ops = append(ops, Op{Kind: OpCopy, Rel: rel})
		deferred = append(deferred, Op{Kind: OpVerifyChecksum, Rel: rel, Size: srcInfo.Size(), CRC32: crc})
	}

	for _, rel := range sortedMissing(dst.Files, src.Files) {
		ops = append(ops, Op{Kind: OpDelete, Rel: rel})
	}

	rmDirs := sortedMissing(dst.Dirs, src.Dirs)
	sort.Slice(rmDirs, func(i, j int) bool {
		ci, cj := strings.Count(rmDirs[i], "/"), strings.Count(rmDirs[j], "/")
		if ci != cj {
			return ci > cj
		}
		return rmDirs[i] > rmDirs[j]
	})
	for _, rel := range rmDirs {
		ops = append(ops, Op{Kind: OpRemoveDir, Rel: rel})
	}

	return append(ops, deferred...), nil
}

func statAndHash(path string) (size int64, crc uint32, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, &ReadFileError{Path: path, Err: err}
	}
	crc, err = hash.CRC32File(path, nil)
	if err != nil {
		return 0, 0, &ReadFileError{Path: path, Err: err}
	}
	return info.Size(), crc, nil
}

// sortedMissing returns the sorted keys present in a but absent from b.
func sortedMissing(a, b map[string]struct{}) []string {
	var out []string
	for rel := range a {
		if _, ok := b[rel]; !ok {
			out = append(out, rel)
		}
	}
	sort.Strings(out)
	return out
}

// sortedCommon returns the sorted keys present in both a and b.
func sortedCommon(a, b map[string]struct{}) []string {
	var out []string
	for rel := range a {
		if _, ok := b[rel]; ok {
			out = append(out, rel)
		}
	}
	sort.Strings(out)
	return out
}
