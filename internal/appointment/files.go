package appointment

import (
	"bufio"
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// readLines returns the non-blank lines of path. A missing file reads as empty.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return lines, nil
}

// writeFileAtomic replaces path with data via a temp file in the same directory and a rename,
// so readers never observe a half-written collection.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

type textRecord[T any] interface {
	*T
	encoding.TextUnmarshaler
}

// loadCollection decodes every line of path. The first malformed line aborts the load.
func loadCollection[T any, PT textRecord[T]](path string, idOf func(T) string) (map[string]T, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	out := make(map[string]T, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var v T
		if err := PT(&v).UnmarshalText([]byte(line)); err != nil {
			return nil, &ParseError{Source: path, Line: i + 1, Err: err}
		}
		id := idOf(v)
		if _, dup := out[id]; dup {
			return nil, &ParseError{Source: path, Line: i + 1, Err: fmt.Errorf("duplicate id %s", id)}
		}
		out[id] = v
	}
	return out, nil
}

// encodeCollection renders m one record per line, ordered by id.
func encodeCollection[T encoding.TextMarshaler](m map[string]T) ([]byte, error) {
	var buf bytes.Buffer
	for _, id := range slices.Sorted(maps.Keys(m)) {
		line, err := m[id].MarshalText()
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", id, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// withPut returns a copy of current with v stored under id, after the copy has been written to path.
// current is never modified, so a failed write leaves the caller's state as it was.
func withPut[T encoding.TextMarshaler](path string, current map[string]T, id string, v T) (map[string]T, error) {
	next := maps.Clone(current)
	if next == nil {
		next = make(map[string]T)
	}
	next[id] = v
	return next, save(path, next)
}

// withDelete is withPut's counterpart for removal.
func withDelete[T encoding.TextMarshaler](path string, current map[string]T, id string) (map[string]T, error) {
	next := maps.Clone(current)
	delete(next, id)
	return next, save(path, next)
}

func save[T encoding.TextMarshaler](path string, m map[string]T) error {
	data, err := encodeCollection(m)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}
