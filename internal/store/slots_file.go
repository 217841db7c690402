package store

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const slotFileExt = ".json"

// FileSlots keeps one file per key under Dir. Keys are path-escaped into file names.
type FileSlots struct {
	Dir string
}

func (s FileSlots) path(key string) string {
	return filepath.Join(s.Dir, url.PathEscape(key)+slotFileExt)
}

func (s FileSlots) Get(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSlotNotFound
	}
	return b, err
}

func (s FileSlots) Put(_ context.Context, key string, value []byte) error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("file slots: missing dir")
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	return writeFileAtomic(s.path(key), value)
}

func (s FileSlots) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s FileSlots) Keys(_ context.Context, prefix string) ([]string, error) {
	ents, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, slotFileExt) {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, slotFileExt))
		if err != nil {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s FileSlots) Close() error { return nil }

// writeFileAtomic writes via a sibling temp file so readers never observe a partial value.
func writeFileAtomic(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
