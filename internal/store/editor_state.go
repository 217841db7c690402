package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const editorStateFileName = "editor_state.json"

// EditorState remembers where the terminal editor was left so a relaunch reopens it.
//
// Best effort: a missing or corrupt file yields the default state.
type EditorState struct {
	Version int `json:"version"`

	LastTripID string `json:"lastTripId,omitempty"`

	// SelectedDay maps trip id -> selected day index.
	SelectedDay map[string]int `json:"selectedDay,omitempty"`

	ShowPreview bool `json:"showPreview,omitempty"`
}

func editorStatePath(dir string) string {
	return filepath.Join(dir, editorStateFileName)
}

func LoadEditorState(dir string) (*EditorState, error) {
	if strings.TrimSpace(dir) == "" {
		return &EditorState{Version: 1}, nil
	}
	b, err := os.ReadFile(editorStatePath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &EditorState{Version: 1}, nil
		}
		return nil, err
	}
	var st EditorState
	if err := json.Unmarshal(b, &st); err != nil {
		return &EditorState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func SaveEditorState(dir string, st *EditorState) error {
	if st == nil || strings.TrimSpace(dir) == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(editorStatePath(dir), b)
}
