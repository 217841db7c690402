package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"tajawal-cli/internal/model"
)

const (
	FormatMarkdown = "md"
	FormatText     = "txt"
)

type WriteOptions struct {
	// Format is "md" (default) or "txt".
	Format        string
	Overwrite     bool
	IncludeBudget bool
	IncludeNotes  bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// FileName returns trip-<tripID>.<ext> with path separators replaced.
func FileName(tripID, format string) string {
	ext := FormatMarkdown
	if format == FormatText {
		ext = FormatText
	}
	safe := strings.NewReplacer("/", "_", `\`, "_").Replace(strings.TrimSpace(tripID))
	return "trip-" + safe + "." + ext
}

// Write exports a plan into toDir. Existing files are kept unless opt.Overwrite is set.
func Write(tripID string, days []model.Day, toDir string, opt WriteOptions) (WriteResult, error) {
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return WriteResult{}, errors.New("missing tripID")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	var body string
	switch opt.Format {
	case "", FormatMarkdown:
		body = RenderMarkdown(tripID, days, RenderOptions{IncludeBudget: opt.IncludeBudget, IncludeNotes: opt.IncludeNotes})
	case FormatText:
		body = Title(tripID) + "\n\n" + RenderText(days) + "\n"
	default:
		return WriteResult{}, errors.New("unknown export format: " + opt.Format)
	}

	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(toDir, FileName(tripID, opt.Format))
	if err := writeFile(outPath, []byte(body), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
