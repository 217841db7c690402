package publish

import (
	"bytes"
	"strconv"
	"strings"

	"tajawal-cli/internal/budget"
	"tajawal-cli/internal/model"
)

type RenderOptions struct {
	IncludeBudget bool
	// IncludeNotes adds each activity's notes as a nested bullet.
	IncludeNotes bool
}

// Title is the heading shared by text and markdown output.
func Title(tripID string) string {
	return "Trip plan (" + strings.TrimSpace(tripID) + ")"
}

// FormatCost renders a cost the shortest way that round-trips (20, 12.5).
func FormatCost(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderText returns the plain share text: a "Day N" header per day followed by one line per
// activity, with days separated by a blank line.
func RenderText(days []model.Day) string {
	blocks := make([]string, 0, len(days))
	for _, d := range days {
		lines := []string{"Day " + strconv.Itoa(d.Day)}
		for _, a := range d.Activities {
			lines = append(lines, textLine(a))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func textLine(a model.Activity) string {
	var b strings.Builder
	b.WriteString("- ")
	if a.Time != "" {
		b.WriteString(a.Time + " ")
	}
	b.WriteString(a.Title)
	if a.Location != "" {
		b.WriteString(" @ " + a.Location)
	}
	if a.HasCost() {
		b.WriteString(" ($" + FormatCost(*a.Cost) + ")")
	}
	return b.String()
}

// RenderMarkdown renders a whole plan as a markdown document. Completed activities are struck
// through; costs appear only when explicit.
func RenderMarkdown(tripID string, days []model.Day, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + Title(tripID))
	writeLn("")

	if len(days) == 0 {
		writeLn("_No days planned._")
		return buf.String()
	}

	for _, d := range days {
		writeLn("## Day " + strconv.Itoa(d.Day))
		writeLn("")
		if len(d.Activities) == 0 {
			writeLn("_Nothing planned._")
			writeLn("")
			continue
		}
		for _, a := range d.Activities {
			writeLn("- " + markdownLine(a))
			if opt.IncludeNotes && strings.TrimSpace(a.Notes) != "" {
				for _, ln := range strings.Split(strings.TrimSpace(a.Notes), "\n") {
					writeLn("  - " + escapeInline(strings.TrimSpace(ln)))
				}
			}
		}
		writeLn("")
	}

	if opt.IncludeBudget {
		s := budget.Compute(days)
		writeLn("## Budget")
		writeLn("")
		writeLn("| Day | Total | Unpriced |")
		writeLn("|---:|---:|---:|")
		for _, row := range s.PerDay {
			writeLn("| " + strconv.Itoa(row.Day) + " | $" + FormatCost(row.Total) + " | " + strconv.Itoa(row.Unpriced) + " |")
		}
		writeLn("")
		writeLn("**Total: $" + FormatCost(s.Total) + "**")
	}

	return strings.TrimRight(buf.String(), "\n") + "\n"
}

func markdownLine(a model.Activity) string {
	parts := make([]string, 0, 4)
	if a.Time != "" {
		parts = append(parts, "`"+a.Time+"`")
	}
	parts = append(parts, "**"+escapeInline(a.Title)+"**")
	if a.Location != "" {
		parts = append(parts, "@ "+escapeInline(a.Location))
	}
	if a.HasCost() {
		parts = append(parts, "($"+FormatCost(*a.Cost)+")")
	}
	line := strings.Join(parts, " ")
	if a.Done {
		line = "~~" + line + "~~"
	}
	return line
}

// escapeInline keeps user text from opening emphasis or strike spans.
func escapeInline(s string) string {
	r := strings.NewReplacer("*", `\*`, "_", `\_`, "~", `\~`, "`", "\\`")
	return r.Replace(s)
}
