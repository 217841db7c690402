package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style and wrap width. WithAutoStyle would query the terminal
	// background, which can block on some terminals.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// RenderMarkdown renders md for the terminal, wrapped at width. On renderer failure the
// source is returned unchanged.
func RenderMarkdown(md string, width int) string {
	return renderMarkdownStyle(md, width, MarkdownStyle())
}

func renderMarkdownStyle(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	key := style + ":" + strconv.Itoa(width)
	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	var cfg ansi.StyleConfig
	switch style {
	case "light":
		cfg = styles.LightStyleConfig
	case "notty":
		return styles.NoTTYStyleConfig
	default:
		cfg = styles.DarkStyleConfig
	}

	heading := mdColor(colorSurfaceFg, style)
	cfg.Heading.Color = heading
	cfg.H1.Color = heading
	cfg.H2.Color = heading
	cfg.Text.Color = mdColor(colorSurfaceFg, style)
	cfg.Code.Color = mdColor(colorAccent, style)
	cfg.Strong.Color = nil
	return cfg
}

// MarkdownStyle picks light, dark or notty. TAJAWAL_TUI_MD_STYLE wins, then the editor theme
// override, then Lip Gloss's background detection.
func MarkdownStyle() string {
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv("TAJAWAL_TUI_MD_STYLE"))); v {
	case "light", "dark", "notty":
		return v
	}
	switch themeOverride() {
	case "light", "dark":
		return themeOverride()
	}
	if dark, ok := darkFromEnv(); ok {
		if dark {
			return "dark"
		}
		return "light"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func mdColor(c lipgloss.TerminalColor, style string) *string {
	ac, ok := c.(lipgloss.AdaptiveColor)
	if !ok {
		return nil
	}
	s := ac.Dark
	if style == "light" {
		s = ac.Light
	}
	return &s
}
