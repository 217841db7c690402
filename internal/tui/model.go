package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tajawal-cli/internal/budget"
	"tajawal-cli/internal/editor"
	"tajawal-cli/internal/model"
	"tajawal-cli/internal/publish"
	"tajawal-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEditTitle
	modeConfirmDiscard
)

// Prompts of the add flow, in order. The first (title) is required.
var addPrompts = []string{"Title", "Time (e.g. 09:30)", "Location", "Cost", "Notes"}

type Options struct {
	// StateDir holds the editor UI state file. Empty disables it.
	StateDir string
	Logger   *slog.Logger
}

type editorModel struct {
	ctx     context.Context
	session *editor.Session
	opt     Options
	log     *slog.Logger
	keys    keyMap
	help    help.Model

	mode    mode
	cursor  int
	input   textinput.Model
	addStep int
	draft   model.Draft

	showPreview bool
	minibuffer  string
	warn        bool

	width  int
	height int
}

func newEditorModel(ctx context.Context, s *editor.Session, opt Options) editorModel {
	m := editorModel{
		ctx:     ctx,
		session: s,
		opt:     opt,
		log:     opt.Logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
		width:   80,
		height:  24,
	}
	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}

	m.input = textinput.New()
	m.input.CharLimit = 200
	m.input.Width = 40

	if st, err := store.LoadEditorState(opt.StateDir); err == nil {
		m.showPreview = st.ShowPreview
		if i, ok := st.SelectedDay[s.TripID()]; ok {
			s.SelectDay(i)
		}
	}
	return m
}

func (m editorModel) Init() tea.Cmd { return nil }

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m.quit()
		}
		switch m.mode {
		case modeAdd, modeEditTitle:
			return m.updateInput(msg)
		case modeConfirmDiscard:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m editorModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.minibuffer = ""
	m.warn = false
	sel := m.session.Selected()

	switch {
	case key.Matches(msg, m.keys.PrevDay):
		if m.session.SelectDay(sel - 1) {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.NextDay):
		if m.session.SelectDay(sel + 1) {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.activityCount()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.MoveUp):
		if m.session.ReorderActivities(sel, m.cursor, m.cursor-1) {
			m.cursor--
		}
	case key.Matches(msg, m.keys.MoveDown):
		if m.session.ReorderActivities(sel, m.cursor, m.cursor+1) {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		if len(m.session.Days()) == 0 {
			m.flash("No day to add to", true)
			return m, nil
		}
		m.mode = modeAdd
		m.addStep = 0
		m.draft = model.Draft{}
		return m, m.startInput(addPrompts[0], "")
	case key.Matches(msg, m.keys.Edit):
		if a, ok := m.current(); ok {
			m.mode = modeEditTitle
			return m, m.startInput("Title", a.Title)
		}
	case key.Matches(msg, m.keys.Done):
		if a, ok := m.current(); ok {
			m.session.ToggleDone(sel, a.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if a, ok := m.current(); ok && m.session.DeleteActivity(sel, a.ID) {
			m.flash("Deleted "+a.Title, false)
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Undo):
		if m.session.Undo() {
			m.flash("Undone", false)
			m.clampCursor()
		} else {
			m.flash("Nothing to undo", false)
		}
	case key.Matches(msg, m.keys.Preview):
		m.showPreview = !m.showPreview
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Quit):
		if m.session.Dirty() {
			m.mode = modeConfirmDiscard
			return m, nil
		}
		return m.quit()
	}
	return m, nil
}

func (m editorModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopInput()
		m.flash("Cancelled", false)
		return m, nil
	case tea.KeyEnter:
		return m.submitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m editorModel) submitInput() (tea.Model, tea.Cmd) {
	val := m.input.Value()
	sel := m.session.Selected()

	if m.mode == modeEditTitle {
		a, ok := m.current()
		m.stopInput()
		if !ok {
			return m, nil
		}
		if strings.TrimSpace(val) == "" {
			m.flash("Title cannot be empty", true)
			return m, nil
		}
		if strings.TrimSpace(val) != a.Title {
			m.session.EditActivity(sel, a.ID, model.Patch{Title: model.String(val)})
		}
		return m, nil
	}

	switch m.addStep {
	case 0:
		if strings.TrimSpace(val) == "" {
			m.flash("Title is required", true)
			return m, nil
		}
		m.draft.Title = val
	case 1:
		m.draft.Time = val
	case 2:
		m.draft.Location = val
	case 3:
		m.draft.Cost = val
	case 4:
		m.draft.Notes = val
	}
	m.addStep++
	if m.addStep < len(addPrompts) {
		m.minibuffer = ""
		m.warn = false
		return m, m.startInput(addPrompts[m.addStep], "")
	}

	m.stopInput()
	if _, ok := m.session.AddActivity(sel, m.draft); ok {
		m.cursor = m.activityCount() - 1
		m.flash("Added "+strings.TrimSpace(m.draft.Title), false)
	}
	return m, nil
}

func (m editorModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m.quit()
	case "s":
		if m.save() {
			return m.quit()
		}
		m.mode = modeBrowse
	case "n", "N", "esc":
		m.mode = modeBrowse
	}
	return m, nil
}

func (m *editorModel) startInput(prompt, value string) tea.Cmd {
	m.input.Reset()
	m.input.Placeholder = prompt
	m.input.Prompt = prompt + ": "
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *editorModel) stopInput() {
	m.input.Blur()
	m.input.Reset()
	m.mode = modeBrowse
}

func (m *editorModel) flash(s string, warn bool) {
	m.minibuffer = s
	m.warn = warn
}

// save reports whether the plan was persisted. A failure keeps the unsaved changes.
func (m *editorModel) save() bool {
	if err := m.session.Save(m.ctx); err != nil {
		m.flash("Save failed, changes kept: "+err.Error(), true)
		return false
	}
	m.flash("Saved", false)
	return true
}

func (m editorModel) quit() (tea.Model, tea.Cmd) {
	m.saveUIState()
	m.session.Cancel()
	return m, tea.Quit
}

func (m editorModel) saveUIState() {
	if m.opt.StateDir == "" || m.session.Closed() {
		return
	}
	st, err := store.LoadEditorState(m.opt.StateDir)
	if err != nil {
		st = &store.EditorState{Version: 1}
	}
	if st.SelectedDay == nil {
		st.SelectedDay = map[string]int{}
	}
	st.LastTripID = m.session.TripID()
	st.SelectedDay[m.session.TripID()] = m.session.Selected()
	st.ShowPreview = m.showPreview
	if err := store.SaveEditorState(m.opt.StateDir, st); err != nil {
		m.log.Warn("editor state save failed", "err", err)
	}
}

func (m editorModel) activities() []model.Activity {
	days := m.session.Days()
	sel := m.session.Selected()
	if sel < 0 || sel >= len(days) {
		return nil
	}
	return days[sel].Activities
}

func (m editorModel) activityCount() int {
	return len(m.activities())
}

func (m editorModel) current() (model.Activity, bool) {
	acts := m.activities()
	if m.cursor < 0 || m.cursor >= len(acts) {
		return model.Activity{}, false
	}
	return acts[m.cursor], true
}

func (m *editorModel) clampCursor() {
	if n := m.activityCount(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m editorModel) View() string {
	days := m.session.Days()
	sel := m.session.Selected()
	w := m.width
	if w < 20 {
		w = 20
	}

	title := publish.Title(m.session.TripID())
	if m.session.Dirty() {
		title += " ●"
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Render(title)}

	tabs := make([]string, 0, len(days))
	for i, d := range days {
		tabs = append(tabs, styleTab(i == sel).Render(fmt.Sprintf("Day %d", d.Day)))
	}
	if len(tabs) == 0 {
		lines = append(lines, styleMuted().Render("No days planned."))
	} else {
		lines = append(lines, xansi.Truncate(lipgloss.JoinHorizontal(lipgloss.Top, tabs...), w, "…"), "")
	}

	if m.showPreview {
		md := publish.RenderMarkdown(m.session.TripID(), days, publish.RenderOptions{IncludeBudget: true, IncludeNotes: true})
		lines = append(lines, RenderMarkdown(md, w))
	} else if sel < len(days) {
		acts := days[sel].Activities
		if len(acts) == 0 {
			lines = append(lines, styleMuted().Render("  Nothing planned. Press a to add."))
		}
		for i, a := range acts {
			lines = append(lines, renderRow(a, i == m.cursor, w))
		}
		lines = append(lines, "", styleMuted().Render(fmt.Sprintf("Day total $%s   Trip total $%s",
			publish.FormatCost(budget.DayTotal(days[sel])), publish.FormatCost(budget.TripTotal(days)))))
	}

	lines = append(lines, "")
	switch m.mode {
	case modeAdd, modeEditTitle:
		lines = append(lines, m.input.View(), styleMuted().Render("enter: next   esc: cancel"))
	case modeConfirmDiscard:
		lines = append(lines, styleWarn().Render("Discard unsaved changes?")+" y: discard   s: save and quit   n: keep editing")
	default:
		if m.minibuffer != "" {
			if m.warn {
				lines = append(lines, styleWarn().Render(m.minibuffer))
			} else {
				lines = append(lines, m.minibuffer)
			}
		}
		m.help.Width = w
		lines = append(lines, m.help.ShortHelpView(m.keys.help()))
	}
	return strings.Join(lines, "\n")
}

func renderRow(a model.Activity, selected bool, width int) string {
	box := "[ ]"
	if a.Done {
		box = "[x]"
	}
	parts := []string{box}
	if a.Time != "" {
		parts = append(parts, a.Time)
	}
	text := a.Title
	if a.Location != "" {
		text += " @ " + a.Location
	}
	if a.HasCost() {
		text += " ($" + publish.FormatCost(*a.Cost) + ")"
	}
	if a.Done {
		text = styleDone().Render(text)
	}
	parts = append(parts, text)

	prefix := "  "
	if selected {
		prefix = "> "
	}
	line := xansi.Truncate(prefix+strings.Join(parts, " "), width, "…")
	return styleRow(selected).Render(line)
}
