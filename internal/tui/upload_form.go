package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/trovelib/trovectl/internal/api"
	"github.com/trovelib/trovectl/internal/ingest"
)

// Form fields. URL-mode order: url, kind, title, author, note.
// File-mode order: title, author, note.
const (
	fieldURL = iota
	fieldKind
	fieldTitle
	fieldAuthor
	fieldNote
)

// previewTickMsg fires after the debounce interval for one URL edit.
type previewTickMsg struct{ seq int }

// previewResultMsg carries a resolved preview lookup.
type previewResultMsg ingest.PreviewResult

// submitDoneMsg carries the submission outcome.
type submitDoneMsg struct {
	profile *api.ContentProfile
	err     error
}

// UploadFormModel is the interactive upload-or-link form. It drives the
// ingest state machine: acquisition mode toggling, debounced preview
// lookups, validation and submission with upload progress.
type UploadFormModel struct {
	state     *ingest.State
	fetcher   *ingest.PreviewFetcher
	submitter *ingest.Submitter

	inputs  map[int]*textinput.Model
	focused int // index into fieldOrder()

	urlSeq int // increments per URL edit; stale debounce ticks are dropped

	fieldErrs  map[string]string
	confirming bool
	discarding bool

	submitting    bool
	progressCh    chan int
	percent       int
	indeterminate bool

	result    *api.ContentProfile
	submitErr error
	canceled  bool

	width     int
	height    int
	activeCmd string
}

// NewUploadForm builds the form around existing ingest state. The state's
// operation mode decides whether this is a create or an edit form.
func NewUploadForm(state *ingest.State, fetcher *ingest.PreviewFetcher, submitter *ingest.Submitter) UploadFormModel {
	m := UploadFormModel{
		state:     state,
		fetcher:   fetcher,
		submitter: submitter,
		inputs:    make(map[int]*textinput.Model),
		fieldErrs: map[string]string{},
	}

	const fieldWidth = 46

	urlInput := textinput.New()
	urlInput.Placeholder = "https://example.com/article"
	urlInput.SetValue(state.URL())
	urlInput.CharLimit = 2048
	urlInput.Width = fieldWidth
	urlInput.Prompt = "│ "
	m.inputs[fieldURL] = &urlInput

	titleInput := textinput.New()
	titleInput.Placeholder = "Display title"
	titleInput.SetValue(state.Title())
	titleInput.CharLimit = ingest.MaxDisplayFieldLen
	titleInput.Width = fieldWidth
	titleInput.Prompt = "│ "
	m.inputs[fieldTitle] = &titleInput

	authorInput := textinput.New()
	authorInput.Placeholder = "Author"
	authorInput.SetValue(state.Author())
	authorInput.CharLimit = ingest.MaxDisplayFieldLen
	authorInput.Width = fieldWidth
	authorInput.Prompt = "│ "
	m.inputs[fieldAuthor] = &authorInput

	noteInput := textinput.New()
	noteInput.Placeholder = "Personal note (optional)"
	noteInput.SetValue(state.Note())
	noteInput.CharLimit = 1000
	noteInput.Width = fieldWidth
	noteInput.Prompt = "│ "
	m.inputs[fieldNote] = &noteInput

	m.focusField(0)
	return m
}

// fieldOrder returns the navigable fields for the active acquisition mode.
func (m UploadFormModel) fieldOrder() []int {
	if m.state.Acquisition() == ingest.AcquireURL {
		return []int{fieldURL, fieldKind, fieldTitle, fieldAuthor, fieldNote}
	}
	return []int{fieldTitle, fieldAuthor, fieldNote}
}

func (m *UploadFormModel) focusField(idx int) {
	order := m.fieldOrder()
	if idx < 0 {
		idx = len(order) - 1
	} else if idx >= len(order) {
		idx = 0
	}
	m.focused = idx
	for f, in := range m.inputs {
		if f == order[idx] {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m UploadFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m UploadFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case previewTickMsg:
		// Debounce: only the tick matching the latest edit dispatches.
		if msg.seq != m.urlSeq || m.state.Acquisition() != ingest.AcquireURL {
			return m, nil
		}
		raw := m.state.URL()
		if !ingest.LooksLikeURL(raw) {
			return m, nil
		}
		m.state.BeginPreview(raw)
		return m, m.fetchPreviewCmd(raw)

	case previewResultMsg:
		m.state.ApplyPreview(ingest.PreviewResult(msg))
		// Non-destructive auto-fill may have set the title.
		if in := m.inputs[fieldTitle]; in.Value() == "" && m.state.Title() != "" {
			in.SetValue(m.state.Title())
		}
		return m, nil

	case percentMsg:
		if !m.submitting {
			return m, nil
		}
		if int(msg) == ingest.ProgressIndeterminate {
			m.indeterminate = true
		} else {
			m.indeterminate = false
			m.percent = int(msg)
		}
		return m, waitForPercent(m.progressCh)

	case progressDoneMsg:
		return m, nil

	case submitDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.submitErr = msg.err
			return m, nil
		}
		m.result = msg.profile
		return m, tea.Quit

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	cmd := m.updateInputs(msg)
	return m, cmd
}

func (m UploadFormModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A blocking submission error must be dismissed explicitly.
	if m.submitErr != nil {
		switch msg.String() {
		case "enter", "esc":
			m.submitErr = nil
		case "ctrl+c":
			m.canceled = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.submitting {
		if msg.String() == "ctrl+c" {
			m.canceled = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Leaving with unsaved input must be confirmed.
	if m.discarding {
		switch msg.String() {
		case "y", "Y", "enter", "ctrl+c":
			m.canceled = true
			return m, tea.Quit
		case "n", "N", "esc":
			m.discarding = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		m.canceled = true
		return m, tea.Quit

	case "esc":
		if m.confirming {
			m.confirming = false
			return m, nil
		}
		if m.state.Dirty() {
			m.discarding = true
			return m, nil
		}
		m.canceled = true
		return m, tea.Quit

	case "ctrl+t":
		if m.state.Operation() == ingest.OpEdit {
			// Edit mode replaces one specific source; the host command
			// chose the acquisition up front.
			return m, nil
		}
		if m.state.Acquisition() == ingest.AcquireFile {
			m.state.SetAcquisition(ingest.AcquireURL)
		} else {
			m.state.SetAcquisition(ingest.AcquireFile)
		}
		m.inputs[fieldURL].SetValue(m.state.URL())
		m.urlSeq++
		m.confirming = false
		m.fieldErrs = map[string]string{}
		m.focusField(0)
		m.activeCmd = "ctrl+t"
		return m, HighlightCmd()

	case "ctrl+x":
		m.state.DismissPreviewErr()
		return m, nil

	case "enter":
		if m.confirming {
			return m.startSubmit()
		}
		v := ingest.Validate(m.state)
		if !v.Valid {
			m.fieldErrs = v.Fields
			return m, nil
		}
		m.fieldErrs = map[string]string{}
		m.confirming = true
		return m, nil

	case "y", "Y":
		if m.confirming {
			return m.startSubmit()
		}

	case "n", "N":
		if m.confirming {
			m.confirming = false
			return m, nil
		}

	case "left", "right", " ":
		if m.confirming {
			return m, nil
		}
		if m.fieldOrder()[m.focused] == fieldKind {
			m.cycleKind(msg.String() != "left")
			m.activeCmd = "kind"
			return m, HighlightCmd()
		}

	case "tab", "shift+tab", "up", "down":
		if m.confirming {
			return m, nil
		}
		if msg.String() == "up" || msg.String() == "shift+tab" {
			m.focusField(m.focused - 1)
		} else {
			m.focusField(m.focused + 1)
		}
		m.activeCmd = "tab"
		return m, tea.Batch(textinput.Blink, HighlightCmd())
	}

	if m.confirming {
		return m, nil
	}
	cmd := m.updateInputs(msg)
	return m, cmd
}

// updateInputs forwards a message to the text inputs and mirrors their
// values into the ingest state, scheduling a debounced preview lookup when
// the URL changed.
func (m *UploadFormModel) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for f, in := range m.inputs {
		updated, cmd := in.Update(msg)
		*m.inputs[f] = updated
		cmds = append(cmds, cmd)
	}

	// Mirror only actual edits; an unchanged value must not revoke saved.
	if v := m.inputs[fieldTitle].Value(); v != m.state.Title() {
		m.state.SetTitle(v)
	}
	if v := m.inputs[fieldAuthor].Value(); v != m.state.Author() {
		m.state.SetAuthor(v)
	}
	if v := m.inputs[fieldNote].Value(); v != m.state.Note() {
		m.state.SetNote(v)
	}

	if m.state.Acquisition() == ingest.AcquireURL {
		if v := m.inputs[fieldURL].Value(); v != m.state.URL() {
			m.state.SetURL(v)
			m.urlSeq++
			if ingest.LooksLikeURL(v) {
				seq := m.urlSeq
				cmds = append(cmds, tea.Tick(ingest.DebounceInterval, func(time.Time) tea.Msg {
					return previewTickMsg{seq: seq}
				}))
			}
		}
	}

	return tea.Batch(cmds...)
}

func (m *UploadFormModel) cycleKind(forward bool) {
	kinds := api.MediaKinds
	idx := 0
	for i, k := range kinds {
		if k == m.state.Kind() {
			idx = i
			break
		}
	}
	if m.state.Kind() == "" {
		idx = -1
	}
	if forward {
		idx = (idx + 1) % len(kinds)
	} else {
		idx = (idx - 1 + len(kinds)) % len(kinds)
	}
	m.state.SetKind(kinds[idx])
}

func (m UploadFormModel) fetchPreviewCmd(raw string) tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		return previewResultMsg(fetcher.Fetch(context.Background(), raw))
	}
}

func (m UploadFormModel) startSubmit() (tea.Model, tea.Cmd) {
	if m.submitter.InFlight() {
		return m, nil
	}
	m.confirming = false
	m.submitting = true
	m.percent = 0
	m.indeterminate = false
	m.progressCh = make(chan int, 16)

	state := m.state
	submitter := m.submitter
	ch := m.progressCh

	submitCmd := func() tea.Msg {
		profile, err := submitter.Submit(context.Background(), state, func(p int) {
			select {
			case ch <- p:
			default: // drop updates rather than stall the transfer
			}
		})
		close(ch)
		return submitDoneMsg{profile: profile, err: err}
	}

	return m, tea.Batch(submitCmd, waitForPercent(ch))
}

// Result returns the created or updated profile once the form has quit.
func (m UploadFormModel) Result() *api.ContentProfile { return m.result }

// View renders the form.
func (m UploadFormModel) View() string {
	outerStyle := lipgloss.NewStyle().Padding(2, 4)
	innerPadding := lipgloss.NewStyle().Padding(0, 2, 0, 1)

	var b strings.Builder

	// ── Header ──
	title := "Add Content"
	if m.state.Operation() == ingest.OpEdit {
		title = "Edit Content"
	}
	b.WriteString(StyleHeader.Render(title))
	b.WriteString("  ")
	b.WriteString(m.renderModeTabs())
	b.WriteString("\n\n")

	switch {
	case m.submitting:
		b.WriteString(m.renderProgress())
	case m.submitErr != nil:
		b.WriteString(m.renderSubmitError())
	case m.discarding:
		b.WriteString(m.renderDiscard())
	case m.confirming:
		b.WriteString(m.renderConfirm())
	default:
		b.WriteString(m.renderFields())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	b.WriteString("\n")

	body := b.String()
	if card := m.renderPreviewCard(); card != "" && !m.confirming && !m.submitting && m.width >= 100 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "    ", card)
	}

	return outerStyle.Render(StyleBorder.Render(innerPadding.Render(body)))
}

func (m UploadFormModel) renderModeTabs() string {
	active := lipgloss.NewStyle().Foreground(ColorOrange).Bold(true)
	dim := StyleHelp
	file, url := dim.Render(" file "), dim.Render(" url ")
	if m.state.Acquisition() == ingest.AcquireFile {
		file = active.Render("[file]")
	} else {
		url = active.Render("[url]")
	}
	return file + " " + url
}

func (m UploadFormModel) renderFields() string {
	formLabel := lipgloss.NewStyle().
		Foreground(ColorGray).
		Width(8).
		Align(lipgloss.Right).
		PaddingRight(1)
	formLabelActive := lipgloss.NewStyle().
		Foreground(ColorOrange).
		Bold(true).
		Width(8).
		Align(lipgloss.Right).
		PaddingRight(1)

	labels := map[int]string{
		fieldURL:    "URL",
		fieldKind:   "Kind",
		fieldTitle:  "Title",
		fieldAuthor: "Author",
		fieldNote:   "Note",
	}
	errFields := map[int]string{
		fieldURL:    ingest.FieldURL,
		fieldKind:   ingest.FieldKind,
		fieldTitle:  ingest.FieldTitle,
		fieldAuthor: ingest.FieldAuthor,
	}

	var b strings.Builder

	if m.state.Acquisition() == ingest.AcquireFile {
		b.WriteString(formLabel.Render("File"))
		if src := m.state.File(); src != nil {
			b.WriteString(fmt.Sprintf("%s  %s", src.Name, StyleHelp.Render(humanBytes(src.Size))))
		} else {
			b.WriteString(StyleHelp.Render("no file selected — pass a path on the command line"))
		}
		if msg, ok := m.fieldErrs[ingest.FieldFile]; ok {
			b.WriteString("  " + StyleError.Render("✗ "+msg))
		}
		b.WriteString("\n\n")
	}

	order := m.fieldOrder()
	for i, f := range order {
		label := labels[f]
		if i == m.focused {
			b.WriteString(formLabelActive.Render("› " + label))
		} else {
			b.WriteString(formLabel.Render(label))
		}

		if f == fieldKind {
			b.WriteString(m.renderKindSelector(i == m.focused))
		} else {
			b.WriteString(m.inputs[f].View())
		}

		if name, ok := errFields[f]; ok {
			if msg, bad := m.fieldErrs[name]; bad {
				b.WriteString("  " + StyleError.Render("✗ "+msg))
			}
		}
		b.WriteString("\n\n")
	}

	// ── Preview status line ──
	if m.state.Acquisition() == ingest.AcquireURL {
		switch {
		case m.state.PreviewLoading():
			b.WriteString(StyleHelp.Render("  fetching preview…"))
			b.WriteString("\n")
		case m.state.PreviewErr() != nil:
			b.WriteString(StyleError.Render(fmt.Sprintf("  preview unavailable: %v", m.state.PreviewErr())))
			b.WriteString(StyleHelp.Render("  (ctrl+x to dismiss — you can still save)"))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m UploadFormModel) renderKindSelector(focused bool) string {
	var parts []string
	for _, k := range api.MediaKinds {
		s := strings.ToLower(string(k))
		if k == m.state.Kind() {
			parts = append(parts, StyleKind.Bold(true).Render("["+s+"]"))
		} else {
			parts = append(parts, StyleHelp.Render(" "+s+" "))
		}
	}
	sel := strings.Join(parts, " ")
	if focused {
		sel += StyleHelp.Render("  ←/→ to change")
	}
	return sel
}

func (m UploadFormModel) renderPreviewCard() string {
	meta := m.state.Preview()
	if meta == nil || m.state.Acquisition() != ingest.AcquireURL {
		return ""
	}

	const cardW = 28
	inner := cardW - 2
	dim := StyleHelp

	lines := []string{StyleHeader.Render(xansi.Truncate(meta.Title, inner, "…"))}
	if meta.SiteName != "" {
		lines = append(lines, dim.Render(xansi.Truncate(meta.SiteName, inner, "…")))
	}
	if meta.Description != "" {
		lines = append(lines, dim.Render(xansi.Truncate(meta.Description, inner, "…")))
	}
	if meta.Kind != "" {
		lines = append(lines, StyleKind.Render(strings.ToLower(string(meta.Kind))))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorOrange).
		Width(cardW).
		Padding(1, 1).
		Render(strings.Join(lines, "\n"))

	return dim.Render("preview") + "\n" + card
}

func (m UploadFormModel) renderConfirm() string {
	labelW := 8
	lStyle := StyleHelp.Width(labelW)
	vStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	var rows []string
	if m.state.Acquisition() == ingest.AcquireFile {
		if src := m.state.File(); src != nil {
			rows = append(rows, lStyle.Render("File")+"  "+vStyle.Render(src.Name))
		}
	} else {
		rows = append(rows, lStyle.Render("URL")+"  "+vStyle.Render(ingest.NormalizeURL(m.state.URL())))
		rows = append(rows, lStyle.Render("Kind")+"  "+vStyle.Render(string(m.state.Kind())))
	}
	rows = append(rows, lStyle.Render("Title")+"  "+vStyle.Render(m.state.Title()))
	rows = append(rows, lStyle.Render("Author")+"  "+vStyle.Render(m.state.Author()))

	prompt := "Save content?"
	if m.state.Operation() == ingest.OpEdit {
		prompt = "Replace source and save?"
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorOrange).
		Padding(1, 2).
		Render(lipgloss.NewStyle().Foreground(ColorOrange).Bold(true).Render(prompt)+"\n\n"+strings.Join(rows, "\n")) + "\n"
}

func (m UploadFormModel) renderProgress() string {
	if m.indeterminate {
		return "uploading… (size unknown)\n"
	}
	if m.state.Acquisition() == ingest.AcquireURL {
		return StyleHelp.Render("saving…") + "\n"
	}
	barW := 40
	filled := barW * m.percent / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barW-filled)
	return fmt.Sprintf("uploading  %s %d%%\n", bar, m.percent)
}

func (m UploadFormModel) renderDiscard() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorYellow).
		Padding(1, 2).
		Render(StyleHighlight.Render("Discard unsaved input?")+"\n\n"+
			StyleHelp.Render("The form has input that was never saved.")) + "\n"
}

func (m UploadFormModel) renderSubmitError() string {
	return StyleError.Render(fmt.Sprintf("✗ save failed: %v", m.submitErr)) + "\n" +
		StyleHelp.Render("  input preserved — press enter to go back and retry") + "\n"
}

func (m UploadFormModel) renderFooter() string {
	if m.submitting {
		return StyleHelp.Render("  uploading — ctrl+c to abort")
	}
	if m.discarding {
		return RenderFooterBar([]ShortcutEntry{
			{Key: "y", Label: "Y discard"},
			{Key: "n", Label: "N back"},
		}, m.activeCmd)
	}
	if m.confirming {
		return RenderFooterBar([]ShortcutEntry{
			{Key: "y", Label: "Y confirm"},
			{Key: "n", Label: "N back"},
			{Key: "", Label: "esc cancel"},
		}, m.activeCmd)
	}
	entries := []ShortcutEntry{
		{Key: "tab", Label: "Tab/↑↓ navigate"},
		{Key: "enter", Label: "enter submit"},
	}
	if m.state.Operation() == ingest.OpCreate {
		entries = append(entries, ShortcutEntry{Key: "ctrl+t", Label: "ctrl+t mode"})
	}
	entries = append(entries, ShortcutEntry{Key: "", Label: "esc cancel"})
	return RenderFooterBar(entries, m.activeCmd)
}

// humanBytes formats a byte count for display.
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// RunUploadForm launches the interactive form and blocks until the user
// saves or cancels. Returns the resulting profile, or an error on cancel.
func RunUploadForm(state *ingest.State, fetcher *ingest.PreviewFetcher, submitter *ingest.Submitter) (*api.ContentProfile, error) {
	m := NewUploadForm(state, fetcher, submitter)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running form: %w", err)
	}

	fm, ok := finalModel.(UploadFormModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if fm.canceled || fm.result == nil {
		return nil, fmt.Errorf("canceled")
	}
	return fm.result, nil
}
