package tui

import (
	"fmt"
	"strconv"
	"strings"

	"notes-cli/internal/model"
	"notes-cli/internal/notesync"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const previewMinWidth = 90

func (m appModel) View() string {
	v := m.engine.View()
	if v.Dialog.Open {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderDialog(v))
	}
	return m.renderMain(v)
}

func dialogWidth(width int) int {
	w := width - 8
	if w > 72 {
		w = 72
	}
	if w < 30 {
		w = 30
	}
	return w
}

func (m appModel) renderMain(v notesync.View) string {
	listWidth := m.width
	note, hasNote := m.selectedNote()
	showPreview := m.preview && hasNote
	if showPreview && m.width >= previewMinWidth {
		listWidth = m.width / 2
	}

	sections := []string{m.renderHeader(v), m.search.View(), ""}
	if v.DeleteError != "" {
		sections = append(sections, styleError().Render(v.DeleteError)+styleMuted().Render("  x: dismiss"))
	}
	switch {
	case v.FetchError != "":
		sections = append(sections, styleError().Render(v.FetchError)+styleMuted().Render("  r: retry"))
	case v.Empty != "":
		sections = append(sections, styleMuted().Render(v.Empty))
	default:
		sections = append(sections, m.renderRows(v, listWidth))
	}
	if v.ShowPagination {
		sections = append(sections, "", m.renderPagination(v))
	}
	sections = append(sections, "", styleButton(v.Focus == notesync.ElemNewNote, false).Render(notesync.LabelOpenDialog))
	if m.flash != "" {
		sections = append(sections, "", styleMuted().Render(m.flash))
	}
	main := strings.Join(sections, "\n")

	if showPreview {
		preview := m.renderPreview(note, m.width-listWidth-2)
		if listWidth < m.width {
			height := max(lipgloss.Height(main), lipgloss.Height(preview))
			main = lipgloss.JoinHorizontal(lipgloss.Top,
				normalizePane(main, listWidth, height),
				"  ",
				normalizePane(preview, m.width-listWidth-2, height),
			)
		} else {
			main += "\n\n" + m.renderPreview(note, m.width)
		}
	}
	return main + "\n\n" + m.help.View(listKeys(m.keys))
}

func (m appModel) renderHeader(v notesync.View) string {
	header := styleHeading().Render("Notes")
	switch {
	case v.Loading:
		header += "  " + m.spin.View() + styleMuted().Render(notesync.MsgLoading)
	case v.Updating:
		header += "  " + m.spin.View() + styleMuted().Render(notesync.MsgUpdating)
	}
	if v.Search != "" {
		header += styleMuted().Render(fmt.Sprintf("  matching %q", v.Search))
	}
	return header
}

func (m appModel) renderRows(v notesync.View, width int) string {
	if len(v.Notes) == 0 {
		return ""
	}
	rows := make([]string, 0, len(v.Notes))
	for i, n := range v.Notes {
		action := v.DeleteLabel(n.ID)
		tag := styleTag().Render("#" + string(n.Tag))
		avail := width - xansi.StringWidth(action) - xansi.StringWidth(tag) - 6
		title := truncate(n.Title, max(avail, 1))
		left := "  " + title + "  " + tag
		gap := width - xansi.StringWidth(left) - xansi.StringWidth(action)
		if gap < 1 {
			gap = 1
		}
		row := left + strings.Repeat(" ", gap) + styleMuted().Render(action)
		if i == m.selected && v.Focus == notesync.ElemList {
			row = styleSelected().Render("›" + xansi.Strip(row)[1:])
		}
		if v.Placeholder {
			row = faintIfDark(lipgloss.NewStyle()).Render(row)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m appModel) renderPagination(v notesync.View) string {
	parts := make([]string, 0, len(v.PageTargets)+2)
	prev := styleMuted().Render("‹")
	if v.Page > 1 {
		prev = "‹"
	}
	parts = append(parts, prev)
	for _, p := range v.PageTargets {
		label := strconv.Itoa(p)
		if p == v.Page {
			parts = append(parts, styleSelected().Render("["+label+"]"))
			continue
		}
		parts = append(parts, " "+label+" ")
	}
	next := styleMuted().Render("›")
	if v.Page < v.TotalPages {
		next = "›"
	}
	parts = append(parts, next)

	pager := m.pager
	pager.TotalPages = v.TotalPages
	pager.Page = v.Page - 1
	return strings.Join(parts, " ") + "  " + styleMuted().Render(pager.View())
}

func (m appModel) renderPreview(n model.Note, width int) string {
	body := renderMarkdown(n.Content, width)
	if body == "" {
		body = styleMuted().Render("(no content)")
	}
	return styleHeading().Render(n.Title) + "  " + styleTag().Render("#"+string(n.Tag)) + "\n\n" + body
}

func (m appModel) renderDialog(v notesync.View) string {
	d := v.Dialog
	w := dialogWidth(m.width)

	label := func(id, text string) string {
		if v.Focus == id {
			return styleHeading().Render(text)
		}
		return styleMuted().Render(text)
	}
	fieldErr := func(field string) string {
		return styleError().Render(d.FieldErrors[field])
	}

	lines := []string{
		styleHeading().Render(d.Title),
		styleMuted().Render(d.Description),
		"",
		label(notesync.ElemTitle, "Title"),
		m.title.View(),
		fieldErr(model.FieldTitle),
		label(notesync.ElemContent, "Content"),
		m.content.View(),
		fieldErr(model.FieldContent),
		label(notesync.ElemTag, "Tag"),
		renderTagPicker(d.Values.Tag, v.Focus == notesync.ElemTag),
		fieldErr(model.FieldTag),
	}
	if d.CreateError != "" {
		lines = append(lines, styleError().Render(d.CreateError))
	}

	submitLabel := d.SubmitLabel
	if d.Pending {
		submitLabel = m.spin.View() + submitLabel
	}
	cancel := styleButton(v.Focus == notesync.ElemCancel, !d.CanCancel).Render(notesync.LabelCancel)
	submit := styleButton(v.Focus == notesync.ElemSubmit, !d.CanSubmit).Render(submitLabel)
	lines = append(lines,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cancel, " ", submit),
		"",
		m.help.View(dialogKeys(m.keys)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1).
		Width(w).
		Render(strings.Join(lines, "\n"))
}

func renderTagPicker(cur model.Tag, focused bool) string {
	parts := make([]string, 0, len(model.Tags))
	for _, t := range model.Tags {
		if t == cur {
			st := styleTag().Bold(true)
			if focused {
				st = styleSelected()
			}
			parts = append(parts, st.Render("‹"+string(t)+"›"))
			continue
		}
		parts = append(parts, styleMuted().Render(" "+string(t)+" "))
	}
	return strings.Join(parts, " ")
}
