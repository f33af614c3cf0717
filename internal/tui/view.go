package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Klingon-tech/coinlock/internal/coinlock"
	"github.com/Klingon-tech/coinlock/internal/format"
)

// Row status labels; each must fit the last column.
const (
	statusLocked      = "locked"
	statusWithdraw    = "withdraw"
	statusWithdrawing = "withdrawing"
)

// Column widths of the position table.
var columns = []struct {
	title string
	width int
}{
	{"Amount", 16},
	{"Start Time", 18},
	{"Duration", 12},
	{"End Time", 18},
	{"Note", 24},
	{"", 12},
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	if m.dialog.State() != coinlock.DialogClosed {
		b.WriteString(m.dialogView())
	} else {
		b.WriteString(m.tableView())
	}
	b.WriteString("\n")

	if toasts := m.toastView(); toasts != "" {
		b.WriteString("\n")
		b.WriteString(toasts)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.dialog.State() != coinlock.DialogClosed {
		b.WriteString(m.help.View(dialogKeys{keys}))
	} else {
		b.WriteString(m.help.View(keys))
	}
	return b.String()
}

func (m *Model) headerView() string {
	title := titleStyle.Render(m.title)
	if m.account == nil {
		return title + "\n" + balanceStyle.Render("Balance: -")
	}
	addr := dimStyle.Render(m.account.Address.Short())
	balance := balanceStyle.Render("Balance: " + format.FormatBalance(m.account.Balance) + " SUI")
	return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", addr) + "\n" + balance
}

func (m *Model) tableView() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if !m.table.Loaded() && len(m.rows) == 0 {
		return dimStyle.Render("Loading locks...")
	}
	if len(m.rows) == 0 {
		return dimStyle.Render("No locks yet. Press l to lock SUI.")
	}

	var b strings.Builder
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = cell(c.title, c.width)
	}
	b.WriteString(headerStyle.Render(strings.Join(header, " ")))
	b.WriteString("\n")

	for i, row := range m.rows {
		status := statusLocked
		switch {
		case m.pending[row.ID]:
			status = statusWithdrawing
		case row.CanWithdraw():
			status = statusWithdraw
		}
		cells := []string{
			row.AmountLabel(),
			row.Range.Start,
			row.Range.Duration,
			row.Range.End,
			row.NoteLabel(),
			status,
		}
		for j := range cells {
			cells[j] = cell(cells[j], columns[j].width)
		}
		line := strings.Join(cells, " ")

		switch {
		case i == m.cursor:
			line = selectedStyle.Render(line)
		case row.CanWithdraw():
			line = maturedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) dialogView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Lock Coin"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Lock your coin for a specific duration"))
	b.WriteString("\n\n")

	b.WriteString(m.label("Amount", fieldAmount))
	b.WriteString(m.amount.View())
	b.WriteString("\n")

	b.WriteString(m.label("Duration", fieldDuration))
	choice := coinlock.Durations[m.duration].Label
	if m.focus == fieldDuration {
		choice = focusedStyle.Render("< " + choice + " >")
	}
	b.WriteString(choice)
	b.WriteString("\n")

	b.WriteString(m.label("Note", fieldNote))
	b.WriteString(m.note.View())
	b.WriteString("\n\n")

	submitting := m.dialog.State() == coinlock.DialogSubmitting
	_, verr := m.dialog.Validate(m.account)
	amount, _, _ := m.dialog.Fields()

	lock := buttonStyle.Render("Lock")
	switch {
	case submitting:
		lock = buttonStyle.Render("Locking...")
	case verr == nil:
		lock = activeButtonStyle.Render("Lock")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttonStyle.Render("Cancel"), " ", lock))

	if verr != nil && strings.TrimSpace(amount) != "" && !submitting {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(verr.Error()))
	}

	box := dialogStyle.Render(b.String())
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box)
	}
	return box
}

func (m *Model) label(name string, field int) string {
	text := fmt.Sprintf("%-10s", name)
	if m.focus == field {
		return focusedStyle.Render(text)
	}
	return dimStyle.Render(text)
}

func (m *Model) toastView() string {
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		text := t.Title
		if t.Message != "" {
			text += "\n" + dimStyle.Render(t.Message)
		}
		if t.Kind == coinlock.NotifyError {
			lines = append(lines, toastErrStyle.Render(text))
		} else {
			lines = append(lines, toastOKStyle.Render(text))
		}
	}
	return strings.Join(lines, "\n")
}

// cell pads or truncates s to exactly width runes.
func cell(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		if width <= 3 {
			return string(r[:width])
		}
		return string(r[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-len(r))
}
