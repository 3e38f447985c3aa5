package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"thinky/notifications"
)

type noticeState struct {
	selected int
	open     *notifications.Notification
}

func (a App) updateNotifications(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	center := a.deps.Notifications

	if a.notices.open != nil {
		switch key.String() {
		case "esc", "enter", "q":
			a.notices.open = nil
		}
		return a, nil
	}

	list := center.List()
	switch key.String() {
	case "j", "down":
		if a.notices.selected < len(list)-1 {
			a.notices.selected++
		}
	case "k", "up":
		if a.notices.selected > 0 {
			a.notices.selected--
		}
	case "enter":
		if a.notices.selected < len(list) {
			// Opening a notification marks it read
			if n, ok := center.MarkAsRead(list[a.notices.selected].ID); ok {
				a.notices.open = &n
			}
		}
	case "a":
		center.MarkAllRead()
	}
	return a, nil
}

func (a App) viewNotifications() string {
	var b strings.Builder
	for i, n := range a.deps.Notifications.List() {
		marker := "  "
		if i == a.notices.selected {
			marker = HighlightStyle.Render("> ")
		}
		bell := SelectedStyle.Render("●")
		title := TitleStyle.Render(n.Title)
		if n.Read {
			bell = DimStyle.Render("○")
			title = DimStyle.Render(n.Title)
		}
		b.WriteString(fmt.Sprintf("%s%s %s · %s\n", marker, bell, title, DimStyle.Render(n.Time)))
		b.WriteString("    " + DimStyle.Render(truncate(n.Message, a.width-6)) + "\n\n")
	}
	b.WriteString(StatusStyle.Render(FormatFooter("j/k", "Move", "Enter", "Open", "a", "Mark all read", "Alt+C", "Chat", "Alt+P", "People", "Alt+M", "Mood")))
	return b.String()
}

func (a App) viewNoticeModal() string {
	n := a.notices.open
	lines := centeredLines(n.Message, 60)
	lines = append(lines, "", DimStyle.Render(n.Time))
	return RenderThreeSectionModal(n.Title, lines, FormatFooter("Enter", "Close"), ModalTypeInfo, 60, a.width, a.height)
}
