package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"thinky/config"
	"thinky/mood"
)

// recent check-ins listed under the mood picker
const moodHistoryRows = 3

type moodState struct {
	selected int
	open     bool
	recent   []mood.CheckIn
	status   string
}

func recordMoodCmd(ctx context.Context, j *mood.Journal, name string) tea.Cmd {
	return func() tea.Msg {
		c, err := j.Record(ctx, name)
		return moodCheckedMsg{checkIn: c, err: err}
	}
}

func moodHistoryCmd(ctx context.Context, j *mood.Journal) tea.Cmd {
	return func() tea.Msg {
		h, err := j.History(ctx)
		return moodHistoryMsg{history: h, err: err}
	}
}

func (a App) updateMood(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case moodHistoryMsg:
		if msg.err != nil {
			a.mood.status = "Could not read check-ins"
			return a, nil
		}
		a.mood.recent = msg.history
		return a, nil

	case tea.KeyMsg:
		if a.mood.open {
			switch msg.String() {
			case "esc", "q", "enter":
				a.mood.open = false
			}
			return a, nil
		}

		moods := a.deps.Moods.Moods()
		switch msg.String() {
		case "j", "down":
			if a.mood.selected < len(moods)-1 {
				a.mood.selected++
			}
		case "k", "up":
			if a.mood.selected > 0 {
				a.mood.selected--
			}
		case "enter":
			// Picking a mood opens its tips and logs the check-in
			a.mood.open = true
			return a, recordMoodCmd(a.ctx, a.deps.Journal, moods[a.mood.selected].Name)
		}
	}
	return a, nil
}

func (a App) handleMoodChecked(msg moodCheckedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.mood.status = "Check-in not saved"
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] mood check-in failed: %v", msg.err)
		}
		return a, nil
	}
	a.mood.status = fmt.Sprintf("Checked in as %s", msg.checkIn.Mood)
	a.mood.recent = append([]mood.CheckIn{msg.checkIn}, a.mood.recent...)
	return a, nil
}

func moodStyle(m mood.Mood) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.Color)).Bold(true)
}

func (a App) viewMood() string {
	moods := a.deps.Moods.Moods()
	if a.mood.open {
		return a.viewMoodTips(moods[a.mood.selected])
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("How are you feeling?") + "\n\n")
	for i, m := range moods {
		marker := "  "
		if i == a.mood.selected {
			marker = HighlightStyle.Render("> ")
		}
		b.WriteString(marker + moodStyle(m).Render("● "+m.Name) + "\n")
	}

	if len(a.mood.recent) > 0 {
		b.WriteString("\n" + DimStyle.Render("Recent check-ins") + "\n")
		for _, c := range a.mood.recent[:min(len(a.mood.recent), moodHistoryRows)] {
			b.WriteString(fmt.Sprintf("  %s %s\n", DimStyle.Render(c.At.Format("Jan 2 15:04")), a.deps.Moods.Lookup(c.Mood).Name))
		}
	}
	if a.mood.status != "" {
		b.WriteString("\n" + DimStyle.Render(a.mood.status) + "\n")
	}
	b.WriteString("\n" + StatusStyle.Render(FormatFooter("j/k", "Move", "Enter", "Check in", "Alt+C", "Chat", "Alt+P", "People", "Alt+N", "Notifications")))
	return b.String()
}

func (a App) viewMoodTips(m mood.Mood) string {
	var b strings.Builder
	b.WriteString(moodStyle(m).Render(m.Name) + "\n\n")
	b.WriteString(TitleStyle.Render("Tips for your mood") + "\n")
	for _, tip := range m.Tips {
		b.WriteString("  ✓ " + truncate(tip, a.width-4) + "\n")
	}
	b.WriteString("\n" + TitleStyle.Render("Suggested activities") + "\n")
	for _, act := range m.Activities {
		b.WriteString("  • " + truncate(act, a.width-4) + "\n")
	}
	if a.mood.status != "" {
		b.WriteString("\n" + DimStyle.Render(a.mood.status) + "\n")
	}
	b.WriteString("\n" + StatusStyle.Render(FormatFooter("Esc", "Back")))
	return b.String()
}
