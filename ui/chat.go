package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"thinky/chat"
	"thinky/config"
	"thinky/model"
)

type chatState struct {
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	width    int

	// rendered markdown by message id, dropped on resize
	rendered map[string]string
	status   string
}

func newChatState() chatState {
	ta := textarea.New()
	ta.Placeholder = "How are you feeling today?"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)
	// Enter sends, Alt+Enter breaks the line
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return chatState{
		viewport: viewport.New(80, 10),
		input:    ta,
		spinner:  sp,
		width:    80,
		rendered: make(map[string]string),
	}
}

// chat screen rows outside the viewport: textarea (3) and status bar (1)
const chatChromeHeight = 4

func (c *chatState) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width != c.width {
		c.rendered = make(map[string]string)
	}
	c.width = width
	c.viewport.Width = width
	c.viewport.Height = max(height-chatChromeHeight, 1)
	c.input.SetWidth(width)
}

func (c *chatState) refresh(s *chat.Session, gotoBottom bool) {
	var b strings.Builder
	for _, m := range s.Messages() {
		timestamp := DimStyle.Render(m.Timestamp.Format("[15:04]"))
		if m.Sender == model.SenderUser {
			b.WriteString(formatUserMessage(timestamp, UserStyle.Render("You"), m.Text))
			continue
		}
		out, ok := c.rendered[m.ID]
		if !ok {
			out = renderMarkdown(m.Text, c.width)
			c.rendered[m.ID] = out
		}
		b.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, BotStyle.Render("ThinkyBot"), out))
	}
	if s.Loading() {
		b.WriteString(fmt.Sprintf("%s %s\n", c.spinner.View(), DimStyle.Render("ThinkyBot is typing...")))
	}

	c.viewport.SetContent(b.String())
	if gotoBottom {
		c.viewport.GotoBottom()
	}
}

func sendCmd(ctx context.Context, s *chat.Session, text string) tea.Cmd {
	return func() tea.Msg {
		return chatReplyMsg{err: s.SendUserMessage(ctx, text)}
	}
}

func pingCmd(ctx context.Context, s *chat.Session) tea.Cmd {
	return func() tea.Msg {
		return pingMsg{err: s.Ping(ctx)}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(text)}
	}
}

func lastReply(s *chat.Session) (string, bool) {
	msgs := s.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == model.SenderBot {
			return msgs[i].Text, true
		}
	}
	return "", false
}

func (a App) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	s := a.deps.Chat

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.Loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.chat.spinner, cmd = a.chat.spinner.Update(msg)
		a.chat.refresh(s, true)
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			text := a.chat.input.Value()
			if strings.TrimSpace(text) == "" || s.Loading() {
				return a, nil
			}
			a.chat.input.Reset()
			a.chat.status = ""
			return a, tea.Batch(sendCmd(a.ctx, s, text), a.chat.spinner.Tick)

		case "ctrl+r":
			s.ResetChat()
			a.chat.status = "Conversation cleared"
			a.chat.refresh(s, true)
			return a, nil

		case "alt+y":
			if text, ok := lastReply(s); ok {
				return a, copyCmd(text)
			}
			return a, nil

		case "pgup", "pgdown":
			var cmd tea.Cmd
			a.chat.viewport, cmd = a.chat.viewport.Update(msg)
			return a, cmd
		}
	}

	var cmd tea.Cmd
	a.chat.input, cmd = a.chat.input.Update(msg)
	return a, cmd
}

func (a App) handleChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err == nil, errors.Is(msg.err, chat.ErrDiscarded), errors.Is(msg.err, chat.ErrClosed):
	case errors.Is(msg.err, chat.ErrBusy):
		a.chat.status = "Still waiting for the last reply"
	default:
		// The transcript stays as it was; only the status bar says so
		a.chat.status = "ThinkyBot could not reply"
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] chat send failed: %v", msg.err)
		}
	}
	a.chat.refresh(a.deps.Chat, true)
	return a, nil
}

func (a App) viewChat() string {
	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	status := fmt.Sprintf("Enter %s  Alt+Enter %s  Ctrl+R %s  Alt+Y %s  Alt+P %s  Alt+N %s  Alt+M %s  Alt+L %s  Alt+Q %s",
		descStyle.Render("Send"),
		descStyle.Render("New line"),
		descStyle.Render("Reset"),
		descStyle.Render("Copy"),
		descStyle.Render("People"),
		descStyle.Render("Notifications"),
		descStyle.Render("Mood"),
		descStyle.Render("Sign out"),
		descStyle.Render("Quit"),
	)
	if a.chat.status != "" {
		status = DimStyle.Render(a.chat.status) + "  " + status
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.chat.viewport.View(),
		a.chat.input.View(),
		StatusStyle.Render(status),
	)
}
