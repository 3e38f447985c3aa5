package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loginState struct {
	username textinput.Model
	password textinput.Model
	focus    int
	err      string
}

func newLoginState() loginState {
	user := textinput.New()
	user.Prompt = "Username: "
	user.CharLimit = 64
	user.Focus()

	pass := textinput.New()
	pass.Prompt = "Password: "
	pass.CharLimit = 64
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return loginState{username: user, password: pass}
}

func (l *loginState) setFocus(i int) tea.Cmd {
	l.focus = i
	if i == 0 {
		l.password.Blur()
		return l.username.Focus()
	}
	l.username.Blur()
	return l.password.Focus()
}

func (a App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			cmd := a.login.setFocus(1 - a.login.focus)
			return a, cmd
		case "enter":
			if a.login.focus == 0 {
				cmd := a.login.setFocus(1)
				return a, cmd
			}
			return a.submitLogin()
		}
	}

	var cmd tea.Cmd
	if a.login.focus == 0 {
		a.login.username, cmd = a.login.username.Update(msg)
	} else {
		a.login.password, cmd = a.login.password.Update(msg)
	}
	return a, cmd
}

func (a App) submitLogin() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(a.login.username.Value())
	if !a.deps.Auth.Login(name, a.login.password.Value()) {
		a.login.err = "Invalid username or password"
		a.login.password.Reset()
		return a, nil
	}

	a.login.err = ""
	a.deps.Chat.Initialize(a.deps.Auth.DisplayName())
	a.chat = newChatState()
	a.chat.resize(a.width, a.height-headerHeight)
	a.screen = screenChat
	a.chat.refresh(a.deps.Chat, true)
	cmd := tea.Batch(a.chat.input.Focus(), loadFeedCmd(a.ctx, a.deps.Feed), pingCmd(a.ctx, a.deps.Chat))
	return a, cmd
}

func (a App) viewLogin() string {
	if a.width < 40 || a.height < 12 {
		return loginBox(a.login)
	}

	lines := []string{
		"",
		a.login.username.View(),
		a.login.password.View(),
		"",
	}
	if a.login.err != "" {
		lines = append(lines, ErrorStyle.Render(a.login.err))
	} else {
		lines = append(lines, "")
	}

	return RenderThreeSectionModal(
		"Welcome to Thinky",
		lines,
		FormatFooter("Tab", "Switch field", "Enter", "Sign in", "Ctrl+C", "Quit"),
		ModalTypeInfo,
		50,
		a.width,
		a.height,
	)
}

// loginBox is the unstyled sign-in body, used when the terminal is too small
// for the modal.
func loginBox(l loginState) string {
	return lipgloss.JoinVertical(lipgloss.Left, l.username.View(), l.password.View())
}
