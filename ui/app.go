// Package ui is the terminal front end: sign in, then switch between the
// assistant chat, the people feed and notifications.
package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"thinky/auth"
	"thinky/chat"
	"thinky/config"
	"thinky/feed"
	"thinky/mood"
	"thinky/notifications"
)

type screen int

const (
	screenLogin screen = iota
	screenChat
	screenFeed
	screenNotifications
	screenMood
)

func (s screen) String() string {
	switch s {
	case screenChat:
		return "Chat"
	case screenFeed:
		return "People"
	case screenNotifications:
		return "Notifications"
	case screenMood:
		return "Mood"
	default:
		return "Sign in"
	}
}

// Deps are the components the UI drives. All are required.
type Deps struct {
	Auth          *auth.Session
	Chat          *chat.Session
	Feed          *feed.Store
	Notifications *notifications.Center
	Moods         *mood.Catalogue
	Journal       *mood.Journal
}

type App struct {
	deps Deps
	ctx  context.Context

	screen screen
	width  int
	height int
	ready  bool

	login   loginState
	chat    chatState
	feed    feedState
	notices noticeState
	mood    moodState
}

func NewApp(ctx context.Context, deps Deps) App {
	return App{
		deps:    deps,
		ctx:     ctx,
		screen:  screenLogin,
		login:   newLoginState(),
		chat:    newChatState(),
		feed:    newFeedState(),
		notices: noticeState{},
	}
}

func (a App) Init() tea.Cmd {
	return textinput.Blink
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.chat.resize(a.width, a.height-headerHeight)
		a.chat.refresh(a.deps.Chat, true)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "alt+q":
			a.deps.Chat.Close()
			return a, tea.Quit
		}
		if a.screen != screenLogin && !a.modalActive() {
			if next, ok := a.switchKey(msg.String()); ok {
				return a.switchTo(next)
			}
			if msg.String() == "alt+l" {
				return a.logout()
			}
		}

	case chatReplyMsg:
		return a.handleChatReply(msg)

	case pingMsg:
		if msg.err != nil {
			a.chat.status = "ThinkyBot is offline right now"
		}
		return a, nil

	case copiedMsg:
		if msg.err != nil {
			a.chat.status = "Copy failed: " + msg.err.Error()
		} else {
			a.chat.status = "Copied last reply"
		}
		return a, nil

	case feedLoadedMsg:
		return a.handleFeedLoaded(msg)

	case feedChangedMsg:
		return a.handleFeedChanged(msg)

	case moodCheckedMsg:
		return a.handleMoodChecked(msg)
	}

	switch a.screen {
	case screenLogin:
		return a.updateLogin(msg)
	case screenChat:
		return a.updateChat(msg)
	case screenFeed:
		return a.updateFeed(msg)
	case screenNotifications:
		return a.updateNotifications(msg)
	case screenMood:
		return a.updateMood(msg)
	}
	return a, nil
}

func (a App) switchKey(key string) (screen, bool) {
	switch key {
	case "alt+c":
		return screenChat, true
	case "alt+p":
		return screenFeed, true
	case "alt+n":
		return screenNotifications, true
	case "alt+m":
		return screenMood, true
	}
	return 0, false
}

func (a App) modalActive() bool {
	return a.feed.confirm.Active || a.notices.open != nil || a.mood.open || a.feed.mode != feedBrowse
}

func (a App) switchTo(next screen) (tea.Model, tea.Cmd) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] screen %s -> %s", a.screen, next)
	}
	a.screen = next
	switch next {
	case screenChat:
		a.chat.refresh(a.deps.Chat, true)
		cmd := a.chat.input.Focus()
		return a, cmd
	case screenFeed:
		a.chat.input.Blur()
		// Focus reloads the feed, like returning to the tab did
		return a, loadFeedCmd(a.ctx, a.deps.Feed)
	case screenMood:
		a.chat.input.Blur()
		return a, moodHistoryCmd(a.ctx, a.deps.Journal)
	default:
		a.chat.input.Blur()
	}
	return a, nil
}

func (a App) logout() (tea.Model, tea.Cmd) {
	a.deps.Auth.Logout()
	a.deps.Chat.Initialize(a.deps.Auth.DisplayName())
	a.chat = newChatState()
	a.chat.resize(a.width, a.height-headerHeight)
	a.login = newLoginState()
	a.screen = screenLogin
	cmd := a.login.username.Focus()
	return a, cmd
}

const headerHeight = 2

func (a App) header() string {
	title := BotStyle.Render("Thinky") + TitleStyle.Render(" - "+a.screen.String())
	if a.deps.Auth.LoggedIn() {
		title += UserStyle.Render(" - " + a.deps.Auth.DisplayName())
	}
	if a.screen == screenChat {
		title += DimStyle.Render(" (" + a.deps.Chat.Model() + ")")
	}
	if n := a.deps.Notifications.UnreadCount(); n > 0 && a.screen != screenLogin {
		title += DimStyle.Render(fmt.Sprintf(" | %d unread", n))
	}
	return title
}

func (a App) View() string {
	if !a.ready {
		return "Loading Thinky..."
	}

	var body string
	switch a.screen {
	case screenLogin:
		return a.viewLogin()
	case screenChat:
		body = a.viewChat()
	case screenFeed:
		if a.feed.confirm.Active {
			return RenderConfirmationModal(a.feed.confirm, a.width, a.height)
		}
		body = a.viewFeed()
	case screenNotifications:
		if a.notices.open != nil {
			return a.viewNoticeModal()
		}
		body = a.viewNotifications()
	case screenMood:
		body = a.viewMood()
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.header(), "", body)
}
