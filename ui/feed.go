package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"thinky/config"
	"thinky/feed"
)

type feedMode int

const (
	feedBrowse feedMode = iota
	feedComment
	feedNewPost
	feedSearch
)

type feedState struct {
	view     *feed.View
	posts    []feed.Person
	selected int
	mode     feedMode

	// comment draft target while in feedComment
	target string
	input  textinput.Model
	search textinput.Model
	query  string

	confirm ConfirmationState
	onYes   func() tea.Cmd

	status string
}

func newFeedState() feedState {
	in := textinput.New()
	in.CharLimit = 500

	search := textinput.New()
	search.Prompt = "Search: "
	search.CharLimit = 100

	return feedState{
		view:   feed.NewView(),
		input:  in,
		search: search,
	}
}

func (f feedState) visible() []feed.Person {
	return feed.Search(f.view.Visible(f.posts), f.query)
}

func (f feedState) current() (feed.Person, bool) {
	v := f.visible()
	if f.selected < 0 || f.selected >= len(v) {
		return feed.Person{}, false
	}
	return v[f.selected], true
}

func (f *feedState) clamp() {
	n := len(f.visible())
	if f.selected >= n {
		f.selected = n - 1
	}
	if f.selected < 0 {
		f.selected = 0
	}
}

func loadFeedCmd(ctx context.Context, s *feed.Store) tea.Cmd {
	return func() tea.Msg {
		posts, err := s.LoadData(ctx)
		return feedLoadedMsg{posts: posts, err: err}
	}
}

func feedCmd(status string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return feedChangedMsg{status: status, err: fn()}
	}
}

// approve answers every confirmation with yes; the modal already asked.
var approve = feed.ConfirmFunc(func(title, message string) bool { return true })

func (a App) handleFeedLoaded(msg feedLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.feed.status = "Could not load the feed"
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] feed load failed: %v", msg.err)
		}
		return a, nil
	}
	a.feed.posts = msg.posts
	a.feed.clamp()
	return a, nil
}

func (a App) handleFeedChanged(msg feedChangedMsg) (tea.Model, tea.Cmd) {
	a.feed.posts = a.deps.Feed.Posts()
	a.feed.clamp()
	switch {
	case msg.err == nil:
		a.feed.status = msg.status
	case errors.Is(msg.err, feed.ErrNotDeletable):
		a.feed.status = "Only your own posts can be deleted"
	default:
		a.feed.status = "Could not save: " + msg.err.Error()
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] feed update failed: %v", msg.err)
		}
	}
	return a, nil
}

func (a App) askConfirm(p feed.Prompt, onYes func() tea.Cmd) (tea.Model, tea.Cmd) {
	a.feed.confirm = ConfirmationState{Active: true, Title: p.Title, Message: p.Message}
	a.feed.onYes = onYes
	return a, nil
}

func (a App) updateFeed(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)

	if a.feed.confirm.Active {
		if !isKey {
			return a, nil
		}
		switch key.String() {
		case "y", "Y":
			run := a.feed.onYes
			a.feed.confirm = ConfirmationState{}
			a.feed.onYes = nil
			if run != nil {
				return a, run()
			}
		case "n", "N", "esc":
			// Declining leaves everything as it was
			a.feed.confirm = ConfirmationState{}
			a.feed.onYes = nil
		}
		return a, nil
	}

	switch a.feed.mode {
	case feedComment, feedNewPost:
		return a.updateFeedInput(msg)
	case feedSearch:
		return a.updateFeedSearch(msg)
	}

	if !isKey {
		return a, nil
	}

	store := a.deps.Feed
	post, hasPost := a.feed.current()

	switch key.String() {
	case "j", "down":
		if a.feed.selected < len(a.feed.visible())-1 {
			a.feed.selected++
		}
	case "k", "up":
		if a.feed.selected > 0 {
			a.feed.selected--
		}
	case "f", "F":
		a.feed.view.SelectFilter(nextTopic(a.feed.view.Selected(), key.String() == "F"))
		a.feed.selected = 0
	case "/":
		a.feed.mode = feedSearch
		a.feed.search.SetValue(a.feed.query)
		cmd := a.feed.search.Focus()
		return a, cmd
	case "R":
		return a, loadFeedCmd(a.ctx, store)
	case "n":
		a.feed.mode = feedNewPost
		a.feed.input.Prompt = "New post: "
		a.feed.input.Reset()
		cmd := a.feed.input.Focus()
		return a, cmd
	}

	if !hasPost {
		return a, nil
	}

	switch key.String() {
	case "l", " ":
		id := post.ID
		return a, feedCmd("", func() error {
			_, _, err := store.ToggleLike(a.ctx, id)
			return err
		})
	case "c", "enter":
		a.feed.view.ToggleComments(post.ID)
	case "r":
		a.feed.mode = feedComment
		a.feed.target = post.ID
		if !a.feed.view.CommentsOpen(post.ID) {
			a.feed.view.ToggleComments(post.ID)
		}
		a.feed.input.Prompt = "Reply: "
		a.feed.input.SetValue(a.feed.view.Pending(post.ID))
		cmd := a.feed.input.Focus()
		return a, cmd
	case "d":
		if !post.IsExtra {
			a.feed.status = "Only your own posts can be deleted"
			return a, nil
		}
		id := post.ID
		return a.askConfirm(feed.DeletePostPrompt, func() tea.Cmd {
			return feedCmd("Post deleted", func() error {
				_, err := store.ConfirmDeleteExtra(a.ctx, id, approve)
				return err
			})
		})
	case "x":
		c, ok := lastOwnComment(post)
		if !ok {
			a.feed.status = "No comment of yours on this post"
			return a, nil
		}
		postID, commentID := post.ID, c.ID
		return a.askConfirm(feed.DeleteReplyPrompt, func() tea.Cmd {
			return feedCmd("Comment deleted", func() error {
				_, err := store.ConfirmDeleteReply(a.ctx, postID, commentID, approve)
				return err
			})
		})
	}
	return a, nil
}

func (a App) updateFeedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	store := a.deps.Feed

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			// Drafts survive cancelling, like an unsent reply box
			a.feed.mode = feedBrowse
			a.feed.input.Blur()
			return a, nil
		case "enter":
			mode := a.feed.mode
			a.feed.mode = feedBrowse
			a.feed.input.Blur()

			if mode == feedComment {
				// View state is owned by Update, so the draft is submitted here
				a.feed.view.SetPending(a.feed.target, a.feed.input.Value())
				_, err := a.feed.view.SubmitComment(a.ctx, store, a.feed.target)
				return a.handleFeedChanged(feedChangedMsg{err: err})
			}

			text := a.feed.input.Value()
			var topics []string
			if sel := a.feed.view.Selected(); sel != feed.FilterAll {
				topics = []string{sel}
			}
			a.feed.selected = 0
			return a, feedCmd("", func() error {
				_, err := store.AddExtra(a.ctx, text, topics)
				return err
			})
		}
	}

	var cmd tea.Cmd
	a.feed.input, cmd = a.feed.input.Update(msg)
	if a.feed.mode == feedComment {
		a.feed.view.SetPending(a.feed.target, a.feed.input.Value())
	}
	return a, cmd
}

func (a App) updateFeedSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			a.feed.query = ""
			a.feed.mode = feedBrowse
			a.feed.search.Blur()
			a.feed.selected = 0
			return a, nil
		case "enter":
			a.feed.mode = feedBrowse
			a.feed.search.Blur()
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.feed.search, cmd = a.feed.search.Update(msg)
	a.feed.query = a.feed.search.Value()
	a.feed.selected = 0
	return a, cmd
}

func nextTopic(current string, backwards bool) string {
	step := 1
	if backwards {
		step = -1
	}
	n := len(feed.Topics)
	for i, t := range feed.Topics {
		if t == current {
			return feed.Topics[(i+step+n)%n]
		}
	}
	return feed.FilterAll
}

func lastOwnComment(p feed.Person) (feed.Comment, bool) {
	for i := len(p.Comments) - 1; i >= 0; i-- {
		if p.Comments[i].Deletable() {
			return p.Comments[i], true
		}
	}
	return feed.Comment{}, false
}

func (a App) renderTopicBar() string {
	var parts []string
	for _, t := range feed.Topics {
		if t == a.feed.view.Selected() {
			parts = append(parts, SelectedStyle.Render("["+t+"]"))
		} else {
			parts = append(parts, DimStyle.Render(t))
		}
	}
	return strings.Join(parts, "  ")
}

func (a App) renderPost(p feed.Person, selected bool) string {
	var b strings.Builder
	width := a.width - 4

	marker := "  "
	name := TitleStyle.Render(p.Name)
	if selected {
		marker = HighlightStyle.Render("> ")
		name = SelectedStyle.Render(p.Name)
	}
	if p.IsExtra {
		name += DimStyle.Render(" (you)")
	}
	b.WriteString(fmt.Sprintf("%s%s %s\n", marker, name, DimStyle.Render(p.Timestamp)))
	b.WriteString(wordWrapWithIndent(p.Content, "  ", width))

	if len(p.Topics) > 0 {
		b.WriteString("  " + TopicStyle.Render(truncate(strings.Join(p.Topics, " · "), width)) + "\n")
	}

	heart := DimStyle.Render("♡")
	if a.deps.Feed.Liked(p.ID) {
		heart = LikedStyle.Render("♥")
	}
	b.WriteString(fmt.Sprintf("  %s %d   %s %d\n", heart, p.Likes, DimStyle.Render("comments"), len(p.Comments)))

	if a.feed.view.CommentsOpen(p.ID) {
		for _, c := range p.Comments {
			author := DimStyle.Render(c.Author)
			if c.Deletable() {
				author = UserStyle.Render(c.Author)
			}
			b.WriteString(fmt.Sprintf("    %s: %s %s\n", author, truncate(c.Text, width-8-len(c.Author)), DimStyle.Render(c.Timestamp)))
		}
		if draft := a.feed.view.Pending(p.ID); draft != "" && a.feed.mode != feedComment {
			b.WriteString(DimStyle.Render("    draft: "+truncate(draft, width-12)) + "\n")
		}
	}
	return b.String()
}

func (a App) viewFeed() string {
	var b strings.Builder
	b.WriteString(a.renderTopicBar() + "\n")
	if a.feed.query != "" || a.feed.mode == feedSearch {
		b.WriteString(a.feed.search.View() + "\n")
	}
	b.WriteString("\n")

	posts := a.feed.visible()
	if len(posts) == 0 {
		b.WriteString(DimStyle.Render("  No posts here yet. Press n to write one.") + "\n")
	}

	// Keep the selection on screen by starting a few posts above it
	start := 0
	if a.feed.selected > 2 {
		start = a.feed.selected - 2
	}
	budget := a.height - headerHeight - 6
	used := 0
	for i := start; i < len(posts); i++ {
		block := a.renderPost(posts[i], i == a.feed.selected)
		lines := strings.Count(block, "\n") + 1
		if used > 0 && used+lines > budget {
			break
		}
		b.WriteString(block + "\n")
		used += lines
	}

	if a.feed.mode == feedComment || a.feed.mode == feedNewPost {
		b.WriteString(a.feed.input.View() + "\n")
	}
	if a.feed.status != "" {
		b.WriteString(DimStyle.Render(a.feed.status) + "\n")
	}

	footer := FormatFooter("j/k", "Move", "l", "Like", "c", "Comments", "r", "Reply", "n", "Post",
		"d", "Delete post", "x", "Delete reply", "f", "Filter", "/", "Search", "Alt+C", "Chat")
	b.WriteString(StatusStyle.Render(footer))
	return b.String()
}
