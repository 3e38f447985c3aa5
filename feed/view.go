package feed

import (
	"context"

	"github.com/sahilm/fuzzy"
)

const FilterAll = "All"

// Topics are the filter choices, "All" first.
var Topics = []string{
	FilterAll,
	"Study Tips",
	"Exam Stress",
	"Mindful Breaks",
	"Time Management",
	"Self-Care Strategies",
}

// View is per-screen state: open comment panels, unsent comment drafts and
// the active topic filter. None of it is persisted.
type View struct {
	open     map[string]bool
	pending  map[string]string
	selected string
}

func NewView() *View {
	return &View{
		open:     make(map[string]bool),
		pending:  make(map[string]string),
		selected: FilterAll,
	}
}

func (v *View) ToggleComments(postID string) {
	if v.open[postID] {
		delete(v.open, postID)
		return
	}
	v.open[postID] = true
}

func (v *View) CommentsOpen(postID string) bool {
	return v.open[postID]
}

func (v *View) SetPending(postID, text string) {
	v.pending[postID] = text
}

func (v *View) Pending(postID string) string {
	return v.pending[postID]
}

func (v *View) ClearPending(postID string) {
	delete(v.pending, postID)
}

// SubmitComment posts the draft for postID and clears it on success.
// A blank draft is left alone.
func (v *View) SubmitComment(ctx context.Context, store *Store, postID string) (Comment, error) {
	c, err := store.AddComment(ctx, postID, v.pending[postID])
	if err != nil {
		return Comment{}, err
	}
	if c.ID != "" {
		v.ClearPending(postID)
	}
	return c, nil
}

// SelectFilter sets the active topic. Unknown tags fall back to "All".
func (v *View) SelectFilter(tag string) {
	for _, t := range Topics {
		if t == tag {
			v.selected = tag
			return
		}
	}
	v.selected = FilterAll
}

func (v *View) Selected() string {
	return v.selected
}

// Visible applies the active filter.
func (v *View) Visible(posts []Person) []Person {
	return Filter(posts, v.selected)
}

type searchSource []Person

func (s searchSource) String(i int) string { return s[i].Name + " " + s[i].Content }
func (s searchSource) Len() int            { return len(s) }

// Search fuzzy-matches query against author and content, best match first.
func Search(posts []Person, query string) []Person {
	if query == "" {
		return posts
	}
	matches := fuzzy.FindFrom(query, searchSource(posts))
	out := make([]Person, len(matches))
	for i, m := range matches {
		out[i] = posts[m.Index]
	}
	return out
}
