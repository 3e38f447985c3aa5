// Package feed merges the bundled seed posts with posts the viewer wrote,
// and keeps likes and comments persisted in a key-value store.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"thinky/config"
	"thinky/storage"

	"github.com/google/uuid"
)

const (
	KeyLikedIDs = "likedIds"
	KeyExtras   = "newComments"

	LocalAuthor = "You"
	JustNow     = "just now"
	ExtraAvatar = "https://i.pravatar.cc/150?img=4"
)

var (
	ErrPostNotFound = errors.New("feed: post not found")
	ErrNotDeletable = errors.New("feed: seed posts cannot be deleted")
)

// CommentsKey is the storage key for a post's comment list override.
func CommentsKey(postID string) string {
	return "comments-" + postID
}

// Confirmer asks the viewer to approve a destructive action.
type Confirmer interface {
	Confirm(title, message string) bool
}

// Prompt is the text shown when asking for confirmation.
type Prompt struct {
	Title   string
	Message string
}

var (
	DeletePostPrompt  = Prompt{Title: "Delete post?", Message: "Are you sure you want to delete this post?"}
	DeleteReplyPrompt = Prompt{Title: "Delete comment?", Message: "Are you sure you want to delete this comment?"}
)

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(title, message string) bool

func (f ConfirmFunc) Confirm(title, message string) bool { return f(title, message) }

// Store holds the merged feed in memory and writes every mutation through to
// kv. Safe for concurrent use; concurrent LoadData calls resolve last write
// wins.
type Store struct {
	kv    storage.Store
	seed  []Person
	newID func() string

	// extrasMu serializes read-modify-write of the extras list
	extrasMu sync.Mutex

	mu    sync.Mutex
	posts []Person
	base  map[string]int
	liked map[string]bool
}

func NewStore(kv storage.Store, seed []Person) *Store {
	s := &Store{
		kv:    kv,
		newID: uuid.NewString,
		liked: make(map[string]bool),
		base:  make(map[string]int),
	}
	for _, p := range seed {
		s.seed = append(s.seed, p.clone())
	}
	return s
}

func logf(format string, args ...any) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Feed] "+format, args...)
	}
}

// LoadData rebuilds the feed from the seed and storage and returns it,
// extras first. Comment overrides that are missing or unreadable fall back
// to the seed's comments for that post only, or none for the viewer's own
// posts.
func (s *Store) LoadData(ctx context.Context) ([]Person, error) {
	seeds := make([]Person, 0, len(s.seed))
	for _, p := range s.seed {
		post := p.clone()
		if comments, ok := s.readComments(ctx, p.ID); ok {
			post.Comments = comments
		}
		seeds = append(seeds, post)
	}

	liked := s.readLiked(ctx)

	extras, err := s.readExtras(ctx)
	if err != nil {
		logf("extras unreadable, ignoring: %v", err)
		extras = nil
	}

	base := make(map[string]int, len(seeds)+len(extras))
	posts := make([]Person, 0, len(seeds)+len(extras))
	for _, e := range extras {
		p := e.person()
		if comments, ok := s.readComments(ctx, p.ID); ok {
			p.Comments = comments
		}
		base[p.ID] = 0
		posts = append(posts, p)
	}
	for _, p := range seeds {
		base[p.ID] = p.Likes
		posts = append(posts, p)
	}
	for i := range posts {
		posts[i].Likes = base[posts[i].ID] + likeDelta(liked[posts[i].ID])
	}

	likedCount := len(liked)

	s.mu.Lock()
	s.posts = posts
	s.base = base
	s.liked = liked
	out := s.snapshotLocked()
	s.mu.Unlock()

	logf("loaded %d posts (%d extras, %d liked)", len(out), len(extras), likedCount)
	return out, nil
}

func likeDelta(liked bool) int {
	if liked {
		return 1
	}
	return 0
}

func (s *Store) readComments(ctx context.Context, postID string) ([]Comment, bool) {
	raw, found, err := s.kv.Get(ctx, CommentsKey(postID))
	if err != nil {
		logf("comments for %s unreadable, using seed: %v", postID, err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	var comments []Comment
	if err := json.Unmarshal([]byte(raw), &comments); err != nil {
		logf("comments for %s corrupt, using seed: %v", postID, err)
		return nil, false
	}
	if comments == nil {
		comments = []Comment{}
	}
	return comments, true
}

func (s *Store) readLiked(ctx context.Context) map[string]bool {
	liked := make(map[string]bool)
	raw, found, err := s.kv.Get(ctx, KeyLikedIDs)
	if err != nil {
		logf("liked set unreadable, treating as empty: %v", err)
		return liked
	}
	if !found {
		return liked
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		logf("liked set corrupt, treating as empty: %v", err)
		return liked
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked
}

func (s *Store) readExtras(ctx context.Context) ([]ExtraPost, error) {
	raw, found, err := s.kv.Get(ctx, KeyExtras)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var extras []ExtraPost
	if err := json.Unmarshal([]byte(raw), &extras); err != nil {
		return nil, fmt.Errorf("corrupt %s: %w", KeyExtras, err)
	}
	return extras, nil
}

func (s *Store) writeJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

func (s *Store) indexLocked(postID string) int {
	for i := range s.posts {
		if s.posts[i].ID == postID {
			return i
		}
	}
	return -1
}

// ToggleLike flips postID in the liked set, persists the set, and returns
// the post's new displayed count.
func (s *Store) ToggleLike(ctx context.Context, postID string) (likes int, liked bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(postID)
	if idx < 0 {
		return 0, false, fmt.Errorf("%w: %s", ErrPostNotFound, postID)
	}

	liked = !s.liked[postID]
	ids := s.likedIDsLocked(postID)
	if liked {
		ids = append(ids, postID)
		sort.Strings(ids)
	}

	if err := s.writeJSON(ctx, KeyLikedIDs, ids); err != nil {
		return s.posts[idx].Likes, !liked, err
	}

	if liked {
		s.liked[postID] = true
	} else {
		delete(s.liked, postID)
	}
	s.posts[idx].Likes = s.base[postID] + likeDelta(liked)
	return s.posts[idx].Likes, liked, nil
}

// AddComment appends a comment by the local viewer and persists the post's
// comment list. Blank text is ignored and returns a zero Comment.
func (s *Store) AddComment(ctx context.Context, postID, text string) (Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Comment{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(postID)
	if idx < 0 {
		return Comment{}, fmt.Errorf("%w: %s", ErrPostNotFound, postID)
	}

	existing := s.posts[idx].Comments
	c := Comment{
		ID:        nextCommentID(postID, existing),
		Author:    LocalAuthor,
		Text:      text,
		Timestamp: JustNow,
	}
	updated := append(append(make([]Comment, 0, len(existing)+1), existing...), c)

	if err := s.writeJSON(ctx, CommentsKey(postID), updated); err != nil {
		return Comment{}, err
	}
	s.posts[idx].Comments = updated
	return c, nil
}

// nextCommentID picks "<postId>-<n>" with n past both the comment count and
// the highest ordinal present, so a new id never collides with a comment
// still in the list.
func nextCommentID(postID string, comments []Comment) string {
	n := len(comments) + 1
	used := make(map[string]bool, len(comments))
	prefix := postID + "-"
	for _, c := range comments {
		used[c.ID] = true
		if !strings.HasPrefix(c.ID, prefix) {
			continue
		}
		if ord, err := strconv.Atoi(c.ID[len(prefix):]); err == nil && ord >= n {
			n = ord + 1
		}
	}
	id := prefix + strconv.Itoa(n)
	for used[id] {
		n++
		id = prefix + strconv.Itoa(n)
	}
	return id
}

// DeleteReply removes one comment from a post and persists the rest.
// An unknown comment id is a no-op.
func (s *Store) DeleteReply(ctx context.Context, postID, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(postID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrPostNotFound, postID)
	}

	existing := s.posts[idx].Comments
	updated := make([]Comment, 0, len(existing))
	for _, c := range existing {
		if c.ID != commentID {
			updated = append(updated, c)
		}
	}
	if len(updated) == len(existing) {
		return nil
	}

	if err := s.writeJSON(ctx, CommentsKey(postID), updated); err != nil {
		return err
	}
	s.posts[idx].Comments = updated
	return nil
}

// AddExtra stores a new post by the local viewer at the front of the extras
// list and reloads the feed.
func (s *Store) AddExtra(ctx context.Context, text string, topics []string) (ExtraPost, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ExtraPost{}, nil
	}

	s.extrasMu.Lock()
	defer s.extrasMu.Unlock()

	extras, err := s.readExtras(ctx)
	if err != nil {
		logf("extras unreadable, starting a new list: %v", err)
		extras = nil
	}

	post := ExtraPost{
		ID:        s.newID(),
		Author:    LocalAuthor,
		Text:      text,
		Timestamp: JustNow,
		Topics:    append([]string{}, topics...),
	}
	extras = append([]ExtraPost{post}, extras...)

	if err := s.writeJSON(ctx, KeyExtras, extras); err != nil {
		return ExtraPost{}, err
	}
	if _, err := s.LoadData(ctx); err != nil {
		return post, err
	}
	return post, nil
}

func (s *Store) isSeed(id string) bool {
	for _, p := range s.seed {
		if p.ID == id {
			return true
		}
	}
	return false
}

// DeleteExtra removes a post the viewer wrote along with its comment list
// and like, then reloads the feed. Seed posts return ErrNotDeletable and
// stay in place.
func (s *Store) DeleteExtra(ctx context.Context, id string) error {
	if s.isSeed(id) {
		return fmt.Errorf("%w: %s", ErrNotDeletable, id)
	}

	s.extrasMu.Lock()
	defer s.extrasMu.Unlock()

	extras, err := s.readExtras(ctx)
	if err != nil {
		return fmt.Errorf("failed to read extras: %w", err)
	}

	kept := make([]ExtraPost, 0, len(extras))
	for _, e := range extras {
		if e.ID != id {
			kept = append(kept, e)
		}
	}

	if err := s.writeJSON(ctx, KeyExtras, kept); err != nil {
		return err
	}
	if err := s.kv.Remove(ctx, CommentsKey(id)); err != nil {
		return fmt.Errorf("failed to remove comments for %s: %w", id, err)
	}
	if err := s.unlike(ctx, id); err != nil {
		return err
	}

	_, err = s.LoadData(ctx)
	return err
}

// unlike drops id from the persisted liked set if present.
func (s *Store) unlike(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.liked[id] {
		return nil
	}
	if err := s.writeJSON(ctx, KeyLikedIDs, s.likedIDsLocked(id)); err != nil {
		return err
	}
	delete(s.liked, id)
	return nil
}

// likedIDsLocked returns the sorted liked set without skip.
func (s *Store) likedIDsLocked(skip string) []string {
	ids := make([]string, 0, len(s.liked)+1)
	for id := range s.liked {
		if id != skip {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ConfirmDeleteExtra runs DeleteExtra only if c approves. It reports whether
// the deletion ran.
func (s *Store) ConfirmDeleteExtra(ctx context.Context, id string, c Confirmer) (bool, error) {
	if !c.Confirm(DeletePostPrompt.Title, DeletePostPrompt.Message) {
		return false, nil
	}
	return true, s.DeleteExtra(ctx, id)
}

// ConfirmDeleteReply runs DeleteReply only if c approves.
func (s *Store) ConfirmDeleteReply(ctx context.Context, postID, commentID string, c Confirmer) (bool, error) {
	if !c.Confirm(DeleteReplyPrompt.Title, DeleteReplyPrompt.Message) {
		return false, nil
	}
	return true, s.DeleteReply(ctx, postID, commentID)
}

// Posts returns a copy of the current feed.
func (s *Store) Posts() []Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []Person {
	out := make([]Person, len(s.posts))
	for i, p := range s.posts {
		out[i] = p.clone()
	}
	return out
}

// Post returns a copy of one post.
func (s *Store) Post(id string) (Person, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return Person{}, false
	}
	return s.posts[idx].clone(), true
}

func (s *Store) Liked(postID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liked[postID]
}

// Filter returns the posts tagged with tag, or all of them for "All".
func Filter(posts []Person, tag string) []Person {
	if tag == "" || tag == FilterAll {
		return posts
	}
	out := make([]Person, 0, len(posts))
	for _, p := range posts {
		if p.HasTopic(tag) {
			out = append(out, p)
		}
	}
	return out
}
