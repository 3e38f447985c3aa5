package mood

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"thinky/config"
	"thinky/storage"
)

// KeyCheckins holds the JSON array of check-ins, newest first.
const KeyCheckins = "moodCheckins"

// maxCheckins caps the stored history.
const maxCheckins = 100

var ErrUnknownMood = errors.New("mood: unknown mood")

type CheckIn struct {
	Mood string    `json:"mood"`
	At   time.Time `json:"at"`
}

// Journal records which mood the viewer picked and when.
type Journal struct {
	kv        storage.Store
	catalogue *Catalogue
	now       func() time.Time

	mu sync.Mutex
}

func NewJournal(kv storage.Store, c *Catalogue) *Journal {
	return &Journal{kv: kv, catalogue: c, now: time.Now}
}

func logf(format string, args ...any) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Mood] "+format, args...)
	}
}

// Record stores a check-in for name, which must be in the catalogue. The
// stored name uses the catalogue's spelling.
func (j *Journal) Record(ctx context.Context, name string) (CheckIn, error) {
	m, ok := j.catalogue.Find(name)
	if !ok {
		return CheckIn{}, fmt.Errorf("%w: %q", ErrUnknownMood, name)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	history, err := j.readLocked(ctx)
	if err != nil {
		return CheckIn{}, err
	}

	c := CheckIn{Mood: m.Name, At: j.now()}
	history = append([]CheckIn{c}, history...)
	if len(history) > maxCheckins {
		history = history[:maxCheckins]
	}

	data, err := json.Marshal(history)
	if err != nil {
		return CheckIn{}, fmt.Errorf("failed to encode %s: %w", KeyCheckins, err)
	}
	if err := j.kv.Set(ctx, KeyCheckins, string(data)); err != nil {
		return CheckIn{}, fmt.Errorf("failed to persist %s: %w", KeyCheckins, err)
	}
	return c, nil
}

// History returns stored check-ins, newest first. A corrupt list is logged
// and read as empty.
func (j *Journal) History(ctx context.Context) ([]CheckIn, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.readLocked(ctx)
}

func (j *Journal) readLocked(ctx context.Context) ([]CheckIn, error) {
	raw, found, err := j.kv.Get(ctx, KeyCheckins)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", KeyCheckins, err)
	}
	if !found {
		return []CheckIn{}, nil
	}
	var history []CheckIn
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		logf("check-ins corrupt, starting over: %v", err)
		return []CheckIn{}, nil
	}
	return history, nil
}
