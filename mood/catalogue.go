// Package mood holds the mood catalogue (tips and activities per mood) and
// the viewer's persisted mood check-ins.
package mood

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed data/moods.json
var moodsJSON []byte

// DefaultMood is shown when a requested mood is unknown.
const DefaultMood = "Happy"

type Mood struct {
	Name       string   `json:"name"`
	Color      string   `json:"color"`
	Tips       []string `json:"tips"`
	Activities []string `json:"activities"`
}

// Catalogue is the fixed, ordered list of moods. Read-only after load.
type Catalogue struct {
	moods []Mood
}

func LoadCatalogue() (*Catalogue, error) {
	var moods []Mood
	if err := json.Unmarshal(moodsJSON, &moods); err != nil {
		return nil, fmt.Errorf("failed to parse mood catalogue: %w", err)
	}
	if len(moods) == 0 {
		return nil, fmt.Errorf("mood catalogue is empty")
	}
	return &Catalogue{moods: moods}, nil
}

// Moods returns the moods in display order.
func (c *Catalogue) Moods() []Mood {
	out := make([]Mood, len(c.moods))
	for i, m := range c.moods {
		out[i] = m.clone()
	}
	return out
}

// Find matches name case-insensitively.
func (c *Catalogue) Find(name string) (Mood, bool) {
	name = strings.TrimSpace(name)
	for _, m := range c.moods {
		if strings.EqualFold(m.Name, name) {
			return m.clone(), true
		}
	}
	return Mood{}, false
}

// Lookup is Find with a fallback to DefaultMood.
func (c *Catalogue) Lookup(name string) Mood {
	if m, ok := c.Find(name); ok {
		return m
	}
	m, _ := c.Find(DefaultMood)
	return m
}

func (m Mood) clone() Mood {
	m.Tips = append([]string{}, m.Tips...)
	m.Activities = append([]string{}, m.Activities...)
	return m
}
