package feed

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/people.json
var peopleJSON []byte

// Seed returns the bundled posts. Each call returns a fresh copy.
func Seed() ([]Person, error) {
	var posts []Person
	if err := json.Unmarshal(peopleJSON, &posts); err != nil {
		return nil, fmt.Errorf("failed to parse seed posts: %w", err)
	}
	for i := range posts {
		posts[i].IsExtra = false
		if posts[i].Comments == nil {
			posts[i].Comments = []Comment{}
		}
		if posts[i].Topics == nil {
			posts[i].Topics = []string{}
		}
	}
	return posts, nil
}
