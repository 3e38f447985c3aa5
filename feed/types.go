package feed

// Comment is one reply under a post. IDs are "<postId>-<ordinal>".
type Comment struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Deletable reports whether the local viewer wrote the comment.
func (c Comment) Deletable() bool {
	return c.Author == LocalAuthor
}

// Person is a feed post as displayed. Likes is always derived from the
// post's base count and the liked set; it is never persisted.
type Person struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Timestamp string    `json:"timestamp"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	Comments  []Comment `json:"comments"`
	Topics    []string  `json:"topics"`
	IsExtra   bool      `json:"isExtra,omitempty"`
}

// HasTopic reports whether tag is one of the post's topics.
func (p Person) HasTopic(tag string) bool {
	for _, t := range p.Topics {
		if t == tag {
			return true
		}
	}
	return false
}

func (p Person) clone() Person {
	p.Comments = append([]Comment{}, p.Comments...)
	p.Topics = append([]string{}, p.Topics...)
	return p
}

// ExtraPost is the persisted form of a post authored by the local viewer.
type ExtraPost struct {
	ID        string   `json:"id"`
	Author    string   `json:"author"`
	Text      string   `json:"text"`
	Timestamp string   `json:"timestamp"`
	Topics    []string `json:"topics"`
}

func (e ExtraPost) person() Person {
	topics := e.Topics
	if topics == nil {
		topics = []string{}
	}
	return Person{
		ID:        e.ID,
		Name:      e.Author,
		Avatar:    ExtraAvatar,
		Timestamp: e.Timestamp,
		Content:   e.Text,
		Comments:  []Comment{},
		Topics:    append([]string{}, topics...),
		IsExtra:   true,
	}
}
