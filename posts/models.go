package posts

import "time"

// Post is a post row as stored. Body is nullable: a post may consist of a
// title alone.
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Body      *string   `json:"body"`
	AuthorID  int       `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthorSummary is the minimal author projection embedded in post reads.
type AuthorSummary struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// PostWithAuthor is a post joined with its author summary, returned by the
// public read endpoints.
type PostWithAuthor struct {
	ID        int           `json:"id"`
	Title     string        `json:"title"`
	Body      *string       `json:"body"`
	CreatedAt time.Time     `json:"created_at"`
	Author    AuthorSummary `json:"author"`
}
