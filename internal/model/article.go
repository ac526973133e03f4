package model

// Article data model, one row of the articles table.
type Article struct {
	ID    int64  `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
	Body  string `json:"body" db:"body"`
}

// ArticleCreate holds the mutable fields of an Article. It is the payload
// for both create and update.
type ArticleCreate struct {
	Title string
	Body  string
}
