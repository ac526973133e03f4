package articlerequest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

// ArticleRequest is the request payload for creating or replacing an Article.
//
// Fields are pointers so a missing key can be told apart from an empty
// string.
type ArticleRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`

	ProtectedID json.RawMessage `json:"id,omitempty"` // accepted on input, never used
}

// Bind runs after the body has been decoded.
func (a *ArticleRequest) Bind(r *http.Request) error {
	if a.Title == nil {
		return errors.New("title is required")
	}
	if a.Body == nil {
		return errors.New("body is required")
	}

	a.ProtectedID = nil // ids are assigned by storage

	return nil
}

func (a *ArticleRequest) ArticleCreate() model.ArticleCreate {
	return model.ArticleCreate{Title: *a.Title, Body: *a.Body}
}
