// client_test.go
//go:build !integration

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	r := chi.NewRouter()
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"connecting to a relational database"}`))
	})
	r.Get("/articles", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"title":"a","body":"x"}]`))
	})
	r.Get("/articles/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"The article does not exist"}`))

			return
		}
		_, _ = w.Write([]byte(`{"id":1,"title":"a","body":"x"}`))
	})
	r.Post("/posts", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in["title"] == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"detail":"invalid request body: title is required"}`))

			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.Article{ID: 2, Title: in["title"], Body: in["body"]})
	})
	r.Put("/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(model.Article{ID: 1, Title: in["title"], Body: in["body"]})
	})
	r.Delete("/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &Client{Addr: srv.URL}
}

func TestPing(t *testing.T) {
	c := newTestClient(t)

	s, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pong", s)
}

func TestHome(t *testing.T) {
	c := newTestClient(t)

	msg, err := c.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "connecting to a relational database", msg)
}

func TestArticles(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	list, err := c.ListArticles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Article{{ID: 1, Title: "a", Body: "x"}}, list)

	a, err := c.GetArticle(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, &model.Article{ID: 1, Title: "a", Body: "x"}, a)

	_, err = c.GetArticle(ctx, 9)
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := c.CreateArticle(ctx, model.ArticleCreate{Title: "t", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, &model.Article{ID: 2, Title: "t", Body: "b"}, created)

	updated, err := c.UpdateArticle(ctx, 1, model.ArticleCreate{Title: "n", Body: "m"})
	require.NoError(t, err)
	assert.Equal(t, &model.Article{ID: 1, Title: "n", Body: "m"}, updated)

	require.NoError(t, c.DeleteArticle(ctx, 1))
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t)

	_, err := c.CreateArticle(context.Background(), model.ArticleCreate{Body: "b"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "invalid request body: title is required", apiErr.Detail)
}
