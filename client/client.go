// Package client is a small Go client for the Article API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

// ErrNotFound is returned when the API answers 404 for an article.
var ErrNotFound = errors.New("article not found")

type Client struct {
	http.Client
	Addr string
}

// APIError carries a non-2xx response.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("articles api: %d %s", e.StatusCode, e.Detail)
}

type articlePayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Home returns the message served at the API root.
func (c *Client) Home(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/", nil, http.StatusOK, &out); err != nil {
		return "", err
	}

	return out.Message, nil
}

func (c *Client) ListArticles(ctx context.Context) ([]model.Article, error) {
	var out []model.Article
	if err := c.do(ctx, http.MethodGet, "/articles", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) GetArticle(ctx context.Context, id int64) (*model.Article, error) {
	out := &model.Article{}
	if err := c.do(ctx, http.MethodGet, "/articles/"+strconv.FormatInt(id, 10), nil, http.StatusOK, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) CreateArticle(ctx context.Context, data model.ArticleCreate) (*model.Article, error) {
	out := &model.Article{}
	in := articlePayload{Title: data.Title, Body: data.Body}
	if err := c.do(ctx, http.MethodPost, "/posts", in, http.StatusCreated, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) UpdateArticle(ctx context.Context, id int64, data model.ArticleCreate) (*model.Article, error) {
	out := &model.Article{}
	in := articlePayload{Title: data.Title, Body: data.Body}
	if err := c.do(ctx, http.MethodPut, "/posts/"+strconv.FormatInt(id, 10), in, http.StatusOK, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) DeleteArticle(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+strconv.FormatInt(id, 10), nil, http.StatusOK, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Addr+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != want {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&detail) == nil {
			apiErr.Detail = detail.Detail
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
