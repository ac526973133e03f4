// Package articleservice holds the stateless article operations. Each one
// takes the request's storage session and performs a single statement.
package articleservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/SergeyParamoshkin/articles/internal/database"
	"github.com/SergeyParamoshkin/articles/internal/model"
)

const (
	listQuery   = `SELECT id, title, body FROM articles ORDER BY id`
	getQuery    = `SELECT id, title, body FROM articles WHERE id = $1`
	countQuery  = `SELECT COUNT(*) FROM articles`
	insertQuery = `
		INSERT INTO articles (title, body)
		VALUES ($1, $2)
		RETURNING id, title, body`
	updateQuery = `
		UPDATE articles SET title = $1, body = $2
		WHERE id = $3
		RETURNING id, title, body`
	deleteQuery = `DELETE FROM articles WHERE id = $1`
)

// GetArticles returns every article ordered by id.
func GetArticles(ctx context.Context, s database.Session) ([]model.Article, error) {
	articles := []model.Article{}
	if err := sqlx.SelectContext(ctx, s, &articles, listQuery); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	return articles, nil
}

// GetArticle returns nil without an error when no article has the id.
func GetArticle(ctx context.Context, s database.Session, id int64) (*model.Article, error) {
	article := &model.Article{}
	if err := sqlx.GetContext(ctx, s, article, getQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get article %d: %w", id, err)
	}

	return article, nil
}

func CreateNewArticle(ctx context.Context, s database.Session, data model.ArticleCreate) (*model.Article, error) {
	article := &model.Article{}
	if err := s.QueryRowxContext(ctx, insertQuery, data.Title, data.Body).StructScan(article); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	return article, nil
}

// UpdateArticle overwrites title and body, keeping the id. Like GetArticle it
// returns nil, nil for an unknown id.
func UpdateArticle(ctx context.Context, s database.Session, id int64, data model.ArticleCreate) (*model.Article, error) {
	article := &model.Article{}
	if err := s.QueryRowxContext(ctx, updateQuery, data.Title, data.Body, id).StructScan(article); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to update article %d: %w", id, err)
	}

	return article, nil
}

// DeleteArticle reports whether a row was removed.
func DeleteArticle(ctx context.Context, s database.Session, id int64) (bool, error) {
	res, err := s.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete article %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete article %d: %w", id, err)
	}

	return n > 0, nil
}

func CountArticles(ctx context.Context, s database.Session) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, s, &n, countQuery); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}

	return n, nil
}
