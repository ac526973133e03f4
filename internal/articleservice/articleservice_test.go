package articleservice_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/articles/internal/articleservice"
	"github.com/SergeyParamoshkin/articles/internal/model"
)

var columns = []string{"id", "title", "body"}

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return sqlx.NewDb(db, "postgres"), mock
}

func TestGetArticles(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []model.Article
		wantErr   bool
	}{
		{
			name: "returns rows in id order",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, body FROM articles ORDER BY id")).
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow(1, "first", "a").
						AddRow(2, "second", "b"))
			},
			want: []model.Article{
				{ID: 1, Title: "first", Body: "a"},
				{ID: 2, Title: "second", Body: "b"},
			},
		},
		{
			name: "empty table gives empty slice",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, title, body FROM articles").
					WillReturnRows(sqlmock.NewRows(columns))
			},
			want: []model.Article{},
		},
		{
			name: "storage failure propagates",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, title, body FROM articles").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)
			tc.setupMock(mock)

			got, err := articleservice.GetArticles(ctx, db)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, sql.ErrConnDone)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetArticle(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("SELECT id, title, body FROM articles WHERE id = $1")

	t.Run("found", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(query).WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(7, "t", "b"))

		got, err := articleservice.GetArticle(ctx, db, 7)
		require.NoError(t, err)
		assert.Equal(t, &model.Article{ID: 7, Title: "t", Body: "b"}, got)
	})

	t.Run("absent is not an error", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(query).WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(columns))

		got, err := articleservice.GetArticle(ctx, db, 404)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("storage failure", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(query).WithArgs(int64(1)).WillReturnError(sql.ErrConnDone)

		got, err := articleservice.GetArticle(ctx, db, 1)
		require.ErrorIs(t, err, sql.ErrConnDone)
		assert.Nil(t, got)
	})
}

func TestCreateNewArticle(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("INSERT INTO articles (title, body)")

	t.Run("returns row with assigned id", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(query).WithArgs("hello", "world").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(42, "hello", "world"))

		got, err := articleservice.CreateNewArticle(ctx, db, model.ArticleCreate{Title: "hello", Body: "world"})
		require.NoError(t, err)
		assert.Equal(t, &model.Article{ID: 42, Title: "hello", Body: "world"}, got)
	})

	t.Run("storage failure", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(query).WillReturnError(sql.ErrConnDone)

		_, err := articleservice.CreateNewArticle(ctx, db, model.ArticleCreate{Title: "t", Body: "b"})
		require.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestUpdateArticle(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("UPDATE articles SET title = $1, body = $2")

	t.Run("keeps id and replaces fields", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(query).WithArgs("new", "text", int64(3)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(3, "new", "text"))

		got, err := articleservice.UpdateArticle(ctx, db, 3, model.ArticleCreate{Title: "new", Body: "text"})
		require.NoError(t, err)
		assert.Equal(t, &model.Article{ID: 3, Title: "new", Body: "text"}, got)
	})

	t.Run("absent id", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(query).WithArgs("new", "text", int64(9)).
			WillReturnRows(sqlmock.NewRows(columns))

		got, err := articleservice.UpdateArticle(ctx, db, 9, model.ArticleCreate{Title: "new", Body: "text"})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("storage failure", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(query).WillReturnError(sql.ErrConnDone)

		_, err := articleservice.UpdateArticle(ctx, db, 1, model.ArticleCreate{Title: "t", Body: "b"})
		require.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestDeleteArticle(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("DELETE FROM articles WHERE id = $1")

	testCases := []struct {
		name    string
		affect  int64
		err     error
		want    bool
		wantErr bool
	}{
		{name: "deleted", affect: 1, want: true},
		{name: "absent id", affect: 0, want: false},
		{name: "storage failure", err: sql.ErrConnDone, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)
			exp := mock.ExpectExec(query).WithArgs(int64(5))
			if tc.err != nil {
				exp.WillReturnError(tc.err)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tc.affect))
			}

			got, err := articleservice.DeleteArticle(ctx, db, 5)
			if tc.wantErr {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCountArticles(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM articles")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	n, err := articleservice.CountArticles(context.Background(), db)
	require.NoError(t, err)
	assert.EqualValues(t, 12, n)
}
