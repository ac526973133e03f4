package article

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/articles/internal/errresponse"
	"github.com/SergeyParamoshkin/articles/internal/logger"
)

type ctxKey int8

const ctxKeyArticleID ctxKey = iota

var errInvalidArticleID = errors.New("article_id must be an integer")

// ArticleCtx middleware parses the {article_id} URL parameter and stores it
// on the request context. A value that is not an integer stops the request
// with 422 before any storage work.
func ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "article_id"), 10, 64)
		if err != nil {
			if err := render.Render(w, r, errresponse.ErrInvalidRequest(errInvalidArticleID)); err != nil {
				logger.FromContext(r.Context()).Errorw(err.Error())
			}

			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyArticleID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func articleID(ctx context.Context) int64 {
	// Handlers are only mounted behind ArticleCtx; a missing value is a
	// routing bug and the Recoverer turns the panic into a 500.
	return ctx.Value(ctxKeyArticleID).(int64) //nolint:forcetypeassert
}
