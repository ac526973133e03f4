package database

import (
	"context"
	"net/http"

	"github.com/go-chi/render"
	"github.com/jmoiron/sqlx"

	"github.com/SergeyParamoshkin/articles/internal/errresponse"
	"github.com/SergeyParamoshkin/articles/internal/logger"
)

// Session is the storage handle a single request works with. Both *sqlx.DB
// and *sqlx.Conn satisfy it.
type Session interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

type ctxKey int8

const ctxKeySession ctxKey = iota

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKeySession, s)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKeySession).(Session)

	return s, ok
}

// Sessions middleware reserves one pooled connection for the lifetime of the
// request and hands it back on every exit path, panics included. When no
// connection can be acquired the request stops here with a 500.
func Sessions(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContext(r.Context())

			conn, err := db.Connx(r.Context())
			if err != nil {
				log.Errorw("failed to acquire database session", "error", err)
				if err := render.Render(w, r, errresponse.ErrInternal(err)); err != nil {
					log.Errorw(err.Error())
				}

				return
			}
			defer func() {
				if err := conn.Close(); err != nil {
					log.Warnw("failed to release database session", "error", err)
				}
			}()

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), conn)))
		})
	}
}
