package article

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jmoiron/sqlx"

	"github.com/SergeyParamoshkin/articles/internal/articlerequest"
	"github.com/SergeyParamoshkin/articles/internal/articleresponse"
	"github.com/SergeyParamoshkin/articles/internal/articleservice"
	"github.com/SergeyParamoshkin/articles/internal/database"
	"github.com/SergeyParamoshkin/articles/internal/errresponse"
	"github.com/SergeyParamoshkin/articles/internal/logger"
)

const homeMessage = "connecting to a relational database"

var errNoSession = errors.New("no database session on request context")

// Routes mounts the article endpoints on r. Every route except the home page
// runs with its own database session.
func Routes(r chi.Router, db *sqlx.DB) {
	r.Get("/", Home)

	r.Group(func(r chi.Router) {
		r.Use(database.Sessions(db))

		r.Get("/articles", ListArticles)
		r.With(ArticleCtx).Get("/articles/{article_id}", GetArticle)

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", CreateArticle) // POST /posts

			r.Route("/{article_id}", func(r chi.Router) {
				r.Use(ArticleCtx)
				r.Put("/", UpdateArticle)    // PUT /posts/123
				r.Delete("/", DeleteArticle) // DELETE /posts/123
			})
		})
	})
}

func Home(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, render.M{"message": homeMessage})
}

func ListArticles(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	articles, err := articleservice.GetArticles(r.Context(), s)
	if err != nil {
		renderError(w, r, errresponse.ErrInternal(err))

		return
	}

	if err := render.RenderList(w, r, articleresponse.NewArticleListResponse(articles)); err != nil {
		renderError(w, r, errresponse.ErrInternal(err))
	}
}

// GetArticle returns the specific Article or 404 when it does not exist.
func GetArticle(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	article, err := articleservice.GetArticle(r.Context(), s, articleID(r.Context()))
	if err != nil {
		renderError(w, r, errresponse.ErrInternal(err))

		return
	}
	if article == nil {
		renderError(w, r, errresponse.ErrNotFound())

		return
	}

	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		renderError(w, r, errresponse.ErrInternal(err))
	}
}

// CreateArticle persists the posted Article and returns it, with the id
// storage assigned, as an acknowledgement.
func CreateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		renderError(w, r, errresponse.ErrInvalidRequest(fmt.Errorf("invalid request body: %w", err)))

		return
	}

	s, ok := session(w, r)
	if !ok {
		return
	}

	article, err := articleservice.CreateNewArticle(r.Context(), s, data.ArticleCreate())
	if err != nil {
		renderError(w, r, errresponse.ErrInternal(err))

		return
	}

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		logger.FromContext(r.Context()).Errorw(err.Error())
	}
}

// UpdateArticle replaces title and body of an existing Article.
func UpdateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		renderError(w, r, errresponse.ErrInvalidRequest(fmt.Errorf("invalid request body: %w", err)))

		return
	}

	s, ok := session(w, r)
	if !ok {
		return
	}

	article, err := articleservice.UpdateArticle(r.Context(), s, articleID(r.Context()), data.ArticleCreate())
	if err != nil {
		renderError(w, r, errresponse.ErrInternal(err))

		return
	}
	if article == nil {
		renderError(w, r, errresponse.ErrNotFound())

		return
	}

	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		renderError(w, r, errresponse.ErrInternal(err))
	}
}

// DeleteArticle removes an existing Article from our persistent store.
func DeleteArticle(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	deleted, err := articleservice.DeleteArticle(r.Context(), s, articleID(r.Context()))
	if err != nil {
		renderError(w, r, errresponse.ErrInternal(err))

		return
	}
	if !deleted {
		renderError(w, r, errresponse.ErrNotFound())

		return
	}

	render.JSON(w, r, render.M{"success": true})
}

func session(w http.ResponseWriter, r *http.Request) (database.Session, bool) {
	s, ok := database.SessionFromContext(r.Context())
	if !ok {
		renderError(w, r, errresponse.ErrInternal(errNoSession))
	}

	return s, ok
}

// renderError logs the cause of server side failures and writes rd.
func renderError(w http.ResponseWriter, r *http.Request, rd render.Renderer) {
	log := logger.FromContext(r.Context())

	if e, ok := rd.(*errresponse.ErrResponse); ok && e.Err != nil && e.HTTPStatusCode >= http.StatusInternalServerError {
		log.Errorw("request failed", "error", e.Err)
	}

	if err := render.Render(w, r, rd); err != nil {
		log.Errorw(err.Error())
	}
}
