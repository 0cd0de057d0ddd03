package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"newstyping/internal/article/model"
	"newstyping/internal/article/service"
	"newstyping/internal/errresponse"
	"newstyping/internal/freshness"
	"newstyping/pkg/logger"
)

type ArticleHandler struct {
	Serving     *service.ServingService
	Ingestion   *service.IngestionService
	Maintenance *service.MaintenanceService
}

func NewArticleHandler(serving *service.ServingService, ingestion *service.IngestionService, maintenance *service.MaintenanceService) *ArticleHandler {
	return &ArticleHandler{Serving: serving, Ingestion: ingestion, Maintenance: maintenance}
}

// GetNews serves one article the caller has not seen yet. The viewed query
// parameter is a comma-separated list of article ids.
func (h *ArticleHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	excluded := freshness.ParseExclusion(r.URL.Query().Get("viewed"))

	article, err := h.Serving.GetArticle(r.Context(), excluded)
	if err != nil {
		render.Render(w, r, articleError(err))
		return
	}
	render.JSON(w, r, article)
}

func (h *ArticleHandler) DBStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Maintenance.Status(r.Context())
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to load article status: %v", err)
		render.Render(w, r, errresponse.ErrInternal(err, "Database error"))
		return
	}
	render.JSON(w, r, status)
}

func (h *ArticleHandler) DBCleanup(w http.ResponseWriter, r *http.Request) {
	result, err := h.Maintenance.Cleanup(r.Context())
	if err != nil {
		logger.Sugar.Errorf("Handler: Cleanup failed: %v", err)
		render.Render(w, r, errresponse.ErrInternal(err, "Cleanup failed"))
		return
	}
	render.JSON(w, r, result)
}

func (h *ArticleHandler) DBReset(w http.ResponseWriter, r *http.Request) {
	result, err := h.Maintenance.Reset(r.Context())
	if err != nil {
		logger.Sugar.Errorf("Handler: Reset failed: %v", err)
		render.Render(w, r, errresponse.ErrInternal(err, "Reset failed"))
		return
	}
	render.JSON(w, r, result)
}

func (h *ArticleHandler) PreloadArticles(w http.ResponseWriter, r *http.Request) {
	n, err := h.Ingestion.Refresh(r.Context())
	if err != nil {
		render.Render(w, r, articleError(err))
		return
	}
	render.JSON(w, r, model.PreloadResult{
		Message:       fmt.Sprintf("Preloaded %d articles", n),
		InsertedCount: n,
	})
}

func articleError(err error) render.Renderer {
	switch {
	case errors.Is(err, service.ErrNoArticle):
		return errresponse.ErrNotFound("No suitable articles found")
	case errors.Is(err, service.ErrUpstream):
		logger.Sugar.Warnf("Handler: News source failed: %v", err)
		return errresponse.ErrBadGateway(err, "News source failed")
	case errors.Is(err, service.ErrSummarizerNotConfigured):
		return errresponse.ErrUnavailable(err, "Summarizer not configured")
	case errors.Is(err, service.ErrSourceNotConfigured):
		return errresponse.ErrInternal(err, "News source not configured")
	default:
		logger.Sugar.Errorf("Handler: Article request failed: %v", err)
		return errresponse.ErrInternal(err, "Database error")
	}
}
