package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"newstyping/internal/errresponse"
	"newstyping/internal/testresult/model"
	"newstyping/internal/testresult/service"
	"newstyping/middleware"
	"newstyping/pkg/logger"
)

type TestResultHandler struct {
	Service *service.TestResultService
}

func NewTestResultHandler(service *service.TestResultService) *TestResultHandler {
	return &TestResultHandler{Service: service}
}

func (h *TestResultHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		render.Render(w, r, errresponse.ErrUnauthorized("Missing bearer token"))
		return
	}

	history, err := h.Service.History(r.Context(), userID)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to fetch test history: %v", err)
		render.Render(w, r, errresponse.ErrInternal(err, "Database error"))
		return
	}
	render.JSON(w, r, history)
}

func (h *TestResultHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		render.Render(w, r, errresponse.ErrUnauthorized("Missing bearer token"))
		return
	}

	stats, err := h.Service.Stats(r.Context(), userID)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to compute test stats: %v", err)
		render.Render(w, r, errresponse.ErrInternal(err, "Database error"))
		return
	}
	render.JSON(w, r, stats)
}

func (h *TestResultHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		render.Render(w, r, errresponse.ErrUnauthorized("Missing bearer token"))
		return
	}

	data := &model.SaveTestRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, errresponse.ErrInvalidRequest(err))
		return
	}

	test, err := h.Service.Save(r.Context(), userID, *data)
	if err != nil {
		if errors.Is(err, service.ErrNoOwner) {
			render.Render(w, r, errresponse.ErrUnauthorized("Missing bearer token"))
			return
		}
		logger.Sugar.Errorf("Handler: Failed to save test: %v", err)
		render.Render(w, r, errresponse.ErrInternal(err, "Database error"))
		return
	}

	if err := render.Render(w, r, &model.SaveResponse{Success: true, Test: test}); err != nil {
		logger.Sugar.Errorf("Handler: Failed to render saved test: %v", err)
		render.Render(w, r, errresponse.ErrRender(err))
	}
}
