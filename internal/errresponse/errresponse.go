// Package errresponse renders API errors as {"status": ..., "detail": ...}.
package errresponse

import (
	"net/http"

	"github.com/go-chi/render"
)

// ErrResponse renderer type for handling all sorts of errors.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	Detail     string `json:"detail,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func newErr(code int, err error, detail string) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: code,
		StatusText:     http.StatusText(code),
		Detail:         detail,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return newErr(http.StatusBadRequest, err, err.Error())
}

func ErrUnauthorized(detail string) render.Renderer {
	return newErr(http.StatusUnauthorized, nil, detail)
}

func ErrNotFound(detail string) render.Renderer {
	return newErr(http.StatusNotFound, nil, detail)
}

func ErrTooManyRequests(detail string) render.Renderer {
	return newErr(http.StatusTooManyRequests, nil, detail)
}

// ErrInternal hides err from the client and reports detail instead.
func ErrInternal(err error, detail string) render.Renderer {
	return newErr(http.StatusInternalServerError, err, detail)
}

func ErrBadGateway(err error, detail string) render.Renderer {
	return newErr(http.StatusBadGateway, err, detail)
}

func ErrUnavailable(err error, detail string) render.Renderer {
	return newErr(http.StatusServiceUnavailable, err, detail)
}

func ErrRender(err error) render.Renderer {
	return newErr(http.StatusUnprocessableEntity, err, err.Error())
}
