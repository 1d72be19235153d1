package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

var errBadBody = echo.NewHTTPError(http.StatusBadRequest, "invalid request body")

// errorHandler turns a handler error into exactly one response. Token
// failures of any kind share one message.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponseFor(err)

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		c.Logger().Error(werr)
	}
}

func errorResponseFor(err error) (int, any) {
	var verr *common.ValidationError
	var herr *echo.HTTPError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusConflict, errorResponse{Error: common.ErrDuplicateEmail.Error()}
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: common.ErrInvalidCredentials.Error()}
	case errors.Is(err, common.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, errorResponse{Error: "service unavailable"}
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: common.ErrUnauthenticated.Error()}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, errorResponse{Error: common.ErrorNotFound.Error()}
	case errors.As(err, &herr):
		msg, ok := herr.Message.(string)
		if !ok {
			msg = http.StatusText(herr.Code)
		}
		return herr.Code, errorResponse{Error: msg}
	default:
		return http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()}
	}
}
