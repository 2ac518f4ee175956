package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/transtool/internal/config"
	"github.com/locvowork/transtool/internal/logger"
	"github.com/locvowork/transtool/internal/service/serviceutils"
)

// RequestContext copies the X-Request-ID response header (set by
// middleware.RequestID) into the request context for logging.
func RequestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			if id != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
			}
			return next(c)
		}
	}
}

// ErrorHandler renders echo errors as GenericResponse. Oversized bodies get the
// upload size message.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "伺服器內部錯誤"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	if code == http.StatusRequestEntityTooLarge {
		msg = config.DefaultEnvConfig.UploadSizeLimitMsg()
	}
	if code >= http.StatusInternalServerError {
		logger.ErrorLog(c.Request().Context(), "%s %s: %v", c.Request().Method, c.Path(), err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = serviceutils.ResponseError(c, code, msg, nil)
	}
	if err != nil {
		logger.ErrorLog(c.Request().Context(), "write error response: %v", err)
	}
}
