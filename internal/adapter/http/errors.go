package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"loan-management-backend/internal/adapter/middleware"
	"loan-management-backend/internal/domain/apperr"
)

// requestError is a response decided before any usecase ran.
type requestError struct {
	code int
	resp ErrorResponse
}

func (e *requestError) Error() string { return e.resp.Error }

// decode binds the JSON body into req and validates it.
func decode(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return &requestError{code: http.StatusBadRequest, resp: ErrorResponse{Error: "invalid body"}}
	}
	if err := c.Validate(req); err != nil {
		return &requestError{
			code: http.StatusUnprocessableEntity,
			resp: ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)},
		}
	}
	return nil
}

var kindStatus = map[apperr.Kind]int{
	apperr.KindValidation:     http.StatusBadRequest,
	apperr.KindNotFound:       http.StatusNotFound,
	apperr.KindForbidden:      http.StatusForbidden,
	apperr.KindAlreadyDecided: http.StatusConflict,
	apperr.KindInvalidLoan:    http.StatusBadRequest,
	apperr.KindConflict:       http.StatusConflict,
	apperr.KindUnauthorized:   http.StatusUnauthorized,
}

// ErrorHandler renders every error returned by a handler as ErrorResponse.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, resp := render(err)
		if code >= http.StatusInternalServerError {
			fields := logrus.Fields{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"route":      c.Path(),
			}
			if p, ok := middleware.PrincipalFrom(c); ok {
				fields["principal"] = p.ID
			}
			log.WithFields(fields).WithError(err).Error("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, resp)
		}
		if err != nil {
			log.WithError(err).Warn("write error response")
		}
	}
}

func render(err error) (int, ErrorResponse) {
	var re *requestError
	if errors.As(err, &re) {
		return re.code, re.resp
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		return he.Code, ErrorResponse{Error: msg}
	}
	if code, ok := kindStatus[apperr.KindOf(err)]; ok {
		return code, ErrorResponse{Error: apperr.Message(err)}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
}
