package errcodes

import (
	"net/http"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// errorBody is the wire shape of one error inside the response envelope.
type errorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// Handle renders any error as the API's JSON error envelope. Typed errors
// carry their own status and code, echo's router errors keep theirs, and
// everything else becomes an opaque 500.
func (h *Handler) Handle(err error, c echo.Context) {
	if errutils.IsIgnorableErr(err) {
		logger.FromEchoContext(c).Err(err).Warn("broken pipe")
		return
	}

	body := errorBody{
		Code:       "internal_server_error",
		Message:    "Internal Server Error",
		StatusCode: http.StatusInternalServerError,
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			body = errorBody{
				Code:       strcase.ToSnake(msg),
				Message:    msg,
				StatusCode: he.Code,
			}
		}
	}

	var e *Error
	if errors.As(err, &e) {
		body = errorBody{
			Code:       e.Code,
			Message:    e.Message,
			StatusCode: e.HTTPCode,
		}
	}

	if body.StatusCode == http.StatusInternalServerError {
		logger.FromEchoContext(c).Err(err).Error("server error")
	}

	if err := c.JSON(body.StatusCode, errorResponse{Error: body}); err != nil {
		logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler json error")
	}
}
