package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/payerdesk/internal/pkg/errors"
	"github.com/yungbote/payerdesk/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes the error envelope and records err on c for the access
// log. 5xx responses do not echo the underlying error text.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		_ = c.Error(err)
		msg = err.Error()
	}
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr maps a service error onto the envelope. *apierr.Error carries its
// own status and code; bare sentinels fall back to 404/400; anything else is 500.
func RespondErr(c *gin.Context, err error) {
	var ae *apierr.Error
	switch {
	case errors.As(err, &ae) && ae.Status != 0:
		RespondError(c, ae.Status, ae.Code, err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
