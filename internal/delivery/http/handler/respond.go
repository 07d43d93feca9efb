package handler

import (
	"errors"
	"net/http"

	appErrors "github.com/ak4shii/smart-parking-system/pkg/errors"
	"github.com/ak4shii/smart-parking-system/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the error classification to an HTTP status. Internal
// details stay out of the response body.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch appErrors.KindOf(err) {
	case appErrors.KindNotFound:
		status = http.StatusNotFound
	case appErrors.KindConflict:
		status = http.StatusConflict
	case appErrors.KindValidation:
		status = http.StatusBadRequest
	}

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) && status != http.StatusInternalServerError {
		message = appErr.Message
	}

	c.Error(err)
	utils.ErrorResponse(c, status, message)
}
