package api

import (
	stderrors "errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
)

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// renderError writes err as {"error","code","details"} with the status mapped from its code.
// Unclassified errors are logged and reported as INTERNAL_ERROR without details.
func renderError(c *gin.Context, log logger.Logger, err error) {
	stdErr := errors.AsStandard(err)
	status := errors.HTTPStatus(stdErr.Code)

	details := stdErr.Details
	if status >= 500 {
		log.Error("request failed", map[string]interface{}{
			"path":    c.FullPath(),
			"code":    string(stdErr.Code),
			"details": stdErr.Details,
		})
		details = ""
	}
	if details == "" && stdErr.Field != "" {
		details = "field: " + stdErr.Field
	}

	c.AbortWithStatusJSON(status, errorResponse{
		Error:   stdErr.Message,
		Code:    string(stdErr.Code),
		Details: details,
	})
}

// bindError translates gin binding failures into domain errors.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.NewValidationError("", "Malformed request body: "+err.Error())
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "servicetype":
		return errors.NewInvalidServiceTypeError(fmt.Sprint(fe.Value()))
	case "required":
		return errors.NewValidationError(field, field+" is required")
	case "priority":
		return errors.NewValidationError(field, "Priority must be low, medium, high or urgent")
	default:
		return errors.NewValidationError(field, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
	}
}
