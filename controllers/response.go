package controllers

import (
	"errors"
	"net/http"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/middleware"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/security"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// bindRequest binds and validates req, turning either failure into a 400.
func bindRequest(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperror.Invalid("Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperror.Invalid("Invalid field " + verrs[0].Field() + ": failed " + verrs[0].Tag())
		}
		return apperror.Invalid(err.Error())
	}
	return nil
}

func respondOK(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

func respondCreated(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// fail maps err to its HTTP status. Internal details are logged, not sent.
func fail(c echo.Context, err error) error {
	status := apperror.Status(err)
	message := err.Error()
	var ae *apperror.AppError
	if errors.As(err, &ae) {
		message = ae.Message
	}
	if status >= http.StatusInternalServerError {
		config.GetLogger().WithFields(logrus.Fields{
			"path":      c.Request().URL.Path,
			"requestId": middleware.GetRequestID(c),
			"headers":   security.SanitizeHeaders(c.Request().Header),
			"error":     err.Error(),
		}).Error("Request failed")
		message = "Internal server error"
	}
	return c.JSON(status, models.Response{Status: status, Message: message})
}

func isAdmin(c echo.Context) bool {
	t := middleware.ExtractUserType(c)
	for _, r := range middleware.AdminRoles {
		if t == r {
			return true
		}
	}
	return false
}
