package utils

import (
	"strconv"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// ObjectIDParam reads a path parameter as an ObjectID.
func ObjectIDParam(c echo.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, apperror.Invalid("invalid " + name)
	}
	return id, nil
}

// LimitQuery reads ?limit=, clamped to (0, 500] and defaulting to 50.
func LimitQuery(c echo.Context) int64 {
	n, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

// BoolQuery reads an optional boolean query parameter; absent or
// unparseable values yield nil.
func BoolQuery(c echo.Context, name string) *bool {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
