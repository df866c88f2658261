package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type request struct {
	method   string
	path     string
	body     string
	userID   primitive.ObjectID
	userType string
	params   map[string]string
}

func newContext(r request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	if r.path == "" {
		r.path = "/"
	}
	req := httptest.NewRequest(r.method, r.path, strings.NewReader(r.body))
	if r.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if !r.userID.IsZero() {
		c.Set("userId", r.userID.Hex())
	}
	if r.userType != "" {
		c.Set("userType", r.userType)
	}
	var names, values []string
	for name, value := range r.params {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) models.Response {
	t.Helper()
	resp := models.Response{Data: data}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
