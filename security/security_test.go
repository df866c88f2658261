package security

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateContentType(t *testing.T) {
	assert.True(t, ValidateContentType("application/json"))
	assert.True(t, ValidateContentType("application/json; charset=utf-8"))
	assert.False(t, ValidateContentType("multipart/form-data; boundary=x"))
	assert.False(t, ValidateContentType("text/plain"))
	assert.False(t, ValidateContentType(""))
}

func TestSanitizeHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("Cookie", "a=b")
	h.Set("X-Request-ID", "abc")

	out := SanitizeHeaders(h)

	assert.Empty(t, out.Get("Authorization"))
	assert.Empty(t, out.Get("Cookie"))
	assert.Equal(t, "abc", out.Get("X-Request-ID"))
	assert.Equal(t, "Bearer secret", h.Get("Authorization"), "original must be untouched")
}
