package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siwarapos/internal/dto"
)

func bindBody(t *testing.T, body string, req interface{}) (bool, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return bindAndValidate(c, req), w
}

func TestDiscountRequestAcceptsZeroPercent(t *testing.T) {
	// percent:0 clears the discount, so it must bind cleanly rather than
	// tripping a required check on the zero value.
	var req dto.DiscountRequest
	ok, _ := bindBody(t, `{"percent": 0}`, &req)
	require.True(t, ok)
	assert.True(t, req.Percent.IsZero())
}

func TestSettleRequestRejectsUnknownMethod(t *testing.T) {
	var req dto.SettleRequest
	ok, w := bindBody(t, `{"method": "barter"}`, &req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
