package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Industrias-CTS/inventario-sub001/internal/services"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(rawQuery string) (*gin.Context, *httptest.ResponseRecorder) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return c, recorder
}

func TestParseIDParam(t *testing.T) {
	c, _ := newTestContext("")
	c.Params = gin.Params{{Key: "id", Value: "17"}}
	id, ok := parseIDParam(c, "id")
	if !ok || id != 17 {
		t.Errorf("parseIDParam = (%d, %v), want (17, true)", id, ok)
	}

	c, recorder := newTestContext("")
	c.Params = gin.Params{{Key: "id", Value: "seventeen"}}
	if _, ok := parseIDParam(c, "id"); ok {
		t.Error("expected failure for non-numeric id")
	}
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
	}
}

func TestParseOptionalInt64Query(t *testing.T) {
	c, _ := newTestContext("")
	value, ok := parseOptionalInt64Query(c, "component_id")
	if !ok || value != nil {
		t.Errorf("absent parameter: got (%v, %v), want (nil, true)", value, ok)
	}

	c, _ = newTestContext("component_id=9")
	value, ok = parseOptionalInt64Query(c, "component_id")
	if !ok || value == nil || *value != 9 {
		t.Errorf("component_id=9: got (%v, %v), want (9, true)", value, ok)
	}

	c, recorder := newTestContext("component_id=abc")
	if _, ok = parseOptionalInt64Query(c, "component_id"); ok {
		t.Error("expected failure for non-numeric component_id")
	}
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
	}
}

func TestParsePaginationDefaults(t *testing.T) {
	c, _ := newTestContext("")
	page, pageSize, ok := parsePagination(c)
	if !ok || page != 1 || pageSize != 20 {
		t.Errorf("parsePagination = (%d, %d, %v), want (1, 20, true)", page, pageSize, ok)
	}

	c, recorder := newTestContext("page=0")
	if _, _, ok := parsePagination(c); ok {
		t.Error("expected failure for page=0")
	}
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
	}
}

func TestBindErrorReturnsValidationFailed(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler := NewReservationHandler(services.ReservationService(nil))
	handler.CreateReservation(c)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
	}
	if body := recorder.Body.String(); !strings.Contains(body, "VALIDATION_FAILED") {
		t.Errorf("body = %q, want VALIDATION_FAILED error code", body)
	}
}
