package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestListServiceRecordsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerAgreementRoutes(r)

	t.Run("rejects invalid vehicle_id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/service-records?vehicle_id=abc", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "invalid vehicle_id") {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("requires a tenant in context", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/service-records", nil)
		r.ServeHTTP(w, req)
		if w.Code == http.StatusNotFound {
			t.Fatal("route is not registered")
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}
