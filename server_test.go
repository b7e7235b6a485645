package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/coffee_export_backend/config"
	"github.com/mmdatafocus/coffee_export_backend/models"
	"github.com/mmdatafocus/coffee_export_backend/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthzAndReadinessGate(t *testing.T) {
	r := setupRouter(config.GetLogger())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("healthz: expected 204, got %d", w.Code)
	}
	if w.Header().Get(correlationIdHeader) == "" {
		t.Fatalf("expected a generated correlation id header")
	}

	// no database connected in tests
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contracts", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before the database is ready, got %d", w.Code)
	}
}

func TestCorrelationIdIsPropagated(t *testing.T) {
	r := gin.New()
	r.Use(correlationIdMiddleware())
	r.GET("/cid", func(c *gin.Context) {
		cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		c.String(http.StatusOK, cid)
	})

	req := httptest.NewRequest(http.MethodGet, "/cid", nil)
	req.Header.Set(correlationIdHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" || w.Header().Get(correlationIdHeader) != "abc-123" {
		t.Fatalf("expected propagated id, got body=%q header=%q", w.Body.String(), w.Header().Get(correlationIdHeader))
	}
}

func TestUserHeaderReachesContext(t *testing.T) {
	r := gin.New()
	r.Use(correlationIdMiddleware())
	r.GET("/who", func(c *gin.Context) {
		user, ok := utils.GetUsernameFromContext(c.Request.Context())
		if !ok {
			user = "<none>"
		}
		c.String(http.StatusOK, user)
	})

	cases := []struct {
		header   string
		expected string
	}{
		{"maria", "maria"},
		{"  maria  ", "maria"},
		{"", "<none>"},
		{"   ", "<none>"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		if tc.header != "" {
			req.Header.Set(userHeader, tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Body.String() != tc.expected {
			t.Fatalf("header %q: expected %q, got %q", tc.header, tc.expected, w.Body.String())
		}
	}
}

func TestRespondError(t *testing.T) {
	type sample struct {
		Name string `validate:"required"`
	}
	validationErr := utils.ValidateStruct(sample{})

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", validationErr, http.StatusBadRequest},
		{"conflict", &models.ReportNumberConflictError{ReportNo: "8", ContractId: 1, ContractNumber: "CV-001"}, http.StatusConflict},
		{"wrapped conflict", fmt.Errorf("save: %w", &models.ReportNumberConflictError{ReportNo: "8"}), http.StatusConflict},
		{"not ready", models.ErrLiquidationNotReady, http.StatusConflict},
		{"contract not found", utils.ErrorRecordNotFound, http.StatusNotFound},
		{"lot not found", models.ErrLotNotFound, http.StatusNotFound},
		{"payment not found", models.ErrPaymentNotFound, http.StatusNotFound},
		{"zero payment", models.ErrPaymentAmountRequired, http.StatusBadRequest},
		{"company", models.ErrCompanyNotAllowed, http.StatusBadRequest},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, "test", tc.err)
			if w.Code != tc.code {
				t.Fatalf("expected %d, got %d (%s)", tc.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestRespondError_ConflictBody(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	respondError(c, "test", &models.ReportNumberConflictError{ReportNo: "8", ContractId: 7, ContractNumber: "CV-007", RecordId: "r1"})

	var body struct {
		Error    string                           `json:"error"`
		Conflict models.ReportNumberConflictError `json:"conflict"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Conflict.ContractNumber != "CV-007" || body.Conflict.ContractId != 7 || body.Error == "" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestIntParam(t *testing.T) {
	cases := map[string]bool{"12": true, "0": false, "-3": false, "abc": false}
	for raw, ok := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		if _, got := intParam(c, "id"); got != ok {
			t.Fatalf("%q: expected ok=%v", raw, ok)
		}
		if !ok && w.Code != http.StatusBadRequest {
			t.Fatalf("%q: expected 400, got %d", raw, w.Code)
		}
	}
}

func TestCorsConfig(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	cfg := corsConfig()
	if cfg.AllowAllOrigins || len(cfg.AllowOrigins) != 2 || !cfg.AllowCredentials {
		t.Fatalf("unexpected production cors config: %+v", cfg)
	}

	t.Setenv("GO_ENV", "development")
	if cfg := corsConfig(); !cfg.AllowAllOrigins || cfg.AllowCredentials {
		t.Fatalf("unexpected development cors config: %+v", cfg)
	}
}
