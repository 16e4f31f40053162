package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leadops/leadwash/internal/config"
	"github.com/leadops/leadwash/internal/core"
	"github.com/leadops/leadwash/internal/lead"
	"github.com/leadops/leadwash/internal/metrics"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.Cleanse.MaxRuns = 8
	cfg.Upload.MaxFileSize = 1 << 20
	cfg.Server.RequestTimeout = time.Minute
	m := metrics.New(prometheus.NewRegistry())

	service, err := core.NewService(cfg, m)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return NewServer(service, cfg, m)
}

func doJSON(t *testing.T, s *Server, method, path string, body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func multipartFile(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func fullLeadCSV() []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(lead.RequiredColumns, ","))
	buf.WriteString("\n")
	buf.WriteString("2026-08-01,Ann,Smith,ann.smith@gmail.com,3055551234,1 Main St,Miami,FL,33101,250000,100000,400000,f88cc4ba-95b2-353f-9ae2-7894c12bdccd\n")
	return buf.Bytes()
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t)
	rec, body := doJSON(t, s, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRunEndpoints(t *testing.T) {
	s := testServer(t)

	rec, body := doJSON(t, s, http.MethodPost, "/api/runs", nil, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create run status = %d: %s", rec.Code, rec.Body.String())
	}
	runID, _ := body["id"].(string)
	if runID == "" {
		t.Fatalf("no run id in %v", body)
	}

	rec, _ = doJSON(t, s, http.MethodGet, "/api/runs/"+runID, nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("status endpoint = %d", rec.Code)
	}

	rec, _ = doJSON(t, s, http.MethodGet, "/api/runs/not-a-uuid", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad run id status = %d", rec.Code)
	}

	rec, _ = doJSON(t, s, http.MethodGet, "/api/runs/00000000-0000-0000-0000-000000000001", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown run status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/runs/"+runID, nil)
	del := httptest.NewRecorder()
	s.Router().ServeHTTP(del, req)
	if del.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", del.Code)
	}
}

func TestUploadCleanseExportFlow(t *testing.T) {
	s := testServer(t)

	_, body := doJSON(t, s, http.MethodPost, "/api/runs", nil, "")
	runID := body["id"].(string)

	buf, ct := multipartFile(t, "week34.csv", fullLeadCSV())
	rec, slotBody := doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/runs/%s/slots/1", runID), buf, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body.String())
	}
	if slotBody["rows"].(float64) != 1 {
		t.Errorf("rows = %v", slotBody["rows"])
	}

	rec, _ = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/runs/%s/slots/1/cleanse", runID), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cleanse status = %d: %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/runs/%s/slots/1/cleaned.csv", runID), nil)
	exp := httptest.NewRecorder()
	s.Router().ServeHTTP(exp, req)
	if exp.Code != http.StatusOK {
		t.Fatalf("export status = %d", exp.Code)
	}
	if !strings.Contains(exp.Header().Get("Content-Disposition"), "week34.csv") {
		t.Errorf("Content-Disposition = %q", exp.Header().Get("Content-Disposition"))
	}
	if !strings.Contains(exp.Body.String(), "ann.smith@gmail.com") {
		t.Error("export missing surviving row")
	}
}

func TestUploadErrors(t *testing.T) {
	s := testServer(t)
	_, body := doJSON(t, s, http.MethodPost, "/api/runs", nil, "")
	runID := body["id"].(string)

	t.Run("missing file part", func(t *testing.T) {
		rec, _ := doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/runs/%s/slots/1", runID), nil, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		buf, ct := multipartFile(t, "legacy.xls", []byte("x"))
		rec, _ := doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/runs/%s/slots/1", runID), buf, ct)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("slot out of range", func(t *testing.T) {
		buf, ct := multipartFile(t, "x.csv", fullLeadCSV())
		rec, _ := doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/runs/%s/slots/9", runID), buf, ct)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("unknown reference kind", func(t *testing.T) {
		buf, ct := multipartFile(t, "ref.csv", []byte("Phone\n5551234567\n"))
		rec, _ := doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/runs/%s/reference/bogus", runID), buf, ct)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("cleanse before upload conflicts", func(t *testing.T) {
		rec, _ := doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/runs/%s/slots/1/cleanse", runID), nil, "")
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("cleanse of pre-cleaned slot rejected", func(t *testing.T) {
		buf, ct := multipartFile(t, "old.csv", []byte("Phone1\n5551234567\n"))
		rec, _ := doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/runs/%s/slots/2", runID), buf, ct)
		if rec.Code != http.StatusOK {
			t.Fatalf("upload status = %d: %s", rec.Code, rec.Body.String())
		}
		rec, _ = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/runs/%s/slots/2/cleanse", runID), nil, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestSecurityHeaders(t *testing.T) {
	s := testServer(t)
	rec, _ := doJSON(t, s, http.MethodGet, "/healthz", nil, "")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options header")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options header")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	if !rl.allow("1.2.3.4") || !rl.allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("1.2.3.4") {
		t.Error("third request should be limited")
	}
	if !rl.allow("5.6.7.8") {
		t.Error("other IPs have their own bucket")
	}
}
