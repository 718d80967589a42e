package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testUnit = `{
  "module": "Todo.Live",
  "functions": [
    {
      "name": "greet",
      "params": [],
      "body": {"kind": "const", "const": "string", "str": "hello"}
    }
  ]
}`

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestLower(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/lower", strings.NewReader(testUnit))
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp LowerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Module != "Todo.Live" {
		t.Errorf("module = %q", resp.Module)
	}
	if !strings.Contains(resp.Code, "defmodule Todo.Live do") {
		t.Errorf("code missing module header:\n%s", resp.Code)
	}
	if !strings.Contains(resp.Code, "def greet() do") {
		t.Errorf("code missing function:\n%s", resp.Code)
	}
	var diags []interface{}
	if err := json.Unmarshal(resp.Diagnostics, &diags); err != nil {
		t.Fatalf("diagnostics not a JSON array: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %s", resp.Diagnostics)
	}
}

func TestLowerBadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/lower", strings.NewReader("{{"))
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLowerMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/lower", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestServerStartStop(t *testing.T) {
	s := New("127.0.0.1:0")
	addr, err := s.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	resp, err := http.Get("http://" + addr + "/healthz")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
}
