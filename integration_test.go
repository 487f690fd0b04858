package main_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"calctree/internal/auth"
	"calctree/internal/calculation"
	"calctree/internal/server"
	"calctree/internal/storage"
)

func setupServer(t *testing.T) http.Handler {
	t.Helper()

	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to create in-memory db: %v", err)
	}

	authSvc := auth.NewService(store, []byte("test-secret"))
	calcSvc := calculation.NewService(store)
	return server.NewRouter(authSvc, calcSvc)
}

func doJSON(t *testing.T, handler http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestIntegrationFullFlow(t *testing.T) {
	handler := setupServer(t)

	w := doJSON(t, handler, http.MethodPost, "/auth/register", `{"username":"user1","password":"secret123"}`, "")
	if w.Result().StatusCode != http.StatusCreated {
		t.Fatalf("register failed: status %d", w.Result().StatusCode)
	}

	var registered auth.Result
	if err := json.NewDecoder(w.Result().Body).Decode(&registered); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	if registered.Token == "" || registered.User.Username != "user1" {
		t.Fatalf("unexpected register response: %+v", registered)
	}

	w = doJSON(t, handler, http.MethodPost, "/auth/login", `{"username":"user1","password":"secret123"}`, "")
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("login failed: status %d", w.Result().StatusCode)
	}

	var loggedIn auth.Result
	if err := json.NewDecoder(w.Result().Body).Decode(&loggedIn); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token := loggedIn.Token
	if token == "" {
		t.Fatal("token not found in login response")
	}

	w = doJSON(t, handler, http.MethodPost, "/calculations/starting", `{"number":42}`, token)
	if w.Result().StatusCode != http.StatusCreated {
		t.Fatalf("creating starting number failed: status %d", w.Result().StatusCode)
	}

	var sn struct {
		ID     int64   `json:"id"`
		Number float64 `json:"number"`
	}
	if err := json.NewDecoder(w.Result().Body).Decode(&sn); err != nil {
		t.Fatalf("failed to decode starting number response: %v", err)
	}
	if sn.Number != 42 {
		t.Fatalf("expected number 42, got %g", sn.Number)
	}

	opBody := fmt.Sprintf(`{"parent_id":%d,"parent_type":"starting","operation_type":"add","right_operand":8}`, sn.ID)
	w = doJSON(t, handler, http.MethodPost, "/calculations/operation", opBody, token)
	if w.Result().StatusCode != http.StatusCreated {
		t.Fatalf("creating operation failed: status %d", w.Result().StatusCode)
	}

	var op struct {
		Result float64 `json:"result"`
	}
	if err := json.NewDecoder(w.Result().Body).Decode(&op); err != nil {
		t.Fatalf("failed to decode operation response: %v", err)
	}
	if op.Result != 50 {
		t.Fatalf("expected result 50, got %g", op.Result)
	}

	// The tree is readable without a token.
	w = doJSON(t, handler, http.MethodGet, "/calculations", "", "")
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("fetching calculations failed: status %d", w.Result().StatusCode)
	}

	var trees []calculation.OperationNode
	if err := json.NewDecoder(w.Result().Body).Decode(&trees); err != nil {
		t.Fatalf("failed to decode tree response: %v", err)
	}
	if len(trees) != 1 || trees[0].Value != 42 {
		t.Fatalf("unexpected tree roots: %+v", trees)
	}
	if len(trees[0].Children) != 1 || trees[0].Children[0].Value != 50 {
		t.Fatalf("unexpected tree children: %+v", trees[0].Children)
	}
}

func TestIntegrationUnauthorized(t *testing.T) {
	handler := setupServer(t)

	w := doJSON(t, handler, http.MethodPost, "/calculations/starting", `{"number":42}`, "")
	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Result().StatusCode)
	}

	w = doJSON(t, handler, http.MethodPost, "/calculations/starting", `{"number":42}`, "garbage")
	if w.Result().StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for an invalid token, got %d", w.Result().StatusCode)
	}
}

func TestIntegrationInvalidLogin(t *testing.T) {
	handler := setupServer(t)

	w := doJSON(t, handler, http.MethodPost, "/auth/login", `{"username":"nonexistent","password":"secret123"}`, "")
	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid login, got %d", w.Result().StatusCode)
	}
}

func TestIntegrationInvalidRegister(t *testing.T) {
	handler := setupServer(t)

	w := doJSON(t, handler, http.MethodPost, "/auth/register", `{"username":"","password":"secret123"}`, "")
	if w.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty username, got %d", w.Result().StatusCode)
	}

	w = doJSON(t, handler, http.MethodPost, "/auth/register", `{"username":"user1","password":"123"}`, "")
	if w.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", w.Result().StatusCode)
	}
}

func TestIntegrationHealth(t *testing.T) {
	handler := setupServer(t)

	w := doJSON(t, handler, http.MethodGet, "/health", "", "")
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", w.Result().StatusCode)
	}
}
