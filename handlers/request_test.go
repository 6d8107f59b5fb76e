package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidator_FieldNames(t *testing.T) {
	v := NewValidator()
	alloc := 101
	errs := v.Struct(&AssignmentRequest{EngineerID: 1, ProjectID: 1, AllocationPercentage: &alloc})
	if len(errs) != 1 {
		t.Fatalf("errors: got %+v", errs)
	}
	if errs[0].Field != "allocationPercentage" || errs[0].Message != "must be at most 100" {
		t.Errorf("error: got %+v", errs[0])
	}

	zero := 0
	if errs := v.Struct(&AssignmentRequest{EngineerID: 1, ProjectID: 1, AllocationPercentage: &zero}); errs != nil {
		t.Errorf("zero allocation rejected: %+v", errs)
	}
}

func TestDecodeAndValidate(t *testing.T) {
	v := NewValidator()
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"email":`, http.StatusBadRequest},
		{"wrong type", `{"email":"a@example.com","name":"A","role":"engineer","password":"secret","maxCapacity":"lots"}`, http.StatusUnprocessableEntity},
		{"unknown enum", `{"email":"a@example.com","name":"A","role":"intern","password":"secret"}`, http.StatusUnprocessableEntity},
		{"short password", `{"email":"a@example.com","name":"A","role":"engineer","password":"abc"}`, http.StatusUnprocessableEntity},
		{"null seniority", `{"email":"a@example.com","name":"A","role":"manager","password":"secret","seniority":null}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			var req RegisterRequest
			ok := v.decodeAndValidate(w, r, &req)

			if tt.status == http.StatusOK {
				if !ok {
					t.Fatalf("rejected: %s", w.Body.String())
				}
				return
			}
			if ok {
				t.Fatal("accepted invalid body")
			}
			if w.Code != tt.status {
				t.Errorf("status: got %d, want %d", w.Code, tt.status)
			}
			var body map[string]json.RawMessage
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, ok := body["detail"]; !ok {
				t.Errorf("missing detail: %s", w.Body.String())
			}
		})
	}
}
