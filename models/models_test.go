package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestRole_UnmarshalRejectsUnknown(t *testing.T) {
	var payload struct {
		Role Role `json:"role"`
	}
	err := json.Unmarshal([]byte(`{"role":"admin"}`), &payload)
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
	var enumErr *EnumError
	if !errors.As(err, &enumErr) {
		t.Fatalf("expected EnumError, got %T: %v", err, err)
	}
	if enumErr.Field != "role" || enumErr.Value != "admin" {
		t.Errorf("unexpected enum error: %+v", enumErr)
	}
}

func TestRole_UnmarshalKnown(t *testing.T) {
	var payload struct {
		Role Role `json:"role"`
	}
	if err := json.Unmarshal([]byte(`{"role":"manager"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Role != RoleManager {
		t.Errorf("role: got %q, want %q", payload.Role, RoleManager)
	}
}

func TestSeniority_NullLeavesUnset(t *testing.T) {
	var payload struct {
		Seniority Seniority `json:"seniority"`
	}
	if err := json.Unmarshal([]byte(`{"seniority":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Seniority != "" {
		t.Errorf("seniority: got %q, want empty", payload.Seniority)
	}
	if err := json.Unmarshal([]byte(`{"seniority":"principal"}`), &payload); err == nil {
		t.Error("expected error for unknown seniority")
	}
}

func TestProjectStatus_Valid(t *testing.T) {
	for _, s := range []ProjectStatus{StatusPlanning, StatusActive, StatusCompleted} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if ProjectStatus("archived").Valid() {
		t.Error("archived should not be valid")
	}
	if ProjectStatus("").Valid() {
		t.Error("empty status should not be valid")
	}
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2024, time.March, 9)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-03-09"` {
		t.Errorf("marshal: got %s", b)
	}

	var parsed Date
	if err := json.Unmarshal([]byte(`"2025-12-31"`), &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.String() != "2025-12-31" {
		t.Errorf("unmarshal: got %s", parsed)
	}

	if err := json.Unmarshal([]byte(`"31/12/2025"`), &parsed); err == nil {
		t.Error("expected error for wrong layout")
	}
}

func TestAssignment_ActiveOn(t *testing.T) {
	today := NewDate(2024, time.June, 15)
	yesterday := NewDate(2024, time.June, 14)

	open := Assignment{}
	if !open.ActiveOn(today) {
		t.Error("open-ended assignment should be active")
	}

	endsToday := Assignment{EndDate: &today}
	if !endsToday.ActiveOn(today) {
		t.Error("assignment ending today should be active")
	}

	ended := Assignment{EndDate: &yesterday}
	if ended.ActiveOn(today) {
		t.Error("assignment ended yesterday should not be active")
	}
}

func TestUser_CanView(t *testing.T) {
	manager := User{ID: 1, Role: RoleManager}
	engineer := User{ID: 2, Role: RoleEngineer}

	if !manager.CanView(2) {
		t.Error("manager should view any user")
	}
	if !engineer.CanView(2) {
		t.Error("engineer should view themself")
	}
	if engineer.CanView(1) {
		t.Error("engineer should not view other users")
	}
}
