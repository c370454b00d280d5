package model

import (
	"testing"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		sigCount int
		expected string
	}{
		{"no signatures", StatusPending, 0, StatusPending},
		{"one signature", StatusPending, 1, StatusProcessing},
		{"threshold reached", StatusProcessing, 2, StatusApproved},
		{"beyond threshold", StatusProcessing, 3, StatusApproved},
		{"rejected is terminal with no signatures", StatusRejected, 0, StatusRejected},
		{"rejected is terminal despite signatures", StatusRejected, 2, StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.current, tt.sigCount)
			if got != tt.expected {
				t.Errorf("Expected status %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestDeriveStatusIsPure(t *testing.T) {
	// Recomputing from the same count must always give the same answer
	for i := 0; i < 5; i++ {
		if DeriveStatus(StatusPending, 1) != StatusProcessing {
			t.Fatal("Expected identical derivation on repeated calls")
		}
	}
}

func TestPlacementFor(t *testing.T) {
	tests := []struct {
		role string
		x    float64
		y    float64
	}{
		{RoleDirector, 400, 100},
		{RoleSecretary, 400, 200},
		{RoleResponsible, 400, 300},
		{RoleStaff, 400, 400},
		{"unknown-role", 400, 400},
		{"", 400, 400},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			p := PlacementFor(tt.role)
			if p.X != tt.x || p.Y != tt.y {
				t.Errorf("Expected (%v, %v) for role %q, got (%v, %v)", tt.x, tt.y, tt.role, p.X, p.Y)
			}
		})
	}
}

func TestCanSubmit(t *testing.T) {
	if !CanSubmit(RoleStaff) {
		t.Error("Expected staff to be able to submit orders")
	}
	for _, role := range []string{RoleDirector, RoleSecretary, RoleResponsible, ""} {
		if CanSubmit(role) {
			t.Errorf("Expected role %q to not submit orders", role)
		}
	}
}

func TestCanSign(t *testing.T) {
	for _, role := range []string{RoleDirector, RoleSecretary, RoleResponsible} {
		if !CanSign(role) {
			t.Errorf("Expected role %q to be able to sign", role)
		}
	}
	for _, role := range []string{RoleStaff, "admin", ""} {
		if CanSign(role) {
			t.Errorf("Expected role %q to not sign", role)
		}
	}
}
