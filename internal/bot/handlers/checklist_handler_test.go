package handlers

import (
	"testing"
	"time"

	"github.com/edgard/healthbot/internal/config"
)

func TestChecklistTargetDay(t *testing.T) {
	t.Parallel()

	h := checklistHandler{deps: HandlerDeps{Config: &config.Config{}}}

	day, err := h.targetDay("/checklist 2025-06-01")
	if err != nil {
		t.Fatalf("explicit day: %v", err)
	}
	if day != "2025-06-01" {
		t.Errorf("explicit day = %q", day)
	}

	day, err = h.targetDay("/checklist")
	if err != nil {
		t.Fatalf("default day: %v", err)
	}
	if want := time.Now().UTC().Format(time.DateOnly); day != want {
		t.Errorf("default day = %q, want %q", day, want)
	}

	if _, err := h.targetDay("/checklist June 1st"); err == nil {
		t.Error("malformed date should be rejected")
	}
	if _, err := h.targetDay("/checklist 2025-13-40"); err == nil {
		t.Error("impossible date should be rejected")
	}
}
