package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

type sampleInput struct {
	ContractId int    `validate:"required"`
	ReportNo   string `validate:"required"`
}

func TestValidateStructAndProcessErrors(t *testing.T) {
	err := ValidateStruct(sampleInput{})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	fields := ProcessValidationErrors(err)
	if fields["ContractId"] != "required" || fields["ReportNo"] != "required" {
		t.Fatalf("unexpected fields: %v", fields)
	}

	if err := ValidateStruct(sampleInput{ContractId: 1, ReportNo: "8"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProcessValidationErrors_NonValidationError(t *testing.T) {
	fields := ProcessValidationErrors(errors.New("boom"))
	if len(fields) != 0 {
		t.Fatalf("expected empty map, got %v", fields)
	}
}

func TestDereferencePtr(t *testing.T) {
	var s *string
	if got := DereferencePtr(s, "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	v := "x"
	if got := DereferencePtr(&v); got != "x" {
		t.Fatalf("expected x, got %q", got)
	}
}

func TestObtainBestEffortLock_WithoutRedis(t *testing.T) {
	release := ObtainBestEffortLock(context.Background(), "report-no:2024-2025:A", time.Second, "utils", "test")
	if release == nil {
		t.Fatalf("release must never be nil")
	}
	release()
}
