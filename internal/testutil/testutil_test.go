package testutil

import (
	"errors"
	"math"
	"testing"
)

func TestAssertNoError_NilErr(t *testing.T) {
	fakeT := &testing.T{}
	AssertNoError(fakeT, nil)
	if fakeT.Failed() {
		t.Error("expected no failure for nil error")
	}
}

func TestAssertError_WithErr(t *testing.T) {
	fakeT := &testing.T{}
	AssertError(fakeT, errors.New("something wrong"))
	if fakeT.Failed() {
		t.Error("expected no failure for non-nil error")
	}
}

func TestAssertInDelta(t *testing.T) {
	tests := []struct {
		name      string
		got, want float64
		tol       float64
		wantFail  bool
	}{
		{"within tolerance", 1.0001, 1.0, 0.001, false},
		{"outside tolerance", 1.01, 1.0, 0.001, true},
		{"both positive inf", math.Inf(1), math.Inf(1), 0.001, false},
		{"inf vs finite", math.Inf(1), 1.0, 0.001, true},
		{"finite vs inf", 1.0, math.Inf(1), 0.001, true},
		{"mismatched inf signs", math.Inf(-1), math.Inf(1), 0.001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeT := &testing.T{}
			AssertInDelta(fakeT, tt.got, tt.want, tt.tol)
			if fakeT.Failed() != tt.wantFail {
				t.Errorf("failed = %v, want %v", fakeT.Failed(), tt.wantFail)
			}
		})
	}
}
