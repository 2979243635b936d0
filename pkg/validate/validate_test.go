package validate

import (
	"math"
	"testing"

	pkgerrors "github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/errors"
)

type sample struct {
	Rating float64 `json:"rating" validate:"gte=0,lte=5"`
	Name   string  `json:"name" validate:"required"`
}

func TestStructReportsFieldDetails(t *testing.T) {
	err := Struct(sample{Rating: 7})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	if !ok {
		t.Fatalf("expected map details, got %T", pkgerrors.As(err).Details())
	}
	if details["rating"] != "must be at most 5" {
		t.Fatalf("unexpected rating message %q", details["rating"])
	}
	if details["name"] != "is required" {
		t.Fatalf("unexpected name message %q", details["name"])
	}
}

func TestStructAcceptsValid(t *testing.T) {
	if err := Struct(sample{Rating: 4.5, Name: "chai stall"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVarRejectsNaN(t *testing.T) {
	err := Var("distance_km", math.NaN(), "gte=0")
	if err == nil {
		t.Fatal("expected NaN to fail gte=0")
	}
	details := pkgerrors.As(err).Details().(map[string]string)
	if _, ok := details["distance_km"]; !ok {
		t.Fatalf("expected details keyed by field name, got %v", details)
	}
}
