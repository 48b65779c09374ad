package mode

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/cityscout/internal/domain"
)

func TestIsValid(t *testing.T) {
	valid := []Mode{Hybrid, Preferences, Similarity, Cluster}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", m)
		}
	}

	invalid := []Mode{"", "content", "HYBRID", "semantic"}
	for _, m := range invalid {
		if m.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", m)
		}
	}
}

func TestParse(t *testing.T) {
	m, err := Parse("")
	if err != nil || m != Hybrid {
		t.Fatalf("Parse(\"\") = %q, %v; want hybrid", m, err)
	}
	m, err = Parse("similarity")
	if err != nil || m != Similarity {
		t.Fatalf("Parse(similarity) = %q, %v", m, err)
	}
	if _, err := Parse("random"); !errors.Is(err, domain.ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}
