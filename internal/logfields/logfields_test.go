package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"File", KeyFile, "index.html", File("index.html")},
		{"Tag", KeyTag, "script", Tag("script")},
		{"Attribute", KeyAttribute, "data-build", Attribute("data-build")},
		{"Pattern", KeyPattern, "js/**/*.js", Pattern("js/**/*.js")},
		{"BuildType", KeyBuildType, "release", BuildType("release")},
		{"Block", KeyBlock, "head", Block("head")},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Fatalf("%s key mismatch: got %s want %s", c.name, c.attr.Key, c.attrKey)
		}
		if c.attr.Value.String() != c.attrVal {
			t.Fatalf("%s value mismatch: got %s want %s", c.name, c.attr.Value.String(), c.attrVal)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if got := Matches(3).Value.Int64(); got != 3 {
		t.Fatalf("Matches = %d", got)
	}
	if got := Depth(2).Value.Int64(); got != 2 {
		t.Fatalf("Depth = %d", got)
	}
	if got := DurationMS(1.5).Value.Float64(); got != 1.5 {
		t.Fatalf("DurationMS = %v", got)
	}
}

func TestErrorHelper(t *testing.T) {
	if Error(nil).Value.String() != "" {
		t.Fatalf("nil error should produce empty value")
	}
	if Error(errors.New("boom")).Value.String() != "boom" {
		t.Fatalf("error text not preserved")
	}
}
