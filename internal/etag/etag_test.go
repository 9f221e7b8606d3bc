package etag_test

import (
	"strings"
	"testing"

	"perfectapi/internal/etag"
)

func TestCompute_Format(t *testing.T) {
	tag, err := etag.Compute(map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !strings.HasPrefix(tag, `W/"`) || !strings.HasSuffix(tag, `"`) {
		t.Fatalf("expected weak tag format, got %q", tag)
	}
	// sha256 hex digest inside W/"..."
	if len(tag) != len(`W/""`)+64 {
		t.Fatalf("expected 64 hex chars in tag, got %q", tag)
	}
}

func TestCompute_IgnoresFieldOrder(t *testing.T) {
	type ab struct {
		A string `json:"a"`
		B int    `json:"b"`
	}
	type ba struct {
		B int    `json:"b"`
		A string `json:"a"`
	}

	first, err := etag.Compute(ab{A: "x", B: 2})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	second, err := etag.Compute(ba{B: 2, A: "x"})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical tags, got %q and %q", first, second)
	}
}

func TestCompute_ChangesWithContent(t *testing.T) {
	first, err := etag.Compute(map[string]string{"total": "25.01"})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	second, err := etag.Compute(map[string]string{"total": "25.02"})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if first == second {
		t.Fatal("expected different tags for different payloads")
	}
}

func TestMatch(t *testing.T) {
	tag := `W/"abc123"`

	cases := []struct {
		name   string
		header string
		want   bool
	}{
		{"empty header", "", false},
		{"exact", `W/"abc123"`, true},
		{"list with match", `W/"zzz", W/"abc123"`, true},
		{"list without match", `W/"zzz", W/"yyy"`, false},
		{"wildcard", "*", true},
		{"strong form does not match weak", `"abc123"`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := etag.Match(tc.header, tag); got != tc.want {
				t.Fatalf("Match(%q) = %v, want %v", tc.header, got, tc.want)
			}
		})
	}
}
