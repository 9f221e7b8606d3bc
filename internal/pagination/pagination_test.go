package pagination_test

import (
	"math"
	"net/url"
	"testing"

	"perfectapi/internal/pagination"
)

func TestBounds(t *testing.T) {
	cases := []struct {
		name             string
		n, page, size    int
		wantLo, wantHi   int
	}{
		{"first page", 10, 1, 3, 0, 3},
		{"middle page", 10, 2, 3, 3, 6},
		{"partial last page", 10, 4, 3, 9, 10},
		{"page beyond end", 10, 5, 3, 10, 10},
		{"far beyond end", 3, 100, 25, 3, 3},
		{"empty collection", 0, 1, 25, 0, 0},
		{"size equals total", 5, 1, 5, 0, 5},
		{"max int page", 10, math.MaxInt, 100, 10, 10},
		{"max int page on empty collection", 0, math.MaxInt, 25, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lo, hi := pagination.Bounds(tc.n, tc.page, tc.size)
			if lo != tc.wantLo || hi != tc.wantHi {
				t.Fatalf("Bounds(%d, %d, %d) = [%d, %d), want [%d, %d)",
					tc.n, tc.page, tc.size, lo, hi, tc.wantLo, tc.wantHi)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	got := pagination.Slice(items, 2, 2)
	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Fatalf("Slice page 2 size 2 = %v, want [3 4]", got)
	}
	if out := pagination.Slice(items, 10, 2); len(out) != 0 {
		t.Fatalf("expected empty slice beyond the end, got %v", out)
	}
}

func TestSlice_MaxIntPageIsEmpty(t *testing.T) {
	items := []int{1, 2, 3}
	// (page-1)*size would wrap negative here; the result must still be the
	// empty page, not a panic.
	if out := pagination.Slice(items, math.MaxInt, 100); len(out) != 0 {
		t.Fatalf("expected empty slice for max int page, got %v", out)
	}
}

func TestBuild_MiddlePage(t *testing.T) {
	u, _ := url.Parse("http://api.test/users?sort=email&page=2&page_size=2")
	links := pagination.Build(u, 2, 2, 5)

	if links.Self != "http://api.test/users?page=2&page_size=2&sort=email" {
		t.Fatalf("unexpected self link %q", links.Self)
	}
	if links.Next == nil || *links.Next != "http://api.test/users?page=3&page_size=2&sort=email" {
		t.Fatalf("unexpected next link %v", links.Next)
	}
	if links.Prev == nil || *links.Prev != "http://api.test/users?page=1&page_size=2&sort=email" {
		t.Fatalf("unexpected prev link %v", links.Prev)
	}
}

func TestBuild_Edges(t *testing.T) {
	u, _ := url.Parse("http://api.test/users")

	first := pagination.Build(u, 1, 25, 30)
	if first.Prev != nil {
		t.Fatalf("expected no prev on the first page, got %q", *first.Prev)
	}
	if first.Next == nil {
		t.Fatal("expected next on the first page")
	}

	last := pagination.Build(u, 2, 25, 30)
	if last.Next != nil {
		t.Fatalf("expected no next on the last page, got %q", *last.Next)
	}
	if last.Prev == nil {
		t.Fatal("expected prev on the last page")
	}

	exact := pagination.Build(u, 1, 25, 25)
	if exact.Next != nil {
		t.Fatal("expected no next when the first page holds everything")
	}

	huge := pagination.Build(u, math.MaxInt, 100, 250)
	if huge.Next != nil {
		t.Fatalf("expected no next on a max int page, got %q", *huge.Next)
	}
	if huge.Prev == nil {
		t.Fatal("expected prev on a max int page")
	}
}
