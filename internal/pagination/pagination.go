// Package pagination computes page slices and self/next/prev links for an
// already-filtered, already-sorted collection view.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Bounds returns the half-open index range [lo, hi) for the given 1-based
// page and page size, clipped to [0, n). A page beyond the last one yields an
// empty range, not an error. The page count is checked before the offset is
// computed, so (page-1)*size cannot overflow on arbitrarily large pages.
func Bounds(n, page, size int) (lo, hi int) {
	if page > (n+size-1)/size {
		return n, n
	}
	lo = (page - 1) * size
	hi = lo + size
	if hi > n {
		hi = n
	}
	return lo, hi
}

// Slice applies Bounds to items.
func Slice[T any](items []T, page, size int) []T {
	lo, hi := Bounds(len(items), page, size)
	return items[lo:hi]
}

// Links is the navigation link set for a collection response.
type Links struct {
	Self string  `json:"self"`
	Next *string `json:"next"`
	Prev *string `json:"prev"`
}

// Build produces self/next/prev links from the requesting URL. Existing query
// parameters are preserved; page and page_size are forced to the requested
// values. next is present iff a later page exists, prev iff page > 1. The
// page-count comparison avoids the overflow in page*size for huge pages.
func Build(u *url.URL, page, size, total int) Links {
	links := Links{Self: withPage(u, page, size)}
	if page < (total+size-1)/size {
		next := withPage(u, page+1, size)
		links.Next = &next
	}
	if page > 1 {
		prev := withPage(u, page-1, size)
		links.Prev = &prev
	}
	return links
}

func withPage(u *url.URL, page, size int) string {
	out := *u
	q := out.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(size))
	out.RawQuery = q.Encode()
	return out.String()
}
