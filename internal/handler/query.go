package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"perfectapi/internal/pagination"
)

// pageParams extracts and validates the page and page_size query parameters.
func pageParams(r *http.Request) (page, size int, err error) {
	page, err = queryInt(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	if page < 1 {
		return 0, 0, fmt.Errorf("page: must be >= 1")
	}

	size, err = queryInt(r, "page_size", pagination.DefaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if size < 1 || size > pagination.MaxPageSize {
		return 0, 0, fmt.Errorf("page_size: must be between 1 and %d", pagination.MaxPageSize)
	}
	return page, size, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: must be an integer", name)
	}
	return v, nil
}

// absoluteURL rebuilds the request URL with scheme and host filled in, so
// pagination links are absolute.
func absoluteURL(r *http.Request) *url.URL {
	u := *r.URL
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	u.Host = r.Host
	return &u
}
