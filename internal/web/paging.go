package web

import "strconv"

const messagesPerPage = 5

type pager struct {
	Page  int
	Pages int
	Total int
}

func (p pager) HasPrev() bool { return p.Page > 1 }
func (p pager) HasNext() bool { return p.Page < p.Pages }
func (p pager) Prev() int     { return p.Page - 1 }
func (p pager) Next() int     { return p.Page + 1 }

// paginate returns the slice for the 1-based page, clamping out of range
// pages onto the first or last one.
func paginate[T any](items []T, page, perPage int) ([]T, pager) {
	pages := (len(items) + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * perPage
	end := start + perPage
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], pager{Page: page, Pages: pages, Total: len(items)}
}

// carousel is the home page slide position.
type carousel struct {
	Index int
	Count int
}

// newCarousel wraps any integer index into [0, count).
func newCarousel(raw string, count int) carousel {
	if count <= 0 {
		return carousel{}
	}
	i, _ := strconv.Atoi(raw)
	return carousel{Index: ((i % count) + count) % count, Count: count}
}

func (c carousel) Prev() int { return (c.Index - 1 + c.Count) % c.Count }
func (c carousel) Next() int { return (c.Index + 1) % c.Count }

func atoiDefault(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
