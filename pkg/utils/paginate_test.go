package utils

import "testing"

func TestParsePage(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"1", 1},
		{"7", 7},
		{"abc", 1},
		{"", 1},
		{"0", 1},
		{"-3", 1},
		{"2.5", 1},
	}
	for _, c := range cases {
		if got := ParsePage(c.raw); got != c.want {
			t.Errorf("ParsePage(%q) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestPaginateClampsToLastPage(t *testing.T) {
	// 8 items, page size 5 -> 2 pages; page 9999 clamps to 2.
	p, offset := Paginate(8, 9999, 5)
	if p.CurrentPage != 2 {
		t.Errorf("CurrentPage = %d, want 2", p.CurrentPage)
	}
	if p.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", p.TotalPages)
	}
	if offset != 5 {
		t.Errorf("offset = %d, want 5", offset)
	}
	if p.HasNext {
		t.Error("HasNext = true on last page")
	}
	if !p.HasPrev {
		t.Error("HasPrev = false on last page")
	}
}

func TestPaginateOffsetMatchesClampedPage(t *testing.T) {
	// 30 items, page size 20 -> 2 pages. An absurd page number must clamp
	// page and offset together, so listings never pair last-page metadata
	// with an empty row set.
	p, offset := Paginate(30, 9999, 20)
	if p.CurrentPage != 2 || offset != 20 {
		t.Errorf("Paginate(30, 9999, 20) = page %d offset %d, want page 2 offset 20", p.CurrentPage, offset)
	}
}

func TestPaginateFirstPage(t *testing.T) {
	p, offset := Paginate(8, 0, 5)
	if p.CurrentPage != 1 || offset != 0 {
		t.Errorf("page 0 should clamp to page 1 offset 0, got page %d offset %d", p.CurrentPage, offset)
	}
	if !p.HasNext || p.HasPrev {
		t.Errorf("unexpected nav flags on first page: next=%t prev=%t", p.HasNext, p.HasPrev)
	}
}

func TestPaginateEmptyCollection(t *testing.T) {
	p, offset := Paginate(0, 3, 5)
	if p.CurrentPage != 1 || p.TotalPages != 1 || offset != 0 {
		t.Errorf("empty collection: got page %d of %d, offset %d", p.CurrentPage, p.TotalPages, offset)
	}
	if p.HasNext || p.HasPrev {
		t.Error("empty collection should have no next/prev")
	}
}

func TestPaginateHugePageSizeHonored(t *testing.T) {
	// Page size is caller-controlled and not capped.
	p, _ := Paginate(10, 1, 100000)
	if p.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", p.TotalPages)
	}
	if p.PageSize != 100000 {
		t.Errorf("PageSize = %d, want 100000", p.PageSize)
	}
}
