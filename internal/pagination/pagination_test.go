package pagination

import (
	"strconv"
	"testing"
)

func TestPageRequest_Defaults(t *testing.T) {
	var p PageRequest
	p.Defaults()
	if p.Page != 1 || p.PageSize != 20 {
		t.Errorf("expected page 1 size 20, got page %d size %d", p.Page, p.PageSize)
	}

	p = PageRequest{Page: 3, PageSize: 5}
	p.Defaults()
	if p.Page != 3 || p.PageSize != 5 {
		t.Errorf("explicit values must be kept, got page %d size %d", p.Page, p.PageSize)
	}
}

func TestPageRequest_Offset(t *testing.T) {
	p := PageRequest{Page: 3, PageSize: 10}
	if got := p.Offset(); got != 20 {
		t.Errorf("expected offset 20, got %d", got)
	}
}

func TestNewPageResponse(t *testing.T) {
	t.Run("total_pages_rounds_up", func(t *testing.T) {
		resp := NewPageResponse([]int{1, 2}, 1, 2, 5)
		if resp.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", resp.TotalPages)
		}
	})

	t.Run("nil_data_becomes_empty", func(t *testing.T) {
		resp := NewPageResponse[int](nil, 1, 20, 0)
		if resp.Data == nil {
			t.Fatal("expected non-nil data")
		}
		if resp.TotalPages != 0 {
			t.Errorf("expected 0 pages, got %d", resp.TotalPages)
		}
	})
}

func TestMap(t *testing.T) {
	page := NewPageResponse([]int{1, 2, 3}, 2, 3, 9)
	mapped := Map(page, strconv.Itoa)

	if len(mapped.Data) != 3 || mapped.Data[2] != "3" {
		t.Errorf("unexpected data %v", mapped.Data)
	}
	if mapped.Page != 2 || mapped.PageSize != 3 || mapped.TotalItems != 9 || mapped.TotalPages != 3 {
		t.Errorf("metadata not preserved: %+v", mapped)
	}
}
