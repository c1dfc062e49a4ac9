package listing

import (
	"math"
	"testing"
)

func TestParseOrder(t *testing.T) {
	cases := map[string]Order{"": Asc, "asc": Asc, "DESC": Desc, " desc ": Desc, "sideways": Asc}
	for in, want := range cases {
		if got := ParseOrder(in); got != want {
			t.Errorf("ParseOrder(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalize_Defaults(t *testing.T) {
	q := Query{Page: -1, Limit: 0}.Normalize(0)
	if q.Page != 1 || q.Limit != DefaultLimit || q.Order != Asc {
		t.Errorf("unexpected normalized query: %+v", q)
	}
	q = Query{Page: 3, Limit: 5, Order: Desc}.Normalize(50)
	if q.Page != 3 || q.Limit != 5 || q.Order != Desc {
		t.Errorf("explicit values must survive: %+v", q)
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name     string
		q        Query
		want     []int
		hasMore  bool
	}{
		{"first page", Query{Page: 1, Limit: 2}, []int{1, 2}, true},
		{"last full page", Query{Page: 1, Limit: 5}, []int{1, 2, 3, 4, 5}, false},
		{"tail page", Query{Page: 3, Limit: 2}, []int{5}, false},
		{"beyond end", Query{Page: 9, Limit: 2}, []int{}, false},
		{"huge page", Query{Page: math.MaxInt, Limit: 2}, []int{}, false},
		{"huge page and limit", Query{Page: math.MaxInt, Limit: math.MaxInt}, []int{}, false},
		{"huge limit", Query{Page: 1, Limit: math.MaxInt}, []int{1, 2, 3, 4, 5}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Slice(items, tc.q)
			if len(p.Items) != len(tc.want) {
				t.Fatalf("items = %v, want %v", p.Items, tc.want)
			}
			for i := range tc.want {
				if p.Items[i] != tc.want[i] {
					t.Errorf("items[%d] = %d, want %d", i, p.Items[i], tc.want[i])
				}
			}
			if p.HasMore != tc.hasMore {
				t.Errorf("HasMore = %v, want %v", p.HasMore, tc.hasMore)
			}
			if p.Total != len(items) {
				t.Errorf("Total = %d", p.Total)
			}
		})
	}
}
