package keyword

import (
	"context"
	"reflect"
	"testing"

	"github.com/kailas-cloud/rex/internal/domain/search/mode"
)

func TestNaive_Tokens(t *testing.T) {
	n := NewNaive(0)

	tests := []struct {
		query string
		want  []string
	}{
		{"Italian food", []string{"italian", "food"}},
		{"  PIZZA, pizza!! Pizza?  ", []string{"pizza"}},
		{"Joe's Diner", []string{"joes", "diner"}},
		{"what is the best yoga mat for me", []string{"yoga", "mat"}},
		{"a b c", []string{}},
		{"", []string{}},
		{"   ", []string{}},
		{"4k tv/monitor", []string{"4k", "tv", "monitor"}},
		{"Café crème", []string{"café", "crème"}},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			got := n.Tokens(tc.query)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tokens(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}

func TestNaive_MinLength(t *testing.T) {
	n := NewNaive(4)
	got := n.Tokens("tea cake biscuit")
	want := []string{"cake", "biscuit"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNaive_ExtractReportsNaiveMode(t *testing.T) {
	kws, m := NewNaive(0).Extract(context.Background(), "pizza")
	if m != mode.Naive {
		t.Errorf("expected naive mode, got %s", m)
	}
	if len(kws) != 1 || kws[0] != "pizza" {
		t.Errorf("unexpected keywords %v", kws)
	}
}
