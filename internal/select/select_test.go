package selecter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hyperifyio/goreportcsv/internal/extract"
)

func makeGrid(n int) extract.Grid {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("r%d", i), fmt.Sprintf("v%d", i)}
	}
	return extract.Grid{Header: []string{"id", "value"}, Rows: rows}
}

func TestApply_AutomaticKeepsLowerHalf(t *testing.T) {
	for n := 1; n <= 12; n++ {
		sel, err := Apply(makeGrid(n), Automatic{})
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		want := n - n/2
		if sel.RowCount() != want {
			t.Fatalf("n=%d: expected %d rows, got %d", n, want, sel.RowCount())
		}
		if sel.Rows[0][0] != fmt.Sprintf("r%d", n/2) {
			t.Fatalf("n=%d: expected first row r%d, got %q", n, n/2, sel.Rows[0][0])
		}
		if sel.Header[0] != "id" {
			t.Fatalf("n=%d: header must be retained, got %q", n, sel.Header)
		}
	}
}

func TestApply_AutomaticTenRowsSelectsFiveThroughNine(t *testing.T) {
	sel, err := Apply(makeGrid(10), Automatic{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.RowCount() != 5 {
		t.Fatalf("expected 5 rows, got %d", sel.RowCount())
	}
	if sel.Rows[0][0] != "r5" || sel.Rows[4][0] != "r9" {
		t.Fatalf("expected rows r5..r9, got %q..%q", sel.Rows[0][0], sel.Rows[4][0])
	}
}

func TestApply_ManualInclusiveCount(t *testing.T) {
	cases := []struct {
		start, end int
	}{
		{0, 0},
		{0, 2},
		{3, 7},
		{9, 9},
		{0, 9},
	}
	g := makeGrid(10)
	for _, tc := range cases {
		sel, err := Apply(g, Manual{Start: tc.start, End: tc.end})
		if err != nil {
			t.Fatalf("[%d,%d]: unexpected error: %v", tc.start, tc.end, err)
		}
		want := tc.end - tc.start + 1
		if sel.RowCount() != want {
			t.Fatalf("[%d,%d]: expected %d rows, got %d", tc.start, tc.end, want, sel.RowCount())
		}
		if sel.Rows[0][0] != fmt.Sprintf("r%d", tc.start) {
			t.Fatalf("[%d,%d]: expected first row r%d, got %q", tc.start, tc.end, tc.start, sel.Rows[0][0])
		}
	}
}

func TestApply_ManualInvalidRanges(t *testing.T) {
	g := makeGrid(10)
	cases := []Manual{
		{Start: 5, End: 4},
		{Start: -1, End: 3},
		{Start: 0, End: 10},
		{Start: 10, End: 10},
		{Start: -3, End: -1},
	}
	for _, m := range cases {
		_, err := Apply(g, m)
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("%s: expected ErrInvalidRange, got %v", m, err)
		}
	}
}

func TestApply_SelectionDoesNotAliasGrid(t *testing.T) {
	g := makeGrid(4)
	sel, err := Apply(g, Manual{Start: 1, End: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Rows[0][0] != "r1" || sel.Rows[1][0] != "r2" {
		t.Fatalf("unexpected selection: %q", sel.Rows)
	}
	// Appending to the selection must not disturb the source grid.
	sel.Rows = append(sel.Rows, []string{"x", "y"})
	if len(g.Rows) != 4 || g.Rows[3][0] != "r3" {
		t.Fatalf("source grid mutated: %q", g.Rows)
	}
}

func TestSelection_MaxColumnsTracksWidestRow(t *testing.T) {
	sel := Selection{
		Header: []string{"a", "b"},
		Rows:   [][]string{{"1"}, {"1", "2", "3"}},
	}
	if got := sel.MaxColumns(); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestModeStrings(t *testing.T) {
	if (Automatic{}).String() != "automatic" {
		t.Fatalf("unexpected automatic label: %q", Automatic{}.String())
	}
	if (Manual{Start: 2, End: 5}).String() != "manual[2..5]" {
		t.Fatalf("unexpected manual label: %q", Manual{Start: 2, End: 5}.String())
	}
}
