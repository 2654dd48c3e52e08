package selecter

import (
	"errors"
	"fmt"

	"github.com/hyperifyio/goreportcsv/internal/extract"
)

// ErrInvalidRange indicates manual bounds that do not address existing data
// rows. Callers must re-prompt; bounds are never clamped, since clamping
// would hide an indexing mistake.
var ErrInvalidRange = errors.New("invalid row range")

// Mode is a row-selection policy over the data rows of a grid. The header
// row is outside every policy: it is always retained and prepended.
type Mode interface {
	// bounds computes the half-open data-row interval [lo, hi) kept from a
	// grid with n data rows.
	bounds(n int) (lo, hi int, err error)
	// String names the policy for logs and snapshots.
	String() string
}

// Automatic keeps the lower half of the data rows, floor-dividing the row
// count, which is how backtest reports bury the interesting recent trades at
// the bottom.
type Automatic struct{}

func (Automatic) bounds(n int) (int, int, error) { return n / 2, n, nil }

func (Automatic) String() string { return "automatic" }

// Manual keeps the inclusive range [Start, End] of data rows, 0-based.
type Manual struct {
	Start int
	End   int
}

func (m Manual) bounds(n int) (int, int, error) {
	if m.Start < 0 || m.Start > m.End || m.End >= n {
		return 0, 0, fmt.Errorf("%w: start=%d end=%d rows=%d", ErrInvalidRange, m.Start, m.End, n)
	}
	return m.Start, m.End + 1, nil
}

func (m Manual) String() string { return fmt.Sprintf("manual[%d..%d]", m.Start, m.End) }

// Selection is the view of a grid restricted to the chosen data rows, header
// included. It stays as ragged as its source; CSV rendering pads it.
type Selection struct {
	Header []string
	Rows   [][]string
}

// RowCount returns the number of selected data rows, excluding the header.
func (s Selection) RowCount() int { return len(s.Rows) }

// MaxColumns returns the widest column count observed across the header and
// the selected rows.
func (s Selection) MaxColumns() int {
	max := len(s.Header)
	for _, row := range s.Rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// Apply resolves the mode against the grid and returns the selected view.
// Invalid manual bounds fail with ErrInvalidRange and select nothing.
func Apply(g extract.Grid, m Mode) (Selection, error) {
	lo, hi, err := m.bounds(g.RowCount())
	if err != nil {
		return Selection{}, err
	}
	rows := make([][]string, hi-lo)
	copy(rows, g.Rows[lo:hi])
	return Selection{Header: g.Header, Rows: rows}, nil
}
