package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	sel "github.com/hyperifyio/goreportcsv/internal/select"
)

// CSV encodes the selection as CSV bytes ready for download. The header
// record comes first, every record is padded with empty cells to the widest
// observed column count, and the output is plain UTF-8 with no byte order
// mark.
func CSV(s sel.Selection) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	width := s.MaxColumns()
	if err := w.Write(pad(s.Header, width)); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, row := range s.Rows {
		if err := w.Write(pad(row, width)); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// pad extends row with empty trailing cells up to width. Rows already at or
// beyond width are returned as is.
func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

// Filename derives the suggested download name from the uploaded file's
// name: converted_<base>.csv where <base> is the original base name with its
// extension dropped. Directory components are stripped so a hostile filename
// cannot suggest a path.
func Filename(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "report"
	}
	return "converted_" + base + ".csv"
}
