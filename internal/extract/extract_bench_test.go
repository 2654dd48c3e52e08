package extract

import (
	"fmt"
	"strings"
	"testing"
)

// Benchmark FromHTML on representative report sizes.
func BenchmarkFromHTML(b *testing.B) {
	small := makeReport(10, 4)
	medium := makeReport(500, 8)
	large := makeReport(5000, 12)

	b.Run("small", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = FromHTML(small)
		}
	})
	b.Run("medium", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = FromHTML(medium)
		}
	})
	b.Run("large", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = FromHTML(large)
		}
	})
}

func makeReport(rows, cols int) string {
	builder := new(strings.Builder)
	builder.WriteString("<html><body><h1>Strategy Tester Report</h1><table>")
	builder.WriteString("<tr>")
	for c := 0; c < cols; c++ {
		fmt.Fprintf(builder, "<th>Column %d</th>", c+1)
	}
	builder.WriteString("</tr>")
	for r := 0; r < rows; r++ {
		builder.WriteString("<tr>")
		for c := 0; c < cols; c++ {
			fmt.Fprintf(builder, "<td>%d.%02d</td>", r, c)
		}
		builder.WriteString("</tr>")
	}
	builder.WriteString("</table></body></html>")
	return builder.String()
}
