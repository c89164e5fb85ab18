package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/geal-ai/omiswath"
)

// WriteText writes t as comma-separated text with a header line.
// Numbers are printed in their shortest round-trip form.
func WriteText(w io.Writer, t *Table) error {
	bw := bufio.NewWriterSize(w, 256*1024)
	cw := csv.NewWriter(bw)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}
	rec := make([]string, len(t.Columns))
	for i := 0; i < t.Len(); i++ {
		for j, c := range t.Columns {
			rec[j] = omiswath.FormatFloat(c[i])
		}
		_ = cw.Write(rec) // error is buffered; checked after Flush
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return bw.Flush()
}
