package export

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
)

// maxSheetRows is the row limit of an xlsx worksheet.
const maxSheetRows = 1 << 20

// WriteXLSX writes t to a workbook with a single sheet.
func WriteXLSX(w io.Writer, sheet string, t *Table) error {
	if t.Len()+1 > maxSheetRows {
		return fmt.Errorf("export: %d rows do not fit in one sheet", t.Len())
	}
	file := xlsx.NewFile()
	sh, err := file.AddSheet(sheet)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	row := sh.AddRow()
	for _, h := range t.Header {
		row.AddCell().SetString(h)
	}
	for i := 0; i < t.Len(); i++ {
		row = sh.AddRow()
		for _, c := range t.Columns {
			row.AddCell().SetFloat(c[i])
		}
	}
	return file.Write(w)
}
