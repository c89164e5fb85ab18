package export_test

import (
	"bufio"
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/geal-ai/omiswath"
	"github.com/geal-ai/omiswath/internal/export"
	"github.com/geal-ai/omiswath/internal/ncf"
	"github.com/geal-ai/omiswath/internal/ncf/ncftest"
	"github.com/tealeg/xlsx"
)

const fillText = "-1.2676506002282294e+30"

func buildTable(t *testing.T, p omiswath.Product) *export.Table {
	t.Helper()
	f, err := ncf.Open(ncftest.Write(t, t.TempDir(), p))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	tab, err := export.Build(f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tab
}

func TestBuild(t *testing.T) {
	tab := buildTable(t, omiswath.SO2)
	wantHeader := "Year,Month,Day,Hour,Minute,Second,Latitude,Longitude," +
		"ColumnAmountSO2_PBL,ColumnAmountO3,QualityFlags_PBL"
	if got := strings.Join(tab.Header, ","); got != wantHeader {
		t.Errorf("header:\n got %s\nwant %s", got, wantHeader)
	}
	if tab.Len() != ncftest.Rows*ncftest.Cols {
		t.Fatalf("Len: got %d, want %d", tab.Len(), ncftest.Rows*ncftest.Cols)
	}

	tests := []struct {
		row  int
		want []float64
	}{
		{0, []float64{2008, 3, 18, 13, 19, 59, 10, 20, ncftest.Fill, ncftest.Fill, ncftest.Fill}},
		{7, []float64{2008, 3, 18, 13, 20, 1, 11, 22, 12, 24, 36}},
		{29, []float64{2008, 3, 18, 13, 20, 9, 15, 24, 54, 108, 162}},
	}
	for _, tc := range tests {
		got := tab.Row(tc.row)
		if len(got) != len(tc.want) {
			t.Fatalf("row %d: got %d columns, want %d", tc.row, len(got), len(tc.want))
		}
		for j := range got {
			if got[j] != tc.want[j] {
				t.Errorf("row %d %s: got %v, want %v", tc.row, tab.Header[j], got[j], tc.want[j])
			}
		}
	}
}

func TestBuildMissingField(t *testing.T) {
	g := ncftest.Granule(omiswath.NO2)
	g.Fields = g.Fields[:2]
	path := filepath.Join(t.TempDir(), ncftest.Name(omiswath.NO2))
	if err := ncf.Write(path, g); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := ncf.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	if _, err := export.Build(f); !errors.Is(err, omiswath.ErrMissingDataset) {
		t.Errorf("Build: got %v, want ErrMissingDataset", err)
	}
}

func TestWriteText(t *testing.T) {
	tab := buildTable(t, omiswath.NO2)
	var buf bytes.Buffer
	if err := export.WriteText(&buf, tab); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	var lines []string
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if len(lines) != tab.Len()+1 {
		t.Fatalf("got %d lines, want %d", len(lines), tab.Len()+1)
	}
	want := map[int]string{
		0: "Year,Month,Day,Hour,Minute,Second,Latitude,Longitude,ColumnAmountNO2,ColumnAmountNO2Std,VcdQualityFlags",
		1: "2008.0,3.0,18.0,13.0,19.0,59.0,10.0,20.0," + fillText + "," + fillText + "," + fillText,
		8: "2008.0,3.0,18.0,13.0,20.0,1.0,11.0,22.0,12.0,24.0,36.0",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d:\n got %s\nwant %s", i, lines[i], w)
		}
	}
}

func TestWriteXLSX(t *testing.T) {
	tab := buildTable(t, omiswath.NO2)
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, "NO2", tab); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	wb, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		t.Fatalf("OpenBinary: %v", err)
	}
	sh, ok := wb.Sheet["NO2"]
	if !ok {
		t.Fatalf("sheet NO2 missing; have %v", wb.Sheets)
	}
	if len(sh.Rows) != tab.Len()+1 {
		t.Fatalf("got %d rows, want %d", len(sh.Rows), tab.Len()+1)
	}
	if got := sh.Rows[0].Cells[8].Value; got != "ColumnAmountNO2" {
		t.Errorf("header cell: got %q", got)
	}
	v, err := sh.Rows[8].Cells[8].Float()
	if err != nil {
		t.Fatalf("Float: %v", err)
	}
	if v != 12 {
		t.Errorf("ColumnAmountNO2 at (1, 2): got %v, want 12", v)
	}
}
