package export

import (
	"bytes"
	"strings"
	"testing"

	"fintrack/internal/core"
)

func sampleRecords() []core.Record {
	return []core.Record{
		{ID: 1, Date: "2024-01-05", Kind: core.Income, Category: "Salary", Amount: core.Money{Cents: 250000}, Description: "January pay"},
		{ID: 2, Date: "2024-01-07", Kind: core.Expense, Category: "Food", Amount: core.Money{Cents: 1250}, Description: "lunch, downtown"},
		{ID: 3, Date: "2024-01-09", Kind: core.Expense, Category: "Rent", Amount: core.Money{Cents: 80000}, Description: ""},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("output missing UTF-8 BOM")
	}

	want := "date,type,category,amount,description\n" +
		"2024-01-05,income,Salary,2500.00,January pay\n" +
		`2024-01-07,expense,Food,12.50,"lunch, downtown"` + "\n" +
		"2024-01-09,expense,Rent,800.00,\n"
	if got := string(out[3:]); got != want {
		t.Errorf("csv body mismatch\ngot:\n%swant:\n%s", got, want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "\xEF\xBB\xBFdate,type,category,amount,description\n"
	if buf.String() != want {
		t.Errorf("got %q, want header only", buf.String())
	}
}

func TestWriteCSVDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	before := make([]core.Record, len(records))
	copy(before, records)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	for i := range records {
		if records[i] != before[i] {
			t.Fatalf("record %d mutated: %+v", i, records[i])
		}
	}
}

func TestBuildPDF(t *testing.T) {
	out, err := BuildPDF(sampleRecords(), "alice")
	if err != nil {
		t.Fatalf("BuildPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF magic: %q", out[:min(8, len(out))])
	}
	if len(out) < 1000 {
		t.Errorf("suspiciously small pdf: %d bytes", len(out))
	}
}

func TestBuildPDFEmpty(t *testing.T) {
	out, err := BuildPDF(nil, "bob")
	if err != nil {
		t.Fatalf("BuildPDF with no records: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("empty report is still a pdf")
	}
}

func TestBuildPDFNonASCII(t *testing.T) {
	records := []core.Record{
		{Date: "2024-03-01", Kind: core.Expense, Category: "Храна", Amount: core.Money{Cents: 560}, Description: "кафе"},
	}
	if _, err := BuildPDF(records, "андрей"); err != nil {
		t.Fatalf("cyrillic content: %v", err)
	}
}

func TestCSVHeaderMatchesImportContract(t *testing.T) {
	want := []string{"date", "type", "category", "amount", "description"}
	if strings.Join(csvHeader, ",") != strings.Join(want, ",") {
		t.Fatalf("header drifted: %v", csvHeader)
	}
}
