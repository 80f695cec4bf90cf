package exports

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"permits/internal/domain/requests"
)

func sampleRequests() []requests.Request {
	created := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	return []requests.Request{
		{
			ID:        "r1",
			Code:      "1001",
			Name:      "Ana",
			Kind:      requests.KindPermit,
			Type:      requests.SubtypeDescanso,
			Status:    requests.StatusPending,
			Dates:     []string{"2025-03-11", "2025-03-12"},
			CreatedAt: created,
		},
		{
			ID:        "r2",
			Code:      "2002",
			Name:      "Luis",
			Kind:      requests.KindEquipment,
			Type:      requests.SubtypeTurnoPareja,
			Status:    requests.StatusApproved,
			Zone:      "Prado",
			CreatedAt: created,
		},
	}
}

func TestFlatten(t *testing.T) {
	rows := Flatten(sampleRequests())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Category != "permiso" || rows[1].Category != "postulacion" {
		t.Fatalf("unexpected categories: %s, %s", rows[0].Category, rows[1].Category)
	}
	if rows[0].Dates != "2025-03-11,2025-03-12" {
		t.Fatalf("unexpected dates: %s", rows[0].Dates)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, Flatten(sampleRequests())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != "id" || records[0][3] != "category" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][1] != "1001" || records[2][6] != "Prado" {
		t.Fatalf("unexpected rows: %v", records[1:])
	}
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteExcel(&buf, Flatten(sampleRequests())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// xlsx files are zip archives.
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Fatal("expected xlsx output")
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	cases := []struct {
		name  string
		value string
		max   int
		want  string
	}{
		{name: "short ascii untouched", value: "Ana", max: 30, want: "Ana"},
		{name: "long ascii cut", value: "abcdefgh", max: 5, want: "abcd…"},
		{name: "accented name cut on rune boundary", value: "Pérez Gutiérrez", max: 6, want: "Pérez…"},
		{name: "multibyte at limit untouched", value: "Pérez", max: 5, want: "Pérez"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncate(tc.value, tc.max)
			if got != tc.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tc.value, tc.max, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("truncate(%q, %d) produced invalid utf-8: %q", tc.value, tc.max, got)
			}
		})
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, Flatten(sampleRequests())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Fatal("expected pdf output")
	}
}
