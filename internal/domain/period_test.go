package domain

import "testing"

func TestParseQuarter(t *testing.T) {
	tests := []struct {
		input   string
		want    Quarter
		wantErr bool
	}{
		{input: "", want: QuarterAll},
		{input: "all", want: QuarterAll},
		{input: "tots", want: QuarterAll},
		{input: "q1", want: Q1},
		{input: "1", want: Q1},
		{input: "q2", want: Q2},
		{input: "q3", want: Q3},
		{input: "q4", want: Q4},
		{input: "4", want: Q4},
		{input: "q5", wantErr: true},
		{input: "Q1", wantErr: true},
		{input: "first", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseQuarter(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseQuarter(%q) = %v, want error", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseQuarter(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseQuarter(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFolderName(t *testing.T) {
	tests := []struct {
		name   string
		period PeriodSelection
		want   string
	}{
		{
			name:   "all time",
			period: PeriodSelection{Quarter: QuarterAll, Year: 0},
			want:   "General Invoices",
		},
		{
			name: "quarter without year is still all time",
			// Year 0 wins over any quarter selection.
			period: PeriodSelection{Quarter: Q3, Year: 0},
			want:   "General Invoices",
		},
		{
			name:   "whole year",
			period: PeriodSelection{Quarter: QuarterAll, Year: 2024},
			want:   "Invoices 2024",
		},
		{
			name:   "quarter of a year",
			period: PeriodSelection{Quarter: Q2, Year: 2024},
			want:   "Invoices Q2 2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.FolderName(); got != tt.want {
				t.Errorf("FolderName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRowHasSevenColumns(t *testing.T) {
	rec := InvoiceRecord{
		Filename:    "factura.pdf",
		InvoiceDate: "Mon, 15 Ap",
		TotalAmount: "1.234.56",
		Vendor:      "Acme SL",
		Status:      StatusProcessed,
		StorageLink: "https://drive/view/1",
		ProcessedAt: "2024-04-20 10:30:00",
	}

	row := rec.Row()
	if len(row) != 7 {
		t.Fatalf("len(Row()) = %d, want 7", len(row))
	}
	if row[0] != "factura.pdf" || row[6] != "2024-04-20 10:30:00" {
		t.Errorf("Row() = %v, columns out of order", row)
	}
}
