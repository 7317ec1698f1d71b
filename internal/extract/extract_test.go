package extract

import "testing"

func TestExtractTotalAmount(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		want        string
		wantMatched bool
	}{
		{
			name:        "plain total",
			text:        "Concepte: serveis\nTotal: 150.00€\n",
			want:        "150.00",
			wantMatched: true,
		},
		{
			name:        "decimal comma is normalized to period",
			text:        "Total: 1.234,56€",
			want:        "1.234.56",
			wantMatched: true,
		},
		{
			name:        "case insensitive",
			text:        "TOTAL 99,90",
			want:        "99.90",
			wantMatched: true,
		},
		{
			name:        "first occurrence wins",
			text:        "Total: 10,00€\nTotal: 20,00€",
			want:        "10.00",
			wantMatched: true,
		},
		{
			name:        "no currency symbol",
			text:        "Import total: 42",
			want:        "42",
			wantMatched: true,
		},
		{
			name: "no total token falls back",
			text: "Import de la factura: 500€",
			want: "0.00",
		},
		{
			name: "empty text falls back",
			text: "",
			want: "0.00",
		},
		{
			name: "amount on next line does not match",
			text: "Total\n123,45",
			want: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if got.TotalAmount != tt.want {
				t.Errorf("Extract().TotalAmount = %q, want %q", got.TotalAmount, tt.want)
			}
			if got.TotalMatched != tt.wantMatched {
				t.Errorf("Extract().TotalMatched = %v, want %v", got.TotalMatched, tt.wantMatched)
			}
		})
	}
}

func TestExtractVendor(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		want        string
		wantMatched bool
	}{
		{
			name:        "proveïdor token",
			text:        "Proveïdor: Acme SL\nTotal: 10€",
			want:        "Acme SL",
			wantMatched: true,
		},
		{
			name:        "emissor token",
			text:        "Emissor - Serveis Informàtics BCN\n",
			want:        "Serveis Informàtics BCN",
			wantMatched: true,
		},
		{
			name:        "case insensitive with surrounding whitespace",
			text:        "PROVEÏDOR:   Gestoria Vila   \n",
			want:        "Gestoria Vila",
			wantMatched: true,
		},
		{
			name:        "stops at end of line",
			text:        "Proveïdor: Acme SL\nNIF: B12345678",
			want:        "Acme SL",
			wantMatched: true,
		},
		{
			name: "no vendor token falls back",
			text: "Total: 10€",
			want: "Desconegut",
		},
		{
			name: "token with empty remainder falls back",
			text: "Proveïdor:\nAcme SL",
			want: "Desconegut",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if got.Vendor != tt.want {
				t.Errorf("Extract().Vendor = %q, want %q", got.Vendor, tt.want)
			}
			if got.VendorMatched != tt.wantMatched {
				t.Errorf("Extract().VendorMatched = %v, want %v", got.VendorMatched, tt.wantMatched)
			}
		})
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	text := "Proveïdor: Acme SL\nTotal: 1.234,56€"

	first := Extract(text)
	second := Extract(text)

	if first != second {
		t.Errorf("Extract() not deterministic: %+v vs %+v", first, second)
	}
}
