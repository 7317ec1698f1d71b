package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/jcodina/facturaflow/internal/domain"
)

// mockValuesAPI is an in-memory func-field mock of the tabular store.
type mockValuesAPI struct {
	AppendFunc func(ctx context.Context, rows [][]string) error
	GetFunc    func(ctx context.Context) ([][]string, error)

	appendCalls int
}

func (m *mockValuesAPI) Append(ctx context.Context, rows [][]string) error {
	m.appendCalls++
	return m.AppendFunc(ctx, rows)
}

func (m *mockValuesAPI) Get(ctx context.Context) ([][]string, error) {
	return m.GetFunc(ctx)
}

func sampleRecord(filename string) domain.InvoiceRecord {
	return domain.InvoiceRecord{
		Filename:    filename,
		InvoiceDate: "Mon, 15 Apr",
		TotalAmount: "1.234.56",
		Vendor:      "Acme SL",
		Status:      domain.StatusProcessed,
		StorageLink: "https://store/view/" + filename,
		ProcessedAt: "2024-04-20 10:30:00",
	}
}

func TestAppendRecordsSingleBatchCall(t *testing.T) {
	var gotRows [][]string
	api := &mockValuesAPI{
		AppendFunc: func(ctx context.Context, rows [][]string) error {
			gotRows = rows
			return nil
		},
	}

	l := New(api)
	records := []domain.InvoiceRecord{sampleRecord("a.pdf"), sampleRecord("b.pdf"), sampleRecord("c.pdf")}

	if err := l.AppendRecords(context.Background(), records); err != nil {
		t.Fatalf("AppendRecords() error = %v", err)
	}

	if api.appendCalls != 1 {
		t.Errorf("appendCalls = %d, want 1 (one batch call per run)", api.appendCalls)
	}
	if len(gotRows) != 3 {
		t.Fatalf("appended %d rows, want 3", len(gotRows))
	}
	// Order preserved as given.
	for i, want := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		if gotRows[i][0] != want {
			t.Errorf("row %d filename = %q, want %q", i, gotRows[i][0], want)
		}
	}
	if len(gotRows[0]) != 7 {
		t.Errorf("row width = %d, want 7 columns", len(gotRows[0]))
	}
}

func TestAppendRecordsEmptyIsNoop(t *testing.T) {
	api := &mockValuesAPI{
		AppendFunc: func(ctx context.Context, rows [][]string) error {
			return nil
		},
	}

	l := New(api)
	if err := l.AppendRecords(context.Background(), nil); err != nil {
		t.Fatalf("AppendRecords() error = %v", err)
	}
	if api.appendCalls != 0 {
		t.Errorf("appendCalls = %d, want 0", api.appendCalls)
	}
}

func TestAppendRecordsPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("quota exceeded")
	api := &mockValuesAPI{
		AppendFunc: func(ctx context.Context, rows [][]string) error {
			return storeErr
		},
	}

	l := New(api)
	err := l.AppendRecords(context.Background(), []domain.InvoiceRecord{sampleRecord("a.pdf")})
	if !errors.Is(err, storeErr) {
		t.Errorf("AppendRecords() error = %v, want wrapped %v", err, storeErr)
	}
}

func TestReadAll(t *testing.T) {
	header := []string{"Fitxer", "Data", "Import", "Proveïdor", "Estat", "Enllaç", "Processada el"}

	tests := []struct {
		name     string
		rows     [][]string
		wantErr  error
		wantRows int
	}{
		{
			name:    "empty sheet",
			rows:    nil,
			wantErr: ErrEmpty,
		},
		{
			name:    "header only",
			rows:    [][]string{header},
			wantErr: ErrEmpty,
		},
		{
			name:     "header and rows",
			rows:     [][]string{header, {"a.pdf"}, {"b.pdf"}},
			wantRows: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockValuesAPI{
				GetFunc: func(ctx context.Context) ([][]string, error) {
					return tt.rows, nil
				},
			}

			table, err := New(api).ReadAll(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ReadAll() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if len(table.Rows) != tt.wantRows {
				t.Errorf("len(Rows) = %d, want %d", len(table.Rows), tt.wantRows)
			}
			if table.Header[0] != header[0] {
				t.Errorf("Header[0] = %q, want %q", table.Header[0], header[0])
			}
		})
	}
}

func TestAppendThenReadRoundTrip(t *testing.T) {
	// In-memory store: appended rows must come back in the same order.
	stored := [][]string{{"Fitxer", "Data", "Import", "Proveïdor", "Estat", "Enllaç", "Processada el"}}
	api := &mockValuesAPI{
		AppendFunc: func(ctx context.Context, rows [][]string) error {
			stored = append(stored, rows...)
			return nil
		},
		GetFunc: func(ctx context.Context) ([][]string, error) {
			return stored, nil
		},
	}

	l := New(api)
	records := []domain.InvoiceRecord{sampleRecord("x.pdf"), sampleRecord("y.pdf")}
	if err := l.AppendRecords(context.Background(), records); err != nil {
		t.Fatalf("AppendRecords() error = %v", err)
	}

	table, err := l.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(table.Rows))
	}
	if table.Rows[0][0] != "x.pdf" || table.Rows[1][0] != "y.pdf" {
		t.Errorf("rows out of order: %v", table.Rows)
	}
}
