package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"ledger/internal/core"
)

func TestParseMonthParams(t *testing.T) {
	tests := []struct {
		name      string
		query     url.Values
		wantYear  int
		wantMonth int
		wantErr   bool
	}{
		{
			name:      "both values provided",
			query:     url.Values{"year": {"2024"}, "month": {"12"}},
			wantYear:  2024,
			wantMonth: 12,
		},
		{
			name:  "missing values stay zero",
			query: url.Values{},
		},
		{
			name:      "whitespace is trimmed",
			query:     url.Values{"month": {" 3 "}},
			wantMonth: 3,
		},
		{
			name:    "month not a number",
			query:   url.Values{"month": {"march"}},
			wantErr: true,
		},
		{
			name:    "year not a number",
			query:   url.Values{"year": {"20x4"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonthParams(tt.query)
			if tt.wantErr {
				if !errors.Is(err, core.ErrValidation) {
					t.Fatalf("err = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Year != tt.wantYear || got.Month != tt.wantMonth {
				t.Errorf("got %+v, want year=%d month=%d", got, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-03-10", want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{in: "2024-03-10T23:30:00+02:00", want: time.Date(2024, 3, 10, 21, 30, 0, 0, time.UTC)},
		{in: "2024-03-10T08:00:00.123Z", want: time.Date(2024, 3, 10, 8, 0, 0, 123000000, time.UTC)},
		{in: "10/03/2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func decodeBody(t *testing.T, body string, dst any) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return decodeJSON(httptest.NewRecorder(), req, dst)
}

func TestDecodeTransactionCommand(t *testing.T) {
	var cmd transactionCommand
	err := decodeBody(t, `{"amount":"12,5","type":"income","date":"2024-01-02","categoryId":"c1","description":"pay"}`, &cmd)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	in, err := cmd.input()
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if in.Amount == nil || in.Amount.Cents != 1250 {
		t.Errorf("amount = %+v", in.Amount)
	}
	if in.Type == nil || *in.Type != core.Income {
		t.Errorf("type = %v", in.Type)
	}
	if in.Date == nil || in.Date.Format(dateLayout) != "2024-01-02" {
		t.Errorf("date = %v", in.Date)
	}
	if in.CategoryID == nil || *in.CategoryID != "c1" {
		t.Errorf("categoryId = %v", in.CategoryID)
	}

	// absent fields stay nil for partial updates
	cmd = transactionCommand{}
	if err := decodeBody(t, `{"description":"only this"}`, &cmd); err != nil {
		t.Fatal(err)
	}
	in, _ = cmd.input()
	if in.Amount != nil || in.Type != nil || in.Date != nil || in.CategoryID != nil {
		t.Errorf("expected nil fields, got %+v", in)
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"bad amount", `{"amount":"twelve"}`, "Amount must be a positive number"},
		{"bad date", `{"date":"yesterday"}`, "Date must be YYYY-MM-DD or RFC 3339"},
		{"bad date type", `{"date":20240101}`, "Date must be YYYY-MM-DD or RFC 3339"},
		{"malformed", `{"amount":`, "Invalid JSON body"},
		{"wrong field type", `{"categoryId":12}`, "Invalid JSON body"},
		{"too large", `{"description":"` + strings.Repeat("x", maxBodyBytes) + `"}`, "Request body is too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cmd transactionCommand
			err := decodeBody(t, tt.body, &cmd)
			if !errors.Is(err, core.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if msg, _ := core.PublicMessage(err); msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestDecodeEmptyBody(t *testing.T) {
	var cmd loginCommand
	if err := decodeBody(t, "", &cmd); err != nil {
		t.Fatalf("empty body should decode to zero value, got %v", err)
	}
}

func TestBudgetCommand(t *testing.T) {
	var cmd budgetCommand
	if err := decodeBody(t, `{"categoryId":"c1","month":"7","year":2025,"limit":99.999}`, &cmd); err != nil {
		t.Fatal(err)
	}
	in, err := cmd.input()
	if err != nil {
		t.Fatal(err)
	}
	if in.Month != 7 || in.Year != 2025 || in.Limit.Cents != 10000 {
		t.Errorf("input = %+v", in)
	}

	cmd = budgetCommand{}
	if err := decodeBody(t, `{"categoryId":"c1","month":"July","year":2025,"limit":1}`, &cmd); !errors.Is(err, core.ErrValidation) {
		t.Errorf("non-numeric month: err = %v", err)
	}

	if _, err := (budgetCommand{CategoryID: "c1"}).input(); !errors.Is(err, core.ErrValidation) {
		t.Errorf("missing limit: err = %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer   tok ", "tok", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		got, ok := bearerToken(req)
		if got != tt.want || ok != tt.ok {
			t.Errorf("bearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}
