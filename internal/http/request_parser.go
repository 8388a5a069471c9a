// This file implements the typed request commands and the helpers that
// decode them from JSON bodies and query strings.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ledger/internal/core"
	"ledger/internal/services"
)

const (
	maxBodyBytes = 1 << 20
	dateLayout   = "2006-01-02"
)

// decodeJSON reads one JSON object from the request body into dst.
// An empty body leaves dst untouched so required-field checks report it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var ve *core.ValidationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &ve):
		return ve
	case errors.Is(err, core.ErrInvalidAmount):
		return core.Invalid("amount", "Amount must be a positive number")
	case errors.As(err, &tooLarge):
		return core.Invalid("body", "Request body is too large")
	default:
		return core.Invalid("body", "Invalid JSON body")
	}
}

// requestDate accepts "YYYY-MM-DD" or an RFC 3339 timestamp.
type requestDate struct {
	time.Time
}

func (d *requestDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return core.Invalid("date", "Date must be YYYY-MM-DD or RFC 3339")
	}
	t, err := parseDate(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, core.Invalid("date", "Date must be YYYY-MM-DD or RFC 3339")
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return core.Invalid("body", "Month and year must be whole numbers")
	}
	*n = flexInt(v)
	return nil
}

type registerCommand struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c registerCommand) input() services.RegisterInput {
	return services.RegisterInput{Name: c.Name, Email: c.Email, Password: c.Password}
}

type loginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type categoryCommand struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// transactionCommand is the body of create and update. Absent fields stay nil.
type transactionCommand struct {
	Amount      *core.Money  `json:"amount"`
	Description *string      `json:"description"`
	Type        *string      `json:"type"`
	Date        *requestDate `json:"date"`
	CategoryID  *string      `json:"categoryId"`
}

func (c transactionCommand) input() (services.TransactionInput, error) {
	in := services.TransactionInput{
		Amount:      c.Amount,
		Description: c.Description,
		CategoryID:  c.CategoryID,
	}
	if c.Type != nil {
		t, err := core.ParseEntryType(*c.Type)
		if err != nil {
			return services.TransactionInput{}, err
		}
		in.Type = &t
	}
	if c.Date != nil {
		d := c.Date.Time
		in.Date = &d
	}
	return in, nil
}

type budgetCommand struct {
	CategoryID string      `json:"categoryId"`
	Month      flexInt     `json:"month"`
	Year       flexInt     `json:"year"`
	Limit      *core.Money `json:"limit"`
}

func (c budgetCommand) input() (services.BudgetInput, error) {
	if strings.TrimSpace(c.CategoryID) == "" {
		return services.BudgetInput{}, core.Invalid("categoryId", "Category ID is required")
	}
	if c.Limit == nil {
		return services.BudgetInput{}, core.Invalid("limit", "Limit is required")
	}
	return services.BudgetInput{
		CategoryID: c.CategoryID,
		Month:      int(c.Month),
		Year:       int(c.Year),
		Limit:      *c.Limit,
	}, nil
}

// MonthParams holds the month/year of a query. Zero means not given.
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams reads month and year from query parameters.
// Missing values stay zero; values that are not integers are rejected.
func ParseMonthParams(query url.Values) (MonthParams, error) {
	var params MonthParams
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return MonthParams{}, core.Invalid("month", "Month must be a number")
		}
		params.Month = m
	}
	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return MonthParams{}, core.Invalid("year", "Year must be a number")
		}
		params.Year = y
	}
	return params, nil
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
