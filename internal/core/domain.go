package core

import (
	"strings"
	"time"
)

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"

	Income  EntryType = "INCOME"
	Expense EntryType = "EXPENSE"
)

const maxDescriptionLength = 500

type (
	// Role is the authorization level of a user.
	Role string

	// EntryType tells whether a transaction or category is money in or money out.
	EntryType string

	User struct {
		ID           string
		Email        string
		PasswordHash string
		Name         string
		Role         Role
		CreatedAt    time.Time
	}

	// PublicUser is the part of a user that may leave the server.
	PublicUser struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  Role   `json:"role"`
	}

	Category struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Type      EntryType `json:"type"`
		UserID    *string   `json:"userId"` // nil for system-wide categories
		CreatedAt time.Time `json:"createdAt"`
	}

	CategoryRef struct {
		Name string `json:"name"`
	}

	OwnerRef struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	Transaction struct {
		ID          string       `json:"id"`
		Amount      Money        `json:"amount"`
		Description string       `json:"description"`
		Type        EntryType    `json:"type"`
		Date        time.Time    `json:"date"`
		UserID      string       `json:"userId"`
		CategoryID  string       `json:"categoryId"`
		CreatedAt   time.Time    `json:"createdAt"`
		UpdatedAt   time.Time    `json:"updatedAt"`
		Category    *CategoryRef `json:"category,omitempty"`
		User        *OwnerRef    `json:"user,omitempty"`
	}

	Budget struct {
		ID         string       `json:"id"`
		Limit      Money        `json:"limit"`
		UserID     string       `json:"userId"`
		CategoryID string       `json:"categoryId"`
		Month      int          `json:"month"`
		Year       int          `json:"year"`
		CreatedAt  time.Time    `json:"createdAt"`
		UpdatedAt  time.Time    `json:"updatedAt"`
		Category   *CategoryRef `json:"category,omitempty"`
	}

	// Principal is the verified identity behind a request.
	Principal struct {
		UserID    string
		Role      Role
		TokenID   string
		ExpiresAt time.Time
	}
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

func (t EntryType) Valid() bool {
	return t == Income || t == Expense
}

// ParseEntryType accepts the type case-insensitively.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", Invalid("type", "Type must be INCOME or EXPENSE")
	}
	return t, nil
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanModify reports whether the principal may change a record owned by ownerID.
func (p Principal) CanModify(ownerID string) bool {
	return p.Role == RoleAdmin || p.UserID == ownerID
}

// CategoryName returns the linked category name, or "" when none was loaded.
func (t Transaction) CategoryName() string {
	if t.Category == nil {
		return ""
	}
	return t.Category.Name
}

// OwnerEmail returns the owner's email when the owner was loaded.
func (t Transaction) OwnerEmail() string {
	if t.User == nil {
		return ""
	}
	return t.User.Email
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return Invalid("name", "Name is required")
	}
	if !strings.Contains(u.Email, "@") {
		return Invalid("email", "A valid email is required")
	}
	if !u.Role.Valid() {
		return Invalid("role", "Role must be USER or ADMIN")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return Invalid("name", "Name is required")
	}
	if !c.Type.Valid() {
		return Invalid("type", "Type must be INCOME or EXPENSE")
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.CategoryID == "" {
		return Invalid("categoryId", "Category ID is required")
	}
	if t.Amount.Cents <= 0 {
		return Invalid("amount", "Amount must be a positive number")
	}
	if !t.Type.Valid() {
		return Invalid("type", "Type must be INCOME or EXPENSE")
	}
	if len(t.Description) > maxDescriptionLength {
		return Invalid("description", "Description is too long (max 500 characters)")
	}
	if t.Date.IsZero() {
		return Invalid("date", "Date is required")
	}
	if t.UserID == "" {
		return Invalid("userId", "Owner is required")
	}
	return nil
}

func (b Budget) Validate() error {
	if b.CategoryID == "" {
		return Invalid("categoryId", "Category ID is required")
	}
	if b.Month < 1 || b.Month > 12 {
		return Invalid("month", "Month must be between 1 and 12")
	}
	if b.Year < 1970 || b.Year > 9999 {
		return Invalid("year", "Year is out of range")
	}
	if b.Limit.Cents < 0 {
		return Invalid("limit", "Limit cannot be negative")
	}
	if b.UserID == "" {
		return Invalid("userId", "Owner is required")
	}
	return nil
}
