package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Amounts are JSON numbers on the wire, e.g. 12.5
	decimal.MarshalJSONWithoutQuotes = true
}

// Expense represents a single expense record.
//
// The ID doubles as the idempotency key for creation: it is either supplied
// by the client or generated on insert. Amount is stored as an integer count
// of minor currency units (cents).
type Expense struct {
	ID          string `gorm:"primaryKey"`
	Amount      int64
	Category    string `gorm:"index"`
	Description string
	Date        string `gorm:"index"` // Calendar date in YYYY-MM-DD form
	CreatedAt   time.Time
}

// BeforeSave trims whitespace from string fields.
func (e *Expense) BeforeSave(_ *gorm.DB) (err error) {
	e.Category = strings.TrimSpace(e.Category)
	e.Description = strings.TrimSpace(e.Description)
	e.Date = strings.TrimSpace(e.Date)

	return
}

// MajorUnits returns the amount of the expense in major currency units.
func (e Expense) MajorUnits() decimal.Decimal {
	return decimal.New(e.Amount, -2)
}

// MinorUnits converts a major unit amount to its integer minor unit
// representation, rounding half away from zero.
func MinorUnits(major decimal.Decimal) int64 {
	return major.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ExpenseCreate holds the client-settable fields of an expense.
type ExpenseCreate struct {
	ID          string
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        string
}

// Sort orders recognized by the list endpoint. Everything else is rejected
// before the database is queried.
const (
	SortDateDesc = "date_desc"
	SortDateAsc  = "date_asc"
)

// ExpenseSorts are all recognized values for the sort query parameter.
var ExpenseSorts = []string{SortDateDesc, SortDateAsc}

// ExpenseFilter restricts and orders the expenses returned by Expenses and
// the rows aggregated by Stats.
type ExpenseFilter struct {
	Category string
	Sort     string
}

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidDate returns true when the string matches YYYY-MM-DD and denotes a
// real calendar date, so 2024-02-30 is rejected.
func IsValidDate(date string) bool {
	if !dateFormat.MatchString(date) {
		return false
	}

	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// CreateExpense validates and persists a new expense.
//
// Creation is idempotent on the ID: when a row with the resolved ID already
// exists, that row is returned unchanged and the input is discarded, even if
// its fields differ. This makes timeout-and-retry safe for clients.
func CreateExpense(create ExpenseCreate) (Expense, error) {
	if create.Amount.Cmp(decimal.Zero) <= 0 {
		return Expense{}, ErrAmountNotPositive
	}

	category := strings.TrimSpace(create.Category)
	description := strings.TrimSpace(create.Description)
	if category == "" || description == "" || create.Date == "" {
		return Expense{}, ErrFieldsRequired
	}

	if !IsValidDate(create.Date) {
		return Expense{}, ErrDateInvalid
	}

	id := create.ID
	if id == "" {
		id = uuid.NewString()
	}

	existing, err := ExpenseByID(id)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, ErrExpenseNotFound) {
		return Expense{}, err
	}

	expense := Expense{
		ID:          id,
		Amount:      MinorUnits(create.Amount),
		Category:    category,
		Description: description,
		Date:        create.Date,
	}

	err = DB.Create(&expense).Error
	if err != nil {
		// The read-check above is not atomic with the insert, a concurrent
		// create for the same ID can win the race. The primary key ensures
		// exactly one row exists, the loser returns it.
		if errors.Is(err, ErrExpenseExists) {
			return ExpenseByID(id)
		}

		return Expense{}, err
	}

	return expense, nil
}

// ExpenseByID returns the expense with the ID or ErrExpenseNotFound.
func ExpenseByID(id string) (Expense, error) {
	var expense Expense

	err := DB.First(&expense, "id = ?", id).Error
	if err != nil {
		return Expense{}, err
	}

	return expense, nil
}

// Expenses returns all expenses matching the filter, newest first by
// default. No matching rows is not an error, the slice is empty then.
func Expenses(filter ExpenseFilter) ([]Expense, error) {
	q := DB

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	switch filter.Sort {
	case SortDateDesc:
		q = q.Order("date DESC, datetime(created_at) DESC")
	case SortDateAsc:
		q = q.Order("date ASC, datetime(created_at) ASC")
	default:
		q = q.Order("datetime(created_at) DESC")
	}

	expenses := make([]Expense, 0)
	err := q.Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	return expenses, nil
}

// ExpenseStats is the aggregate over a filtered set of expenses. Amounts are
// in major units. Only categories present in the set appear in Categories.
type ExpenseStats struct {
	Total      decimal.Decimal            `json:"total"`
	Count      int                        `json:"count"`
	Categories map[string]decimal.Decimal `json:"categories"`
}

// Stats aggregates the expenses matching the filter.
func Stats(filter ExpenseFilter) (ExpenseStats, error) {
	expenses, err := Expenses(ExpenseFilter{Category: filter.Category})
	if err != nil {
		return ExpenseStats{}, err
	}

	stats := ExpenseStats{
		Total:      decimal.Zero,
		Count:      len(expenses),
		Categories: make(map[string]decimal.Decimal),
	}

	for _, expense := range expenses {
		amount := expense.MajorUnits()
		stats.Total = stats.Total.Add(amount)
		stats.Categories[expense.Category] = stats.Categories[expense.Category].Add(amount)
	}

	return stats, nil
}
