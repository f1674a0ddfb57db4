package controllers

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendlog/backend/internal/models"
)

// ExpenseEditable are the fields a client can set when creating an expense.
type ExpenseEditable struct {
	ID          string          `json:"id" example:"65392deb-5e92-4268-b114-297faad6cdce" default:""`      // Optional idempotency key, generated when empty
	Amount      decimal.Decimal `json:"amount" example:"12.5" minimum:"0.01"`                              // The amount in major currency units
	Category    string          `json:"category" example:"Food"`                                           // Category label, any non-empty string
	Description string          `json:"description" example:"Lunch"`                                       // What the money was spent on
	Date        string          `json:"date" example:"2024-01-15"`                                         // Calendar date in YYYY-MM-DD form
}

// model returns the database resource for the API representation of the
// editable fields
func (editable ExpenseEditable) model() models.ExpenseCreate {
	return models.ExpenseCreate{
		ID:          editable.ID,
		Amount:      editable.Amount,
		Category:    editable.Category,
		Description: editable.Description,
		Date:        editable.Date,
	}
}

// Expense is the API representation of an expense.
type Expense struct {
	ID          string          `json:"id" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	Amount      decimal.Decimal `json:"amount" example:"12.5"` // The amount in major currency units
	Category    string          `json:"category" example:"Food"`
	Description string          `json:"description" example:"Lunch"`
	Date        string          `json:"date" example:"2024-01-15"`
	CreatedAt   time.Time       `json:"created_at" example:"2024-01-15T19:28:44.491514Z"`
}

// newExpense returns the API representation of the resource
func newExpense(model models.Expense) Expense {
	return Expense{
		ID:          model.ID,
		Amount:      model.MajorUnits(),
		Category:    model.Category,
		Description: model.Description,
		Date:        model.Date,
		CreatedAt:   model.CreatedAt,
	}
}

// ExpenseQueryFilter are the query parameters recognized by the list and
// stats endpoints.
type ExpenseQueryFilter struct {
	Category string `form:"category"` // Exact match category filter
	Sort     string `form:"sort"`     // date_desc or date_asc, newest created first when unset
}

func (f ExpenseQueryFilter) filter() models.ExpenseFilter {
	return models.ExpenseFilter{
		Category: f.Category,
		Sort:     f.Sort,
	}
}
