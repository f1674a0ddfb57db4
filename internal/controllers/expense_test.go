package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendlog/backend/internal/controllers"
	"github.com/spendlog/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) createTestExpense(t *testing.T, editable controllers.ExpenseEditable) controllers.Expense {
	if editable.Amount.IsZero() {
		editable.Amount = decimal.NewFromFloat(10)
	}

	if editable.Category == "" {
		editable.Category = "Food"
	}

	if editable.Description == "" {
		editable.Description = "Lunch"
	}

	if editable.Date == "" {
		editable.Date = "2024-01-15"
	}

	recorder := test.Request(t, http.MethodPost, "/api/expenses", editable)
	test.AssertHTTPStatus(t, http.StatusCreated, &recorder)

	var expense controllers.Expense
	test.DecodeResponse(t, &recorder, &expense)

	return expense
}

func (suite *TestSuiteStandard) TestCreateExpense() {
	expense := suite.createTestExpense(suite.T(), controllers.ExpenseEditable{
		Amount:      decimal.RequireFromString("12.50"),
		Category:    "Food",
		Description: "Lunch",
		Date:        "2024-01-15",
	})

	_, err := uuid.Parse(expense.ID)
	assert.Nil(suite.T(), err, "Server must generate a UUID when no ID is supplied, got %q", expense.ID)

	assert.True(suite.T(), expense.Amount.Equal(decimal.RequireFromString("12.5")), "Amount must round-trip in major units, is %s", expense.Amount)
	assert.Equal(suite.T(), "Food", expense.Category)
	assert.Equal(suite.T(), "Lunch", expense.Description)
	assert.Equal(suite.T(), "2024-01-15", expense.Date)
	assert.False(suite.T(), expense.CreatedAt.IsZero(), "created_at must be set by the server")
}

func (suite *TestSuiteStandard) TestCreateExpenseIdempotent() {
	first := suite.createTestExpense(suite.T(), controllers.ExpenseEditable{
		ID:          "55eecbd8-7c46-4b06-ada9-f287802fb05e",
		Description: "Groceries",
	})

	recorder := test.Request(suite.T(), http.MethodPost, "/api/expenses", controllers.ExpenseEditable{
		ID:          "55eecbd8-7c46-4b06-ada9-f287802fb05e",
		Amount:      decimal.NewFromFloat(99),
		Category:    "Travel",
		Description: "Completely different",
		Date:        "2023-06-01",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &recorder)

	var second controllers.Expense
	test.DecodeResponse(suite.T(), &recorder, &second)

	assert.Equal(suite.T(), first.ID, second.ID)
	assert.Equal(suite.T(), first.Description, second.Description, "Retried create must return the stored row unchanged")
	assert.True(suite.T(), first.Amount.Equal(second.Amount))
}

func (suite *TestSuiteStandard) TestCreateExpenseValidation() {
	tests := []struct {
		name  string
		body  any
		error string
	}{
		{"zero amount", controllers.ExpenseEditable{Category: "Food", Description: "Lunch", Date: "2024-01-15"}, "amount must be greater than zero"},
		{"negative amount", controllers.ExpenseEditable{Amount: decimal.NewFromFloat(-1), Category: "Food", Description: "Lunch", Date: "2024-01-15"}, "amount must be greater than zero"},
		{"missing category", controllers.ExpenseEditable{Amount: decimal.NewFromFloat(10), Description: "Lunch", Date: "2024-01-15"}, "category, description, and date are required"},
		{"missing description", controllers.ExpenseEditable{Amount: decimal.NewFromFloat(10), Category: "Food", Date: "2024-01-15"}, "category, description, and date are required"},
		{"missing date", controllers.ExpenseEditable{Amount: decimal.NewFromFloat(10), Category: "Food", Description: "Lunch"}, "category, description, and date are required"},
		{"wrong date separator", controllers.ExpenseEditable{Amount: decimal.NewFromFloat(10), Category: "Food", Description: "Lunch", Date: "2024/01/01"}, "invalid date format. Use YYYY-MM-DD"},
		{"month out of range", controllers.ExpenseEditable{Amount: decimal.NewFromFloat(10), Category: "Food", Description: "Lunch", Date: "2024-13-40"}, "invalid date format. Use YYYY-MM-DD"},
		{"not a real date", controllers.ExpenseEditable{Amount: decimal.NewFromFloat(10), Category: "Food", Description: "Lunch", Date: "2024-02-30"}, "invalid date format. Use YYYY-MM-DD"},
		{"empty body", "", "request body must not be empty"},
		{"invalid json", "{ invalid", "the body of your request contains invalid or un-parseable data. Please check and try again"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPost, "/api/expenses", tt.body)
			test.AssertHTTPStatus(t, http.StatusBadRequest, &recorder)
			assert.Equal(t, tt.error, test.DecodeError(t, recorder.Body.Bytes()))
		})
	}
}

func (suite *TestSuiteStandard) TestGetExpenses() {
	suite.createTestExpense(suite.T(), controllers.ExpenseEditable{Category: "Food", Date: "2024-01-10"})
	suite.createTestExpense(suite.T(), controllers.ExpenseEditable{Category: "Food", Date: "2024-03-05"})
	suite.createTestExpense(suite.T(), controllers.ExpenseEditable{Category: "Travel", Date: "2024-02-20"})

	recorder := test.Request(suite.T(), http.MethodGet, "/api/expenses", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var expenses []controllers.Expense
	test.DecodeResponse(suite.T(), &recorder, &expenses)
	assert.Len(suite.T(), expenses, 3)
}

func (suite *TestSuiteStandard) TestGetExpensesFilter() {
	suite.createTestExpense(suite.T(), controllers.ExpenseEditable{Category: "Food"})
	suite.createTestExpense(suite.T(), controllers.ExpenseEditable{Category: "Travel"})

	recorder := test.Request(suite.T(), http.MethodGet, "/api/expenses?category=Food", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var expenses []controllers.Expense
	test.DecodeResponse(suite.T(), &recorder, &expenses)
	assert.Len(suite.T(), expenses, 1)
	assert.Equal(suite.T(), "Food", expenses[0].Category)
}

func (suite *TestSuiteStandard) TestGetExpensesSorted() {
	suite.createTestExpense(suite.T(), controllers.ExpenseEditable{Date: "2024-01-10"})
	suite.createTestExpense(suite.T(), controllers.ExpenseEditable{Date: "2024-03-05"})
	suite.createTestExpense(suite.T(), controllers.ExpenseEditable{Date: "2024-02-20"})

	recorder := test.Request(suite.T(), http.MethodGet, "/api/expenses?sort=date_desc", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var expenses []controllers.Expense
	test.DecodeResponse(suite.T(), &recorder, &expenses)
	assert.Len(suite.T(), expenses, 3)
	assert.Equal(suite.T(), "2024-03-05", expenses[0].Date)
	assert.Equal(suite.T(), "2024-02-20", expenses[1].Date)
	assert.Equal(suite.T(), "2024-01-10", expenses[2].Date)
}

func (suite *TestSuiteStandard) TestGetExpensesInvalidSort() {
	recorder := test.Request(suite.T(), http.MethodGet, "/api/expenses?sort=amount", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
	assert.Equal(suite.T(), "invalid sort parameter. Use date_desc or date_asc", test.DecodeError(suite.T(), recorder.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestGetExpensesEmpty() {
	recorder := test.Request(suite.T(), http.MethodGet, "/api/expenses", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var expenses []controllers.Expense
	test.DecodeResponse(suite.T(), &recorder, &expenses)
	assert.NotNil(suite.T(), expenses, "No expenses must be an empty array, not null")
	assert.Len(suite.T(), expenses, 0)
}

func (suite *TestSuiteStandard) TestGetExpenseStats() {
	suite.createTestExpense(suite.T(), controllers.ExpenseEditable{Category: "Food", Amount: decimal.NewFromFloat(10)})
	suite.createTestExpense(suite.T(), controllers.ExpenseEditable{Category: "Food", Amount: decimal.NewFromFloat(5)})
	suite.createTestExpense(suite.T(), controllers.ExpenseEditable{Category: "Travel", Amount: decimal.NewFromFloat(20)})

	recorder := test.Request(suite.T(), http.MethodGet, "/api/expenses/stats", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var stats struct {
		Total      decimal.Decimal            `json:"total"`
		Count      int                        `json:"count"`
		Categories map[string]decimal.Decimal `json:"categories"`
	}
	test.DecodeResponse(suite.T(), &recorder, &stats)

	assert.Equal(suite.T(), 3, stats.Count)
	assert.True(suite.T(), stats.Total.Equal(decimal.NewFromFloat(35)), "Total is wrong, is %s", stats.Total)
	assert.True(suite.T(), stats.Categories["Food"].Equal(decimal.NewFromFloat(15)))
	assert.True(suite.T(), stats.Categories["Travel"].Equal(decimal.NewFromFloat(20)))
}

func (suite *TestSuiteStandard) TestGetExpense() {
	created := suite.createTestExpense(suite.T(), controllers.ExpenseEditable{})

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("/api/expenses/%s", created.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var expense controllers.Expense
	test.DecodeResponse(suite.T(), &recorder, &expense)
	assert.Equal(suite.T(), created.ID, expense.ID)
}

func (suite *TestSuiteStandard) TestGetExpenseNotFound() {
	recorder := test.Request(suite.T(), http.MethodGet, "/api/expenses/2649c965-7999-4873-ae16-89d5d5fa972e", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
	assert.Equal(suite.T(), "expense not found", test.DecodeError(suite.T(), recorder.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestOptions() {
	tests := []struct {
		path  string
		allow string
	}{
		{"/api/expenses", "GET, POST"},
		{"/api/expenses/stats", "GET"},
		{"/api/expenses/some-id", "GET"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.path, func(t *testing.T) {
			recorder := test.Request(t, http.MethodOptions, tt.path, nil)
			test.AssertHTTPStatus(t, http.StatusNoContent, &recorder)
			assert.Equal(t, tt.allow, recorder.Header().Get("allow"))
		})
	}
}

func (suite *TestSuiteStandard) TestMethodNotAllowed() {
	recorder := test.Request(suite.T(), http.MethodDelete, "/api/expenses", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusMethodNotAllowed, &recorder)
}

func (suite *TestSuiteStandard) TestDatabaseClosed() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodGet, "/api/expenses", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusInternalServerError, &recorder)
	assert.Equal(suite.T(), "an error occurred on the server during your request", test.DecodeError(suite.T(), recorder.Body.Bytes()))
}
