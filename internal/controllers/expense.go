package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spendlog/backend/internal/httputil"
	"github.com/spendlog/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterExpenseRoutes registers the routes for expenses with
// the RouterGroup that is passed.
func RegisterExpenseRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsExpenses)
		r.GET("", GetExpenses)
		r.POST("", CreateExpense)
	}

	// Statistics
	{
		r.OPTIONS("/stats", OptionsExpenseStats)
		r.GET("/stats", GetExpenseStats)
	}

	// Expense with ID
	{
		r.OPTIONS("/:id", OptionsExpenseDetail)
		r.GET("/:id", GetExpense)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Router			/api/expenses [options]
func OptionsExpenses(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Router			/api/expenses/stats [options]
func OptionsExpenseStats(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Param			id	path	string	true	"ID of the expense"
// @Router			/api/expenses/{id} [options]
func OptionsExpenseDetail(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Create expense
// @Description	Creates a new expense. When an ID is supplied and an expense with that ID already exists, the existing expense is returned unchanged.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		201		{object}	Expense
// @Failure		400		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			expense	body		ExpenseEditable	true	"Expense"
// @Router			/api/expenses [post]
func CreateExpense(c *gin.Context) {
	var editable ExpenseEditable
	if err := httputil.BindData(c, &editable); err != nil {
		return
	}

	// Check the date format up front so that a malformed date gets its
	// specific message before the required-fields validation runs.
	if editable.Date != "" && !models.IsValidDate(editable.Date) {
		httputil.NewError(c, http.StatusBadRequest, models.ErrDateInvalid)
		return
	}

	expense, err := models.CreateExpense(editable.model())
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, newExpense(expense))
}

// @Summary		List expenses
// @Description	Returns all expenses matching the query parameters
// @Tags			Expenses
// @Produce		json
// @Success		200	{array}		Expense
// @Failure		400	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Router			/api/expenses [get]
// @Param			category	query	string	false	"Filter by category, exact match"
// @Param			sort		query	string	false	"Sort order, date_desc or date_asc. Defaults to newest created first."
func GetExpenses(c *gin.Context) {
	var filter ExpenseQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return
	}

	if filter.Sort != "" && !slices.Contains(models.ExpenseSorts, filter.Sort) {
		httputil.NewError(c, http.StatusBadRequest, errInvalidSort)
		return
	}

	expenses, err := models.Expenses(filter.filter())
	if err != nil {
		errorResponse(c, err)
		return
	}

	data := make([]Expense, 0, len(expenses))
	for _, expense := range expenses {
		data = append(data, newExpense(expense))
	}

	c.JSON(http.StatusOK, data)
}

// @Summary		Expense statistics
// @Description	Returns the total, count and per-category sums for all expenses matching the query parameters
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	models.ExpenseStats
// @Failure		500	{object}	httputil.HTTPError
// @Router			/api/expenses/stats [get]
// @Param			category	query	string	false	"Filter by category, exact match"
func GetExpenseStats(c *gin.Context) {
	var filter ExpenseQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return
	}

	stats, err := models.Stats(filter.filter())
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary		Get expense
// @Description	Returns a specific expense
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	Expense
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the expense"
// @Router			/api/expenses/{id} [get]
func GetExpense(c *gin.Context) {
	expense, err := models.ExpenseByID(c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, newExpense(expense))
}
