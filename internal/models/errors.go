package models

import (
	"errors"
)

// The errors returned by this package form a closed set so that the HTTP
// layer can map them to status codes with errors.Is instead of matching on
// message contents.
var (
	ErrGeneral           = errors.New("an error occurred on the server during your request")
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrFieldsRequired    = errors.New("category, description, and date are required")
	ErrDateInvalid       = errors.New("invalid date format. Use YYYY-MM-DD")

	// ErrExpenseExists is the translated unique constraint violation on the
	// expense ID. CreateExpense absorbs it by returning the stored row, it
	// only surfaces to callers writing to the database directly.
	ErrExpenseExists = errors.New("an expense with this ID already exists")
)
