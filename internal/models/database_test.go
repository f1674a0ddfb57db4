package models_test

import (
	"path/filepath"

	"github.com/spendlog/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestConnectInvalidPath() {
	// models.DB stays untouched when Connect fails, teardown still works
	err := models.Connect(filepath.Join("/does-not-exist", "sub", "expenses.db"))
	assert.NotNil(suite.T(), err, "Connecting with an unusable database file must fail")
}

func (suite *TestSuiteStandard) TestMigrationCreatesIndexes() {
	migrator := models.DB.Migrator()

	assert.True(suite.T(), migrator.HasTable(&models.Expense{}))
	assert.True(suite.T(), migrator.HasIndex(&models.Expense{}, "Date"))
	assert.True(suite.T(), migrator.HasIndex(&models.Expense{}, "Category"))
}
