package client

// Categories is the suggested list of expense categories, meant to populate
// a selector in a UI. It is advisory: the API accepts any non-empty category
// string.
var Categories = []string{
	"Food",
	"Transport",
	"Entertainment",
	"Shopping",
	"Bills",
	"Healthcare",
	"Education",
	"Travel",
	"Other",
}
