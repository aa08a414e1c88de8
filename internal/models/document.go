package models

// Document is a schemaless record. Create operations store request bodies
// verbatim, so no collection imposes a shape beyond what its updates touch.
type Document map[string]any

// Collection names in cycleHubDB.
const (
	BikesCollection      = "bikes"
	CyclesCollection     = "cycles"
	UsersCollection      = "users"
	EmployeesCollection  = "employees"
	AddedItemsCollection = "addedItems"
)
