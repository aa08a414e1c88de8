package models

// CycleUpdate is the fixed field set written by a cycle update. Fields are
// untyped and never omitted: a value missing from the request is stored as null.
type CycleUpdate struct {
	Name        any `bson:"name" json:"name"`
	Brand       any `bson:"brand" json:"brand"`
	Model       any `bson:"model" json:"model"`
	Brakes      any `bson:"brakes" json:"brakes"`
	Features    any `bson:"features" json:"features"`
	Description any `bson:"description" json:"description"`
	Price       any `bson:"price" json:"price"`
}

// CycleUpdateFrom picks the updatable fields out of a request body.
// Other keys are ignored.
func CycleUpdateFrom(doc Document) CycleUpdate {
	return CycleUpdate{
		Name:        doc["name"],
		Brand:       doc["brand"],
		Model:       doc["model"],
		Brakes:      doc["brakes"],
		Features:    doc["features"],
		Description: doc["description"],
		Price:       doc["price"],
	}
}
