package models

// DietaryRestriction is a named tag that foods comply with and customers
// can require. The set is static reference data seeded at migration time.
type DietaryRestriction struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"restriction_name" gorm:"uniqueIndex;not null"`
	Type string `json:"restriction_type" gorm:"not null"`
}

// DefaultRestrictions is the reference data inserted by the migrate step
var DefaultRestrictions = []DietaryRestriction{
	{Name: "Vegetarian", Type: "diet"},
	{Name: "Vegan", Type: "diet"},
	{Name: "Pescatarian", Type: "diet"},
	{Name: "Gluten-Free", Type: "allergy"},
	{Name: "Dairy-Free", Type: "allergy"},
	{Name: "Nut-Free", Type: "allergy"},
	{Name: "Egg-Free", Type: "allergy"},
	{Name: "Halal", Type: "religious"},
	{Name: "Kosher", Type: "religious"},
}
