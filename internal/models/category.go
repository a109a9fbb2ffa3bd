package models

// CategoryNameMaxLength mirrors the VARCHAR width of categories.name.
const CategoryNameMaxLength = 100

// Category is a named grouping persisted in the categories table.
type Category struct {
	Base
	Name string `gorm:"size:100;not null" json:"name"`
}

// TableName pins the table name used by both GORM and the SQL migrations.
func (Category) TableName() string {
	return "categories"
}

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&Category{},
	}
}
