package models

// CategoryCore carries the data shared by every category variant.
type CategoryCore struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
	IsActive    bool    `db:"is_active" json:"isActive"`

	// Metadata is filled by the variant's adapter with presentation hints.
	Metadata map[string]string `json:"metadata"`
}

func (c *CategoryCore) Core() *CategoryCore { return c }

// Category is the abstract contract every concrete category variant satisfies.
type Category interface {
	Core() *CategoryCore
	DisplayName() string
}

// ClothingCategory groups apparel products.
type ClothingCategory struct {
	CategoryCore
}

func (c *ClothingCategory) DisplayName() string { return c.Name }

// TechCategory groups technology products.
type TechCategory struct {
	CategoryCore
}

func (c *TechCategory) DisplayName() string { return "💻 " + c.Name }
