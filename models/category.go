package models

// Category groups expenses. A default category is shared by every user and
// managed by administrators; a private one belongs to the user who created it.
type Category struct {
	CategoryID  int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	IsDefault   bool   `json:"is_default"`
}

func (c Category) TableName() string {
	return "categories"
}

// CategoryCreate is the payload of a category creation call.
type CategoryCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsDefault   bool   `json:"is_default,omitempty"`
}

// CategoryUpdate renames or re-describes a category. Nil or empty fields keep
// the stored value.
type CategoryUpdate struct {
	CategoryID  int64   `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CategoryFilter narrows the administrator category listing.
type CategoryFilter struct {
	// UserID restricts the listing to what this user can see. Nil lists all
	// active categories.
	UserID *int64

	IncludeDefault bool
}

// UserToCategory records which user owns a private category.
type UserToCategory struct {
	ID         int64 `json:"id"`
	UserID     int64 `json:"user_id"`
	CategoryID int64 `json:"category_id"`
}

func (u UserToCategory) TableName() string {
	return "user_to_category"
}
