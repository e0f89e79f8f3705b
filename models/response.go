package models

// CreatedResponse carries the id of a newly created category or expense.
type CreatedResponse struct {
	ID int64 `json:"id"`
}
