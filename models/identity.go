package models

// Identity is the authenticated caller of an operation: who they are and
// which role they act with. It is decoded from the bearer token by the
// transport layer and passed explicitly to every service call.
type Identity struct {
	UserID int64
	Role   AccountType
}

// IsAdmin reports whether the caller acts as an administrator.
func (i Identity) IsAdmin() bool {
	return i.Role == AccountTypeAdministrator
}

// Owns reports whether the caller is the user identified by userID.
func (i Identity) Owns(userID int64) bool {
	return i.UserID == userID
}
