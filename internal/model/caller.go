package model

// Caller identifies who is making a request. It is resolved from the session token by the HTTP
// layer and passed explicitly into every service operation.
type Caller struct {
	UserID int64
	Role   Role
}

// NewCaller returns a caller for the given account.
func NewCaller(userID int64, role Role) *Caller {
	return &Caller{UserID: userID, Role: role}
}
