package types

// AuthenticatedUser is the resolved caller placed in the request context by
// the auth middleware.
type AuthenticatedUser struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}
