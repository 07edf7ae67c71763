package types

type UserResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Cell      string `json:"cell"`
	Email     string `json:"email"`
}
