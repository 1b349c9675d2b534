package entity

// OperatorLoginData is what the token middleware extracts from a verified bearer token.
type OperatorLoginData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
