package utils

// AccessToken is the JWT claims payload this service consumes. Tokens are
// issued by the auth service; here they are only verified and read.
type AccessToken struct {
	ID   uint   `json:"id"`
	Role string `json:"role"`
}
