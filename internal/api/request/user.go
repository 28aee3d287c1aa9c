package request

// CredentialsRequest carries a username and password for registration or login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
