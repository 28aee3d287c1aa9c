package model

// UserFields lists the keys a stored user carries besides its identifier.
var UserFields = []string{"username", "hashed_password"}

// User is an account that owns transactions and wallets.
type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	HashedPassword string `json:"hashed_password"`
}

// IsZero reports whether u is the empty "not found" value.
func (u User) IsZero() bool {
	return u.ID == ""
}

// UserDraft holds the fields of a user that has not been stored yet.
type UserDraft struct {
	Username       string `json:"username"`
	HashedPassword string `json:"hashed_password"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
