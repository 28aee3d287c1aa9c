package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/response"
)

// TimeTokenTTL is how long a time token stays valid after it was generated.
const TimeTokenTTL = 5 * time.Minute

// APIKey returns a middleware guarding internal endpoints. Requests must carry
// the key in X-API-Key and a fresh time token (see GenerateTimeToken) in
// X-Time-Token. An empty apiKey rejects every request with 500.
func APIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				response.RespondError(w, http.StatusInternalServerError, "internal error", "Authentication not loaded")
				return
			}

			given := r.Header.Get("X-API-Key")
			if given == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(given), []byte(apiKey)) != 1 {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
				return
			}

			token := r.Header.Get("X-Time-Token")
			if token == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
				return
			}
			if !validTimeToken(apiKey, token) {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GenerateTimeToken returns a fernet token holding the current Unix time,
// encrypted with a key derived from apiKey.
func GenerateTimeToken(apiKey string) string {
	key := timeTokenKey(apiKey)
	tok, err := fernet.EncryptAndSign([]byte(strconv.FormatInt(time.Now().Unix(), 10)), &key)
	if err != nil {
		return ""
	}
	return string(tok)
}

func validTimeToken(apiKey, token string) bool {
	key := timeTokenKey(apiKey)
	msg := fernet.VerifyAndDecrypt([]byte(token), TimeTokenTTL, []*fernet.Key{&key})
	if msg == nil {
		return false
	}
	_, err := strconv.ParseInt(string(msg), 10, 64)
	return err == nil
}

func timeTokenKey(apiKey string) fernet.Key {
	return fernet.Key(sha256.Sum256([]byte(apiKey)))
}
