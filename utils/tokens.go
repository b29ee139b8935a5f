package utils

import (
	"context"
	"crypto/rand"
	"net/http"
	"os"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/marouan1337/oussaaaa/storage"
)

var bgContext = context.Background()

// SessionCookieName is the httpOnly cookie carrying the session token.
const SessionCookieName = "token"

const sessionTTL = 24 * time.Hour

// SessionToken is the signed session payload.
type SessionToken struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func CreateSessionToken(id, email, role string) (string, error) {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("JWT_SECRET"), sessionTTL)

	claims := SessionToken{
		ID:    id,
		Email: email,
		Role:  role,
	}

	token, err := signer.Sign(claims)
	if err != nil {
		return "", err
	}

	return string(token), nil
}

func SetSessionCookie(ctx iris.Context, token string) {
	ctx.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   os.Getenv("ENV") == "production",
	})
}

func ClearSessionCookie(ctx iris.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// FromSessionCookie is the token extractor used by the verifier; sessions
// travel in the cookie only, never in a header or query string.
func FromSessionCookie(ctx iris.Context) string {
	return ctx.GetCookie(SessionCookieName)
}

// RevokeSessionToken blocklists the current token in Redis for the full
// session TTL, which outlives the token's own expiry.
func RevokeSessionToken(ctx iris.Context) {
	token := FromSessionCookie(ctx)
	if token == "" || storage.Redis == nil {
		return
	}
	storage.Redis.Set(bgContext, revokedKey(token), "true", sessionTTL)
}

// SessionRevoked reports whether a token was blocklisted by a logout.
func SessionRevoked(token string) bool {
	if storage.Redis == nil {
		return false
	}
	val, err := storage.Redis.Get(bgContext, revokedKey(token)).Result()
	return err == nil && val == "true"
}

func revokedKey(token string) string {
	return "session:revoked:" + token
}

// GenerateShortToken returns a URL-safe random string of the given length (bytes*2 hex).
func GenerateShortToken(n int) string {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return ""
	}
	const hex = "0123456789abcdef"
	out := make([]byte, n*2)
	for i, v := range b {
		out[i*2] = hex[v>>4]
		out[i*2+1] = hex[v&0x0f]
	}
	return string(out)
}
