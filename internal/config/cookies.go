package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	authCookie = "auth"
	signCookie = "sign"
)

type AuthorClaims struct {
	AuthorId int64  `json:"author_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewAuthorClaims(authorId int64, username string) *AuthorClaims {
	return &AuthorClaims{
		AuthorId: authorId,
		Username: username,
	}
}

// Cookies carries a signed token split in two: the header and payload stay
// readable by scripts, the signature lives in an http-only cookie.
type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToUpper(s) {
	case "DEFAULT":
		return http.SameSiteDefaultMode
	case "LAX":
		return http.SameSiteLaxMode
	case "NONE":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

func NewCookies(j *JWT) (*Cookies, error) {
	domain, ok := os.LookupEnv("COOKIES_DOMAIN")
	if !ok {
		return nil, fmt.Errorf("COOKIES_DOMAIN env variable is not set")
	}

	return &Cookies{
		Domain:   domain,
		Secure:   os.Getenv("COOKIES_SECURE") != "0",
		SameSite: parseSameSite(os.Getenv("COOKIES_SAMESITE")),
		jwt:      j,
	}, nil
}

func NewCookiesWith(j *JWT, domain string, secure bool, sameSite http.SameSite) *Cookies {
	return &Cookies{Domain: domain, Secure: secure, SameSite: sameSite, jwt: j}
}

func (c *Cookies) cookie(name, value string, expires time.Time, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(authCookie, "delete", time.Time{}, -1, false))
	http.SetCookie(w, c.cookie(signCookie, "delete", time.Time{}, -1, true))
}

// Issue signs claims and sets both cookies.
func (c *Cookies) Issue(w http.ResponseWriter, claims *AuthorClaims) error {
	token, err := c.jwt.Sign(claims)
	if err != nil {
		return fmt.Errorf("unable to sign token: %w", err)
	}
	header, payload, signature, err := splitToken(token)
	if err != nil {
		return err
	}
	expires := time.Now().Add(c.jwt.TokenLifetime())
	http.SetCookie(w, c.cookie(authCookie, header+"."+payload, expires, 0, false))
	http.SetCookie(w, c.cookie(signCookie, signature, expires, 0, true))
	return nil
}

func splitToken(token string) (header, payload, signature string, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("malformed JWT token generated")
	}
	return parts[0], parts[1], parts[2], nil
}

func (c *Cookies) ParseAuthorClaims(r *http.Request) (*AuthorClaims, error) {
	auth, err := r.Cookie(authCookie)
	if err != nil {
		return nil, err
	}
	sign, err := r.Cookie(signCookie)
	if err != nil {
		return nil, err
	}
	return c.jwt.Parse(auth.Value + "." + sign.Value)
}
