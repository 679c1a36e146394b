package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

// readKey returns the PEM held by env var name or, failing that, the file
// named by name_FILE.
func readKey(name string) ([]byte, error) {
	if pem, ok := os.LookupEnv(name); ok {
		return []byte(pem), nil
	}
	path, ok := os.LookupEnv(name + "_FILE")
	if !ok {
		return nil, fmt.Errorf("no %s or %s_FILE env variable set", name, name)
	}
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return pem, nil
}

func NewJWT() (*JWT, error) {
	privatePEM, err := readKey("JWT_PRIVATE_KEY")
	if err != nil {
		return nil, err
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("unable to parse JWT private key: %w", err)
	}

	publicPEM, err := readKey("JWT_PUBLIC_KEY")
	if err != nil {
		return nil, err
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("unable to parse JWT public key: %w", err)
	}

	lifetime, err := lookupDuration("JWT_TOKEN_LIFETIME", time.Hour*24*30)
	if err != nil {
		return nil, fmt.Errorf("unable to parse JWT_TOKEN_LIFETIME: %w", err)
	}

	return NewJWTWithKeys(privateKey, publicKey, lifetime), nil
}

func NewJWTWithKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, lifetime time.Duration) *JWT {
	return &JWT{
		privateKey:    privateKey,
		publicKey:     publicKey,
		signingMethod: jwt.SigningMethodRS256,
		tokenLifetime: lifetime,
	}
}

func (j *JWT) TokenLifetime() time.Duration {
	return j.tokenLifetime
}

func (j *JWT) Sign(claims *AuthorClaims) (string, error) {
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(j.tokenLifetime))
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

func (j *JWT) Parse(token string) (*AuthorClaims, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&AuthorClaims{},
		func(t *jwt.Token) (any, error) {
			return j.publicKey, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*AuthorClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
