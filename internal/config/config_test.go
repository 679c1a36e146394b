package config

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProfileMissingFile(t *testing.T) {
	p, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile(), p)
}

func TestLoadProfile(t *testing.T) {
	path := writeFile(t, "profile.yaml", `
passes: 8
max_attempts: 50
timeout: 2s
depot:
  block_chance: 0.5
`)
	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, 8, p.Passes)
	assert.Equal(t, 50, p.MaxAttempts)
	assert.Equal(t, 2*time.Second, p.Timeout)
	assert.Equal(t, 0.5, p.Depot.BlockChance)
	// untouched keys keep their defaults
	assert.Equal(t, 0.3, p.Depot.WallChance)

	opts := p.Options()
	assert.Equal(t, 8, opts.Passes)
	assert.Equal(t, 0.5, opts.DepotBlockChance)
}

func TestLoadProfileInvalid(t *testing.T) {
	_, err := LoadProfile(writeFile(t, "bad.yaml", "depot:\n  wall_chance: 1.5\n"))
	assert.ErrorContains(t, err, "depot.wall_chance")

	_, err = LoadProfile(writeFile(t, "broken.yaml", "passes: [1, 2"))
	assert.Error(t, err)
}

func TestNewGeneratorEnv(t *testing.T) {
	t.Setenv("LEVELGEN_PROFILE", writeFile(t, "p.yaml", "passes: 3\n"))
	t.Setenv("LEVELGEN_MAX_ATTEMPTS", "7")
	t.Setenv("LEVELGEN_TIMEOUT", "150ms")

	p, err := NewGenerator()
	require.NoError(t, err)
	assert.Equal(t, 3, p.Passes)
	assert.Equal(t, 7, p.MaxAttempts)
	assert.Equal(t, 150*time.Millisecond, p.Timeout)

	t.Setenv("LEVELGEN_MAX_ATTEMPTS", "many")
	_, err = NewGenerator()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "levels.log"))
	log, err := NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	t.Setenv("LOG_LEVEL", "loud")
	_, err = NewLogger()
	assert.Error(t, err)
}

func TestDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")
	t.Setenv("POSTGRES_USER", "levels")
	t.Setenv("POSTGRES_PASSWORD", "p@ss word")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("POSTGRES_DB", "levels")
	t.Setenv("POSTGRES_SSLMODE", "disable")

	url, err := DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://levels:p%40ss+word@db:5432/levels?sslmode=disable", url)

	t.Setenv("DATABASE_URL", "postgres://elsewhere/levels")
	url, err = DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://elsewhere/levels", url)
}

func TestCookiesRoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cookies := NewCookiesWith(
		NewJWTWithKeys(key, &key.PublicKey, time.Hour),
		"localhost", false, http.SameSiteLaxMode,
	)

	rec := httptest.NewRecorder()
	require.NoError(t, cookies.Issue(rec, NewAuthorClaims(42, "alice")))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	claims, err := cookies.ParseAuthorClaims(req)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.AuthorId)
	assert.Equal(t, "alice", claims.Username)

	_, err = cookies.ParseAuthorClaims(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Error(t, err)
}
