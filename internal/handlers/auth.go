package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/crystal-levels/internal/config"
	"github.com/vancomm/crystal-levels/internal/middleware"
	"github.com/vancomm/crystal-levels/internal/repository"
)

type AuthorStore interface {
	CreateAuthor(ctx context.Context, username string, passwordHash []byte) (*repository.Author, error)
	FetchAuthor(ctx context.Context, username string) (*repository.Author, error)
}

type Auth struct {
	log     logrus.FieldLogger
	repo    AuthorStore
	cookies *config.Cookies
}

func NewAuth(log logrus.FieldLogger, repo AuthorStore, cookies *config.Cookies) *Auth {
	return &Auth{
		log:     log,
		repo:    repo,
		cookies: cookies,
	}
}

type AuthorInfo struct {
	AuthorId int64  `json:"author_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Author   *AuthorInfo `json:"author,omitempty"`
}

var (
	ErrBadAuthBody        = fmt.Errorf("request body must contain url-encoded username and password")
	ErrPasswordTooLong    = fmt.Errorf("password too long")
	ErrInvalidCredentials = fmt.Errorf("invalid username or password")
	ErrUsernameTaken      = fmt.Errorf("username taken")
)

// bcrypt refuses longer passwords
const maxPasswordBytes = 72

var bcryptCost = bcrypt.DefaultCost

func (a *Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.AuthorClaims(r.Context())
	if !ok {
		sendJSONOrLog(w, a.log, &Status{LoggedIn: false})
		return
	}

	fresh := config.NewAuthorClaims(claims.AuthorId, claims.Username)
	if err := a.cookies.Issue(w, fresh); err != nil {
		internalError(w, a.log, err, "unable to refresh auth cookies")
		return
	}
	sendJSONOrLog(w, a.log, &Status{
		LoggedIn: true,
		Author:   &AuthorInfo{claims.AuthorId, claims.Username},
	})
}

func credentials(r *http.Request) (username, password string, err error) {
	if err := r.ParseForm(); err != nil {
		return "", "", ErrBadAuthBody
	}
	username, password = r.FormValue("username"), r.FormValue("password")
	if username == "" || password == "" {
		return "", "", ErrBadAuthBody
	}
	if len(password) > maxPasswordBytes {
		return "", "", ErrPasswordTooLong
	}
	return username, password, nil
}

func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		sendError(w, a.log, http.StatusBadRequest, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		internalError(w, a.log, err, "unable to hash password")
		return
	}

	author, err := a.repo.CreateAuthor(r.Context(), username, hash)
	if errors.Is(err, repository.ErrUsernameTaken) {
		sendError(w, a.log, http.StatusConflict, ErrUsernameTaken)
		return
	}
	if err != nil {
		internalError(w, a.log, err, "unable to insert author")
		return
	}

	a.log.WithField("username", username).Info("author registered")
	a.login(w, author)
}

func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		sendError(w, a.log, http.StatusBadRequest, err)
		return
	}

	author, err := a.repo.FetchAuthor(r.Context(), username)
	if errors.Is(err, repository.ErrNotFound) {
		sendError(w, a.log, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err != nil {
		internalError(w, a.log, err, "unable to fetch author")
		return
	}

	if err := bcrypt.CompareHashAndPassword(author.PasswordHash, []byte(password)); err != nil {
		sendError(w, a.log, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	a.login(w, author)
}

func (a *Auth) login(w http.ResponseWriter, author *repository.Author) {
	claims := config.NewAuthorClaims(author.AuthorId, author.Username)
	if err := a.cookies.Issue(w, claims); err != nil {
		internalError(w, a.log, err, "unable to issue auth cookies")
		return
	}
	sendJSONOrLog(w, a.log, &Status{
		LoggedIn: true,
		Author:   &AuthorInfo{author.AuthorId, author.Username},
	})
}

func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
