package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"calctree/internal/models"
)

var (
	ErrMissingCredentials = errors.New("Username and password are required")
	ErrWeakPassword       = errors.New("Password must be at least 6 characters")
	ErrUsernameTaken      = errors.New("Username already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
)

const (
	minPasswordLength = 6
	tokenTTL          = 7 * 24 * time.Hour
)

// UserStore is the persistence contract the credential service needs.
// FindUserByUsername returns (nil, nil) when no such user exists.
type UserStore interface {
	FindUserByUsername(username string) (*models.User, error)
	CreateUser(user *models.User) error
}

type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// UserInfo is the public projection of a user returned with tokens.
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Result is a freshly issued token plus the user it belongs to.
type Result struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type Service struct {
	users  UserStore
	secret []byte
}

func NewService(users UserStore, secret []byte) *Service {
	return &Service{users: users, secret: secret}
}

// Register creates a new user with a bcrypt-hashed password and issues a
// token for it.
func (s *Service) Register(username, password string) (*Result, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	existing, err := s.users.FindUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

// Login checks the credentials and issues a fresh token. Unknown usernames
// and wrong passwords produce the same error so usernames cannot be
// enumerated.
func (s *Service) Login(username, password string) (*Result, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.FindUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *Service) issueToken(user *models.User) (*Result, error) {
	claims := &Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Result{
		Token: signed,
		User:  UserInfo{ID: user.ID, Username: user.Username},
	}, nil
}

// ParseToken verifies a bearer token and returns its claims.
func (s *Service) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
