// Package login is the credential check behind the Auth API: an in-memory
// user table with bcrypt password hashes that issues HS256 session tokens.
package login

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/se-clavier/api"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrConflict           = errors.New("user already exists")
	ErrMisconfigured      = errors.New("login config invalid")
)

// Config configures a Service.
type Config struct {
	JWTSecret  string        `env:"LOGIN_JWT_SECRET"`
	TokenTTL   time.Duration `env:"LOGIN_TOKEN_TTL" envDefault:"1h"`
	Issuer     string        `env:"LOGIN_ISSUER" envDefault:"se-clavier"`
	BcryptCost int           `env:"LOGIN_BCRYPT_COST" envDefault:"10"`
}

// Service authenticates users. It is safe for concurrent use.
type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string
	cost   int
	now    func() time.Time

	mu     sync.RWMutex
	users  map[string]account
	nextID uint64
}

type account struct {
	user api.User
	hash []byte
}

type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// NewService validates cfg and returns an empty Service.
func NewService(cfg Config) (*Service, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: LOGIN_JWT_SECRET is required", ErrMisconfigured)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("%w: LOGIN_TOKEN_TTL must be positive", ErrMisconfigured)
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: LOGIN_BCRYPT_COST out of range", ErrMisconfigured)
	}

	return &Service{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		issuer: cfg.Issuer,
		cost:   cost,
		now:    time.Now,
		users:  make(map[string]account),
		nextID: 1,
	}, nil
}

// Register adds a user and returns its record. IDs are assigned in
// registration order starting at 1.
func (s *Service) Register(username, password string) (api.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return api.User{}, fmt.Errorf("%w: username and password are required", ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return api.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return api.User{}, fmt.Errorf("%w: %s", ErrConflict, username)
	}
	u := api.User{ID: s.nextID, Name: username}
	s.nextID++
	s.users[username] = account{user: u, hash: hash}
	return u, nil
}

// Login checks the credentials and issues a token for the user. It has the
// shape of the Auth handler.
func (s *Service) Login(ctx context.Context, req api.AuthRequest) (api.AuthResponse, error) {
	if err := ctx.Err(); err != nil {
		return api.AuthResponse{}, err
	}

	s.mu.RLock()
	acc, ok := s.users[strings.TrimSpace(req.Username)]
	s.mu.RUnlock()
	if !ok {
		return api.AuthResponse{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(req.Password)); err != nil {
		return api.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := s.issue(acc.user)
	if err != nil {
		return api.AuthResponse{}, err
	}
	return api.AuthResponse{User: acc.user, Token: token}, nil
}

// ParseToken validates a token issued by Login and returns its user.
func (s *Service) ParseToken(token string) (api.User, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return api.User{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return api.User{}, ErrInvalidToken
	}

	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return api.User{}, fmt.Errorf("%w: subject %q", ErrInvalidToken, c.Subject)
	}
	return api.User{ID: id, Name: c.Name}, nil
}

func (s *Service) issue(u api.User) (string, error) {
	now := s.now()
	c := claims{
		Name: u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatUint(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
