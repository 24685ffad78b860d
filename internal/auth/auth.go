// Package auth handles accounts, password hashing, and session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/verte-zerg/tejas/internal/model"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 8

// Users is the account storage the service needs.
type Users interface {
	CreateUser(ctx context.Context, email, passwordHash string, joinedAt time.Time) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id int64) (model.User, error)
}

// Options configures a Service.
type Options struct {
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
	Tokens     *TokenFile
	Now        func() time.Time
	Logger     *zap.Logger
}

// Service handles registration, login, and JWT session tokens.
type Service struct {
	users  Users
	secret []byte
	ttl    time.Duration
	cost   int
	tokens *TokenFile
	now    func() time.Time
	log    *zap.Logger
}

// NewService creates a Service. Secret must be non-empty.
func NewService(users Users, opts Options) (*Service, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("auth secret is empty")
	}
	if opts.TokenTTL <= 0 {
		return nil, errors.New("token ttl must be > 0")
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		users:  users,
		secret: opts.Secret,
		ttl:    opts.TokenTTL,
		cost:   opts.BcryptCost,
		tokens: opts.Tokens,
		now:    opts.Now,
		log:    opts.Logger.Named("auth"),
	}, nil
}

// Register creates a new account after validating inputs.
func (s *Service) Register(ctx context.Context, email, password, confirmPassword string) (model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: email and password are required", model.ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return model.User{}, fmt.Errorf("%w: email address is not valid", model.ErrInvalidInput)
	}
	if password != confirmPassword {
		return model.User{}, fmt.Errorf("%w: passwords do not match", model.ErrInvalidInput)
	}
	if len(password) < MinPasswordLen {
		return model.User{}, fmt.Errorf("%w: password must be at least %d characters", model.ErrInvalidInput, MinPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.CreateUser(ctx, email, string(hash), s.now())
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	_, token, err := s.login(ctx, email, password)
	return token, err
}

func (s *Service) login(ctx context.Context, email, password string) (model.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, "", model.ErrUnauthorized
		}
		return model.User{}, "", fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info("login rejected", zap.Int64("user_id", user.ID))
		return model.User{}, "", model.ErrUnauthorized
	}
	token, err := s.generateJWT(user)
	if err != nil {
		return model.User{}, "", fmt.Errorf("generate jwt: %w", err)
	}
	s.log.Info("user logged in", zap.Int64("user_id", user.ID))
	return user, token, nil
}

// ValidateToken parses a token and returns the user id from its subject.
func (s *Service) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, model.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, model.ErrUnauthorized
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, model.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, model.ErrUnauthorized
	}
	return userID, nil
}

// Current returns the signed-in user from the token file, or nil when
// nobody is signed in or the token no longer resolves to an account.
func (s *Service) Current(ctx context.Context) *model.User {
	if s.tokens == nil {
		return nil
	}
	token, err := s.tokens.Load()
	if err != nil {
		s.log.Warn("failed to read session token", zap.Error(err))
		return nil
	}
	if token == "" {
		return nil
	}
	userID, err := s.ValidateToken(token)
	if err != nil {
		s.log.Debug("stored session token rejected", zap.Error(err))
		return nil
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		s.log.Debug("session user lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil
	}
	return &user
}

// SignIn logs in and persists the token for later commands.
func (s *Service) SignIn(ctx context.Context, email, password string) (model.User, error) {
	if s.tokens == nil {
		return model.User{}, errors.New("no token file configured")
	}
	user, token, err := s.login(ctx, email, password)
	if err != nil {
		return model.User{}, err
	}
	if err := s.tokens.Save(token); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// SignOut forgets the persisted token.
func (s *Service) SignOut() error {
	if s.tokens == nil {
		return nil
	}
	return s.tokens.Clear()
}

func (s *Service) generateJWT(user model.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
