package service

import (
	"context"
	"errors"
	"log/slog"

	"ctchen222/Prompt-Benchmark/internal/api/models"
	"ctchen222/Prompt-Benchmark/internal/api/repository"
	"ctchen222/Prompt-Benchmark/internal/apperror"
	"ctchen222/Prompt-Benchmark/internal/auth"
)

// UserService defines the interface for user-related business logic.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
	// Authenticate resolves a bearer token to the user it names.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type userService struct {
	userRepo               repository.UserRepository
	tokens                 *auth.TokenManager
	allowAdminRegistration bool
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenManager, allowAdminRegistration bool) UserService {
	return &userService{
		userRepo:               userRepo,
		tokens:                 tokens,
		allowAdminRegistration: allowAdminRegistration,
	}
}

// Register creates the user and signs them in.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error) {
	ctx, span := tracer.Start(ctx, "UserService.Register")
	defer span.End()

	existingUser, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.Conflict("username already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin && s.allowAdminRegistration,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.Conflict("username already registered")
		}
		return nil, err
	}

	slog.InfoContext(ctx, "User registered", "user.id", user.ID, "user.admin", user.IsAdmin)
	return s.issue(user.Username)
}

// Login checks the credentials and returns a token. Unknown users and wrong
// passwords produce the same error.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	ctx, span := tracer.Start(ctx, "UserService.Login")
	defer span.End()

	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, apperror.BadCredentials()
	}

	return s.issue(user.Username)
}

func (s *userService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		slog.DebugContext(ctx, "Rejected bearer token", "error", err)
		return nil, apperror.Unauthorized("could not validate credentials")
	}

	user, err := s.userRepo.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized("could not validate credentials")
	}
	return user, nil
}

func (s *userService) issue(username string) (*models.TokenResponse, error) {
	token, err := s.tokens.CreateToken(username)
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{AccessToken: token, TokenType: models.TokenTypeBearer}, nil
}
