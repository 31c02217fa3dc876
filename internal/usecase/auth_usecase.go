package usecase

import (
	"errors"
	"fmt"
	"strings"

	"jungleboard/internal/entity"
	"jungleboard/internal/repo/persistent"
	"jungleboard/pkg/jwt"
	"jungleboard/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Register(username, password string) (*entity.User, string, error)
	Login(username, password string) (*entity.User, string, error)
	GetUser(userID string) (*entity.User, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	logger     *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	jwtService *jwt.Service,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

func (uc *authUseCase) Register(username, password string) (*entity.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("missing fields: %w", entity.ErrInvalidInput)
	}

	if _, err := uc.userRepo.GetByUsername(username); err == nil {
		return nil, "", fmt.Errorf("username taken: %w", entity.ErrConflict)
	} else if !errors.Is(err, entity.ErrNotFound) {
		uc.logger.Error("Failed to check username %q: %v", username, err)
		return nil, "", fmt.Errorf("failed to register")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, "", fmt.Errorf("failed to register")
	}

	user := &entity.User{
		Username: username,
		Password: string(hashedPassword),
	}

	if err := uc.userRepo.Create(user); err != nil {
		uc.logger.Error("Failed to create user: %v", err)
		return nil, "", fmt.Errorf("failed to register")
	}

	token, err := uc.jwtService.GenerateToken(user.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to register")
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) Login(username, password string) (*entity.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("missing fields: %w", entity.ErrInvalidInput)
	}

	user, err := uc.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", entity.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", entity.ErrUnauthorized)
	}

	token, err := uc.jwtService.GenerateToken(user.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to login")
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) GetUser(userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}
