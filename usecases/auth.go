package usecases

import (
	"errors"
	"fmt"

	"smartdrishti-server/entities"
	"smartdrishti-server/repositories"
	"smartdrishti-server/util"

	"gorm.io/gorm"
)

type AuthUseCase struct {
	UserRepo  repositories.UserRepository
	jwtSecret []byte
}

func NewAuthUseCase(userRepo repositories.UserRepository, jwtSecret []byte) *AuthUseCase {
	return &AuthUseCase{
		UserRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new user and returns it with a fresh token.
// A taken email or username fails with ErrDuplicate and inserts nothing.
func (uc *AuthUseCase) Register(username, email, password, role string) (*entities.User, string, error) {
	if username == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("username, email and password are required: %w", ErrInvalid)
	}

	if _, err := uc.UserRepo.GetByEmail(email); err == nil {
		return nil, "", fmt.Errorf("email %w", ErrDuplicate)
	}
	if _, err := uc.UserRepo.GetByUsername(username); err == nil {
		return nil, "", fmt.Errorf("username %w", ErrDuplicate)
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := uc.UserRepo.Create(user); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateJWT(user.ID, user.Username, user.Email, user.Role, uc.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login authenticates by email and password.
func (uc *AuthUseCase) Login(email, password string) (*entities.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("email and password are required: %w", ErrInvalid)
	}

	user, err := uc.UserRepo.GetByEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !util.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user.ID, user.Username, user.Email, user.Role, uc.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetProfile returns the user for a token's userId claim.
func (uc *AuthUseCase) GetProfile(userID string) (*entities.User, error) {
	user, err := uc.UserRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes username, email or password. Only provided fields
// are touched; a new email or username must not collide with another user.
func (uc *AuthUseCase) UpdateProfile(userID, username, email, password string) (*entities.User, error) {
	user, err := uc.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if username != "" && username != user.Username {
		if other, err := uc.UserRepo.GetByUsername(username); err == nil && other.ID != user.ID {
			return nil, fmt.Errorf("username %w", ErrDuplicate)
		}
		user.Username = username
	}
	if email != "" && email != user.Email {
		if other, err := uc.UserRepo.GetByEmail(email); err == nil && other.ID != user.ID {
			return nil, fmt.Errorf("email %w", ErrDuplicate)
		}
		user.Email = email
	}
	if password != "" {
		hash, err := util.HashPassword(password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := uc.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
