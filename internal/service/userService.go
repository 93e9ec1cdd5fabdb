package service

import (
	"context"
	"errors"

	repository "equiplend/internal/database/postgres"
	"equiplend/internal/entity"
	"equiplend/pkg/auth"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	clock    Clock
}

func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenManager, clock Clock) UserService {
	return &userService{
		userRepo: userRepo,
		tokens:   tokens,
		clock:    clock,
	}
}

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, entity.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, entity.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         entity.UserRoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logrus.WithField("email", user.Email).Info("User registered")
	return user, nil
}

func (s *userService) Login(ctx context.Context, req *LoginRequest) (string, *entity.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return "", nil, entity.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, entity.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user, s.clock.Now())
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]*entity.User, error) {
	return s.userRepo.GetAll(ctx)
}
