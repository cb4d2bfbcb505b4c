package application

import (
	"context"

	"go.uber.org/zap"

	userDomain "github.com/itemshare/service-sharing/internal/domain/user"
)

// CreateUserRequest is the request DTO for registering a user.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUserRequest is the request DTO for a partial user update.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UserDTO is the API response representation of a user.
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserService implements use cases for user registration and management.
type UserService struct {
	repo   userDomain.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo userDomain.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// CreateUser registers a new user. A duplicate email is a conflict.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	u, err := userDomain.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", u.ID()))
	result := toUserDTO(u)
	return &result, nil
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// GetUsers retrieves all users ordered by id.
func (s *UserService) GetUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	return dtos, nil
}

// UpdateUser applies a partial update to an existing user.
func (s *UserService) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := u.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		if err := u.ChangeEmail(*req.Email); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// DeleteUser removes a user by id.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{ID: u.ID(), Name: u.Name(), Email: u.Email()}
}
