package service

import (
	"errors"

	"blogapi/internal/http-api/apperr"
	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/models"
	"blogapi/internal/http-api/repository"

	"gorm.io/gorm"
)

type UserService interface {
	FindAll(page, limit int) (*dto.Paginated[*dto.UserResponse], error)
	FindOne(id string) (*dto.UserResponse, error)
	Update(id string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	UpdateProfile(id string, req dto.UpdateProfileRequest) (*dto.UserResponse, error)
	Remove(id string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) FindAll(page, limit int) (*dto.Paginated[*dto.UserResponse], error) {
	users, total, err := s.userRepo.List(page, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginated(responses, int(total), page, limit), nil
}

func (s *userService) FindOne(id string) (*dto.UserResponse, error) {
	user, err := s.findUser(id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// Update patches an account, re-checking username/email uniqueness when
// they change.
func (s *userService) Update(id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.findUser(id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		if _, err := s.userRepo.FindByUsername(*req.Username); err == nil {
			return nil, apperr.Conflict("username %q is already in use", *req.Username)
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(*req.Email); err == nil {
			return nil, apperr.Conflict("email %q is already in use", *req.Email)
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("username or email already in use")
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// UpdateProfile is the self-service path: no role or activation changes.
func (s *userService) UpdateProfile(id string, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	return s.Update(id, dto.UpdateUserRequest{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
}

func (s *userService) Remove(id string) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user %s not found", id)
		}
		return err
	}
	return nil
}

func (s *userService) findUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", id)
		}
		return nil, err
	}
	return user, nil
}
