package service

import (
	"context"
	"time"

	"blogapi/internal/config"
	"blogapi/internal/http-api/apperr"
	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/models"
	"blogapi/internal/http-api/repository"
	"blogapi/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by the access token. Role travels in the token so the
// authorization gate does not hit the database per request.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(req dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, user *models.User, err error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, err error)
	RevokeToken(ctx context.Context, refreshToken string) error
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo        repository.UserRepository
	tokenStore      repository.RefreshTokenStore
	jwtSecret       string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenStore repository.RefreshTokenStore,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:        userRepo,
		tokenStore:      tokenStore,
		jwtSecret:       cfg.JWTSecret,
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
	}
}

// Register creates a new account with the default user role.
func (s *authService) Register(req dto.RegisterRequest) (*models.User, error) {
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, apperr.Conflict("username already in use")
	}
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperr.Conflict("email already in use")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleUser,
		IsActive:  true,
	}

	if err := s.userRepo.Create(user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("username or email already in use")
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, username, password string) (string, string, *models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		// Dummy compare so unknown usernames take as long as bad passwords.
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", "", nil, apperr.Unauthenticated("invalid credentials")
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", "", nil, apperr.Unauthenticated("invalid credentials")
	}

	if !user.IsActive {
		return "", "", nil, apperr.Forbidden("account is deactivated")
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", nil, err
	}

	refreshToken, err := s.issueRefreshToken(ctx, user.ID)
	if err != nil {
		return "", "", nil, err
	}

	if err := s.userRepo.TouchLastLogin(user.ID); err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken, user, nil
}

// RefreshAccessToken rotates both tokens: the presented refresh token is
// consumed and a fresh pair is returned.
func (s *authService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error) {
	userID, err := s.tokenStore.Resolve(ctx, refreshToken)
	if err != nil {
		return "", "", apperr.Unauthenticated("invalid or expired refresh token")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return "", "", apperr.Unauthenticated("invalid or expired refresh token")
	}

	if err := s.tokenStore.Delete(ctx, refreshToken); err != nil {
		return "", "", err
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", err
	}

	newRefreshToken, err := s.issueRefreshToken(ctx, user.ID)
	if err != nil {
		return "", "", err
	}

	return accessToken, newRefreshToken, nil
}

func (s *authService) RevokeToken(ctx context.Context, refreshToken string) error {
	return s.tokenStore.Delete(ctx, refreshToken)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Unauthenticated("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, apperr.Unauthenticated("invalid token")
	}
	if !token.Valid {
		return nil, apperr.Unauthenticated("invalid token")
	}
	return claims, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// issueRefreshToken stores an opaque token in Redis; expiry rides on the
// key TTL.
func (s *authService) issueRefreshToken(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()
	if err := s.tokenStore.Save(ctx, token, userID, s.refreshTokenTTL); err != nil {
		return "", err
	}
	return token, nil
}
