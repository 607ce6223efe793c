package service

import (
	"context"
	"errors"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/config"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/dto"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrCredenciales is returned by Login and Refresh for any authentication
// failure; the cause is not disclosed.
var ErrCredenciales = errors.New("credenciales invalidas")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	AdminVerifier
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
	now  Clock
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg, now: time.Now}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCredenciales
		}
		return nil, storeErr("buscar usuario", err, "")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}
	return s.tokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrCredenciales
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return nil, ErrCredenciales
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrCredenciales
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCredenciales
		}
		return nil, storeErr("buscar usuario", err, "")
	}
	if !user.Activo {
		return nil, ErrCredenciales
	}
	return s.tokens(user)
}

// VerificarAdmin authorizes a closing with a large difference. Wrong
// credentials and non-admin users are validation errors: the cashier's own
// session stays valid.
func (s *authService) VerificarAdmin(ctx context.Context, username, password string) (*model.Usuario, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, validation("credenciales de administrador inválidas")
		}
		return nil, storeErr("buscar administrador", err, "")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, validation("credenciales de administrador inválidas")
	}
	if !user.EsAdmin() {
		return nil, validation("el usuario %s no puede validar cierres de caja", user.Username)
	}
	return user, nil
}

func (s *authService) tokens(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, "access", time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, "refresh", time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User: dto.UsuarioResponse{
			ID:       user.ID.String(),
			Username: user.Username,
			Nombre:   user.Nombre,
			Email:    user.Email,
			Rol:      user.Rol,
			SedeID:   uuidPtrString(user.SedeID),
		},
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, typ string, duration time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"rol":      user.Rol,
		"typ":      typ,
		"exp":      now.Add(duration).Unix(),
		"iat":      now.Unix(),
	}
	if user.Email != nil {
		claims["email"] = *user.Email
	}
	if user.SedeID != nil {
		claims["sede_id"] = user.SedeID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
