package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"rutaventas/internal/apierror"
	"rutaventas/internal/config"
	"rutaventas/internal/dto"
	"rutaventas/internal/middleware"
	"rutaventas/internal/model"
	"rutaventas/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

// HashPassword hashes a password the way Login verifies it.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type AuthService interface {
	// Login authenticates against one role partition. Administrators may log
	// into any partition.
	Login(ctx context.Context, rol model.Rol, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, filter dto.UsuarioFilter) ([]dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

var errCredenciales = apierror.Unauthorized("credenciales invalidas")

func (s *authService) Login(ctx context.Context, rol model.Rol, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if isNotFound(err) {
			return nil, errCredenciales
		}
		return nil, storeErr("login", err)
	}
	if !user.Activo {
		return nil, errCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errCredenciales
	}
	if user.Rol != rol && user.Rol != model.RolAdministrador {
		return nil, apierror.Forbidden("el usuario no pertenece al rol " + string(rol))
	}
	return s.issue(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	p, err := middleware.ParseToken(refreshToken, s.cfg.JWTSecret)
	if err != nil {
		return nil, apierror.Unauthorized("refresh token invalido o expirado")
	}

	user, err := s.repo.FindByID(ctx, p.ID)
	if err != nil || !user.Activo {
		return nil, apierror.Unauthorized("usuario no encontrado o inactivo")
	}
	return s.issue(user)
}

func (s *authService) issue(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioToResponse(user),
	}, nil
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	rol, ok := model.ParseRol(req.Rol)
	if !ok {
		return nil, apierror.Validation("rol invalido")
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Username:     strings.TrimSpace(req.Username),
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: hash,
		Rol:          rol,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, apierror.Conflict("el usuario " + user.Username + " ya existe")
		}
		return nil, storeErr("crear usuario", err)
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, filter dto.UsuarioFilter) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx, filter.Rol, filter.IncluirInactivos)
	if err != nil {
		return nil, storeErr("listar usuarios", err)
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if isNotFound(err) {
			return apierror.NotFound("usuario no encontrado")
		}
		return storeErr("desactivar usuario", err)
	}
	return nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Rol:      string(user.Rol),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:            u.ID.String(),
		Username:      u.Username,
		Nombre:        u.Nombre,
		Email:         u.Email,
		Rol:           string(u.Rol),
		Activo:        u.Activo,
		CamionID:      idPtrString(u.CamionID),
		CargaActivaID: idPtrString(u.CargaActivaID),
	}
}

// isUniqueViolation relies on gorm.Config.TranslateError mapping SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
