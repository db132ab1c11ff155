package services

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"patitas/internal/domain"
	"patitas/internal/repos"
)

type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil || !u.Activo {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Register(nombre, apellido, email, password string) (*domain.User, error) {
	if existing, _ := s.Users.ByEmail(email); existing != nil {
		return nil, ErrEmailTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := domain.User{
		ID:       "u-" + uuid.NewString()[:8],
		Nombre:   strings.TrimSpace(nombre),
		Apellido: strings.TrimSpace(apellido),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Hash:     string(h),
		Role:     domain.RoleCliente,
		Activo:   true,
	}
	if err := s.Users.Create(u); err != nil {
		if strings.Contains(err.Error(), "users.email") || strings.Contains(err.Error(), "idx_users_email") {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
