package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore"
	"github.com/jcmexdev/ecommerce-gateway/internal/user-service/domain"
)

type Service struct {
	users      docstore.Collection[domain.User]
	bcryptCost int
}

func NewService(users docstore.Collection[domain.User]) *Service {
	return &Service{users: users, bcryptCost: bcrypt.DefaultCost}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return u, nil
}

func (s *Service) Create(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	in = normalize(in)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.InvalidArgument("name, email and password are required")
	}
	if err := s.ensureEmailFree(ctx, in.Email, ""); err != nil {
		return nil, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, apperr.Internal(err)
	}
	slog.InfoContext(ctx, "created user", "user_id", u.ID)
	return u, nil
}

func (s *Service) Update(ctx context.Context, id string, in domain.UserInput) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in = normalize(in)
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" && in.Email != u.Email {
		if err := s.ensureEmailFree(ctx, in.Email, id); err != nil {
			return nil, err
		}
		u.Email = in.Email
	}
	if in.Password != "" {
		if u.PasswordHash, err = s.hash(in.Password); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, id, u); err != nil {
		return nil, storeError(err)
	}
	slog.InfoContext(ctx, "updated user", "user_id", id)
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return storeError(err)
	}
	slog.InfoContext(ctx, "deleted user", "user_id", id)
	return nil
}

func (s *Service) List(ctx context.Context, q docstore.Query) ([]domain.User, int64, error) {
	users, total, err := s.users.Find(ctx, q)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return users, total, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.users.FindOne(ctx, docstore.Filter{"email": email})
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return nil
	case err != nil:
		return apperr.Internal(err)
	case existing.ID != selfID:
		return apperr.New(apperr.KindConflict, "Email already registered")
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindInvalidArgument, "password cannot be used")
	}
	return string(h), nil
}

func normalize(in domain.UserInput) domain.UserInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return in
}

func storeError(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	return apperr.Internal(err)
}
