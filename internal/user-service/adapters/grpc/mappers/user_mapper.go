package mappers

import (
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/rpc"
	"github.com/jcmexdev/ecommerce-gateway/internal/user-service/domain"
)

func UserInputFromRPC(f *rpc.UserFields) domain.UserInput {
	if f == nil {
		return domain.UserInput{}
	}
	return domain.UserInput{Name: f.Name, Email: f.Email, Password: f.Password}
}

// UserToRPC drops the password hash.
func UserToRPC(u *domain.User) *rpc.User {
	if u == nil {
		return nil
	}
	return &rpc.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func UsersToRPC(users []domain.User) []rpc.User {
	out := make([]rpc.User, len(users))
	for i := range users {
		out[i] = *UserToRPC(&users[i])
	}
	return out
}
