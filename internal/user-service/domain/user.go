package domain

import "github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore"

const Collection = "users"

// User is the stored account. PasswordHash never leaves the service.
type User struct {
	docstore.Meta `bson:",inline"`
	Name          string `json:"name" bson:"name"`
	Email         string `json:"email" bson:"email"`
	PasswordHash  string `json:"password_hash" bson:"password_hash"`
}

// UserInput carries the writable fields. Empty values are left untouched by
// updates.
type UserInput struct {
	Name     string
	Email    string
	Password string
}
