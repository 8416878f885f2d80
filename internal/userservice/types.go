package userservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m  *UserModel
	ts *TokenService
	mb common.MessageProducer
}

type UserModel struct {
	db *sql.DB
}

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"-"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`

	// Blogs is derived from the blogs table, never stored on the user row.
	Blogs []int64 `json:"blogs"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

// Credentials is the login response payload.
type Credentials struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}
