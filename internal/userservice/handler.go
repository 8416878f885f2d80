package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrAuthenticationFailure = errors.New("invalid username or password")
)

func NewUserService(db *sql.DB, ts *TokenService, mb common.MessageProducer) *UserService {
	return &UserService{
		m:  NewUserModel(db),
		ts: ts,
		mb: mb,
	}
}

type RegisterUserRequest struct {
	Username string
	Name     string
	Email    string
	Password string
}

// RegisterUser creates a new user account. The password is hashed exactly
// once; the plaintext never leaves this call. When the optional email was
// supplied a user.created event is published for the welcome mail.
func (s *UserService) RegisterUser(ctx context.Context, req RegisterUserRequest) (*User, error) {
	v := common.NewValidator()
	validateUsername(v, req.Username)
	validatePassword(v, req.Password)
	if req.Email != "" {
		validateEmail(v, req.Email)
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
	}

	err := u.Password.set(req.Password)
	if err != nil {
		return nil, err
	}

	err = s.m.insert(ctx, &u)
	if err != nil {
		return nil, err
	}
	u.Blogs = []int64{}

	if u.Email != "" {
		data := struct {
			Email    string
			Username string
		}{
			Email:    u.Email,
			Username: u.Username,
		}

		eventData, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}

		err = s.mb.Publish(ctx, eventData, common.UserCreatedKey, common.UserExchange)
		if err != nil {
			return nil, err
		}
	}

	return &u, nil
}

// LoginUser verifies a username/password pair and mints a bearer token. A
// bad username and a bad password both come back as ErrAuthenticationFailure.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*Credentials, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthenticationFailure
	}

	token, err := s.ts.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &Credentials{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}

// GetUserForToken verifies a bearer token and resolves it to the full user
// record. The lookup hits the store on every call so a deleted user with a
// still-valid signature is rejected.
func (s *UserService) GetUserForToken(ctx context.Context, token string) (*User, error) {
	userID, err := s.ts.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.m.getUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	blogs, err := s.m.getBlogIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Blogs = blogs

	return user, nil
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}
