package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/2beens/workoutlog/internal/auth"
)

func (c *Client) Register(ctx context.Context, creds auth.Credentials) (*auth.User, error) {
	var user auth.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, creds, &user, statusErrors{
		http.StatusBadRequest: auth.ErrMissingCredentials,
		http.StatusConflict:   auth.ErrUsernameTaken,
	}); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login opens a session and keeps its token for the following requests.
func (c *Client) Login(ctx context.Context, creds auth.Credentials) (*auth.LoginResponse, error) {
	var resp auth.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, creds, &resp, statusErrors{
		http.StatusBadRequest:   auth.ErrMissingCredentials,
		http.StatusUnauthorized: auth.ErrInvalidCredentials,
	}); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if c.Token() == "" {
		return auth.ErrSessionTokenMissing
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/logout", nil, nil, nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) Profile(ctx context.Context, userID int) (*auth.User, error) {
	var user auth.User
	query := url.Values{"user_id": {strconv.Itoa(userID)}}
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", query, nil, &user, statusErrors{
		http.StatusNotFound: auth.ErrUserNotFound,
	}); err != nil {
		return nil, err
	}
	return &user, nil
}
