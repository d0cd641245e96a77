package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  domain.UserRecord `json:"user"`
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token. A 401 here means bad
// credentials, not an expired session.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	var out loginResponse
	err := c.doJSON(ctx, call{endpoint: "auth.login", method: http.MethodPost, path: "/auth/login"},
		loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("auth.login: %w: empty token", domain.ErrBackendUnavailable)
	}
	return &ports.LoginResult{Token: out.Token, User: out.User}, nil
}

func (c *Client) Register(ctx context.Context, in ports.RegisterInput) error {
	return c.doJSON(ctx, call{endpoint: "auth.register", method: http.MethodPost, path: "/auth/register"},
		registerRequest{FullName: in.FullName, Email: in.Email, Phone: in.Phone, Password: in.Password}, nil)
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.doJSON(ctx, call{endpoint: "auth.logout", method: http.MethodPost, path: "/auth/logout", token: token}, nil, nil)
}
