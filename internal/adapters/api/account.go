package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bnema/foodfast-cli/internal/domain"
)

type RegisterArgs struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type userPayload struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func (u userPayload) toDomain() domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      domain.Role(u.Role),
	}
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		User         userPayload `json:"user"`
		AccessToken  string      `json:"access_token"`
		RefreshToken string      `json:"refresh_token"`
	} `json:"data"`
}

func (r authResponse) session() domain.Session {
	return domain.Session{
		AccessToken:  r.Data.AccessToken,
		RefreshToken: r.Data.RefreshToken,
		User:         r.Data.User.toDomain(),
	}
}

// Register creates an account. The backend hands back a full credential pair,
// so a successful registration doubles as a login.
func (c *Client) Register(ctx context.Context, args RegisterArgs) (domain.Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/account/register", nil, args, &resp); err != nil {
		return domain.Session{}, fmt.Errorf("register account: %w", err)
	}
	if !resp.Success {
		return domain.Session{}, fmt.Errorf("register account: %s", resp.Message)
	}

	return resp.session(), nil
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/account/login", nil, body, &resp); err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}
	if !resp.Success {
		return domain.Session{}, fmt.Errorf("login: %s", resp.Message)
	}

	return resp.session(), nil
}

type profileResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		User userPayload `json:"user"`
	} `json:"data"`
}

func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	var resp profileResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/account/profile", nil, nil, &resp); err != nil {
		return domain.User{}, fmt.Errorf("get profile: %w", err)
	}
	if !resp.Success {
		return domain.User{}, fmt.Errorf("get profile: %s", resp.Message)
	}

	return resp.Data.User.toDomain(), nil
}

type ProfileUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (domain.User, error) {
	var resp profileResponse
	if err := c.do(ctx, http.MethodPut, "/api/v1/account/profile", nil, update, &resp); err != nil {
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}
	if !resp.Success {
		return domain.User{}, fmt.Errorf("update profile: %s", resp.Message)
	}

	return resp.Data.User.toDomain(), nil
}
