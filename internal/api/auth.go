package api

import (
	"context"

	"shopfront/internal/model"
)

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	var res model.LoginResponse
	if err := c.post(ctx, "/api/auth/login", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates a new account. The caller logs in separately.
func (c *Client) Register(ctx context.Context, req *model.RegisterRequest) error {
	return c.post(ctx, "/api/auth/register", req, nil)
}

// ForgotPassword requests a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.post(ctx, "/api/auth/forgot-password", body, nil)
}

// ResetPassword completes a password reset with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "password": newPassword}
	return c.post(ctx, "/api/auth/reset-password", body, nil)
}

// UpdateProfile updates the authenticated user's profile and returns
// the refreshed user record.
func (c *Client) UpdateProfile(ctx context.Context, req *model.UpdateProfileRequest, opts ...RequestOption) (*model.User, error) {
	var user model.User
	if err := c.put(ctx, "/api/users/profile", req, &user, opts...); err != nil {
		return nil, err
	}
	return &user, nil
}
