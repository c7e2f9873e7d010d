package client

import (
	"context"
	"encoding/json"
)

// Credentials is the payload for POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the decoded login response.
type LoginResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role"`
}

// Login authenticates and installs the returned token and role on the
// client's session.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	envelope, err := c.post(ctx, "/auth/login", creds, false)
	if err != nil {
		return nil, err
	}
	var result LoginResult
	if envelope.HasData() {
		if err := json.Unmarshal(envelope.Data, &result); err != nil {
			return nil, err
		}
	}
	c.SetSession(Session{Token: result.AccessToken, Role: result.Role})
	return &result, nil
}

// Logout revokes the refresh token and clears the session.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	_, err := c.post(ctx, "/auth/logout", map[string]string{"refreshToken": refreshToken}, true)
	c.SetSession(Session{})
	return err
}
