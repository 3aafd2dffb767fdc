package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/entity"
)

type credentials struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

type authUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type tokenResponse struct {
	AccessToken string   `json:"access_token"`
	User        authUser `json:"user"`
}

// SignUp creates an account. Company name, when given, rides along as user
// metadata.
func (c *Client) SignUp(ctx context.Context, email, password, company string) error {
	body := credentials{Email: email, Password: password}
	if company != "" {
		body.Data = map[string]any{"company": company}
	}
	_, err := c.do(ctx, http.MethodPost, "/auth/signup", "", body, "")
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	c.logger.Info("store.auth.signup_ok", "email", email)
	return nil
}

// SignIn exchanges credentials for a bearer token and the user identity.
func (c *Client) SignIn(ctx context.Context, email, password string) (entity.User, error) {
	raw, err := c.do(ctx, http.MethodPost, "/auth/token?grant_type=password", "",
		credentials{Email: email, Password: password}, "")
	if err != nil {
		return entity.User{}, fmt.Errorf("sign in: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return entity.User{}, fmt.Errorf("sign in: decode response: %w", err)
	}
	if tr.AccessToken == "" {
		return entity.User{}, fmt.Errorf("sign in: response carried no access token")
	}

	user := entity.User{
		ID:    tr.User.ID,
		Email: tr.User.Email,
		Token: tr.AccessToken,
	}
	if v, ok := tr.User.UserMetadata["company"].(string); ok {
		user.Company = v
	}
	if v, ok := tr.User.UserMetadata["role"].(string); ok {
		user.Role = entity.Role(v)
	}
	c.logger.Info("store.auth.signin_ok", "user_id", user.ID, "email", user.Email)
	return user, nil
}
