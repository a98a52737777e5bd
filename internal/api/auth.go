package api

import (
	"context"
	"fmt"

	"github.com/ridebird/ride-cli/internal/domain"
)

// AuthResult is the payload of every credential exchange that opens a
// session: the user record plus the token pair.
type AuthResult struct {
	User   domain.User
	Tokens domain.TokenPair
}

type userPayload struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	Language  string  `json:"language"`
	AvatarURL string  `json:"avatar_url"`
	Rating    float64 `json:"rating"`
}

func (p userPayload) toDomain() domain.User {
	return domain.User{
		ID:        domain.UserID(p.ID),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
		Language:  p.Language,
		AvatarURL: p.AvatarURL,
		Rating:    p.Rating,
	}
}

type authPayload struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         userPayload `json:"user"`
}

func (p authPayload) toResult() AuthResult {
	return AuthResult{
		User: p.User.toDomain(),
		Tokens: domain.TokenPair{
			AccessToken:  p.AccessToken,
			RefreshToken: p.RefreshToken,
		},
	}
}

type Registration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Language  string `json:"language"`
}

func (c *Client) Login(ctx context.Context, phone, password string) (AuthResult, error) {
	body := map[string]string{"phone": phone, "password": password}

	var payload authPayload
	if err := c.http.PostJSON(ctx, "/login", body, &payload); err != nil {
		return AuthResult{}, fmt.Errorf("login: %w", err)
	}

	return payload.toResult(), nil
}

// Register creates an account; the session opens only after Verify.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	if err := c.http.PostJSON(ctx, "/register", reg, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

func (c *Client) Verify(ctx context.Context, phone, code string) (AuthResult, error) {
	body := map[string]string{"phone": phone, "code": code}

	var payload authPayload
	if err := c.http.PostJSON(ctx, "/verify", body, &payload); err != nil {
		return AuthResult{}, fmt.Errorf("verify: %w", err)
	}

	return payload.toResult(), nil
}

// StartPhoneAuth requests a one-time code for passwordless login.
func (c *Client) StartPhoneAuth(ctx context.Context, phone string) error {
	body := map[string]string{"phone": phone}
	if err := c.http.PostJSON(ctx, "/auth/start", body, nil); err != nil {
		return fmt.Errorf("start phone auth: %w", err)
	}
	return nil
}

func (c *Client) VerifyPhoneAuth(ctx context.Context, phone, code string) (AuthResult, error) {
	body := map[string]string{"phone": phone, "code": code}

	var payload authPayload
	if err := c.http.PostJSON(ctx, "/auth/verify", body, &payload); err != nil {
		return AuthResult{}, fmt.Errorf("verify phone auth: %w", err)
	}

	return payload.toResult(), nil
}

func (c *Client) ResetPasswordStepOne(ctx context.Context, phone string) error {
	body := map[string]string{"phone": phone}
	if err := c.http.PostJSON(ctx, "/reset-password/step-one", body, nil); err != nil {
		return fmt.Errorf("reset password step one: %w", err)
	}
	return nil
}

func (c *Client) ResetPasswordStepTwo(ctx context.Context, phone, code, newPassword string) error {
	body := map[string]string{"phone": phone, "code": code, "password": newPassword}
	if err := c.http.PostJSON(ctx, "/reset-password/step-two", body, nil); err != nil {
		return fmt.Errorf("reset password step two: %w", err)
	}
	return nil
}

func (c *Client) DeleteAccountByCredentials(ctx context.Context, phone, password string) error {
	body := map[string]string{"phone": phone, "password": password}
	if err := c.http.PostJSON(ctx, "/delete-account/by-credentials", body, nil); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
