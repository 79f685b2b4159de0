// Package auth maps bearer tokens to the player they act for.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrInvalidToken indicates the token is definitively invalid.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrUnavailable indicates the auth service is unreachable or unavailable.
	ErrUnavailable = errors.New("auth: unavailable")
)

// Identity is the player a token belongs to.
type Identity struct {
	Player string `json:"player"`
}

// Validator validates authentication tokens.
type Validator interface {
	// Validate returns the identity of token, ErrInvalidToken when the
	// token is unknown or ErrUnavailable when it cannot be checked.
	Validate(ctx context.Context, token string) (*Identity, error)
}

// StaticValidator checks tokens against a fixed table.
type StaticValidator struct {
	players map[string]string // token -> player
}

// NewStaticValidator builds a validator from player name to token.
func NewStaticValidator(tokens map[string]string) *StaticValidator {
	players := make(map[string]string, len(tokens))
	for player, token := range tokens {
		players[token] = player
	}
	return &StaticValidator{players: players}
}

func (v *StaticValidator) Validate(_ context.Context, token string) (*Identity, error) {
	player, ok := v.players[token]
	if token == "" || !ok {
		return nil, ErrInvalidToken
	}
	return &Identity{Player: player}, nil
}

// HTTPValidator validates tokens via HTTP callback to external service.
type HTTPValidator struct {
	url         string
	client      *http.Client
	adminSecret string
}

// NewHTTPValidator creates a validator that calls an external HTTP endpoint.
func NewHTTPValidator(url string, adminSecret string) *HTTPValidator {
	return &HTTPValidator{
		url:         url,
		adminSecret: adminSecret,
		client: &http.Client{
			Timeout: 500 * time.Millisecond,
		},
	}
}

type validateRequest struct {
	Token string `json:"token"`
}

type validateResponse struct {
	Valid  bool   `json:"valid"`
	Player string `json:"player,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (v *HTTPValidator) Validate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	reqBody, err := json.Marshal(validateRequest{Token: token})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if v.adminSecret != "" {
		req.Header.Set("X-Admin-Secret", v.adminSecret)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrInvalidToken
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var authResp validateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&authResp); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrUnavailable, err)
	}
	if !authResp.Valid || authResp.Player == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{Player: authResp.Player}, nil
}
