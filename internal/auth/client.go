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

// Client habla con el backend de auth hosteado (estilo GoTrue). Para el
// resto del sistema es un servicio opaco: entra un refresh token, sale
// una sesión nueva o un error ya clasificado.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"msg"`
}

// RefreshSession exchanges the refresh token for a fresh credential set.
// A 400/401 means the refresh token itself is no longer usable (terminal);
// anything else is transient.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	return c.tokenRequest(ctx, "refresh_token", body)
}

// SignIn authenticates with email and password.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	sess, err := c.tokenRequest(ctx, "password", body)
	if err != nil {
		var ae *Error
		if errors.As(err, &ae) && ae.Kind == KindAuthExpired {
			// En el grant de password un 400 es login rechazado, no vencimiento.
			return nil, &Error{Kind: KindInvalidCredentials, Message: ae.Message, Err: ae.Err}
		}
		return nil, err
	}
	return sess, nil
}

// SignOut revokes the session server-side. Best effort.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	url := fmt.Sprintf("%s/logout", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindTransient, Message: "logout request failed", Err: err}
	}
	defer resp.Body.Close()
	return nil
}

func (c *Client) tokenRequest(ctx context.Context, grantType string, payload map[string]string) (*Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/token?grant_type=%s", c.baseURL, grantType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		// Incluye context.DeadlineExceeded: el caller decide si reintenta.
		return nil, &Error{Kind: KindTransient, Message: "auth backend unreachable", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &Error{Kind: KindTransient, Message: "reading auth response", Err: err}
	}

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		var apiErr errorResponse
		_ = json.Unmarshal(raw, &apiErr)
		msg := apiErr.ErrorDescription
		if msg == "" {
			msg = apiErr.Message
		}
		if msg == "" {
			msg = "refresh token expired or revoked"
		}
		return nil, &Error{Kind: KindAuthExpired, Message: msg}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Kind:    KindTransient,
			Message: fmt.Sprintf("auth backend returned %d", resp.StatusCode),
		}
	}

	var tok tokenResponse
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, &Error{Kind: KindTransient, Message: "malformed auth response", Err: err}
	}

	return &Session{
		UserID:       tok.User.ID,
		Email:        tok.User.Email,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second),
	}, nil
}
