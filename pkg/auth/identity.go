package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Verifier checks an email and password against the identity provider.
type Verifier interface {
	Verify(ctx context.Context, email, password string) (Identity, error)
}

// IdentityToolkitVerifier signs in through the identity provider's
// password endpoint. Administrators are provisioned in the provider
// directly; there is no sign-up path.
type IdentityToolkitVerifier struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewIdentityToolkitVerifier(endpoint, apiKey string, timeout time.Duration) *IdentityToolkitVerifier {
	return &IdentityToolkitVerifier{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func (v *IdentityToolkitVerifier) Verify(ctx context.Context, email, password string) (Identity, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return Identity{}, ErrInvalidCredentials
	}

	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return Identity{}, err
	}

	endpoint, err := url.Parse(v.endpoint)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid identity endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("key", v.apiKey)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("identity provider unavailable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return Identity{}, fmt.Errorf("identity provider returned %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return Identity{}, ErrInvalidCredentials
	}

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Identity{}, fmt.Errorf("failed to decode identity response: %w", err)
	}
	if out.LocalID == "" {
		return Identity{}, ErrInvalidCredentials
	}
	if out.Email == "" {
		out.Email = email
	}
	name := out.DisplayName
	if name == "" {
		name, _, _ = strings.Cut(out.Email, "@")
	}
	return Identity{ID: out.LocalID, Email: out.Email, Name: name}, nil
}
