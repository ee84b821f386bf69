// Package auth verifies bearer tokens against the Firebase identity service
// and exposes the verified user id to downstream handlers. Token issuance
// and account management live entirely in the external identity provider.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

// Identity is the verified claim attached to a request.
type Identity struct {
	UID   string
	Email string
}

type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

type googleVerifier struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewGoogleVerifier(apiKey string) TokenVerifier {
	return &googleVerifier{
		apiKey:  apiKey,
		baseURL: identityToolkitURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []struct {
		LocalID string `json:"localId"`
		Email   string `json:"email"`
	} `json:"users"`
}

func (v *googleVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	url := fmt.Sprintf("%s/accounts:lookup?key=%s", v.baseURL, v.apiKey)

	jsonBody, err := json.Marshal(lookupRequest{IDToken: idToken})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verifying token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token rejected: %s - %s", resp.Status, string(body))
	}

	var result lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if len(result.Users) == 0 {
		return nil, fmt.Errorf("token resolved to no account")
	}

	return &Identity{UID: result.Users[0].LocalID, Email: result.Users[0].Email}, nil
}
