// Package identity implements the identity-provisioning client against the
// directory service's HTTP API.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	domainidentity "github.com/iota-uz/payroll-sync/modules/payroll/domain/identity"
	"github.com/iota-uz/payroll-sync/pkg/serrors"
)

var ErrCreateFailed = serrors.NewError("PAYROLL_IDENTITY_CREATE_FAILED", "directory service rejected the login", "")

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type HTTPProvisioner struct {
	cfg    Config
	client *http.Client
}

func NewHTTPProvisioner(cfg Config) *HTTPProvisioner {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPProvisioner{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type createLoginRequest struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FullName  string `json:"full_name"`
	JobNumber string `json:"job_number"`
}

type createLoginResponse struct {
	ID string `json:"id"`
}

func (p *HTTPProvisioner) CreateLogin(ctx context.Context, data *domainidentity.CreateLoginDTO) (uuid.UUID, error) {
	if err := data.Validate(); err != nil {
		return uuid.Nil, gerrors.Wrap(err, "validate login")
	}

	body, err := json.Marshal(createLoginRequest{
		ID:        data.LoginID.String(),
		Email:     data.Email,
		Password:  data.Password,
		FullName:  data.FullName,
		JobNumber: data.JobNumber,
	})
	if err != nil {
		return uuid.Nil, gerrors.Wrap(err, "marshal login")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/api/v1/logins", bytes.NewReader(body))
	if err != nil {
		return uuid.Nil, gerrors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return uuid.Nil, gerrors.Wrap(err, "call directory service")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return uuid.Nil, ErrCreateFailed.WithMessage("status %d: %s", resp.StatusCode, string(snippet))
	}

	var out createLoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return uuid.Nil, gerrors.Wrap(err, "decode response")
	}
	createdID, err := uuid.Parse(out.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("directory returned invalid id %q: %w", out.ID, err)
	}
	return createdID, nil
}
