package siyuan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// HealthOutput reports whether the kernel is reachable and compatible.
type HealthOutput struct {
	Status     string `json:"status"`
	BaseURL    string `json:"baseUrl"`
	Version    string `json:"version,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Compatible bool   `json:"compatible"`
	Error      string `json:"error,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// Version returns the kernel version reported by /api/system/version.
func (c *Client) Version(ctx context.Context) (string, error) {
	raw, err := c.Post(ctx, "/api/system/version", nil)
	if err != nil {
		return "", err
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("%s - unexpected version payload %s: %w", logPrefix, raw, err)
	}
	return v, nil
}

// Health calls the kernel and checks its version against constraint, a
// semver range such as ">=2.10.0". An empty constraint accepts any version.
func (c *Client) Health(ctx context.Context, constraint string) *HealthOutput {
	out := &HealthOutput{
		Status:     "unhealthy",
		BaseURL:    c.baseURL,
		Constraint: constraint,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	version, err := c.Version(ctx)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Version = version

	ok, err := CheckVersion(version, constraint)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Compatible = ok
	if !ok {
		out.Status = "incompatible"
		out.Error = fmt.Sprintf("kernel version %s does not satisfy %s", version, constraint)
		return out
	}
	out.Status = "healthy"
	return out
}

// CheckVersion reports whether version satisfies constraint.
func CheckVersion(version, constraint string) (bool, error) {
	if strings.TrimSpace(constraint) == "" {
		return true, nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("%s - invalid version constraint %q: %w", logPrefix, constraint, err)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return false, fmt.Errorf("%s - invalid kernel version %q: %w", logPrefix, version, err)
	}
	return c.Check(v), nil
}
