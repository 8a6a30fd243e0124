// Package signature computes the keyed digest required by the signed
// cross-reference API.
package signature

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/cesargomez89/bookwall/internal/httpclient"
)

// Service signs cross-reference requests. The caller's public IP is
// part of the signed message; it is resolved from an echo endpoint on
// first use and cached for the process lifetime.
type Service struct {
	client    *httpclient.Client
	ipEchoURL string
	secret    string

	mu sync.Mutex
	ip string
}

// NewService creates a signature service using the given echo endpoint
// and shared secret.
func NewService(client *httpclient.Client, ipEchoURL, secret string) *Service {
	return &Service{
		client:    client,
		ipEchoURL: ipEchoURL,
		secret:    secret,
	}
}

// Sign returns the lowercase hex MD5 digest of
// requestURL + "|" + callerIP + "|" + secret. The message format is a
// wire contract with the upstream service. Failure to resolve the
// caller IP propagates to the caller.
func (s *Service) Sign(ctx context.Context, requestURL string) (string, error) {
	ip, err := s.callerIP(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve caller IP: %w", err)
	}

	sum := md5.Sum([]byte(requestURL + "|" + ip + "|" + s.secret))
	return hex.EncodeToString(sum[:]), nil
}

// callerIP resolves the public IP on first success and reuses it
// afterwards. A failed lookup is not cached, so the next signing
// attempt tries again.
func (s *Service) callerIP(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ip != "" {
		return s.ip, nil
	}
	ip, err := s.fetchIP(ctx)
	if err != nil {
		return "", err
	}
	s.ip = ip
	return ip, nil
}

func (s *Service) fetchIP(ctx context.Context) (string, error) {
	resp, err := s.client.Get(ctx, s.ipEchoURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch IP: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("IP echo returned status %d", resp.StatusCode)
	}

	var result struct {
		Origin string `json:"origin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode IP echo response: %w", err)
	}
	if result.Origin == "" {
		return "", fmt.Errorf("IP echo response has no origin field")
	}
	return result.Origin, nil
}
