package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// LoopbackIP is reported when the visitor IP cannot be determined.
const LoopbackIP = "127.0.0.1"

// IPLookup resolves the public IP offers are targeted by.
type IPLookup interface {
	VisitorIP(ctx context.Context) string
}

// IpifyLookup resolves the public IP through an ipify-compatible endpoint.
type IpifyLookup struct {
	URL    string
	Client *http.Client
}

// NewIpifyLookup creates a lookup with optional proxy support.
func NewIpifyLookup(endpoint, proxyURL string) *IpifyLookup {
	return &IpifyLookup{
		URL:    endpoint,
		Client: newHTTPClient(proxyURL, 5*time.Second),
	}
}

// VisitorIP never fails: any error yields LoopbackIP.
func (l *IpifyLookup) VisitorIP(ctx context.Context) string {
	ip, err := l.lookup(ctx)
	if err != nil {
		log.Debugf("visitor ip lookup failed: %v", err)
		return LoopbackIP
	}
	if ip == "" {
		return LoopbackIP
	}
	return ip
}

func (l *IpifyLookup) lookup(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return "", err
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	var body struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.IP, nil
}

// StaticIP is an IPLookup returning a fixed address.
type StaticIP string

func (s StaticIP) VisitorIP(context.Context) string { return string(s) }
