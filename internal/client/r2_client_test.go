package client

import (
	"testing"

	"github.com/tapedeck/api/internal/config"
)

func TestNewR2Client_IncompleteConfig(t *testing.T) {
	if _, err := NewR2Client(&config.R2Config{}); err == nil {
		t.Fatal("expected an error for empty config")
	}
	if _, err := NewR2Client(&config.R2Config{AccountID: "acct"}); err == nil {
		t.Fatal("expected an error for missing credentials")
	}
}

func TestGetPublicURL(t *testing.T) {
	withCDN := &R2Client{
		accountID:  "acct-123",
		bucketName: "results",
		publicURL:  "https://cdn.example.com",
	}
	if got, want := withCDN.GetPublicURL("results/t1/dilla.wav"), "https://cdn.example.com/results/t1/dilla.wav"; got != want {
		t.Errorf("GetPublicURL = %q, want %q", got, want)
	}

	// Without a CDN domain the account ID is the endpoint subdomain,
	// matching the endpoint used for uploads.
	noCDN := &R2Client{
		accountID:  "acct-123",
		bucketName: "results",
	}
	if got, want := noCDN.GetPublicURL("results/t1/dilla.wav"), "https://acct-123.r2.cloudflarestorage.com/results/results/t1/dilla.wav"; got != want {
		t.Errorf("GetPublicURL fallback = %q, want %q", got, want)
	}
}
