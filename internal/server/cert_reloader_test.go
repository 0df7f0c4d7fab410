package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"jobsift/internal/config"
)

// writeSelfSignedCert writes a self-signed certificate and key pair and
// returns their paths.
func writeSelfSignedCert(t *testing.T, dir, commonName string, validFor time.Duration) (string, string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(validFor),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("failed to marshal key: %v", err)
	}

	certPath := filepath.Join(dir, "server.crt")
	keyPath := filepath.Join(dir, "server.key")

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	if err := os.WriteFile(certPath, certPEM, 0o600); err != nil {
		t.Fatalf("failed to write cert: %v", err)
	}
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		t.Fatalf("failed to write key: %v", err)
	}

	return certPath, keyPath
}

func newReloaderConfig(certPath, keyPath string) config.TLSConfig {
	return config.TLSConfig{
		Mode:     "server",
		CertFile: certPath,
		KeyFile:  keyPath,
		AutoReload: config.AutoReloadConfig{
			Enabled:       true,
			DebounceDelay: 10 * time.Millisecond,
		},
	}
}

func TestCertReloaderLoadsInitialCertificate(t *testing.T) {
	dir := t.TempDir()
	certPath, keyPath := writeSelfSignedCert(t, dir, "jobsift-test", time.Hour)

	cr, err := NewCertReloader(newReloaderConfig(certPath, keyPath), testLogger(t))
	if err != nil {
		t.Fatalf("NewCertReloader() error = %v", err)
	}

	cert, err := cr.GetCertificate(nil)
	if err != nil {
		t.Fatalf("GetCertificate() error = %v", err)
	}
	if cert == nil || len(cert.Certificate) == 0 {
		t.Fatal("no certificate returned")
	}
	if cr.ReloadCount() != 1 {
		t.Errorf("ReloadCount() = %d, want 1", cr.ReloadCount())
	}
}

func TestCertReloaderCheckExpiry(t *testing.T) {
	dir := t.TempDir()
	certPath, keyPath := writeSelfSignedCert(t, dir, "jobsift-test", time.Hour)

	cr, err := NewCertReloader(newReloaderConfig(certPath, keyPath), testLogger(t))
	if err != nil {
		t.Fatalf("NewCertReloader() error = %v", err)
	}

	ttl, err := cr.CheckExpiry()
	if err != nil {
		t.Fatalf("CheckExpiry() error = %v", err)
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("CheckExpiry() = %v, want within (0, 1h]", ttl)
	}
}

func TestCertReloaderPicksUpNewCertificate(t *testing.T) {
	dir := t.TempDir()
	certPath, keyPath := writeSelfSignedCert(t, dir, "first", time.Hour)

	cr, err := NewCertReloader(newReloaderConfig(certPath, keyPath), testLogger(t))
	if err != nil {
		t.Fatalf("NewCertReloader() error = %v", err)
	}

	// Overwrite the pair and reload directly
	writeSelfSignedCert(t, dir, "second", 2*time.Hour)
	if err := cr.reload(); err != nil {
		t.Fatalf("reload() error = %v", err)
	}

	cert, err := cr.GetCertificate(nil)
	if err != nil {
		t.Fatalf("GetCertificate() error = %v", err)
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		t.Fatalf("failed to parse leaf: %v", err)
	}
	if leaf.Subject.CommonName != "second" {
		t.Errorf("common name = %q, want %q", leaf.Subject.CommonName, "second")
	}
	if cr.ReloadCount() != 2 {
		t.Errorf("ReloadCount() = %d, want 2", cr.ReloadCount())
	}
}

func TestCertReloaderRequiresPaths(t *testing.T) {
	cfg := config.TLSConfig{Mode: "server", AutoReload: config.AutoReloadConfig{Enabled: true}}
	if _, err := NewCertReloader(cfg, testLogger(t)); err == nil {
		t.Error("expected error without cert and key paths")
	}
}
