package security

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/locus/security/tlstest"
)

func TestEnabled(t *testing.T) {
	var nilCfg *TLSConfig
	tests := []struct {
		name string
		cfg  *TLSConfig
		want bool
	}{
		{"nil", nilCfg, false},
		{"zero", &TLSConfig{}, false},
		{"ca only", &TLSConfig{CAFile: "ca.pem"}, true},
		{"skip verify", &TLSConfig{SkipVerify: true}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.Enabled(); got != tc.want {
				t.Errorf("Enabled() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TLSConfig
		wantErr bool
	}{
		{"empty", TLSConfig{}, false},
		{"cert and key", TLSConfig{CertFile: "c", KeyFile: "k"}, false},
		{"cert without key", TLSConfig{CertFile: "c"}, true},
		{"tls 1.3", TLSConfig{MinVersion: "1.3"}, false},
		{"unknown version", TLSConfig{MinVersion: "1.0"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestClientConfig(t *testing.T) {
	certs := tlstest.Generate(t)

	cfg, err := (&TLSConfig{}).ClientConfig()
	if err != nil || cfg != nil {
		t.Fatalf("expected nil config when disabled, got %v, %v", cfg, err)
	}

	cfg, err = (&TLSConfig{
		CAFile:     certs.CAFile,
		CertFile:   certs.CertFile,
		KeyFile:    certs.KeyFile,
		ServerName: "localhost",
		MinVersion: "1.3",
	}).ClientConfig()
	if err != nil {
		t.Fatalf("ClientConfig: %v", err)
	}
	if cfg.RootCAs == nil || len(cfg.Certificates) != 1 {
		t.Errorf("expected CA pool and client certificate, got %+v", cfg)
	}
	if cfg.MinVersion != tls.VersionTLS13 || cfg.ServerName != "localhost" {
		t.Errorf("unexpected version or server name: %x %q", cfg.MinVersion, cfg.ServerName)
	}
}

func TestServerConfig(t *testing.T) {
	certs := tlstest.Generate(t)

	cfg, err := (&TLSConfig{CertFile: certs.CertFile, KeyFile: certs.KeyFile}).ServerConfig()
	if err != nil {
		t.Fatalf("ServerConfig: %v", err)
	}
	if len(cfg.Certificates) != 1 || cfg.ClientAuth != tls.NoClientCert {
		t.Errorf("unexpected server config %+v", cfg)
	}

	cfg, err = (&TLSConfig{CAFile: certs.CAFile, CertFile: certs.CertFile, KeyFile: certs.KeyFile}).ServerConfig()
	if err != nil {
		t.Fatalf("ServerConfig with CA: %v", err)
	}
	if cfg.ClientAuth != tls.RequireAndVerifyClientCert || cfg.ClientCAs == nil {
		t.Error("expected client certificates to be required")
	}

	if cfg, err := (&TLSConfig{CAFile: certs.CAFile}).ServerConfig(); cfg != nil || err != nil {
		t.Errorf("expected nil without a certificate, got %v, %v", cfg, err)
	}
}

func TestBadFiles(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus.pem")
	if err := os.WriteFile(bogus, []byte("-----BEGIN CERTIFICATE-----\nnope\n-----END CERTIFICATE-----\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := (&TLSConfig{CAFile: filepath.Join(dir, "missing.pem")}).ClientConfig(); err == nil {
		t.Error("expected error for missing CA file")
	}
	if _, err := (&TLSConfig{CAFile: bogus}).ClientConfig(); err == nil {
		t.Error("expected error for invalid CA content")
	}
	if _, err := (&TLSConfig{CertFile: bogus, KeyFile: bogus}).ServerConfig(); err == nil {
		t.Error("expected error for invalid key pair")
	}
}
