package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/gistlens/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestPreviewConfig_BasePath(t *testing.T) {
	cases := map[string]bool{
		"/preview":  true,
		"/p/x":      true,
		"":          false,
		"preview":   false,
		"/preview/": false,
		"/api":      false,
		"/api/p":    false,
	}
	for path, ok := range cases {
		cfg := PreviewConfig{BasePath: path}
		if err := cfg.Validate(); (err == nil) != ok {
			t.Errorf("base path %q: err = %v, want ok=%v", path, err, ok)
		}
	}
}

func TestGitHubConfig_Validate(t *testing.T) {
	cfg := NewDefaultConfig().GitHub
	cfg.APIURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("invalid api_url should fail")
	}

	cfg = NewDefaultConfig().GitHub
	cfg.RequestsPerSecond = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative rate should fail")
	}

	cfg = NewDefaultConfig().GitHub
	cfg.Timeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero timeout should fail")
	}
}

func TestConfig_LoadYAML(t *testing.T) {
	t.Setenv("GISTLENS_TEST_TOKEN", "ghp_fromenv")
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
app:
  http:
    port: 9090
github:
  token: ${GISTLENS_TEST_TOKEN}
  timeout: 3s
preview:
  watch_dir: ./site
cors:
  allowed_origins: ["http://localhost:5173"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := NewDefaultConfig()
	if err := config.Load(path, cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.HTTP.Port != 9090 || cfg.GitHub.Token != "ghp_fromenv" || cfg.GitHub.Timeout != 3*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.GitHub.APIURL != "https://api.github.com" || cfg.Preview.BasePath != "/preview" {
		t.Error("defaults not preserved")
	}
	if cfg.Preview.WatchDir != "./site" || len(cfg.CORS.AllowedOrigins) != 1 {
		t.Errorf("preview/cors = %+v %+v", cfg.Preview, cfg.CORS)
	}
}
