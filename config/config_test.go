package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithEnvSecret(t *testing.T) {
	t.Setenv("ROSTER_AUTH_JWT_SECRET", "test-secret-key-for-unit-testing")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望 port=9090，实际=%d", cfg.Server.Port)
	}
	if cfg.Audit.LookaheadDays != 3 {
		t.Errorf("期望 lookahead_days=3，实际=%d", cfg.Audit.LookaheadDays)
	}
	if cfg.Validation.ProximityWindow != 2*time.Hour {
		t.Errorf("期望 proximity_window=2h，实际=%s", cfg.Validation.ProximityWindow)
	}
	if len(cfg.Audit.TrackedRoles) != 2 {
		t.Errorf("期望 2 个轮值角色，实际=%v", cfg.Audit.TrackedRoles)
	}
}

func TestValidate_RejectsShortSecret(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: 8080},
		Auth:   AuthConfig{JWTSecret: "short"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("过短的 jwt_secret 应校验失败")
	}
}

func TestValidate_RejectsBadTimezone(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: 8080, Timezone: "Mars/Olympus"},
		Auth:   AuthConfig{JWTSecret: "test-secret-key-for-unit-testing"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("无效时区应校验失败")
	}
}

func TestServerConfig_Location(t *testing.T) {
	c := &ServerConfig{}
	if c.Location() != time.UTC {
		t.Error("未配置时区时应回退 UTC")
	}
	c.Timezone = "America/Chicago"
	if c.Location().String() != "America/Chicago" {
		t.Errorf("期望 America/Chicago，实际=%s", c.Location())
	}
}
