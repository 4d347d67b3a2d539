package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("APP_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, EnvDev, c.Env)
	require.Equal(t, 8888, c.Server.Port)
	require.Equal(t, "x-paystack-signature", c.Paystack.SignatureHeader)
	require.Equal(t, int64(256<<10), c.Paystack.MaxBodyBytes)
	require.Equal(t, "https://api.kit.com/v4", c.Kit.BaseURL)
	require.Equal(t, 10*time.Second, c.Kit.Timeout)
	require.Equal(t, 24*time.Hour, c.Dedup.TTL)
	require.Empty(t, c.Redis.Addr)
}

func TestNew_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "paylist.yaml")
	yaml := []byte(`
env: prod
paystack:
  secret_key: sk_test_file
kit:
  timeout: 3s
redis:
  addr: localhost:6379
`)
	require.NoError(t, os.WriteFile(file, yaml, 0o600))
	t.Setenv("APP_CONFIG_FILE", file)
	t.Setenv("APP_PAYSTACK_SECRET_KEY", "sk_test_env")

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, EnvProd, c.Env)
	require.Equal(t, "sk_test_env", c.Paystack.SecretKey)
	require.Equal(t, 3*time.Second, c.Kit.Timeout)
	require.Equal(t, "localhost:6379", c.Redis.Addr)
}

func TestNew_MalformedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(file, []byte("paystack: [secret_key\n  : :"), 0o600))
	t.Setenv("APP_CONFIG_FILE", file)

	_, err := New()
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}

func TestNew_MissingNamedConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_CONFIG_NAME", "absent")

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, EnvDev, c.Env)
}

func TestSecretsConfig_EncryptionKeyBytes(t *testing.T) {
	_, err := SecretsConfig{}.EncryptionKeyBytes()
	require.Error(t, err)

	_, err = SecretsConfig{EncryptionKey: "%%%"}.EncryptionKeyBytes()
	require.Error(t, err)

	raw := make([]byte, 32)
	key, err := SecretsConfig{EncryptionKey: base64.StdEncoding.EncodeToString(raw)}.EncryptionKeyBytes()
	require.NoError(t, err)
	require.Len(t, key, 32)
}
