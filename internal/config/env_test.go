package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSubstituteEnvVars(t *testing.T) {
	os.Setenv("TEST_VAR", "test_value")
	defer os.Unsetenv("TEST_VAR")

	input := []byte("value: ${TEST_VAR}")
	expected := []byte("value: test_value")

	result := substituteEnvVars(input)

	if string(result) != string(expected) {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestSubstituteEnvVarsMultiple(t *testing.T) {
	os.Setenv("VAR1", "value1")
	os.Setenv("VAR2", "value2")
	defer os.Unsetenv("VAR1")
	defer os.Unsetenv("VAR2")

	input := []byte("first: ${VAR1}\nsecond: ${VAR2}")
	expected := []byte("first: value1\nsecond: value2")

	result := substituteEnvVars(input)

	if string(result) != string(expected) {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestSubstituteEnvVarsNotSet(t *testing.T) {
	os.Unsetenv("NONEXISTENT_VAR")

	input := []byte("value: ${NONEXISTENT_VAR}")
	expected := []byte("value: ${NONEXISTENT_VAR}") // unchanged

	result := substituteEnvVars(input)

	if string(result) != string(expected) {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestSubstituteEnvVarsFallback(t *testing.T) {
	os.Unsetenv("PRICEFIT_UNSET")
	os.Setenv("PRICEFIT_SET", "real")
	defer os.Unsetenv("PRICEFIT_SET")

	tests := []struct {
		input    string
		expected string
	}{
		{"dsn: ${PRICEFIT_UNSET:-pricefit.db}", "dsn: pricefit.db"},
		{"dsn: ${PRICEFIT_UNSET:-}", "dsn: "},
		{"dsn: ${PRICEFIT_SET:-ignored}", "dsn: real"},
	}

	for _, tt := range tests {
		result := substituteEnvVars([]byte(tt.input))
		if string(result) != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, result)
		}
	}
}

func TestSubstituteEnvVarsNoVars(t *testing.T) {
	input := []byte("value: plain_text")
	expected := []byte("value: plain_text")

	result := substituteEnvVars(input)

	if string(result) != string(expected) {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	os.Setenv("TEST_DATA_PATH", "/srv/cars.csv")
	os.Setenv("TEST_AUTH_PASSWORD", "s3cret")
	defer os.Unsetenv("TEST_DATA_PATH")
	defer os.Unsetenv("TEST_AUTH_PASSWORD")

	content := `
data:
  path: "${TEST_DATA_PATH}"

auth:
  enabled: true
  user: "admin"
  password: "${TEST_AUTH_PASSWORD}"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pricefit.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Data.Path != "/srv/cars.csv" {
		t.Errorf("expected data path /srv/cars.csv, got %s", cfg.Data.Path)
	}
	if cfg.Auth.Password != "s3cret" {
		t.Errorf("expected substituted password")
	}
}
