package cli

import (
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Path:    "/etc/spendguard/config.yaml",
		Message: "daily limit must be positive",
	}

	expected := "config error in /etc/spendguard/config.yaml: daily limit must be positive"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestConfigErrorWithoutPath(t *testing.T) {
	err := NewConfigError("", "missing rate table")

	expected := "config error: missing rate table"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("listen failed")
	err := NewCommandError("run", underlyingErr)

	expected := "command run failed: listen failed"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}

	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should unwrap CommandError")
	}
}
