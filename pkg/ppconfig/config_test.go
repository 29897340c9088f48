// Copyright 2025 Certen Protocol

package ppconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/certen-io/proofpack/pkg/reader"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadParsesDurationAndRequirement(t *testing.T) {
	path := writeConfig(t, `
reader:
  max_age: 48h
  signature_requirement: all
  strict_signature_shape: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reader.MaxAge.Duration() != 48*time.Hour {
		t.Fatalf("max_age = %s, want 48h", cfg.Reader.MaxAge.Duration())
	}
	if cfg.Reader.SignatureRequirement.Resolve() != reader.SignatureRequireAll {
		t.Fatal("expected SignatureRequireAll")
	}
	if !cfg.Reader.StrictSignatureShape {
		t.Fatal("expected strict_signature_shape true")
	}
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("PP_MAX_AGE", "2h")
	path := writeConfig(t, `
reader:
  max_age: ${PP_MAX_AGE}
  signature_requirement: skip
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reader.MaxAge.Duration() != 2*time.Hour {
		t.Fatalf("max_age = %s, want 2h", cfg.Reader.MaxAge.Duration())
	}
}

func TestLoadSubstitutesEnvVarDefault(t *testing.T) {
	path := writeConfig(t, `
reader:
  max_age: ${PP_UNSET_VAR:-1h}
  signature_requirement: at-least-one
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reader.MaxAge.Duration() != time.Hour {
		t.Fatalf("max_age = %s, want 1h", cfg.Reader.MaxAge.Duration())
	}
}

func TestApplyLeavesFunctionFieldsUntouched(t *testing.T) {
	path := writeConfig(t, `
reader:
  max_age: 10m
  signature_requirement: all
`)

	nonceCheck := func(string) (bool, error) { return true, nil }
	base := reader.DefaultVerificationContext()
	base.HasValidNonce = nonceCheck

	vctx, err := LoadInto(path, base)
	if err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	if vctx.MaxAge != 10*time.Minute {
		t.Fatalf("MaxAge = %s, want 10m", vctx.MaxAge)
	}
	if vctx.SignatureRequirement != reader.SignatureRequireAll {
		t.Fatal("expected SignatureRequireAll")
	}
	if vctx.HasValidNonce == nil {
		t.Fatal("expected HasValidNonce to survive Apply")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
