package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func TestRegistry_FindPolicy(t *testing.T) {
	reg := GetDefaultRegistry()

	policy := reg.FindPolicy("castles/native")
	if policy == nil {
		t.Fatal("Expected castles/native policy")
	}
	if policy.Kind != "native" {
		t.Errorf("Expected native kind, got %s", policy.Kind)
	}

	if reg.FindPolicy("missing") != nil {
		t.Error("Expected nil for unknown policy")
	}
}

func TestRegistry_PoliciesByDomain(t *testing.T) {
	reg := GetDefaultRegistry()

	policies := reg.PoliciesByDomain("castles")
	if len(policies) != 2 {
		t.Errorf("Expected 2 castles policies, got %d", len(policies))
	}
	if len(reg.PoliciesByDomain("mazes")) != 0 {
		t.Error("Expected no policies for unknown domain")
	}
}

func TestRegistry_PoliciesByKindAndTag(t *testing.T) {
	reg := GetDefaultRegistry()

	if got := len(reg.PoliciesByKind("wasm")); got != 1 {
		t.Errorf("Expected 1 wasm policy, got %d", got)
	}
	if got := len(reg.PoliciesByTag("default")); got != 1 {
		t.Errorf("Expected 1 default-tagged policy, got %d", got)
	}
}

func TestLoader_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policies.yaml")

	loader := NewLoader(path)
	if err := loader.SaveRegistry(GetDefaultRegistry()); err != nil {
		t.Fatalf("SaveRegistry failed: %v", err)
	}

	loaded, err := loader.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}
	if loaded.TotalPolicies() != 2 {
		t.Errorf("Expected 2 policies after reload, got %d", loaded.TotalPolicies())
	}
	if loaded.FindPolicy("castles/wasm-v1") == nil {
		t.Error("Expected wasm policy to survive the round trip")
	}
}

func TestLoader_MissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"))

	reg, err := loader.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}
	if reg.TotalPolicies() != 0 {
		t.Errorf("Expected empty registry, got %d policies", reg.TotalPolicies())
	}
}

func TestLoadModule_DigestVerification(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.wasm")
	module := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	if err := os.WriteFile(path, module, 0644); err != nil {
		t.Fatal(err)
	}

	sum := sha256.Sum256(module)
	policy := PolicyConfig{ID: "p", Path: path, SHA256: hex.EncodeToString(sum[:])}

	data, err := LoadModule(policy)
	if err != nil {
		t.Fatalf("LoadModule failed: %v", err)
	}
	if len(data) != len(module) {
		t.Errorf("Expected %d bytes, got %d", len(module), len(data))
	}

	policy.SHA256 = "deadbeef"
	if _, err := LoadModule(policy); err == nil {
		t.Error("Expected digest mismatch error")
	}
}
