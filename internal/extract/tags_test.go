package extract

import (
	"reflect"
	"testing"
)

var defaultTags = []string{"chatgpt", "reference", "obsidian"}

func TestDeriveTags_DefaultsOnly(t *testing.T) {
	got := DeriveTags("nothing interesting here", defaultTags)
	want := []string{"chatgpt", "obsidian", "reference"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDeriveTags_CaseInsensitiveAccumulates(t *testing.T) {
	got := DeriveTags("Running OLLAMA under WSL with CUDA on my GPU", defaultTags)
	want := []string{"chatgpt", "cuda", "gpu", "obsidian", "ollama", "reference", "wsl"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDeriveTags_RegistryImpliesWindowsRegistry(t *testing.T) {
	got := DeriveTags("edit the registry key", nil)
	want := []string{"windows-registry"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDeriveTags_DoesNotMutateDefaults(t *testing.T) {
	defaults := []string{"b", "a"}
	_ = DeriveTags("linux", defaults)
	if defaults[0] != "b" || defaults[1] != "a" || len(defaults) != 2 {
		t.Errorf("defaults were modified: %v", defaults)
	}
}
