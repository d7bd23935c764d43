package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func isolate(t *testing.T) (input, output string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CHAT2MD_LOG_LEVEL", "error")
	t.Setenv("CHAT2MD_LLM_PROVIDER", "ollama")
	t.Setenv("CHAT2MD_TOC_SCOPE", "")
	input = filepath.Join(dir, "in")
	output = filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(input, 0o755))
	return input, output
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "chat2md dev"))
}

func TestRunCommandEndToEnd(t *testing.T) {
	input, output := isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model  string `json:"model"`
			Stream bool   `json:"stream"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "test-model", req.Model)
		assert.False(t, req.Stream)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"# Ollama on WSL\n- install ollama\n- run ollama serve\n\n# Bye\nsee you"}`))
	}))
	defer srv.Close()
	t.Setenv("CHAT2MD_LLM_URL", srv.URL)

	transcript := strings.Repeat("How do I run ollama inside wsl? ", 10)
	require.NoError(t, os.WriteFile(filepath.Join(input, "chat-1.md"), []byte(transcript), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(input, "ignored.txt"), []byte(transcript), 0o644))

	out, err := execute(t, "run", "--input", input, "--output", output, "--model", "test-model")
	require.NoError(t, err)
	assert.Contains(t, out, "Documents:")

	toc, err := os.ReadFile(filepath.Join(output, "index.toc.md"))
	require.NoError(t, err)
	assert.Contains(t, string(toc), "[Ollama on WSL](ollama-on-wsl/")
	assert.Contains(t, string(toc), "[Miscellaneous Topics](miscellaneous/")

	ledger, err := os.ReadFile(filepath.Join(output, "ProcessedSourceChats.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(ledger), `"source_file":"chat-1.md"`)
	assert.NotContains(t, string(ledger), "ignored.txt")

	// Second pass finds nothing pending.
	out, err = execute(t, "run", "--input", input, "--output", output, "--model", "test-model")
	require.NoError(t, err)
	assert.Contains(t, out, "No new files to process.")
}

func TestStatusCommand(t *testing.T) {
	input, output := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(input, "a.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(input, "b.md"), []byte("y"), 0o644))

	out, err := execute(t, "status", "-i", input, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Pending:   2")
	assert.Contains(t, out, "  a.md\n")
	assert.Contains(t, out, "  b.md\n")
}

func TestInvalidFlagValueFails(t *testing.T) {
	input, output := isolate(t)
	_, err := execute(t, "status", "-i", input, "-o", output, "--toc-scope", "forever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toc scope")
}

func TestRunCommandMissingInputDir(t *testing.T) {
	_, output := isolate(t)
	_, err := execute(t, "run", "--input", filepath.Join(output, "nope"), "--output", output)
	assert.Error(t, err)
}
