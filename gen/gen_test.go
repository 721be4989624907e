package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestGenerateExampleEnv(t *testing.T) {
	out := string(generateExampleEnv())

	assert.Assert(t, strings.HasPrefix(out, "# FaydaPass example configuration"))
	assert.Assert(t, strings.Contains(out, "FAYDAPASS_FAYDA_CLIENTID=\n"))
	assert.Assert(t, strings.Contains(out, "FAYDAPASS_SERVER_PORT=3000\n"))
	assert.Assert(t, strings.Contains(out, "FAYDAPASS_FLOW_STORE=\"memory\"\n"))
	assert.Assert(t, strings.Contains(out, "FAYDAPASS_FAYDA_SCOPES=openid,profile,email,phone,address\n"))
	assert.Assert(t, strings.Contains(out, "FAYDAPASS_LOG_STREAMS_AUDIT_ENABLED=true\n"))
}

func TestGenerateMarkdown(t *testing.T) {
	out := string(generateMarkdown())

	assert.Assert(t, strings.HasPrefix(out, "# FaydaPass configuration reference"))
	assert.Assert(t, strings.Contains(out, "\n## fayda\n"))
	assert.Assert(t, strings.Contains(out, "| `FAYDAPASS_FAYDA_ENFORCENONCE` | `--fayda.enforceNonce` |"))
	assert.Assert(t, strings.Contains(out, "| `FAYDAPASS_APPURL` | `--appUrl` |"))
	assert.Assert(t, strings.Contains(out, "| `FAYDAPASS_FLOW_TTL` | `--flow.ttl` | Lifetime in seconds of an authorization flow. | `600` |"))
}

func TestWriteGenerated(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.md")

	err := writeGenerated(name, []byte("first"))
	assert.NilError(t, err)

	err = writeGenerated(name, []byte("second"))
	assert.NilError(t, err)

	content, err := os.ReadFile(name)
	assert.NilError(t, err)
	assert.Equal(t, string(content), "second")
}
