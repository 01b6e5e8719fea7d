package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestDecode_Stdin(t *testing.T) {
	out, _, err := run(t, `{"id":1, "role":"in_valid"}`, "decode", "-d", "testdata/users.yaml", "-r", "User")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"name":"","email":"","isActive":false,"role":"guest"}`+"\n", out)
}

func TestDecode_FileWithReport(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"id":"x","name":"Ann"}`), 0o600))

	out, errOut, err := run(t, "", "decode", "-d", "testdata/users.yaml", "--report", in)
	require.NoError(t, err)
	assert.Equal(t, `{"id":0,"name":"Ann","email":"","isActive":false,"role":"guest"}`+"\n", out)
	assert.Contains(t, errOut, "/id: default applied (seen|default|invalid)")
	assert.Contains(t, errOut, "/email: default applied (default)")
}

func TestDecode_StructuralErrorFails(t *testing.T) {
	_, errOut, err := run(t, `{"id":1,"id":2}`, "decode", "-d", "testdata/users.yaml", "--duplicate-keys", "error")
	require.Error(t, err)
	assert.Contains(t, errOut, "duplicate_key")

	_, _, err = run(t, `[1]`, "decode", "-d", "testdata/users.yaml")
	require.Error(t, err)
}

func TestDefaults_Indented(t *testing.T) {
	out, _, err := run(t, "", "defaults", "-d", "testdata/users.yaml", "--indent", "  ")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{\n  \"id\": 0,"), out)
}

func TestSchema(t *testing.T) {
	out, _, err := run(t, "", "schema", "-d", "testdata/users.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "User"`)
	assert.Contains(t, out, `"$schema": "https://json-schema.org/draft/2020-12/schema"`)
}

func TestSchema_OpenAPI(t *testing.T) {
	out, _, err := run(t, "", "schema", "-d", "testdata/users.yaml", "--openapi", "--title", "users")
	require.NoError(t, err)
	assert.Contains(t, out, `"openapi": "3.0.3"`)
	assert.Contains(t, out, `"title": "users"`)
	assert.Contains(t, out, `"User": {`)
}

func TestList(t *testing.T) {
	out, _, err := run(t, "", "list", "-d", "testdata/users.yaml")
	require.NoError(t, err)
	assert.Equal(t, "User\n", out)
}

func TestMissingDescribe(t *testing.T) {
	_, _, err := run(t, "", "defaults")
	require.Error(t, err)
}

func TestVerboseDumpsConfig(t *testing.T) {
	_, errOut, err := run(t, "", "list", "-d", "testdata/users.yaml", "-v", "--max-depth", "12")
	require.NoError(t, err)
	assert.Contains(t, errOut, "[DEBUG] flexjson | config:")
	assert.Contains(t, errOut, "MaxDepth: (int) 12")
}
