package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes the root command with args against dir and returns
// stdout
func runCommand(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CARERING_CONFIG_DIR", dir)

	cmd := NewRootCommand()
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), err
}

// mustRun is runCommand for steps that must succeed
func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runCommand(t, dir, args...)
	require.NoError(t, err, "carering %v", args)
	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInitCommand(t *testing.T) {
	for _, store := range []string{"sqlite", "file"} {
		t.Run(store, func(t *testing.T) {
			dir := t.TempDir()

			out := mustRun(t, dir, "--store", store, "init", "user-1")
			assert.Contains(t, out, "Created layout for user-1 with 4 widgets")

			_, err := os.Stat(filepath.Join(dir, "config.yaml"))
			assert.NoError(t, err, "config.yaml should be created on first run")

			_, err = runCommand(t, dir, "--store", store, "init", "user-1")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "already exists")

			out = mustRun(t, dir, "--store", store, "init", "user-1", "--empty", "--force")
			assert.Contains(t, out, "with 0 widgets")
		})
	}
}

func TestAddAndWidgetsCommands(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init", "user-1", "--empty")

	out := mustRun(t, dir, "add", "user-1", "image")
	assert.Contains(t, out, "at (0, 0)")

	out = mustRun(t, dir, "add", "user-1", "customText", "--set", "text=hi")
	assert.Contains(t, out, "at (150, 0)")

	out = mustRun(t, dir, "add", "user-1", "divider", "--width", "360", "--height", "20")
	assert.Contains(t, out, "at (0, 100)")

	out = mustRun(t, dir, "widgets", "user-1", "--where", `type == "image"`)
	assert.Contains(t, out, "image")
	assert.NotContains(t, out, "customText")

	out = mustRun(t, dir, "widgets", "user-1", "--where", "y >= 100", "--json")
	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "divider", listed[0]["type"])

	_, err := runCommand(t, dir, "add", "user-1", "image", "--width", "500")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds the 360 unit canvas")

	_, err = runCommand(t, dir, "add", "user-1", "hologram")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown widget type")

	_, err = runCommand(t, dir, "add", "user-1", "link", "--set", "url=ftp://example.com")
	assert.Error(t, err)

	_, err = runCommand(t, dir, "widgets", "user-1", "--where", "x +")
	assert.Error(t, err)
}

func TestMoveResizeRemoveCommands(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init", "user-1")

	out := mustRun(t, dir, "move", "user-1", "about", "0", "5000")
	assert.Contains(t, out, "Moved about to (0, 1450)")

	out = mustRun(t, dir, "resize", "user-1", "posts", "10", "10")
	assert.Contains(t, out, "Resized posts to 80x80")

	_, err := runCommand(t, dir, "move", "user-1", "about", "left", "0")
	assert.Error(t, err)

	_, err = runCommand(t, dir, "move", "user-1", "missing", "0", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "widget not found")

	_, err = runCommand(t, dir, "remove", "user-1", "profileCard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be deleted")

	payload := `{"user_id": "user-2", "layout": [{"id": "note", "type": "customText", "position": {"x": 0, "y": 0}}]}`
	mustRun(t, dir, "import", writeFile(t, t.TempDir(), "save.json", payload))
	out = mustRun(t, dir, "remove", "user-2", "note")
	assert.Contains(t, out, "Removed note")
	out = mustRun(t, dir, "widgets", "user-2")
	assert.Contains(t, out, "No widgets found")
}

func TestSetAndBackgroundCommands(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init", "user-1")

	mustRun(t, dir, "set", "user-1", "about", "text=Runner and reader")
	mustRun(t, dir, "set", "user-1", "profileCard", "followerCount=12")
	mustRun(t, dir, "background", "user-1", "https://cdn.example.com/bg.png")

	out := mustRun(t, dir, "export", "user-1", "--format", "json")
	var exported map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	assert.Equal(t, "https://cdn.example.com/bg.png", exported["backgroundUrl"])
	assert.Contains(t, out, `"text": "Runner and reader"`)
	assert.Contains(t, out, `"followerCount": 12`)

	_, err := runCommand(t, dir, "set", "user-1", "about", "novalue")
	assert.Error(t, err)
}

func TestArrangeCommand(t *testing.T) {
	dir := t.TempDir()
	payload := `{"backgroundUrl": "", "widgets": [
		{"id": "a", "type": "image", "position": {"x": 40, "y": 40}},
		{"id": "b", "type": "image", "position": {"x": 60.4, "y": 60.6}}
	]}`
	out := mustRun(t, dir, "import", writeFile(t, t.TempDir(), "custom.json", payload), "--user", "user-1")
	assert.Contains(t, out, "1 overlapping pair(s)")

	out = mustRun(t, dir, "arrange", "user-1")
	assert.Contains(t, out, "Arranged 2 widgets")

	out = mustRun(t, dir, "show", "user-1")
	assert.NotContains(t, out, "#")
	assert.NotContains(t, out, "overlapping")
}

func TestResetCommand(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init", "user-1", "--empty")

	_, err := runCommand(t, dir, "reset", "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no previous layout")

	mustRun(t, dir, "add", "user-1", "image")
	out := mustRun(t, dir, "reset", "user-1")
	assert.Contains(t, out, "(0 widgets)")

	out = mustRun(t, dir, "reset", "user-1", "--default")
	assert.Contains(t, out, "(4 widgets)")
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "--store", "file", "init", "user-1")

	exported := filepath.Join(t.TempDir(), "layout.yaml")
	out := mustRun(t, dir, "--store", "file", "export", "user-1", "-o", exported)
	assert.Contains(t, out, "exported successfully")

	_, err := runCommand(t, dir, "--store", "file", "import", exported)
	require.Error(t, err, "user-1 already has a layout")

	out = mustRun(t, dir, "--store", "file", "import", exported, "--user", "user-2")
	assert.Contains(t, out, "Imported 4 widgets for user-2")

	first := mustRun(t, dir, "--store", "file", "widgets", "user-1")
	second := mustRun(t, dir, "--store", "file", "widgets", "user-2")
	assert.Equal(t, first, second)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	files := t.TempDir()

	valid := writeFile(t, files, "valid.json", `{"widgets": [
		{"id": "a", "type": "image", "position": {"x": 0, "y": 0}},
		{"id": "b", "type": "image", "position": {"x": 150, "y": 0}}
	]}`)
	out := mustRun(t, dir, "validate", valid)
	assert.Contains(t, out, "Layout validation passed")

	overlapping := writeFile(t, files, "overlap.json", `{"widgets": [
		{"id": "a", "type": "image", "position": {"x": 0, "y": 0}},
		{"id": "b", "type": "image", "position": {"x": 100, "y": 50}}
	]}`)
	_, err := runCommand(t, dir, "validate", overlapping)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlapping")

	outside := writeFile(t, files, "outside.yaml", `widgets:
  - id: wide
    type: divider
    position: {x: 300, y: 0}
    size: {width: 200, height: 20}
`)
	_, err = runCommand(t, dir, "validate", outside)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside the canvas")

	_, err = runCommand(t, dir, "validate", writeFile(t, files, "bad.json", `{"nothing": true}`))
	assert.Error(t, err)
}

func TestPlaceCommand(t *testing.T) {
	dir := t.TempDir()
	existing := writeFile(t, t.TempDir(), "existing.json", `[
		{"id": "a", "type": "image", "position": {"x": 0, "y": 0}, "size": {"width": 150, "height": 100}}
	]`)

	out := mustRun(t, dir, "place", "--existing", existing, "--width", "150", "--height", "100")
	assert.JSONEq(t, `{"position": {"x": 150, "y": 0}, "fallback": false}`, out)

	out = mustRun(t, dir, "place")
	assert.JSONEq(t, `{"position": {"x": 0, "y": 0}, "fallback": false}`, out)

	_, err := runCommand(t, dir, "place", "--width", "0")
	assert.Error(t, err)

	malformed := writeFile(t, t.TempDir(), "malformed.json", `[
		{"id": "a", "type": "image", "position": {"x": 0, "y": 0}, "size": {"width": -150, "height": 100}}
	]`)
	_, err = runCommand(t, dir, "place", "--existing", malformed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid layout")
}

func TestShowCommand(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init", "user-1")

	out := mustRun(t, dir, "show", "user-1")
	assert.Contains(t, out, "+---")
	assert.Contains(t, out, "|profileCard")
	assert.Contains(t, out, "|healthSummary")
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    map[string]interface{}
		wantErr bool
	}{
		{name: "string", input: []string{"text=hello world"}, want: map[string]interface{}{"text": "hello world"}},
		{name: "number", input: []string{"followerCount=12"}, want: map[string]interface{}{"followerCount": float64(12)}},
		{name: "bool and null", input: []string{"a=true", "b=null"}, want: map[string]interface{}{"a": true, "b": nil}},
		{name: "hex colour stays a string", input: []string{"color=#ff0000"}, want: map[string]interface{}{"color": "#ff0000"}},
		{name: "empty value", input: []string{"text="}, want: map[string]interface{}{"text": ""}},
		{name: "value with equals", input: []string{"url=https://x.io/?a=b"}, want: map[string]interface{}{"url": "https://x.io/?a=b"}},
		{name: "missing equals", input: []string{"text"}, wantErr: true},
		{name: "empty key", input: []string{"=value"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAssignments(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
