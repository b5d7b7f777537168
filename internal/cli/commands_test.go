package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPush(t *testing.T, db string, values ...string) {
	t.Helper()
	args := append([]string{"push", "--db", db}, values...)
	_, _, err := execute(t, args...)
	require.NoError(t, err)
}

func TestPush(t *testing.T) {
	db := testDB(t)

	stdout, _, err := execute(t, "push", "--db", db, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "pushed 2, size 2\n", stdout)

	stdout, _, err = execute(t, "push", "--db", db, "--format", "json", "c")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"pushed":1,"size":3}}`, stdout)
}

func TestPush_RequiresValue(t *testing.T) {
	_, _, err := execute(t, "push", "--db", testDB(t))
	require.Error(t, err)
}

func TestList_Golden(t *testing.T) {
	db := testDB(t)
	mustPush(t, db, "a", "b", "c")

	stdout, _, err := execute(t, "list", "--db", db)
	require.NoError(t, err)
	assertGolden(t, "list_text", stdout)

	stdout, _, err = execute(t, "list", "--db", db, "--format", "json")
	require.NoError(t, err)
	assertGolden(t, "list_json", stdout)
}

func TestList_Empty(t *testing.T) {
	db := testDB(t)

	stdout, _, err := execute(t, "list", "--db", db)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	stdout, _, err = execute(t, "list", "--db", db, "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"count":0,"items":[]}}`, stdout)
}

func TestPop(t *testing.T) {
	db := testDB(t)
	mustPush(t, db, "a", "b", "c")

	stdout, _, err := execute(t, "pop", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "a\n", stdout)

	stdout, _, err = execute(t, "pop", "--db", db, "-n", "5", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"items":["b","c"],"size":0}}`, stdout)
}

func TestPop_EmptyExitsWithFailure(t *testing.T) {
	db := testDB(t)

	stdout, _, err := execute(t, "pop", "--db", db, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assertGolden(t, "pop_empty_json", stdout)
}

func TestPop_InvalidCount(t *testing.T) {
	_, _, err := execute(t, "pop", "--db", testDB(t), "-n", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPeek(t *testing.T) {
	db := testDB(t)

	_, _, err := execute(t, "peek", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	mustPush(t, db, "x", "y")
	stdout, _, err := execute(t, "peek", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "x\n", stdout)

	stdout, _, err = execute(t, "size", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "2\n", stdout, "peek must not remove")
}

func TestContains(t *testing.T) {
	db := testDB(t)
	mustPush(t, db, "cafe\u0301")

	stdout, _, err := execute(t, "contains", "--db", db, "caf\u00e9")
	require.NoError(t, err)
	assert.Equal(t, "true\n", stdout, "canonically equal text must match")

	stdout, _, err = execute(t, "contains", "--db", db, "--format", "json", "tea")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"contains":false}}`, stdout)
}

func TestRemove(t *testing.T) {
	db := testDB(t)
	mustPush(t, db, "a", "b", "a")

	stdout, _, err := execute(t, "remove", "--db", db, "a")
	require.NoError(t, err)
	assert.Equal(t, "true\n", stdout)

	stdout, _, err = execute(t, "list", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "b\na\n", stdout, "oldest match is removed first")

	stdout, _, err = execute(t, "remove", "--db", db, "--format", "json", "z")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"removed":false}}`, stdout)
}

func TestClear(t *testing.T) {
	db := testDB(t)
	mustPush(t, db, "a", "b")

	stdout, _, err := execute(t, "clear", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "cleared 2\n", stdout)

	stdout, _, err = execute(t, "size", "--db", db, "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"size":0}}`, stdout)
}

func TestMissingDatabase(t *testing.T) {
	stdout, _, err := execute(t, "size", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeOpenFailed, resp.Error.Code)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "jobs.db")
	cfgPath := filepath.Join(dir, "pqueue.yaml")
	cfg := "db: " + db + "\ntable: jobs\nsynchronous: full\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	_, _, err := execute(t, "push", "--config", cfgPath, "from-config")
	require.NoError(t, err)

	// Same file, different table: a separate queue.
	stdout, _, err := execute(t, "size", "--config", cfgPath, "--table", "other")
	require.NoError(t, err)
	assert.Equal(t, "0\n", stdout)

	stdout, _, err = execute(t, "list", "--db", db, "--table", "jobs")
	require.NoError(t, err)
	assert.Equal(t, "from-config\n", stdout)
}

func TestConfigFile_Invalid(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("dbb: typo.db\n"), 0o644))

	_, _, err := execute(t, "size", "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVerboseLogsToStderr(t *testing.T) {
	db := testDB(t)

	stdout, stderr, err := execute(t, "push", "--db", db, "-v", "--format", "json", "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"pushed":1,"size":1}}`, stdout)
	assert.Contains(t, stderr, "queue opened")
	assert.Contains(t, stderr, "pushed 1 value(s)")
}
