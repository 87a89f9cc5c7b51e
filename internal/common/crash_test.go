package common

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallCrashHandler(t *testing.T) {
	origDir := CrashLogDir
	defer func() { CrashLogDir = origDir }()

	dir := t.TempDir() + "/crash"
	InstallCrashHandler(dir)

	assert.Equal(t, dir, CrashLogDir)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Empty argument keeps the current directory.
	InstallCrashHandler("")
	assert.Equal(t, dir, CrashLogDir)
}

func TestWriteCrashFile(t *testing.T) {
	origDir := CrashLogDir
	defer func() { CrashLogDir = origDir }()
	InstallCrashHandler(t.TempDir())

	path := WriteCrashFile("multiple out of range", GetStackTrace())
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "=== VALCHECK CRASH REPORT ===")
	assert.Contains(t, content, "multiple out of range")
	assert.Contains(t, content, GetFullVersion())
	assert.Contains(t, content, "=== ALL GOROUTINES ===")
	assert.Contains(t, content, "=== END CRASH REPORT ===")
}

func TestGetStackTrace(t *testing.T) {
	trace := GetStackTrace()

	assert.Contains(t, trace, "goroutine")
	assert.Contains(t, trace, "TestGetStackTrace")
}

func TestGetAllGoroutineStacks(t *testing.T) {
	stacks := GetAllGoroutineStacks()

	assert.NotEmpty(t, stacks)
	assert.True(t, strings.HasPrefix(stacks, "goroutine"))
}
