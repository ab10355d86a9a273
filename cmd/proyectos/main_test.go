package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/studiowebux/proyectos/internal/keybinds"
)

func writeKeybinds(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keybinds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadKeybindsDefaultsLogNothing(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	kb, err := loadKeybinds("", zap.New(core))
	require.NoError(t, err)
	require.NotNil(t, kb)
	assert.Zero(t, logs.Len())
}

func TestLoadKeybindsWarnsOnReservedKey(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	path := writeKeybinds(t, "results:\n  copy_record: \"ctrl+c\"\n")

	kb, err := loadKeybinds(path, zap.New(core))
	require.NoError(t, err)

	action, ok := kb.Match(keybinds.ContextResults, "ctrl+c")
	require.True(t, ok)
	assert.Equal(t, keybinds.ActionCopyRecord, action)

	entries := logs.FilterMessage("keybind override").All()
	require.NotEmpty(t, entries)
	var problems []string
	for _, e := range entries {
		assert.Equal(t, "ctrl+c", e.ContextMap()["key"])
		problems = append(problems, e.ContextMap()["problem"].(string))
	}
	assert.Contains(t, problems, "reserved key rebound (may cause issues)")
}

func TestLoadKeybindsRejectsUnreachableKey(t *testing.T) {
	core, _ := observer.New(zapcore.WarnLevel)
	path := writeKeybinds(t, "results:\n  copy_record: \"g\"\n")

	_, err := loadKeybinds(path, zap.New(core))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}
