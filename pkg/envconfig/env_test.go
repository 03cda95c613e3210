package envconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n" +
		"SUPPLY_TEST_KEY=value1\n" +
		"SUPPLY_TEST_QUOTED=\"quoted value\"\n" +
		"not a pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("SUPPLY_TEST_KEY", "preset")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "preset", os.Getenv("SUPPLY_TEST_KEY"), "existing env vars win")
	assert.Equal(t, "quoted value", os.Getenv("SUPPLY_TEST_QUOTED"))

	os.Unsetenv("SUPPLY_TEST_QUOTED")
}

func TestLoadEnvFile_Missing(t *testing.T) {
	err := LoadEnvFile(filepath.Join(t.TempDir(), ".env"))
	require.Error(t, err)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("SUPPLY_TEST_STR", "abc")
	t.Setenv("SUPPLY_TEST_INT", "42")
	t.Setenv("SUPPLY_TEST_BOOL", "true")
	t.Setenv("SUPPLY_TEST_BAD_INT", "nope")

	assert.Equal(t, "abc", GetEnv("SUPPLY_TEST_STR", "def"))
	assert.Equal(t, "def", GetEnv("SUPPLY_TEST_UNSET", "def"))
	assert.Equal(t, 42, GetEnvInt("SUPPLY_TEST_INT", 7))
	assert.Equal(t, 7, GetEnvInt("SUPPLY_TEST_BAD_INT", 7))
	assert.True(t, GetEnvBool("SUPPLY_TEST_BOOL", false))
}
