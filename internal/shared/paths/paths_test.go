package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VW_TEST_DIR", "/srv/layouts")

	got, err := Expand("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Expand("~/layouts/desk.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "layouts", "desk.toml"), got)

	got, err = Expand("$VW_TEST_DIR/a.json")
	require.NoError(t, err)
	assert.Equal(t, "/srv/layouts/a.json", got)

	got, err = Expand("relative.yaml")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestInStateDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := InStateDir("layout.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, AppDirName, "layout.yaml"), got)

	got, err = InStateDir("/etc/vwhost/rules.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/vwhost/rules.yaml", got)

	got, err = InStateDir("~/rules.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "rules.yaml"), got)
}
