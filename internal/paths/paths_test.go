package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlatform points platform lookups at dir for the duration of the test.
func fakePlatform(t *testing.T, goos, dir string) {
	t.Helper()
	saved := platform
	t.Cleanup(func() { platform = saved })

	platform.goos = goos
	platform.homeDir = func() (string, error) { return filepath.Join(dir, "home"), nil }
	platform.userConfigDir = func() (string, error) { return filepath.Join(dir, "appdata"), nil }
	platform.getwd = func() (string, error) { return filepath.Join(dir, "work"), nil }
}

func TestDefaultDirs(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name      string
		goos      string
		xdgConfig string
		xdgData   string
		wantCfg   string
		wantData  string
	}{
		{
			name:     "linux falls back to home",
			goos:     "linux",
			wantCfg:  filepath.Join(root, "home", ".config", "deeds"),
			wantData: filepath.Join(root, "home", ".local", "share", "deeds"),
		},
		{
			name:      "linux honours XDG",
			goos:      "linux",
			xdgConfig: "/xdg/config",
			xdgData:   "/xdg/data",
			wantCfg:   "/xdg/config/deeds",
			wantData:  "/xdg/data/deeds",
		},
		{
			name:      "darwin ignores XDG",
			goos:      "darwin",
			xdgConfig: "/xdg/config",
			wantCfg:   filepath.Join(root, "appdata", "deeds"),
			wantData:  filepath.Join(root, "appdata", "deeds"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakePlatform(t, tt.goos, root)
			t.Setenv("XDG_CONFIG_HOME", tt.xdgConfig)
			t.Setenv("XDG_DATA_HOME", tt.xdgData)

			cfg, err := DefaultConfigDir()
			require.NoError(t, err)
			assert.Equal(t, tt.wantCfg, cfg)

			data, err := DefaultDataDir()
			require.NoError(t, err)
			assert.Equal(t, tt.wantData, data)
		})
	}
}

func TestResolveConfigDir(t *testing.T) {
	root := t.TempDir()
	fakePlatform(t, "linux", root)
	t.Setenv("XDG_CONFIG_HOME", "")

	t.Run("flag wins over env", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/env/config")
		got, err := ResolveConfigDir("/flag/config")
		require.NoError(t, err)
		assert.Equal(t, "/flag/config", got)
	})

	t.Run("env when no flag", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/env/config")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, "/env/config", got)
	})

	t.Run("platform default when nothing set", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "home", ".config", "deeds"), got)
	})

	t.Run("project-local directory beats platform default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		local := filepath.Join(root, "work", LocalConfigDirName)
		require.NoError(t, os.MkdirAll(local, 0o755))
		t.Cleanup(func() { os.RemoveAll(local) })

		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, local, got)
	})

	t.Run("relative flag becomes absolute", func(t *testing.T) {
		got, err := ResolveConfigDir("relative/path")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})
}

func TestResolveDataDir(t *testing.T) {
	root := t.TempDir()
	fakePlatform(t, "linux", root)
	t.Setenv("XDG_DATA_HOME", "")

	tests := []struct {
		name   string
		flag   string
		config string
		env    string
		want   string
	}{
		{name: "flag wins", flag: "/flag/data", config: "/cfg/data", env: "/env/data", want: "/flag/data"},
		{name: "config value over env", config: "/cfg/data", env: "/env/data", want: "/cfg/data"},
		{name: "env when no flag or config", env: "/env/data", want: "/env/data"},
		{name: "platform default", want: filepath.Join(root, "home", ".local", "share", "deeds")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.env)
			got, err := ResolveDataDir(tt.flag, tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("relative config value becomes absolute", func(t *testing.T) {
		t.Setenv(EnvDataDir, "")
		got, err := ResolveDataDir("", "relative/config")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})
}
