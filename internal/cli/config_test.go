package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/evgen/internal/testutil"
)

func TestConfigFile(t *testing.T) {
	tr := testutil.SampleTree(t)
	cfgPath := filepath.Join(t.TempDir(), "ev-cli.yaml")
	content := "everest_dir: " + tr.EverestDir + "\n" +
		"framework_dir: " + tr.FrameworkDir + "\n" +
		"disable_clang_format: true\n" +
		"format: json\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	res := execute(t, "--config", cfgPath, "module", "create", "Sample", "--only", "which")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"status":"ok"`)
	assert.Contains(t, res.stdout, `"cmakelists"`)
}

func TestConfigFileMissing(t *testing.T) {
	res := execute(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "helpers", "generate-uuids", "1")
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, res.code())
	assert.Contains(t, res.stderr, "config file not found")
}

func TestConfigEnvironment(t *testing.T) {
	tr := testutil.SampleTree(t)
	t.Setenv("EV_CLI_EVEREST_DIR", tr.EverestDir)
	t.Setenv("EV_CLI_FRAMEWORK_DIR", tr.FrameworkDir)
	t.Setenv("EV_CLI_DISABLE_CLANG_FORMAT", "true")

	res := execute(t, "module", "create", "Sample", "--only", "cmakelists")
	require.NoError(t, res.err)
	assert.FileExists(t, moduleFile(tr, "CMakeLists.txt"))
}

func TestFlagOverridesEnvironment(t *testing.T) {
	tr := testutil.SampleTree(t)
	t.Setenv("EV_CLI_EVEREST_DIR", t.TempDir())

	res := run(t, tr, "module", "create", "Sample", "--only", "which")
	require.NoError(t, res.err)
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{
		EverestDir:      "ev",
		FrameworkDir:    "fw",
		ClangFormatFile: ".",
		Format:          "text",
		Color:           "auto",
	}
	require.NoError(t, cfg.resolve())

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "ev"), cfg.EverestDir)
	assert.Equal(t, filepath.Join(wd, "ev", "build", ".ev-cli-ledger.db"), cfg.Ledger)
}

func TestConfigInvalidColor(t *testing.T) {
	cfg := &Config{Format: "text", Color: "always"}
	err := cfg.resolve()

	var argErr *InvalidArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "--color", argErr.Arg)
}
