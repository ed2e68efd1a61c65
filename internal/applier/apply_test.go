package applier

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/rorym/ota-apply/internal/config"
	"github.com/rorym/ota-apply/internal/pack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func readPack(t *testing.T, dir string, name pack.Name) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name.FileName()))
	require.NoError(t, err)
	return string(data)
}

func TestApply_Defaults(t *testing.T) {
	out := filepath.Join(t.TempDir(), "packs")
	packs, err := Apply(Options{ConfigPath: writeConfig(t, `{"other": 1}`), OutDir: out})
	require.NoError(t, err)
	assert.Len(t, packs, 5)

	assert.Equal(t, "{}", readPack(t, out, pack.Design))
	assert.Equal(t, "{}", readPack(t, out, pack.Layout))
	assert.Equal(t, "[]", readPack(t, out, pack.Screens))
	assert.Equal(t, "[]", readPack(t, out, pack.Onboarding))
	assert.Equal(t, "{}", readPack(t, out, pack.Config))
}

func TestApply_ConfigPack(t *testing.T) {
	out := t.TempDir()
	_, err := Apply(Options{
		ConfigPath: writeConfig(t, `{"mobileApp": {"_id": 123, "name": "x"}}`),
		OutDir:     out,
	})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"_id\": \"123\",\n  \"name\": \"x\"\n}", readPack(t, out, pack.Config))
}

func TestApply_IgnoresCaseVariantFields(t *testing.T) {
	out := t.TempDir()
	_, err := Apply(Options{
		ConfigPath: writeConfig(t, `{"AppDesign": {"x": 1}, "SCREENS": [9], "onboardingScreens": [1], "OnboardingScreens": null}`),
		OutDir:     out,
	})
	require.NoError(t, err)

	assert.Equal(t, "{}", readPack(t, out, pack.Design))
	assert.Equal(t, "[]", readPack(t, out, pack.Screens))
	assert.Equal(t, "[\n  1\n]", readPack(t, out, pack.Onboarding))
}

func TestApply_NormalizesOutput(t *testing.T) {
	out := t.TempDir()
	_, err := Apply(Options{
		ConfigPath: writeConfig(t, `{
			"appDesign": {"a": 1, "a": 2, "n": 1.50, "e": 1E2},
			"mobileApp": {"name": "x", "2": "y", "1": "z", "_id": 42}
		}`),
		OutDir: out,
	})
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"a\": 2,\n  \"n\": 1.5,\n  \"e\": 100\n}", readPack(t, out, pack.Design))
	assert.Equal(t, "{\n  \"1\": \"z\",\n  \"2\": \"y\",\n  \"name\": \"x\",\n  \"_id\": \"42\"\n}", readPack(t, out, pack.Config))
}

func TestApply_OutputIsUTF8(t *testing.T) {
	out := t.TempDir()
	_, err := Apply(Options{ConfigPath: writeConfig(t, "{\"appLayout\": {\"t\": \"a\xffb\"}}"), OutDir: out})
	require.NoError(t, err)

	layout := readPack(t, out, pack.Layout)
	assert.True(t, utf8.ValidString(layout))
	assert.Equal(t, "{\n  \"t\": \"a\uFFFDb\"\n}", layout)
}

func TestApply_SecondRunOverwrites(t *testing.T) {
	out := t.TempDir()
	first := writeConfig(t, `{
		"appDesign": {"color": "red"},
		"screens": [1, 2],
		"mobileApp": {"_id": 1, "name": "one"}
	}`)
	second := writeConfig(t, `{"appLayout": {"cols": 2}}`)

	_, err := Apply(Options{ConfigPath: first, OutDir: out})
	require.NoError(t, err)
	_, err = Apply(Options{ConfigPath: second, OutDir: out})
	require.NoError(t, err)

	assert.Equal(t, "{}", readPack(t, out, pack.Design))
	assert.JSONEq(t, `{"cols": 2}`, readPack(t, out, pack.Layout))
	assert.Equal(t, "[]", readPack(t, out, pack.Screens))
	assert.Equal(t, "[]", readPack(t, out, pack.Onboarding))
	assert.Equal(t, "{}", readPack(t, out, pack.Config))
}

func TestApply_MissingFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "packs")

	_, err := Apply(Options{OutDir: out})
	require.ErrorIs(t, err, config.ErrMissingFile)

	_, err = Apply(Options{ConfigPath: filepath.Join(t.TempDir(), "absent.json"), OutDir: out})
	require.ErrorIs(t, err, config.ErrMissingFile)

	assert.NoDirExists(t, out)
}

func TestApply_MalformedWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "packs")

	_, err := Apply(Options{ConfigPath: writeConfig(t, `{"appDesign": `), OutDir: out})
	require.ErrorIs(t, err, config.ErrMalformedInput)
	assert.NoDirExists(t, out)
}

func TestApply_SchemaRejectsBeforeWrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "packs")
	schema := writeConfig(t, `{"type": "object", "required": ["mobileApp"]}`)

	_, err := Apply(Options{ConfigPath: writeConfig(t, `{}`), OutDir: out, SchemaPath: schema})
	require.Error(t, err)
	assert.NoDirExists(t, out)

	_, err = Apply(Options{ConfigPath: writeConfig(t, `{"mobileApp": {}}`), OutDir: out, SchemaPath: schema})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "config_pack.json"))
}

func TestApply_DefaultDirRelativeToWorkingDir(t *testing.T) {
	wd := t.TempDir()
	cfg := writeConfig(t, `{"screens": ["a"]}`)
	prevWD, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(wd))
	t.Cleanup(func() { _ = os.Chdir(prevWD) })

	_, err := Apply(Options{ConfigPath: cfg})
	require.NoError(t, err)

	assert.JSONEq(t, `["a"]`, readPack(t, filepath.Join(wd, "assets", "ota_packs"), pack.Screens))
}
