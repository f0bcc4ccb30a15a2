package cmd

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheckGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		name := filepath.Base(file[:len(file)-len(filepath.Ext(file))])
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, "check", file)
			require.NoError(t, err)
			golden.Assert(t, out, name+".golden")
		})
	}
}

func writeScenario(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestCheckFailedExpectation(t *testing.T) {
	path := writeScenario(t, `
queries:
  - name: wrong
    subtype: [Number, Int]
    expect: true
  - name: right
    subtype: [Int, Number]
    expect: true
`)
	out, err := execute(t, "check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 queries")
	assert.Equal(t, "wrong: false (expected true)\nright: true\n", out)
}

func TestCheckMultipleFiles(t *testing.T) {
	first := writeScenario(t, "queries: [{name: one, subtype: [Float, Number], expect: true}]")
	second := writeScenario(t, "queries: [{name: two, same: [Bool, Bool], expect: true}]")

	out, err := execute(t, "check", first, second)
	require.NoError(t, err)
	assert.Equal(t, "# "+first+"\none: true\n# "+second+"\ntwo: true\n", out)
}

func TestCheckInvalidScenario(t *testing.T) {
	path := writeScenario(t, `
types:
  Loop: {builtin: {parent: Loop}}
`)
	_, err := execute(t, "check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inheritance cycle")
}

func TestNormalize(t *testing.T) {
	out, err := execute(t, "normalize", filepath.Join("testdata", "iterator.yaml"), "--type", "Int")
	require.NoError(t, err)
	assert.Equal(t, "Int\n", out)

	out, err = execute(t, "normalize", filepath.Join("testdata", "iterator.yaml"), "--type", "Pair")
	require.NoError(t, err)
	assert.Equal(t, "interface<A, B> { first: () -> A, second: () -> B }\n", out)

	_, err = execute(t, "normalize", filepath.Join("testdata", "iterator.yaml"), "--type", "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type 'Missing' is not defined")
}

func TestNormalizeDump(t *testing.T) {
	out, err := execute(t, "normalize", filepath.Join("testdata", "iterator.yaml"), "--type", "Number", "--dump")
	require.NoError(t, err)
	assert.Contains(t, out, "types.Builtin")
	assert.Contains(t, out, `"Number"`)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "tcore.toml")
	require.NoError(t, os.WriteFile(config, []byte("max_depth = 1\nstrict = true\n"), 0o644))

	path := writeScenario(t, `
queries:
  - name: deep
    subtype:
      - {app: {base: Iterator, args: [Int]}}
      - {app: {base: Iterator, args: [Int]}}
    expect_error: DepthExceeded
`)
	out, err := execute(t, "check", path, "--config", config)
	require.NoError(t, err)
	assert.Contains(t, out, "deep: error (E006)")
}

func TestConfigStrictAndValidation(t *testing.T) {
	path := writeScenario(t, `
queries:
  - name: anonymous
    same:
      - {interface: {members: {get: {func: {returns: Number}}}}}
      - {interface: {members: {get: {func: {returns: Number}}}}}
    expect_error: StructuralInvariantViolation
  - name: malformed
    same: [{context: {inner: Number, bindings: {T: Int}}}, Number]
    expect_error: MalformedContext
`)

	tests := []struct {
		name     string
		config   string
		args     []string
		wantErr  bool
		expected []string
	}{
		{"both enabled", "strict = true\nvalidate_contexts = true\n", nil, false, []string{
			"anonymous: error (E004)",
			"malformed: error (E007)",
		}},
		{"defaults", "", nil, true, []string{
			"anonymous: false (expected error StructuralInvariantViolation)",
			"malformed: true (expected error MalformedContext)",
		}},
		{"strict flag only", "", []string{"--strict"}, true, []string{
			"anonymous: error (E004)",
			"malformed: true (expected error MalformedContext)",
		}},
		{"flag overrides file", "strict = true\nvalidate_contexts = true\n", []string{"--strict=false"}, true, []string{
			"anonymous: false (expected error StructuralInvariantViolation)",
			"malformed: error (E007)",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"check", path}, tt.args...)
			if tt.config != "" {
				config := filepath.Join(t.TempDir(), "tcore.toml")
				require.NoError(t, os.WriteFile(config, []byte(tt.config), 0o644))
				args = append(args, "--config", config)
			}
			out, err := execute(t, args...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			for _, line := range tt.expected {
				assert.Contains(t, out, line)
			}
		})
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	config := filepath.Join(t.TempDir(), "tcore.toml")
	require.NoError(t, os.WriteFile(config, []byte("max_dept = 3\n"), 0o644))

	_, err := LoadConfig(config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_dept")
}
