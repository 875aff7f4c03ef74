package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pages/cmd/pages/commands"
	"go.trai.ch/pages/internal/app"
	"go.trai.ch/pages/internal/build"
)

type call struct {
	command string
	opts    app.Options
}

type mockApp struct {
	calls []call
	json  bool
	err   error
}

func (m *mockApp) record(command string, opts app.Options) error {
	m.calls = append(m.calls, call{command, opts})
	return m.err
}

func (m *mockApp) Build(_ context.Context, opts app.Options) error {
	return m.record("build", opts)
}

func (m *mockApp) Develop(_ context.Context, opts app.Options) error {
	return m.record("develop", opts)
}

func (m *mockApp) Clean(_ context.Context, opts app.Options) error {
	return m.record("clean", opts)
}

func (m *mockApp) SetJSON(enable bool) {
	m.json = enable
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(m)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_WireOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want call
		json bool
	}{
		{
			name: "build defaults",
			args: []string{"build"},
			want: call{"build", app.Options{}},
		},
		{
			name: "build with config and cwd",
			args: []string{"build", "-c", "site.yaml", "--cwd", "examples/blog"},
			want: call{"build", app.Options{Dir: "examples/blog", ConfigPath: "site.yaml"}},
		},
		{
			name: "develop with port",
			args: []string{"--json", "develop", "--port", "3000"},
			want: call{"develop", app.Options{Port: 3000}},
			json: true,
		},
		{
			name: "develop alias",
			args: []string{"dev", "-p", "8080"},
			want: call{"develop", app.Options{Port: 8080}},
		},
		{
			name: "clean",
			args: []string{"clean", "--cwd", "site"},
			want: call{"clean", app.Options{Dir: "site"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockApp{}

			_, err := execute(t, m, tt.args...)

			require.NoError(t, err)
			assert.Equal(t, []call{tt.want}, m.calls)
			assert.Equal(t, tt.json, m.json)
		})
	}
}

func TestCommands_ReturnsAppError(t *testing.T) {
	m := &mockApp{err: errors.New("simulated error")}

	_, err := execute(t, m, "build")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulated error")
}

func TestCommands_RejectsArguments(t *testing.T) {
	m := &mockApp{}

	_, err := execute(t, m, "build", "extra")

	require.Error(t, err)
	assert.Empty(t, m.calls)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "pages version "+build.Version)
	assert.Contains(t, out, "commit: "+build.Commit)
}

func TestCommands_VersionFlag(t *testing.T) {
	out, err := execute(t, &mockApp{}, "--version")

	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
}
