package invoker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helperExec re-runs the test binary as a stand-in for brain-surgeon. The
// helper prints stdout, writes stderr and exits with the given code.
func helperExec(stdout, stderr string, code int) (ExecFunc, *[][]string) {
	var mu sync.Mutex
	var calls [][]string
	fn := func(ctx context.Context, name string, args ...string) *exec.Cmd {
		mu.Lock()
		calls = append(calls, append([]string{name}, args...))
		mu.Unlock()
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"HELPER_STDOUT="+stdout,
			"HELPER_STDERR="+stderr,
			fmt.Sprintf("HELPER_EXIT=%d", code),
		)
		return cmd
	}
	return fn, &calls
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	fmt.Fprint(os.Stdout, os.Getenv("HELPER_STDOUT"))
	fmt.Fprint(os.Stderr, os.Getenv("HELPER_STDERR"))
	var code int
	fmt.Sscanf(os.Getenv("HELPER_EXIT"), "%d", &code)
	os.Exit(code)
}

func waitResult(t *testing.T, task *Task) Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	res, err := task.Wait(ctx)
	require.NoError(t, err)
	return res
}

func TestRunnerLint(t *testing.T) {
	stdout := `[{"startLine":1,"startColumn":1,"endLine":1,"endColumn":2,"message":"unmatched bracket","level":"warning"}]`
	fn, calls := helperExec(stdout, "", 0)
	r := New(WithExecFunc(fn))

	task := r.Lint(context.Background(), "/work/hello.bf")
	res := waitResult(t, task)

	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"brain-surgeon", "lint", "/work/hello.bf"}, (*calls)[0])
	assert.Equal(t, stdout, string(res.Stdout))
	assert.Equal(t, 0, res.ExitCode)
	assert.NoError(t, res.Err)
	assert.False(t, res.Failed())
	assert.Equal(t, task.ID(), res.ID)
	assert.Equal(t, []string{"lint", "/work/hello.bf"}, res.Args)
}

func TestRunnerFormat(t *testing.T) {
	fn, calls := helperExec("+++[>+<-]\n", "", 0)
	r := New(WithExecFunc(fn), WithExecutable("/opt/bin/brain-surgeon"))

	res := waitResult(t, r.Format(context.Background(), "/work/hello.bf"))

	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"/opt/bin/brain-surgeon", "fmt", "/work/hello.bf"}, (*calls)[0])
	assert.Equal(t, "+++[>+<-]\n", string(res.Stdout))
}

func TestRunnerNonZeroExit(t *testing.T) {
	fn, _ := helperExec("", "no such file", 2)
	r := New(WithExecFunc(fn))

	res := waitResult(t, r.Lint(context.Background(), "/missing.bf"))

	assert.Equal(t, 2, res.ExitCode)
	assert.Error(t, res.Err)
	assert.True(t, res.Failed())
	assert.Empty(t, res.Stdout)
	assert.Equal(t, "no such file", string(res.Stderr))
}

func TestRunnerSpawnFailure(t *testing.T) {
	r := New(WithExecutable("/nonexistent/brain-surgeon-for-tests"))

	res := waitResult(t, r.Lint(context.Background(), "/work/hello.bf"))

	assert.Error(t, res.Err)
	assert.Equal(t, -1, res.ExitCode)
	assert.Empty(t, res.Stdout)
}

func TestRunnerIgnoresCallerCancellation(t *testing.T) {
	fn, _ := helperExec("[]", "", 0)
	r := New(WithExecFunc(fn))

	ctx, cancel := context.WithCancel(context.Background())
	task := r.Lint(ctx, "/work/hello.bf")
	cancel()

	res := waitResult(t, task)
	assert.NoError(t, res.Err)
	assert.Equal(t, "[]", string(res.Stdout))
}

func TestRunnerEmptyExecutableKeepsDefault(t *testing.T) {
	assert.Equal(t, DefaultExecutable, New(WithExecutable("")).Executable())
}
