package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/0x15BA88FF/brain-surgeon/invoker"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	// the linted path is the last argument; print the output scripted for it
	path := os.Args[len(os.Args)-1]
	fmt.Fprint(os.Stdout, os.Getenv("HELPER_STDOUT_"+filepath.Base(path)))
	os.Exit(0)
}

func helperRunner(outputs map[string]string) *invoker.Runner {
	return invoker.New(invoker.WithExecFunc(func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--"}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
		for file, stdout := range outputs {
			cmd.Env = append(cmd.Env, "HELPER_STDOUT_"+file+"="+stdout)
		}
		return cmd
	}))
}

func TestRunCheck(t *testing.T) {
	color.NoColor = true
	runner := helperRunner(map[string]string{
		"warn.bf":  `[{"startLine":1,"startColumn":1,"endLine":1,"endColumn":2,"message":"unmatched bracket","level":"warning"}]`,
		"clean.bf": `[]`,
	})

	var out bytes.Buffer
	err := runCheck(context.Background(), &out, runner, []string{"warn.bf", "clean.bf"}, 4)
	require.NoError(t, err)
	assert.Equal(t, "warn.bf:1:1: warning: unmatched bracket\n", out.String())
}

func TestRunCheckFails(t *testing.T) {
	color.NoColor = true
	runner := helperRunner(map[string]string{
		"err.bf": `[{"startLine":2,"startColumn":3,"endLine":2,"endColumn":4,"message":"pointer underflow","level":"ERROR"}]`,
		"bad.bf": `not json`,
	})

	var out bytes.Buffer
	err := runCheck(context.Background(), &out, runner, []string{"err.bf", "bad.bf"}, 1)
	assert.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out.String(), "err.bf:2:3: error: pointer underflow\n")
	assert.Contains(t, out.String(), "bad.bf: malformed lint output")
}
