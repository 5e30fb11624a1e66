package xcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type key struct{}

func TestDetach(t *testing.T) {
	parent, cancel := context.WithCancel(context.WithValue(context.Background(), key{}, "v"))
	detached := Detach(parent)
	cancel()

	require.Error(t, parent.Err())
	require.NoError(t, detached.Err())
	require.Nil(t, detached.Done())
	require.Equal(t, "v", detached.Value(key{}))
}
