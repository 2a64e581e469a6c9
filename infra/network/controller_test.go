package network

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestControllerFailedLifecycle(t *testing.T) {
	c := NewController()
	require.False(t, c.Failed())
	require.Equal(t, "", c.ErrorText())

	c.SetFailed("boom")
	require.True(t, c.Failed())
	require.Equal(t, "boom", c.ErrorText())

	c.Reset()
	require.False(t, c.Failed())
	require.Equal(t, "", c.ErrorText())
}

func TestControllerCancelLifecycle(t *testing.T) {
	c := NewController()
	require.False(t, c.IsCanceled())
	c.StartCancel()
	require.True(t, c.IsCanceled())
	c.Reset()
	require.False(t, c.IsCanceled())
}
