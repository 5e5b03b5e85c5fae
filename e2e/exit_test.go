//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	cms := NewFakeCMS(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	err := tf.StartApp("--url", cms.SearchURL())
	require.NoError(t, err, "Failed to start app")

	// Wait for TUI to initialize and render
	require.True(t, tf.Ready(), "Should show the search screen")

	t.Logf("Sending esc to quit application...")
	tf.Quit()

	exited, exitErr := tf.WaitExit(1500 * time.Millisecond)
	if exited {
		t.Logf("Process exited with esc (exit error: %v)", exitErr)
		return
	}

	// If esc didn't work, use Ctrl+C
	t.Logf("esc didn't work within 1.5 seconds, using Ctrl+C")
	tf.SendCtrlC()

	exited, exitErr = tf.WaitExit(750 * time.Millisecond)
	if !exited {
		tf.DumpTailOnFail(t, "exit-failure", 4096)
		t.Fatal("Application did not exit within total timeout")
	}
	t.Logf("Process exited with Ctrl+C (exit error: %v)", exitErr)
}

func TestApplicationExitWithCtrlC(t *testing.T) {
	t.Parallel()
	cms := NewFakeCMS(t, "Berlin")
	tf := NewTUITest(t)
	defer tf.Cleanup()

	err := tf.StartApp("--url", cms.SearchURL())
	require.NoError(t, err, "Failed to start app")
	require.True(t, tf.Ready(), "Should show the search screen")

	// Quit with a query still waiting for its timer
	require.NoError(t, tf.Type("b"))
	tf.SendCtrlC()

	exited, exitErr := tf.WaitExit(2 * time.Second)
	require.True(t, exited, "app did not exit after ctrl+c")
	require.NoError(t, exitErr)
}

func TestMissingURLFails(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())

	exited, exitErr := tf.WaitExit(2 * time.Second)
	require.True(t, exited, "app should refuse to start without an endpoint")
	require.Error(t, exitErr)
	require.True(t, tf.SeePlain("invalid config"))
}
