package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanet-platform/flame/modules/flame/internal/scenario"
)

const (
	testConfigPath   = "../../testdata/flame.yaml"
	testScenarioPath = "../../internal/scenario/testdata/basic.yaml"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestReplay(t *testing.T) {
	out, err := execute(t, "replay", "-c", testConfigPath, testScenarioPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Contains(t, lines[1], "lookup 00:00:00:00:00:0d: via 00:00:00:00:00:01 if=1 cost=10 seqnum=1")
	require.Contains(t, lines[4], "via 00:00:00:00:00:02 if=2 cost=20 seqnum=2")
	require.Contains(t, lines[5], "bytes via 00:00:00:00:00:02 if=2")
	require.Contains(t, lines[6], "no route")
	require.Contains(t, lines[7], "dropped: no route")
	require.Contains(t, out, "routes at 8s:")
	require.Contains(t, out, "DESTINATION")
}

func TestReplayDumpMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	doc := `
events:
  - at: 0s
    add: {destination: "00:00:00:00:00:0a", retransmitter: "00:00:00:00:00:01", interface: 4294967295, cost: 1, seqnum: 1}
  - at: 0s
    add: {destination: "00:00:00:00:01:0b", retransmitter: "00:00:00:00:00:01", interface: 1, cost: 1, seqnum: 1}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := execute(t, "replay", path)
	require.NoError(t, err)
	require.Contains(t, out, "00:00:00:00:00:0a")
	require.Contains(t, out, "00:00:00:00:01:0b")
	require.Contains(t, out, "any")

	out, err = execute(t, "replay", "--match", "00:00:00:00:01:*", path)
	require.NoError(t, err)

	dump := out[strings.Index(out, "DESTINATION"):]
	require.NotContains(t, dump, "00:00:00:00:00:0a")
	require.Contains(t, dump, "00:00:00:00:01:0b")
}

func TestReplayFailedExpectation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	doc := `
events:
  - at: 0s
    lookup: "00:00:00:00:00:0a"
    expect: {cost: 1}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := execute(t, "replay", path)
	require.ErrorIs(t, err, scenario.ErrExpectationFailed)
	require.Contains(t, out, "FAILED")
}

func TestReplayBadArguments(t *testing.T) {
	_, err := execute(t, "replay")
	require.Error(t, err)

	_, err = execute(t, "replay", "--match", "[", testScenarioPath)
	require.Error(t, err)

	_, err = execute(t, "replay", "-c", "missing.yaml", testScenarioPath)
	require.Error(t, err)

	_, err = execute(t, "replay", "missing.yaml")
	require.Error(t, err)
}
