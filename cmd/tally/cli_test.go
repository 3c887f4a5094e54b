package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/corey/tally/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tallyBin is the path to the compiled binary, set by TestMain.
var tallyBin string

func TestMain(m *testing.M) {
	// Build binary once for all tests.
	tmp, err := os.MkdirTemp("", "tally-cli-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "create temp dir: %v\n", err)
		os.Exit(1)
	}

	tallyBin = filepath.Join(tmp, "tally")
	cmd := exec.Command("go", "build", "-o", tallyBin, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.RemoveAll(tmp)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

// =============================================================================
// Helpers
// =============================================================================

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// runTally executes the binary in dir with args, returns stdout, stderr, exit code.
func runTally(t *testing.T, dir string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	return runTallyInput(t, dir, "", args...)
}

func runTallyInput(t *testing.T, dir, stdin string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	cmd := exec.Command(tallyBin, args...)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(stdin)

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("exec error (not ExitError): %v", err)
		}
	}
	return
}

func countsJSON(t *testing.T, stdout string) []int64 {
	t.Helper()
	var r ports.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &r), stdout)
	out := make([]int64, len(r.Counts))
	for i, pc := range r.Counts {
		out[i] = pc.Count
	}
	return out
}

// holdDBLock uses flock(1) to hold an exclusive lock on the bbolt file,
// simulating a long-running watch. Returns cleanup func.
func holdDBLock(t *testing.T, dbPath string) func() {
	t.Helper()
	if _, err := exec.LookPath("flock"); err != nil {
		t.Skip("flock(1) not available")
	}
	cmd := exec.Command("flock", "-x", dbPath, "-c", "sleep 60")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	require.NoError(t, cmd.Start())
	// Give flock time to acquire the lock.
	time.Sleep(200 * time.Millisecond)
	return func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
			cmd.Wait()
		}
	}
}

// =============================================================================
// count
// =============================================================================

func TestCount_Text(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr, exit := runTally(t, dir, "count", "-p", "he", "-p", "she", "-p", "his", "-p", "hers", "--text", "ahishers", "--json")
	require.Equal(t, 0, exit, stderr)
	assert.Equal(t, []int64{1, 1, 1, 1}, countsJSON(t, stdout))
}

func TestCount_Files(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "abcabc")
	writeFile(t, filepath.Join(dir, "b.txt"), "ab c")

	stdout, stderr, exit := runTally(t, dir, "count", "-p", "a", "-p", "ab", "-p", "bc", "-p", "c", "--json", "a.txt", "b.txt")
	require.Equal(t, 0, exit, stderr)
	assert.Equal(t, []int64{3, 3, 2, 3}, countsJSON(t, stdout))
}

func TestCount_Stdin(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr, exit := runTallyInput(t, dir, "aaaaa", "count", "-p", "a", "-p", "aa", "-p", "aaa", "--json")
	require.Equal(t, 0, exit, stderr)
	assert.Equal(t, []int64{5, 4, 3}, countsJSON(t, stdout))
}

func TestCount_HumanOutput(t *testing.T) {
	dir := t.TempDir()
	stdout, _, exit := runTally(t, dir, "count", "-p", "he", "-p", "", "--text", "hehe")
	require.Equal(t, 0, exit)
	assert.Contains(t, stdout, "⚡ patterns │ 2 patterns │ 4 symbols │ 1 source")
	assert.Contains(t, stdout, `""`)
	assert.NotContains(t, stdout, "\033[", "no color when stdout is not a terminal")
}

func TestCount_StrictRejectsSeparators(t *testing.T) {
	dir := t.TempDir()
	_, stderr, exit := runTally(t, dir, "count", "--strict", "-p", "ab", "--text", "ab ab")
	assert.Equal(t, 1, exit)
	assert.Contains(t, stderr, "error:")
}

func TestCount_NoPatterns(t *testing.T) {
	dir := t.TempDir()
	_, stderr, exit := runTally(t, dir, "count", "--text", "abc")
	assert.Equal(t, 1, exit)
	assert.Contains(t, stderr, "no patterns")
}

func TestCount_AlphabetFlag(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr, exit := runTally(t, dir, "count", "--alphabet", "ACGT", "-p", "ACG", "-p", "GTAC", "--text", "ACGTACGT", "--json")
	require.Equal(t, 0, exit, stderr)
	assert.Equal(t, []int64{2, 1}, countsJSON(t, stdout))
}

// =============================================================================
// vocab + report
// =============================================================================

func TestVocab_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "words.txt"), "# classic\nhe\nshe\nhis\nhers\n")
	writeFile(t, filepath.Join(dir, "text.txt"), "ahishers")

	_, stderr, exit := runTally(t, dir, "vocab", "add", "classic", "--file", "words.txt")
	require.Equal(t, 0, exit, stderr)
	_, err := os.Stat(filepath.Join(dir, ".tally", "tally.db"))
	require.NoError(t, err, ".tally/tally.db created")

	stdout, _, exit := runTally(t, dir, "vocab", "list")
	require.Equal(t, 0, exit)
	assert.Contains(t, stdout, "classic")
	assert.Contains(t, stdout, "4 patterns")

	stdout, _, exit = runTally(t, dir, "vocab", "show", "classic")
	require.Equal(t, 0, exit)
	assert.Contains(t, stdout, "hers")

	stdout, stderr, exit = runTally(t, dir, "count", "-v", "classic", "--save", "--json", "text.txt")
	require.Equal(t, 0, exit, stderr)
	assert.Equal(t, []int64{1, 1, 1, 1}, countsJSON(t, stdout))

	stdout, stderr, exit = runTally(t, dir, "report", "classic", "--json")
	require.Equal(t, 0, exit, stderr)
	assert.Equal(t, []int64{1, 1, 1, 1}, countsJSON(t, stdout))

	_, _, exit = runTally(t, dir, "vocab", "rm", "classic")
	require.Equal(t, 0, exit)
	_, stderr, exit = runTally(t, dir, "vocab", "show", "classic")
	assert.Equal(t, 1, exit)
	assert.Contains(t, stderr, "vocabulary not found")
}

func TestVocab_EmptyPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "words.txt"), "ab\n\n")

	_, stderr, exit := runTally(t, dir, "vocab", "add", "v", "--file", "words.txt")
	require.Equal(t, 0, exit, stderr)
	stdout, _, _ := runTally(t, dir, "vocab", "show", "v")
	assert.Contains(t, stdout, "1 pattern", "blank lines in --file are skipped")

	_, stderr, exit = runTally(t, dir, "vocab", "add", "v", "ab", "")
	require.Equal(t, 0, exit, stderr)
	stdout, stderr, exit = runTally(t, dir, "count", "-v", "v", "--json", "--text", "ab ab")
	require.Equal(t, 0, exit, stderr)
	assert.Equal(t, []int64{2, 4}, countsJSON(t, stdout))

	stdout, _, _ = runTally(t, dir, "vocab", "add", "--help")
	assert.Contains(t, stdout, `pass "" as an argument`)
}

func TestVocab_AddRejectsBadPattern(t *testing.T) {
	dir := t.TempDir()
	_, stderr, exit := runTally(t, dir, "vocab", "add", "bad", "ok", "not ok")
	assert.Equal(t, 1, exit)
	assert.Contains(t, stderr, `"not ok"`)
}

func TestReport_None(t *testing.T) {
	dir := t.TempDir()
	_, _, exit := runTally(t, dir, "vocab", "add", "v", "a")
	require.Equal(t, 0, exit)
	_, stderr, exit := runTally(t, dir, "report", "v")
	assert.Equal(t, 1, exit)
	assert.Contains(t, stderr, "no report")
}

func TestVocab_LockedDatabase(t *testing.T) {
	dir := t.TempDir()
	_, _, exit := runTally(t, dir, "vocab", "add", "v", "a")
	require.Equal(t, 0, exit)
	writeFile(t, filepath.Join(dir, ".tally", "config.yaml"), "db_timeout: 200ms\n")

	release := holdDBLock(t, filepath.Join(dir, ".tally", "tally.db"))
	defer release()

	_, stderr, exit := runTally(t, dir, "vocab", "list")
	assert.Equal(t, 1, exit)
	assert.Contains(t, stderr, "locked")
}

// =============================================================================
// verify, stats, config
// =============================================================================

func TestVerify_Agrees(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "She sells sea shells; he hears hers.")
	stdout, stderr, exit := runTally(t, dir, "verify", "-p", "he", "-p", "she", "-p", "hers", "-p", "", "a.txt")
	require.Equal(t, 0, exit, stderr)
	assert.Contains(t, stdout, "3 patterns agree")
	assert.Contains(t, stdout, "1 empty skipped")
}

func TestVerify_NeedsFiles(t *testing.T) {
	dir := t.TempDir()
	_, _, exit := runTally(t, dir, "verify", "-p", "he")
	assert.Equal(t, 1, exit)
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr, exit := runTally(t, dir, "stats", "-p", "he", "-p", "she", "-p", "his", "-p", "hers")
	require.Equal(t, 0, exit, stderr)
	assert.Contains(t, stdout, "compiled")
	assert.Contains(t, stdout, "Nodes:        10")
	assert.Contains(t, stdout, "Max depth:    4")
}

func TestConfig_InitAndShow(t *testing.T) {
	dir := t.TempDir()
	stdout, _, exit := runTally(t, dir, "config")
	require.Equal(t, 0, exit)
	assert.Contains(t, stdout, "defaults")
	assert.Contains(t, stdout, "abcdefghijklmnopqrstuvwxyz")

	_, stderr, exit := runTally(t, dir, "config", "--init")
	require.Equal(t, 0, exit, stderr)
	data, err := os.ReadFile(filepath.Join(dir, ".tally", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "workers: 4")

	_, stderr, exit = runTally(t, dir, "config", "--init")
	assert.Equal(t, 1, exit)
	assert.Contains(t, stderr, "already exists")
}

func TestConfig_InitWithOverrides(t *testing.T) {
	dir := t.TempDir()
	_, stderr, exit := runTally(t, dir, "config", "--init", "--alphabet", "ACGT", "--workers", "2")
	require.Equal(t, 0, exit, stderr)

	data, err := os.ReadFile(filepath.Join(dir, ".tally", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "alphabet: ACGT")
	assert.Contains(t, string(data), "workers: 2")
	assert.Contains(t, string(data), "case_fold: true", "unflagged settings keep their defaults")

	stdout, _, exit := runTally(t, dir, "config", "--help")
	require.Equal(t, 0, exit)
	assert.Contains(t, stdout, "written in place of the defaults")
}

func TestConfig_UnknownKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".tally", "config.yaml"), "colour: red\n")
	_, stderr, exit := runTally(t, dir, "config")
	assert.Equal(t, 1, exit)
	assert.Contains(t, stderr, "colour")
}
