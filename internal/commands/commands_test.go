package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/seed"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(dir, "fintrack.db"))
	t.Setenv("STORAGE_KEY", "transactions")
	t.Setenv("SEED_SOURCE", filepath.Join(dir, "missing.json"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("AMQP_URL", "")
	return dir
}

func runWithInput(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(func() time.Time { return testNow })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if in != nil {
		cmd.SetIn(in)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, nil, args...)
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "fintrack %s", strings.Join(args, " "))
	return out
}

func addSalaryAndRent(t *testing.T) {
	t.Helper()
	mustRun(t, "add", "--name", "Monthly salary", "--type", "income", "--date", "2026-10-01",
		"--category", "Salary", "--amount", "3000", "--card", "CARD")
	mustRun(t, "add", "--name", "Rent payment", "--type", "expense", "--date", "2026-10-03",
		"--time", "09:15", "--category", "Housing", "--amount", "900.00", "--card", "momo")
}

func TestAddAndList(t *testing.T) {
	setupEnv(t)
	addSalaryAndRent(t)

	out := mustRun(t, "list")
	assert.Contains(t, out, "Monthly salary")
	assert.Contains(t, out, "Rent payment")
	assert.Contains(t, out, "MOMO")
	assert.Contains(t, out, "2 of 2 transactions")
	// Newest first.
	assert.Less(t, strings.Index(out, "Rent payment"), strings.Index(out, "Monthly salary"))

	out = mustRun(t, "list", "--type", "income")
	assert.Contains(t, out, "Monthly salary")
	assert.NotContains(t, out, "Rent payment")
	assert.Contains(t, out, "1 of 2 transactions")

	out = mustRun(t, "list", "--min-amount", "1000", "--card", "All")
	assert.Contains(t, out, "1 of 2 transactions")

	out = mustRun(t, "list", "--search", "RENT")
	assert.Contains(t, out, "Rent payment")
}

func TestAddDefaultsTimeToNow(t *testing.T) {
	setupEnv(t)
	out := mustRun(t, "add", "--name", "Coffee beans", "--date", "2026-10-18",
		"--category", "Food", "--amount", "12.5", "--card", "CASH")
	assert.Contains(t, out, "Added expense Coffee beans 12.50")

	out = mustRun(t, "list")
	assert.Contains(t, out, "12:00")
}

func TestAddValidation(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "add", "--name", "x", "--date", "18/10/2026", "--category", "Food", "--amount", "1.234", "--card", "VISA")
	require.Error(t, err)
	for _, field := range []string{"name:", "date:", "amount:", "card:"} {
		assert.Contains(t, err.Error(), field)
	}
	assert.NotContains(t, err.Error(), "category:")

	out := mustRun(t, "list")
	assert.Contains(t, out, "0 of 0 transactions")
}

func TestSummary(t *testing.T) {
	setupEnv(t)
	addSalaryAndRent(t)

	out := mustRun(t, "summary", "--range", "3 months", "--breakdown", "expense")
	assert.Contains(t, out, "3000.00")
	assert.Contains(t, out, "900.00")
	assert.Contains(t, out, "2100.00")
	assert.Contains(t, out, "76.9%")
	assert.Contains(t, out, "Cashflow (3 months)")
	assert.Contains(t, out, "2026-08")
	assert.Contains(t, out, "2026-10")
	assert.NotContains(t, out, "2026-07")
	assert.Contains(t, out, "Expense by category (3 months)")
	assert.Contains(t, out, "Housing")
	assert.NotContains(t, out, "Salary")
}

func TestSummaryRejectsUnknownRange(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "summary", "--range", "2 weeks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid range")
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := setupEnv(t)
	addSalaryAndRent(t)

	jsonPath := filepath.Join(dir, "export.json")
	out := mustRun(t, "export", "--out", jsonPath)
	assert.Contains(t, out, "Exported 2 transactions")

	csvOut := mustRun(t, "export", "--format", "csv")
	lines := strings.Split(strings.TrimSpace(csvOut), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Name","Type","Date","Time","Category","Amount","Card","Description"`, lines[0])

	mustRun(t, "reset")
	assert.Contains(t, mustRun(t, "list"), "0 of 0 transactions")

	out = mustRun(t, "import", jsonPath)
	assert.Contains(t, out, "Imported 2 transactions")

	exported, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var want []core.Transaction
	require.NoError(t, json.Unmarshal(exported, &want))

	again := mustRun(t, "export")
	var got []core.Transaction
	require.NoError(t, json.Unmarshal([]byte(again), &got))
	assert.Equal(t, want, got)
}

func TestImportFromStdin(t *testing.T) {
	setupEnv(t)
	payload := `[{"id": 7, "name": "Coffee", "type": "expense", "date": "2026-09-02", "time": "07:30", "category": "Food", "amount": 3.2, "card": "CASH"}]`

	out, err := runWithInput(t, strings.NewReader(payload), "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 transactions")
	assert.Contains(t, mustRun(t, "list"), "Coffee")
}

func TestImportRejectsBadFile(t *testing.T) {
	dir := setupEnv(t)
	addSalaryAndRent(t)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not": "an array"}`), 0o644))

	_, err := run(t, "import", bad)
	require.Error(t, err)
	var pe *core.ParseError
	assert.ErrorAs(t, err, &pe)

	assert.Contains(t, mustRun(t, "list"), "2 of 2 transactions")
}

func TestSeed(t *testing.T) {
	dir := setupEnv(t)
	addSalaryAndRent(t)

	src := filepath.Join(dir, "demo.json")
	require.NoError(t, os.WriteFile(src, []byte(`[
  {"id": 1, "name": "Salary", "type": "income", "date": "2026-09-15", "time": "09:00", "category": "Salary", "amount": 1000, "card": "CARD"}
]`), 0o644))

	out := mustRun(t, "seed", "--source", src)
	assert.Contains(t, out, "Loaded 1 demo transactions")
	assert.Contains(t, mustRun(t, "list"), "1 of 1 transactions")
}

func TestSeedFailureKeepsStore(t *testing.T) {
	setupEnv(t)
	addSalaryAndRent(t)

	_, err := run(t, "seed")
	require.Error(t, err)
	var fe *core.FetchError
	assert.ErrorAs(t, err, &fe)

	assert.Contains(t, mustRun(t, "list"), "2 of 2 transactions")
}

func TestConfigFileOverlay(t *testing.T) {
	dir := setupEnv(t)
	cfgPath := filepath.Join(dir, "fintrack.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("data_backend: memory\nlog_level: error\n"), 0o644))

	mustRun(t, "--config", cfgPath, "add", "--name", "Groceries", "--date", "2026-10-10",
		"--category", "Food", "--amount", "20", "--card", "CASH")

	// The memory backend does not outlive the command.
	assert.Contains(t, mustRun(t, "--config", cfgPath, "list"), "0 of 0 transactions")
	_, err := os.Stat(filepath.Join(dir, "fintrack.db"))
	assert.True(t, os.IsNotExist(err))
}

func TestInvalidConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("DATA_BACKEND", "postgres")

	_, err := run(t, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid data backend")
}

func TestWatchNeedsBroker(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AMQP_URL")
}

const demoPayload = `[
  {"id": 1, "name": "Salary", "type": "income", "date": "2026-09-15", "time": "09:00", "category": "Salary", "amount": 1000, "card": "CARD"}
]`

// startupStoreLen runs the serve startup seeding against the configured
// store and reports how many transactions it holds afterwards.
func startupStoreLen(t *testing.T, src string) int {
	t.Helper()
	ctx := context.Background()
	a := &app{
		cfg:    config.Load(),
		logger: log.New(log.Config{Output: io.Discard, Level: slog.LevelError}),
		now:    func() time.Time { return testNow },
	}
	store, closeStore, err := a.openStore(ctx)
	require.NoError(t, err)
	defer closeStore()

	a.seedIfFresh(ctx, store, seed.New(src))
	return store.Len()
}

func TestServeSeedsFirstStart(t *testing.T) {
	dir := setupEnv(t)
	src := filepath.Join(dir, "demo.json")
	require.NoError(t, os.WriteFile(src, []byte(demoPayload), 0o644))

	assert.Equal(t, 1, startupStoreLen(t, src))
	assert.Contains(t, mustRun(t, "list"), "1 of 1 transactions")
}

func TestServeDoesNotReseedAfterReset(t *testing.T) {
	dir := setupEnv(t)
	src := filepath.Join(dir, "demo.json")
	require.NoError(t, os.WriteFile(src, []byte(demoPayload), 0o644))

	addSalaryAndRent(t)
	mustRun(t, "reset")

	assert.Equal(t, 0, startupStoreLen(t, src))
	assert.Contains(t, mustRun(t, "list"), "0 of 0 transactions")
}

func TestServeKeepsExistingData(t *testing.T) {
	dir := setupEnv(t)
	src := filepath.Join(dir, "demo.json")
	require.NoError(t, os.WriteFile(src, []byte(demoPayload), 0o644))

	addSalaryAndRent(t)
	assert.Equal(t, 2, startupStoreLen(t, src))
}
