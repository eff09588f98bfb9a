package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/facturas/internal/common"
	"github.com/dmitrijs2005/facturas/internal/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	dir     string
	out     string
	queries string
	dsn     string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	origNow, origTerm := now, isTerminal
	now = func() time.Time { return time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC) }
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() {
		now = origNow
		isTerminal = origTerm
	})

	dir := t.TempDir()
	return &env{
		dir:     dir,
		out:     filepath.Join(dir, "out"),
		queries: filepath.Join(dir, "Data", "queries.json"),
		dsn:     filepath.Join(dir, "Data", "facturas.db"),
	}
}

func (e *env) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmdForTest()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))

	full := append([]string{}, args...)
	full = append(full, "--driver", "sqlite", "-d", e.dsn, "-q", e.queries, "-o", e.out)
	root.SetArgs(full)

	err := root.Execute()
	return out.String(), err
}

func (e *env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, "", args...)
	require.NoError(t, err, "facturas %v", args)
	return out
}

func (e *env) samples(t *testing.T) []string {
	t.Helper()
	e.mustRun(t, "sample")
	return []string{
		filepath.Join(e.out, "CTI-REC-20251101120000.xml"),
		filepath.Join(e.out, "CTI-REC-20251101120100.xml"),
	}
}

func TestCodeCmd(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, "CTI-20251101120000\n", e.mustRun(t, "code"))
	assert.Equal(t, "FAC-20251101120000\n", e.mustRun(t, "code", "--prefix", "FAC-"))
}

func TestEmitCmd_FromFlags(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun(t, "emit",
		"--supplier", "Proveedor Canarias S.L.", "--nif", "B12345678",
		"--date", "2025-10-30", "--notes", "Pago a 30 días",
		"--item", "A;Suministro;10;60.00", "--item", "B;Soporte;5;40.00")

	path := filepath.Join(e.out, "CTI-20251101120000.xml")
	assert.Contains(t, out, path)
	assert.Contains(t, out, "968.00")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	inv, err := invoice.Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "CTI-20251101120000", inv.Code)
	assert.Equal(t, "CTI-20251101120000", inv.Header.Number)
	assert.Equal(t, "2025-10-30", invoice.FormatDate(inv.Header.Date))
	require.Len(t, inv.Items, 2)
	assert.True(t, decimal.RequireFromString("800").Equal(inv.Footer.Base))
	assert.True(t, decimal.RequireFromString("168").Equal(inv.Footer.Tax))
	assert.True(t, decimal.RequireFromString("968").Equal(inv.Footer.Total))
}

func TestEmitCmd_Interactive(t *testing.T) {
	e := newEnv(t)

	stdin := strings.Join([]string{
		"Servicios Atlánticos SA", "A87654321", "", "", "", "INV-7", "",
		"X;Horas;3;10.00",
		"",
	}, "\n") + "\n"

	_, err := e.run(t, stdin, "emit", "-i")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(e.out, "CTI-20251101120000.xml"))
	require.NoError(t, err)
	inv, err := invoice.Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "Servicios Atlánticos SA", inv.Header.Supplier)
	assert.Equal(t, "INV-7", inv.Header.Number)
	assert.Equal(t, "2025-11-01", invoice.FormatDate(inv.Header.Date))
	assert.True(t, decimal.RequireFromString("36.30").Equal(inv.Footer.Total))
}

func TestEmitCmd_Queue(t *testing.T) {
	e := newEnv(t)

	e.mustRun(t, "emit", "--supplier", "S", "--item", "A;a;1;100", "--queue")

	out := e.mustRun(t, "log", "list")
	assert.Contains(t, out, "CTI-20251101120000")
	assert.Contains(t, out, "121.00")
}

func TestEmitCmd_BadInput(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "", "emit", "--item", "A;a;many;1")
	require.Error(t, err)

	_, err = e.run(t, "", "emit", "--date", "01/11/2025")
	require.Error(t, err)
}

func TestSampleAndShow(t *testing.T) {
	e := newEnv(t)
	files := e.samples(t)

	for _, f := range files {
		_, err := os.Stat(f)
		require.NoError(t, err)
	}

	out := e.mustRun(t, "show", files[0])
	assert.Contains(t, out, "Proveedor Canarias S.L.")
	assert.Contains(t, out, "847.00")
}

func TestShowCmd_Malformed(t *testing.T) {
	e := newEnv(t)
	bad := filepath.Join(e.dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte("<Invoice/>"), 0o644))

	_, err := e.run(t, "", "show", bad)
	require.ErrorIs(t, err, common.ErrMalformedDocument)
}

func TestInsertAndApply(t *testing.T) {
	e := newEnv(t)
	files := e.samples(t)

	out := e.mustRun(t, append([]string{"insert"}, files...)...)
	assert.Contains(t, out, "queued CTI-REC-20251101120000  total 847.00")

	raw, err := os.ReadFile(e.queries)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sql"`)

	listed := e.mustRun(t, "log", "list", "--raw")
	assert.Contains(t, listed, "INSERT INTO invoices")
	assert.Contains(t, listed, "@total = 847")

	assert.Equal(t, "inserted 2, skipped 0\n", e.mustRun(t, "log", "apply"))
	assert.Equal(t, "inserted 0, skipped 2\n", e.mustRun(t, "log", "apply"))

	rows := e.mustRun(t, "db", "list")
	assert.Contains(t, rows, "CTI-REC-20251101120000")
	assert.Contains(t, rows, "CTI-REC-20251101120100")
}

func TestLogList_CorruptLogIsQuarantined(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(e.queries), 0o770))
	require.NoError(t, os.WriteFile(e.queries, []byte("[{"), 0o644))

	out := e.mustRun(t, "log", "list")
	assert.Contains(t, out, "empty")

	matches, err := filepath.Glob(e.queries + ".corrupt.*.json")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestDBCommands(t *testing.T) {
	e := newEnv(t)
	files := e.samples(t)

	assert.Equal(t, "database is up to date\n", e.mustRun(t, "db", "migrate"))
	assert.Contains(t, e.mustRun(t, "db", "list"), "no invoices")

	out := e.mustRun(t, "db", "import", files[0])
	assert.Regexp(t, regexp.MustCompile(`imported CTI-REC-20251101120000 as \d+`), out)

	_, err := e.run(t, "", "db", "import", files[0])
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	shown := e.mustRun(t, "db", "get", "1")
	assert.Contains(t, shown, "Proveedor Canarias S.L.")

	xmlOut := e.mustRun(t, "db", "get", "1", "--xml")
	original, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, string(original)+"\n", xmlOut)

	assert.Equal(t, "deleted 1\n", e.mustRun(t, "db", "delete", "1"))

	_, err = e.run(t, "", "db", "delete", "1")
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = e.run(t, "", "db", "get", "abc")
	require.Error(t, err)
}

func TestPDFCmd(t *testing.T) {
	e := newEnv(t)
	files := e.samples(t)

	out := e.mustRun(t, "pdf", files[0])
	path := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(e.out, "CTI-REC-20251101120000.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	custom := filepath.Join(e.dir, "custom.pdf")
	e.mustRun(t, "pdf", files[1], "--out", custom)
	_, err = os.Stat(custom)
	require.NoError(t, err)
}

func TestSendCmd_MissingFile(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "", "send", filepath.Join(e.dir, "missing.xml"))
	require.Error(t, err)
}

func TestInvalidDriver(t *testing.T) {
	e := newEnv(t)

	root := NewRootCmdForTest()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"code", "--driver", "oracle", "-q", e.queries})
	require.ErrorIs(t, root.Execute(), common.ErrInvalidConfig)
}
