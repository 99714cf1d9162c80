package interp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hay-kot/memkv/internal/core/kv"
	"github.com/hay-kot/memkv/internal/data/stores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	in     *Interpreter
	store  *stores.KVStore
	clock  *fakeClock
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := stores.NewKVStore(stores.WithClock(clock))

	h := &harness{
		store:  store,
		clock:  clock,
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	h.in = New(store, h.stdout, h.stderr, opts...)
	return h
}

// exec runs line and returns its stdout output without the trailing newline.
func (h *harness) exec(t *testing.T, line string) (string, error) {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	err := h.in.Execute(context.Background(), line)
	return strings.TrimSuffix(h.stdout.String(), "\n"), err
}

func (h *harness) mustExec(t *testing.T, line string) string {
	t.Helper()
	out, err := h.exec(t, line)
	require.NoError(t, err, "line %q: stderr %q", line, h.stderr.String())
	return out
}

func TestScenario_SetGetInteger(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "INSERTED", h.mustExec(t, "SET x 10"))
	assert.Equal(t, "Integer(10)", h.mustExec(t, "GET x"))
}

func TestScenario_SetWithExpiry(t *testing.T) {
	h := newHarness(t)

	h.mustExec(t, "SET x 10 EX 5")
	assert.Equal(t, "5", h.mustExec(t, "TTL x"))

	h.clock.Advance(6 * time.Second)
	assert.Equal(t, "Nil", h.mustExec(t, "GET x"))
	assert.Equal(t, "-2", h.mustExec(t, "TTL x"))
}

func TestScenario_IncrAutoSeed(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "1", h.mustExec(t, "INCR y"))
	assert.Equal(t, "Integer(1)", h.mustExec(t, "GET y"))
	assert.Equal(t, "2", h.mustExec(t, "INCR y"))
	assert.Equal(t, "Integer(2)", h.mustExec(t, "GET y"))
}

func TestScenario_IncrOnString(t *testing.T) {
	h := newHarness(t)

	h.mustExec(t, "SET s hello")

	_, err := h.exec(t, "INCR s")
	require.ErrorIs(t, err, kv.ErrWrongType)
	assert.Contains(t, h.stderr.String(), "String not supported for INCR")

	assert.Equal(t, `String("hello")`, h.mustExec(t, "GET s"))
}

func TestScenario_ListPushRange(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "1", h.mustExec(t, "LPUSH l a"))
	assert.Equal(t, "2", h.mustExec(t, "LPUSH l b"))
	assert.Equal(t, `["b", "a"]`, h.mustExec(t, "LRANGE l 0 1"))
	assert.Equal(t, `List(["b", "a"])`, h.mustExec(t, "GET l"))
}

func TestScenario_ExpireMissing(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "-2", h.mustExec(t, "EXPIRE missing 10"))
	assert.Equal(t, "-2", h.mustExec(t, "TTL missing"))
}

func TestExpire(t *testing.T) {
	h := newHarness(t)

	h.mustExec(t, "SET k v")
	assert.Equal(t, "-1", h.mustExec(t, "TTL k"))
	assert.Equal(t, "0", h.mustExec(t, "EXPIRE k 10"))
	assert.Equal(t, "-1", h.mustExec(t, "EXPIRE k 20"))
	assert.Equal(t, "20", h.mustExec(t, "TTL k"))

	h.clock.Advance(5 * time.Second)
	assert.Equal(t, "15", h.mustExec(t, "TTL k"))
}

func TestSet_ReplacesAndClearsExpiry(t *testing.T) {
	h := newHarness(t)

	h.mustExec(t, "SET k one EX 10")
	assert.Equal(t, "UPDATED", h.mustExec(t, "SET k two"))
	assert.Equal(t, "-1", h.mustExec(t, "TTL k"))
	assert.Equal(t, `String("two")`, h.mustExec(t, "GET k"))
}

func TestDel(t *testing.T) {
	h := newHarness(t)

	h.mustExec(t, "SET k v")
	assert.Equal(t, "REMOVED", h.mustExec(t, "DEL k"))

	_, err := h.exec(t, "DEL k")
	require.ErrorIs(t, err, kv.ErrNotFound)
	assert.Contains(t, h.stderr.String(), "key not found")

	_, err = h.exec(t, "DEL k")
	require.ErrorIs(t, err, kv.ErrNotFound)
}

func TestType(t *testing.T) {
	h := newHarness(t)

	h.mustExec(t, "SET s hello")
	h.mustExec(t, "SET i 3")
	h.mustExec(t, "LPUSH l a")

	assert.Equal(t, "String", h.mustExec(t, "TYPE s"))
	assert.Equal(t, "Integer", h.mustExec(t, "TYPE i"))
	assert.Equal(t, "List", h.mustExec(t, "TYPE l"))
	assert.Equal(t, "Nil", h.mustExec(t, "TYPE nope"))
}

func TestLRange_Errors(t *testing.T) {
	h := newHarness(t)
	h.mustExec(t, "LPUSH l a")
	h.mustExec(t, "SET i 1")

	tests := []struct {
		name    string
		line    string
		wantErr error
		wantMsg string
	}{
		{name: "stop past end", line: "LRANGE l 0 1", wantErr: kv.ErrOutOfRange, wantMsg: "index out of range"},
		{name: "integer value", line: "LRANGE i 0 0", wantErr: kv.ErrWrongType, wantMsg: "Integer value not subscriptable"},
		{name: "missing key", line: "LRANGE nope 0 0", wantErr: kv.ErrNotFound, wantMsg: "key not found"},
		{name: "negative start", line: "LRANGE l -1 0", wantErr: ErrSyntax, wantMsg: "non-negative"},
		{name: "non-numeric stop", line: "LRANGE l 0 x", wantErr: ErrSyntax, wantMsg: "non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.exec(t, tt.line)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, h.stderr.String(), tt.wantMsg)
		})
	}
}

func TestLPush_OnString(t *testing.T) {
	h := newHarness(t)
	h.mustExec(t, "SET s hello")

	_, err := h.exec(t, "LPUSH s a")
	require.ErrorIs(t, err, kv.ErrWrongType)
	assert.Equal(t, `String("hello")`, h.mustExec(t, "GET s"))
}

func TestSyntaxErrors_LeaveStoreUnchanged(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "SET too few", line: "SET x"},
		{name: "SET four args", line: "SET x 1 EX"},
		{name: "SET bad keyword", line: "SET x 1 PX 10"},
		{name: "SET non-numeric seconds", line: "SET x 1 EX soon"},
		{name: "SET one second", line: "SET x 1 EX 1"},
		{name: "SET zero seconds", line: "SET x 1 EX 0"},
		{name: "SET huge seconds", line: "SET x 1 EX 9223372036854775807"},
		{name: "GET extra", line: "GET x y"},
		{name: "EXPIRE zero", line: "EXPIRE x 0"},
		{name: "EXPIRE negative", line: "EXPIRE x -5"},
		{name: "EXPIRE missing seconds", line: "EXPIRE x"},
		{name: "LRANGE arity", line: "LRANGE x 0"},
		{name: "DIS with args", line: "DIS now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.mustExec(t, "SET x keep")

			_, err := h.exec(t, tt.line)
			require.ErrorIs(t, err, ErrSyntax)
			assert.True(t, strings.HasPrefix(h.stderr.String(), "ERROR: "))
			assert.Empty(t, h.stdout.String())

			assert.Equal(t, `String("keep")`, h.mustExec(t, "GET x"))
			assert.Equal(t, "-1", h.mustExec(t, "TTL x"))
		})
	}
}

func TestSet_ExKeywordCaseInsensitive(t *testing.T) {
	h := newHarness(t)

	h.mustExec(t, "set k v ex 3")
	assert.Equal(t, "3", h.mustExec(t, "ttl k"))
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)

	_, err := h.exec(t, "FLUSHALL")
	require.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, h.stderr.String(), "valid operations SET, GET")
	assert.Equal(t, 1, h.in.Failures())
}

func TestBlankLine(t *testing.T) {
	h := newHarness(t)

	out, err := h.exec(t, "   ")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, h.stderr.String())
}

func TestExit(t *testing.T) {
	h := newHarness(t)

	_, err := h.exec(t, "EXIT")
	require.ErrorIs(t, err, ErrExit)
	assert.Empty(t, h.stderr.String())
	assert.Equal(t, 0, h.in.Failures())
}

func TestKeys(t *testing.T) {
	h := newHarness(t)
	h.mustExec(t, "SET user:1 a")
	h.mustExec(t, "SET user:2 b")
	h.mustExec(t, "SET other c")

	assert.Equal(t, `["user:1", "user:2"]`, h.mustExec(t, "KEYS user:*"))
	assert.Equal(t, `[]`, h.mustExec(t, "KEYS none*"))

	_, err := h.exec(t, "KEYS [")
	require.ErrorIs(t, err, kv.ErrBadPattern)
}

func TestDis(t *testing.T) {
	h := newHarness(t)
	h.mustExec(t, "SET n 1")
	h.mustExec(t, "SET s hi EX 10")
	h.mustExec(t, "LPUSH l a")

	out := h.mustExec(t, "DIS")

	var dump []struct {
		Key   string `json:"key"`
		Value struct {
			Type    string   `json:"type"`
			String  string   `json:"string"`
			Integer int64    `json:"integer"`
			List    []string `json:"list"`
		} `json:"value"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &dump))
	require.Len(t, dump, 3)

	assert.Equal(t, "l", dump[0].Key)
	assert.Equal(t, "List", dump[0].Value.Type)
	assert.Equal(t, []string{"a"}, dump[0].Value.List)

	assert.Equal(t, "n", dump[1].Key)
	assert.Equal(t, int64(1), dump[1].Value.Integer)
	assert.Nil(t, dump[1].ExpiresAt)

	assert.Equal(t, "s", dump[2].Key)
	assert.Equal(t, "hi", dump[2].Value.String)
	require.NotNil(t, dump[2].ExpiresAt)
}

func TestDis_Empty(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "[]", h.mustExec(t, "DIS"))
}

func TestHelp(t *testing.T) {
	h := newHarness(t)

	out := h.mustExec(t, "HELP")
	for _, c := range builtinCommands() {
		assert.Contains(t, out, c.usage)
	}
}

func TestColorDiagnostics(t *testing.T) {
	h := newHarness(t, WithColor(true))

	_, err := h.exec(t, "GET")
	require.Error(t, err)
	assert.Contains(t, h.stderr.String(), "\x1b[")
	assert.Contains(t, h.stderr.String(), "ERROR:")
}
