package interp

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hay-kot/memkv/internal/core/kv"
	"github.com/hay-kot/memkv/pkg/iojson"
)

// maxSeconds bounds TTL arguments so that seconds*time.Second fits a Duration.
const maxSeconds = math.MaxInt64 / int64(time.Second)

type command struct {
	name  string
	usage string
	help  string
	arity []int // accepted argument counts, excluding the command name
	run   func(in *Interpreter, args []string) error
}

func (c command) accepts(n int) bool {
	return slices.Contains(c.arity, n)
}

// builtinCommands returns the command vocabulary in help order.
func builtinCommands() []command {
	return []command{
		{name: "SET", usage: "SET key value [EX seconds]", help: "store a value, optionally expiring", arity: []int{2, 4}, run: (*Interpreter).set},
		{name: "GET", usage: "GET key", help: "fetch a value", arity: []int{1}, run: (*Interpreter).get},
		{name: "DEL", usage: "DEL key", help: "remove a key", arity: []int{1}, run: (*Interpreter).del},
		{name: "INCR", usage: "INCR key", help: "increment an integer", arity: []int{1}, run: (*Interpreter).incr},
		{name: "TTL", usage: "TTL key", help: "remaining seconds, -1 without expiry, -2 if missing", arity: []int{1}, run: (*Interpreter).ttl},
		{name: "EXPIRE", usage: "EXPIRE key seconds", help: "set a key's time to live", arity: []int{2}, run: (*Interpreter).expire},
		{name: "LPUSH", usage: "LPUSH key item", help: "prepend an item to a list", arity: []int{2}, run: (*Interpreter).lpush},
		{name: "LRANGE", usage: "LRANGE key start stop", help: "list items from start to stop inclusive", arity: []int{3}, run: (*Interpreter).lrange},
		{name: "TYPE", usage: "TYPE key", help: "type of the stored value", arity: []int{1}, run: (*Interpreter).typeOf},
		{name: "KEYS", usage: "KEYS pattern", help: "keys matching a glob pattern", arity: []int{1}, run: (*Interpreter).keys},
		{name: "DIS", usage: "DIS", help: "dump the store as JSON", arity: []int{0}, run: (*Interpreter).dis},
		{name: "HELP", usage: "HELP", help: "show this help", arity: []int{0}, run: (*Interpreter).help},
		{name: "EXIT", usage: "EXIT", help: "leave the prompt", arity: []int{0}, run: func(*Interpreter, []string) error { return ErrExit }},
	}
}

func commandTable() map[string]command {
	cmds := builtinCommands()
	table := make(map[string]command, len(cmds))
	for _, c := range cmds {
		table[c.name] = c
	}
	return table
}

// CommandNames returns the recognized command names in help order.
func CommandNames() []string {
	cmds := builtinCommands()
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.name
	}
	return names
}

// set handles SET key value [EX seconds]. The EX keyword matches in any case.
func (in *Interpreter) set(args []string) error {
	key, raw := args[0], args[1]

	var ttl time.Duration
	if len(args) == 4 {
		if !strings.EqualFold(args[2], "EX") {
			return fmt.Errorf("%w: incorrect syntax; SET key value EX seconds", ErrSyntax)
		}
		secs, err := parseSeconds(args[3])
		if err != nil {
			return err
		}
		if secs <= 1 {
			return fmt.Errorf("%w: expiry seconds should be greater than 1", ErrSyntax)
		}
		ttl = time.Duration(secs) * time.Second
	}

	replaced, err := in.store.Insert(key, kv.Parse(raw), ttl)
	if err != nil {
		return err
	}

	if replaced {
		in.println("UPDATED")
	} else {
		in.println("INSERTED")
	}
	return nil
}

func (in *Interpreter) get(args []string) error {
	v, ok := in.store.Fetch(args[0])
	if !ok {
		in.println("Nil")
		return nil
	}
	in.println(v.Format())
	return nil
}

func (in *Interpreter) del(args []string) error {
	if !in.store.Delete(args[0]) {
		return kv.ErrNotFound
	}
	in.println("REMOVED")
	return nil
}

func (in *Interpreter) incr(args []string) error {
	key := args[0]

	// Checked here so the diagnostic can name the offending type.
	if kind := in.store.TypeOf(key); kind != kv.KindInteger && kind != kv.KindNil {
		return fmt.Errorf("%w: %s not supported for INCR", kv.ErrWrongType, kind)
	}

	n, err := in.store.Increment(key)
	if err != nil {
		return err
	}
	in.println(n)
	return nil
}

func (in *Interpreter) ttl(args []string) error {
	in.println(in.store.TTL(args[0]))
	return nil
}

func (in *Interpreter) expire(args []string) error {
	secs, err := parseSeconds(args[1])
	if err != nil {
		return err
	}
	if secs <= 0 {
		return fmt.Errorf("%w: expire seconds should be greater than 0", ErrSyntax)
	}

	code, err := in.store.SetTTL(args[0], time.Duration(secs)*time.Second)
	if err != nil {
		return err
	}
	in.println(code)
	return nil
}

func (in *Interpreter) lpush(args []string) error {
	key := args[0]

	if kind := in.store.TypeOf(key); kind != kv.KindList && kind != kv.KindNil {
		return fmt.Errorf("%w: %s not supported for LPUSH", kv.ErrWrongType, kind)
	}

	n, err := in.store.ListPush(key, args[1])
	if err != nil {
		return err
	}
	in.println(n)
	return nil
}

func (in *Interpreter) lrange(args []string) error {
	start, err := parseIndex("start", args[1])
	if err != nil {
		return err
	}
	stop, err := parseIndex("stop", args[2])
	if err != nil {
		return err
	}

	items, err := in.store.ListRange(args[0], start, stop)
	switch {
	case errors.Is(err, kv.ErrWrongType):
		return fmt.Errorf("%w: %s value not subscriptable", kv.ErrWrongType, in.store.TypeOf(args[0]))
	case errors.Is(err, kv.ErrOutOfRange):
		return fmt.Errorf("%w: %d..%d", kv.ErrOutOfRange, start, stop)
	case err != nil:
		return err
	}

	in.println(kv.FormatList(items))
	return nil
}

func (in *Interpreter) typeOf(args []string) error {
	in.println(in.store.TypeOf(args[0]))
	return nil
}

func (in *Interpreter) keys(args []string) error {
	keys, err := in.store.Keys(args[0])
	if err != nil {
		return err
	}
	in.println(kv.FormatList(keys))
	return nil
}

func (in *Interpreter) dis(_ []string) error {
	return iojson.WriteWith(in.out, in.errOut, in.store.Snapshot())
}

func (in *Interpreter) help(_ []string) error {
	tw := tabwriter.NewWriter(in.out, 0, 0, 2, ' ', 0)
	for _, c := range builtinCommands() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", c.usage, c.help)
	}
	return tw.Flush()
}

func parseSeconds(s string) (int64, error) {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parsing seconds %q: not an integer", ErrSyntax, s)
	}
	if secs > maxSeconds {
		return 0, fmt.Errorf("%w: seconds %d too large", ErrSyntax, secs)
	}
	return secs, nil
}

func parseIndex(name, s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, strconv.IntSize-1)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q must be a non-negative integer", ErrSyntax, name, s)
	}
	return int(n), nil
}
