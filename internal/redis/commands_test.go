package redis

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func newState(t *testing.T, n int, seed []byte) *State {
	t.Helper()
	s, err := NewState(n, seed)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func run(t *testing.T, s *State, line string) any {
	t.Helper()
	res, err := RunCommand(s, []byte(line))
	if err != nil {
		t.Fatalf("%s: %v", line, err)
	}
	return res
}

func TestRunCommand(t *testing.T) {
	type step struct {
		cmd  string
		want any
	}
	tests := []struct {
		name  string
		steps []step
	}{
		{"ping", []step{
			{"PING", "PONG"},
			{"ping hello", "hello"},
			{"ECHO hi", "hi"},
		}},
		{"push-and-read", []step{
			{"RPUSH k A", 1},
			{"RPUSH k B", 2},
			{"LPUSH k C", 3},
			{"LRANGE k 0 -1", []any{"C", "A", "B"}},
			{"LLEN k", 3},
			{"LFIRST k", "C"},
			{"LLAST k", "B"},
			{"LINDEX k 0", "C"},
			{"LINDEX k -1", "B"},
			{"LINDEX k 3", nil},
			{"LINDEX k -4", nil},
		}},
		{"remove", []step{
			{"RPUSH k A B A", 3},
			{"LREM k A", 1},
			{"LRANGE k 0 -1", []any{"B", "A"}},
			{"LREM k Z", 0},
			{"LPOS k A", 1},
			{"LPOS k Z", nil},
			{"LREM k B", 1},
			{"LREM k A", 1},
			{"EXISTS k", 0},
			{"LLEN k", 0},
		}},
		{"lpush-order", []step{
			{"LPUSH k 1 2 3", 3},
			{"LRANGE k 0 -1", []any{"3", "2", "1"}},
		}},
		{"lrange-window", []step{
			{"RPUSH k a b c d e", 5},
			{"LRANGE k 1 2", []any{"b", "c"}},
			{"LRANGE k -2 -1", []any{"d", "e"}},
			{"LRANGE k -100 100", []any{"a", "b", "c", "d", "e"}},
			{"LRANGE k 3 1", []any{}},
			{"LRANGE k 9 10", []any{}},
			{"LRANGE missing 0 -1", []any{}},
		}},
		{"missing-key", []step{
			{"LLEN nope", 0},
			{"LFIRST nope", nil},
			{"LLAST nope", nil},
			{"LINDEX nope 0", nil},
			{"LPOS nope a", nil},
			{"LREM nope a", 0},
			{"LDUMP nope", nil},
			{"EXISTS nope", 0},
			{"DEL nope", 0},
		}},
		{"del", []step{
			{"RPUSH a x", 1},
			{"RPUSH b y", 1},
			{"EXISTS a b c", 2},
			{"DEL a b c", 2},
			{"EXISTS a b", 0},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newState(t, 4, nil)
			for _, st := range tt.steps {
				if got := run(t, s, st.cmd); !reflect.DeepEqual(got, st.want) {
					t.Fatalf("%s = %#v, want %#v", st.cmd, got, st.want)
				}
			}
		})
	}
}

func TestRunCommandErrors(t *testing.T) {
	tests := []struct {
		cmd  string
		want string
	}{
		{"", "ERR invalid command"},
		{"FOO", "ERR invalid command"},
		{"LPUSH k", "ERR wrong number of arguments for 'lpush' command"},
		{"RPUSH", "ERR wrong number of arguments for 'rpush' command"},
		{"LINDEX k x", "ERR value is not an integer or out of range"},
		{"LRANGE k 0", "ERR wrong number of arguments for 'lrange' command"},
		{"LRANGE k a 1", "ERR value is not an integer or out of range"},
		{"ECHO", "ERR wrong number of arguments for 'echo' command"},
		{"DEL", "ERR wrong number of arguments for 'del' command"},
		{"LDUMP", "ERR wrong number of arguments for 'ldump' command"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			_, err := RunCommand(newState(t, 1, nil), []byte(tt.cmd))
			if err == nil || err.Error() != tt.want {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestRunCommandArray(t *testing.T) {
	s := newState(t, 1, nil)
	got := run(t, s, "*3\r\n$5\r\nRPUSH\r\n$1\r\nk\r\n$8\r\nhi there\r\n")
	if got != 1 {
		t.Fatalf("RPUSH = %#v", got)
	}
	if got := run(t, s, "LFIRST k"); got != "hi there" {
		t.Fatalf("LFIRST = %#v", got)
	}
}

func TestLDump(t *testing.T) {
	s := newState(t, 1, nil)
	run(t, s, "RPUSH k a b")
	got, ok := run(t, s, "LDUMP k").(string)
	if !ok {
		t.Fatalf("LDUMP did not return a string")
	}
	if !strings.HasPrefix(got, "[0x") || !strings.HasSuffix(got, "]\n") || strings.Count(got, ",") != 1 {
		t.Fatalf("LDUMP = %q", got)
	}
}

func TestStateSharding(t *testing.T) {
	seed := []byte("0123456789abcdef")
	s := newState(t, 8, seed)
	for i := 0; i < 64; i++ {
		run(t, s, fmt.Sprintf("RPUSH key%d v", i))
	}
	if got := s.Keys(); got != 64 {
		t.Fatalf("Keys() = %d", got)
	}
	used := 0
	for _, sh := range s.shards {
		if len(sh.data) > 0 {
			used++
		}
	}
	if used < 2 {
		t.Fatalf("keys landed in %d shard(s)", used)
	}
	// same seed, same placement
	other := newState(t, 8, seed)
	for i := 0; i < 64; i++ {
		key := fmt.Sprintf("key%d", i)
		if indexOf(s, s.shardFor(key)) != indexOf(other, other.shardFor(key)) {
			t.Fatalf("%s placed differently", key)
		}
	}
}

func indexOf(s *State, sh *shard) int {
	for i, x := range s.shards {
		if x == sh {
			return i
		}
	}
	return -1
}

func TestStateConcurrent(t *testing.T) {
	s := newState(t, 4, nil)
	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				RunCommand(s, []byte(fmt.Sprintf("RPUSH k%d %d", i%4, g)))
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}
	total := 0
	for i := 0; i < 4; i++ {
		total += run(t, s, fmt.Sprintf("LLEN k%d", i)).(int)
	}
	if total != 800 {
		t.Fatalf("total length = %d, want 800", total)
	}
}

func TestNewStateSeedError(t *testing.T) {
	defer func(orig func([]byte) (int, error)) { randRead = orig }(randRead)
	randRead = func([]byte) (int, error) { return 0, errors.New("no entropy") }

	if _, err := NewState(4, nil); err == nil {
		t.Fatal("expected error when the random seed cannot be read")
	}
	if _, err := NewState(4, []byte("0123456789abcdef")); err != nil {
		t.Fatalf("explicit seed: %v", err)
	}
}

func TestRunCommandHostileHeader(t *testing.T) {
	tests := []string{
		"*1\r\n$9223372036854775807\r\nx\r\n",
		"*1\r\n$9223372036854775800\r\nx\r\n",
		"*2\r\n$4\r\nLLEN\r\n$9223372036854775807\r\n",
		"*abc\r\n",
	}
	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			if _, err := RunCommand(newState(t, 1, nil), []byte(tt)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
