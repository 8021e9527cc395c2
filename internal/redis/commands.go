package redis

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Avik32223/dlinkedlist/pkg/lists"
)

var (
	errorInvalidCommand = fmt.Errorf("ERR invalid command")
	errorNotInteger     = fmt.Errorf("ERR value is not an integer or out of range")
	errorKeyType        = fmt.Errorf("ERR key must be a string")
)

type Command func(*State, ...any) (any, error)

var commandMap = map[string]Command{
	"command": command,
	"ping":    ping,
	"echo":    echo,
	"exists":  exists,
	"del":     del,
	"lpush":   lpush,
	"rpush":   rpush,
	"llen":    llen,
	"lindex":  lindex,
	"lfirst":  lfirst,
	"llast":   llast,
	"lpos":    lpos,
	"lrem":    lrem,
	"lrange":  lrange,
	"ldump":   ldump,
}

func wrongArgs(name string) error {
	return fmt.Errorf("ERR wrong number of arguments for '%s' command", name)
}

func invalidCommand(s *State, ca ...any) (any, error) {
	return nil, errorInvalidCommand
}

func keyOf(a any) (string, error) {
	k, ok := a.(string)
	if !ok {
		return "", errorKeyType
	}
	return k, nil
}

func intOf(a any) (int, error) {
	s, ok := a.(string)
	if !ok {
		return 0, errorNotInteger
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errorNotInteger
	}
	return i, nil
}

func ping(s *State, ca ...any) (any, error) {
	if len(ca) == 1 {
		return ca[0], nil
	}
	return "PONG", nil
}

func echo(s *State, ca ...any) (any, error) {
	if len(ca) != 1 {
		return nil, wrongArgs("echo")
	}
	return ca[0], nil
}

func command(s *State, ca ...any) (any, error) {
	return []any{}, nil
}

func exists(s *State, ca ...any) (any, error) {
	if len(ca) < 1 {
		return nil, wrongArgs("exists")
	}
	c := 0
	for _, a := range ca {
		key, err := keyOf(a)
		if err != nil {
			return nil, err
		}
		found, _ := s.view(key, func(l *lists.List[string]) (any, error) {
			return l != nil, nil
		})
		if found.(bool) {
			c++
		}
	}
	return c, nil
}

func del(s *State, ca ...any) (any, error) {
	if len(ca) < 1 {
		return nil, wrongArgs("del")
	}
	c := 0
	for _, a := range ca {
		key, err := keyOf(a)
		if err != nil {
			return nil, err
		}
		s.update(key, func(l **lists.List[string]) (any, error) {
			if lists.Terminate(l) == nil {
				c++
			}
			return nil, nil
		})
	}
	return c, nil
}

func push(name string, front bool) Command {
	return func(s *State, ca ...any) (any, error) {
		if len(ca) < 2 {
			return nil, wrongArgs(name)
		}
		key, err := keyOf(ca[0])
		if err != nil {
			return nil, err
		}
		return s.update(key, func(l **lists.List[string]) (any, error) {
			if *l == nil {
				*l = lists.New[string]()
			}
			for _, a := range ca[1:] {
				// every pushed value gets its own reference
				v := fmt.Sprint(a)
				if front {
					err = (*l).Prepend(&v)
				} else {
					err = (*l).Append(&v)
				}
				if err != nil {
					return nil, err
				}
			}
			return (*l).Len(), nil
		})
	}
}

var (
	lpush = push("lpush", true)
	rpush = push("rpush", false)
)

func llen(s *State, ca ...any) (any, error) {
	if len(ca) != 1 {
		return nil, wrongArgs("llen")
	}
	key, err := keyOf(ca[0])
	if err != nil {
		return nil, err
	}
	return s.view(key, func(l *lists.List[string]) (any, error) {
		if l == nil {
			return 0, nil
		}
		return l.Len(), nil
	})
}

// element converts a lookup result into a reply. Out of bounds is a nil
// reply, not an error.
func element(v *string, err error) (any, error) {
	if errors.Is(err, lists.ErrOutOfBounds) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return *v, nil
}

func lindex(s *State, ca ...any) (any, error) {
	if len(ca) != 2 {
		return nil, wrongArgs("lindex")
	}
	key, err := keyOf(ca[0])
	if err != nil {
		return nil, err
	}
	k, err := intOf(ca[1])
	if err != nil {
		return nil, err
	}
	return s.view(key, func(l *lists.List[string]) (any, error) {
		if l == nil {
			return nil, nil
		}
		if k < 0 {
			k += l.Len()
		}
		return element(l.At(k))
	})
}

func edge(name string, first bool) Command {
	return func(s *State, ca ...any) (any, error) {
		if len(ca) != 1 {
			return nil, wrongArgs(name)
		}
		key, err := keyOf(ca[0])
		if err != nil {
			return nil, err
		}
		return s.view(key, func(l *lists.List[string]) (any, error) {
			if l == nil {
				return nil, nil
			}
			if first {
				return element(l.First())
			}
			return element(l.Last())
		})
	}
}

var (
	lfirst = edge("lfirst", true)
	llast  = edge("llast", false)
)

func equalTo(a any) func(*string) bool {
	want := fmt.Sprint(a)
	return func(v *string) bool { return *v == want }
}

func lpos(s *State, ca ...any) (any, error) {
	if len(ca) != 2 {
		return nil, wrongArgs("lpos")
	}
	key, err := keyOf(ca[0])
	if err != nil {
		return nil, err
	}
	return s.view(key, func(l *lists.List[string]) (any, error) {
		ref, _ := l.Find(equalTo(ca[1]))
		if ref == nil {
			return nil, nil
		}
		return l.IndexOf(ref), nil
	})
}

// lrem removes the first element equal to the given value. The value is
// resolved to the stored reference first, since the list removes by identity.
func lrem(s *State, ca ...any) (any, error) {
	if len(ca) != 2 {
		return nil, wrongArgs("lrem")
	}
	key, err := keyOf(ca[0])
	if err != nil {
		return nil, err
	}
	return s.update(key, func(l **lists.List[string]) (any, error) {
		ref, _ := (*l).Find(equalTo(ca[1]))
		if ref == nil {
			return 0, nil
		}
		if err := (*l).Remove(ref); err != nil {
			if errors.Is(err, lists.ErrNotFound) {
				return 0, nil
			}
			return nil, err
		}
		return 1, nil
	})
}

func lrange(s *State, ca ...any) (any, error) {
	if len(ca) != 3 {
		return nil, wrongArgs("lrange")
	}
	key, err := keyOf(ca[0])
	if err != nil {
		return nil, err
	}
	start, err := intOf(ca[1])
	if err != nil {
		return nil, err
	}
	stop, err := intOf(ca[2])
	if err != nil {
		return nil, err
	}
	return s.view(key, func(l *lists.List[string]) (any, error) {
		res := make([]any, 0)
		n := l.Len()
		if n <= 0 {
			return res, nil
		}
		if start < 0 {
			start = max(start+n, 0)
		}
		if stop < 0 {
			stop += n
		}
		stop = min(stop, n-1)
		if start > stop {
			return res, nil
		}
		for _, v := range l.ToSlice()[start : stop+1] {
			res = append(res, *v)
		}
		return res, nil
	})
}

func ldump(s *State, ca ...any) (any, error) {
	if len(ca) != 1 {
		return nil, wrongArgs("ldump")
	}
	key, err := keyOf(ca[0])
	if err != nil {
		return nil, err
	}
	return s.view(key, func(l *lists.List[string]) (any, error) {
		if l == nil {
			return nil, nil
		}
		b := new(strings.Builder)
		if err := l.Dump(b); err != nil {
			return nil, err
		}
		return b.String(), nil
	})
}

func newCommand(arr []any) Command {
	if len(arr) < 1 {
		return invalidCommand
	}

	switch cmdName := arr[0].(type) {
	case string:
		cmdName = strings.ToLower(cmdName)
		cmd, ok := commandMap[cmdName]
		if !ok {
			return invalidCommand
		}
		return cmd
	}

	return invalidCommand
}

func RunCommand(s *State, b []byte) (any, error) {
	sa := string(b)
	arr := make([]any, 0)
	if c := eatArray(b, 0); c != 0 {
		var err error
		if arr, err = parseArray(sa); err != nil {
			return nil, err
		}
	} else {
		for _, s := range strings.Fields(sa) {
			arr = append(arr, s)
		}
	}
	if len(arr) < 1 {
		return nil, errorInvalidCommand
	}
	cmd := newCommand(arr)
	return cmd(s, arr[1:]...)
}
