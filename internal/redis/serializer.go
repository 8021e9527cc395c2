package redis

import (
	"fmt"
	"strings"
	"unicode"
)

func SerializeSimpleString(m string) (string, error) {
	return fmt.Sprintf("+%s\r\n", m), nil
}

func SerializeSimpleError(err error) (string, error) {
	return fmt.Sprintf("-%s\r\n", err), nil
}

func SerializeInt(m int64) (string, error) {
	return fmt.Sprintf(":%d\r\n", m), nil
}

func SerializeBulkString(m string) (string, error) {
	return fmt.Sprintf("$%d\r\n%s\r\n", len(m), m), nil
}

func SerializeNull() (string, error) {
	return "$-1\r\n", nil
}

func SerializeArray(m []any) (string, error) {
	s := new(strings.Builder)
	s.WriteString(fmt.Sprintf("*%d\r\n", len(m)))
	for _, i := range m {
		result, err := Serialize(i)
		if err != nil {
			return "", err
		}
		s.WriteString(result)
	}
	return s.String(), nil
}

func SerializeBulkError(m error) (string, error) {
	return fmt.Sprintf("!%d\r\n%s\r\n", len(m.Error()), m), nil
}

func hasControl(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return unicode.IsControl(r) || r == '\n' || r == '\r'
	})
}

func SerializeError(m error) (string, error) {
	if hasControl(m.Error()) {
		return SerializeBulkError(m)
	}
	return SerializeSimpleError(m)
}

// SerializeString uses a simple string when possible and falls back to a
// bulk string for payloads containing control characters.
func SerializeString(m string) (string, error) {
	if hasControl(m) {
		return SerializeBulkString(m)
	}
	return SerializeSimpleString(m)
}

func Serialize(m any) (string, error) {
	switch mt := m.(type) {
	case nil:
		return SerializeNull()
	case int:
		return SerializeInt(int64(mt))
	case int64:
		return SerializeInt(mt)
	case string:
		return SerializeString(mt)
	case []any:
		return SerializeArray(mt)
	case error:
		return SerializeError(mt)
	}
	return "", fmt.Errorf("failed to Serialize %#v", m)
}
