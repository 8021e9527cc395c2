package redis

import (
	"bytes"
	"fmt"
	"strconv"
)

var crlf = []byte("\r\n")

// Frame limits, matching the proto-max-bulk-len and multibulk defaults.
const (
	maxBulkLen  = 512 * 1024 * 1024
	maxArrayLen = 1024 * 1024
)

// readHeader parses "<prefix><n>\r\n" at the start of data and returns n
// and the header size. ok is false for anything incomplete or malformed.
func readHeader(data []byte, prefix byte) (n int, size int, ok bool) {
	if len(data) < 1 || data[0] != prefix {
		return 0, 0, false
	}
	end := bytes.Index(data, crlf)
	if end < 2 {
		return 0, 0, false
	}
	n, err := strconv.Atoi(string(data[1:end]))
	if err != nil || n < 0 {
		return 0, 0, false
	}
	return n, end + len(crlf), true
}

// eatBulkString returns the size of the bulk string starting at data[c:],
// or 0 if there is no complete one.
func eatBulkString(data []byte, c int) (bytesAte int) {
	t := data[c:]
	n, size, ok := readHeader(t, '$')
	if !ok || n > len(t)-size-len(crlf) {
		return
	}
	end := size + n
	if !bytes.Equal(t[end:end+len(crlf)], crlf) {
		return
	}
	bytesAte = end + len(crlf)
	return
}

// eatArray returns the offset just past the array of bulk strings starting
// at data[c:], or 0 if there is no complete one.
func eatArray(data []byte, c int) (bytesAte int) {
	t := data[c:]
	n, ct, ok := readHeader(t, '*')
	if !ok {
		return
	}
	for i := 0; i < n; i++ {
		cc := eatBulkString(t, ct)
		if cc == 0 {
			return
		}
		ct += cc
	}
	bytesAte = c + ct
	return
}

func parseBulkString(data []byte) (string, error) {
	n, size, ok := readHeader(data, '$')
	if !ok || n > len(data)-size {
		return "", fmt.Errorf("invalid bulk string: %q", data)
	}
	return string(data[size : size+n]), nil
}

func parseArray(s string) ([]any, error) {
	data := []byte(s)
	n, c, ok := readHeader(data, '*')
	if !ok {
		return nil, fmt.Errorf("invalid array header: %q", s)
	}

	res := make([]any, 0, n)
	for i := 0; i < n; i++ {
		cc := eatBulkString(data, c)
		if cc == 0 {
			return nil, fmt.Errorf("unknown element type in array: %q", data[c:])
		}
		v, err := parseBulkString(data[c : c+cc])
		if err != nil {
			return nil, err
		}
		res = append(res, v)
		c += cc
	}

	return res, nil
}

func lineEnd(data []byte) int {
	i := bytes.Index(data, crlf)
	if i < 0 {
		return 0
	}
	return i + len(crlf)
}

// badFrame reports how many leading bytes of an array frame can never
// become a valid command: everything up to the first complete line whose
// header does not parse, or the first bulk string with a bad terminator or
// oversized length. It returns 0 while the frame is valid so far.
func badFrame(data []byte) int {
	n, c, ok := readHeader(data, '*')
	if !ok || n > maxArrayLen {
		return lineEnd(data)
	}
	for i := 0; i < n && c < len(data); i++ {
		t := data[c:]
		m, size, ok := readHeader(t, '$')
		if !ok {
			if e := lineEnd(t); e > 0 {
				return c + e
			}
			return 0
		}
		if m > maxBulkLen {
			return c + size
		}
		if m > len(t)-size-len(crlf) {
			return 0
		}
		if cc := eatBulkString(data, c); cc > 0 {
			c += cc
			continue
		}
		if e := lineEnd(t[size+m:]); e > 0 {
			return c + size + m + e
		}
		return c + size + m + len(crlf)
	}
	return 0
}
