package cli

import (
	"errors"
	"io"
	"strings"
)

// readLine reads one byte at a time so nothing past the newline is consumed
// and a second prompt on the same stream still sees its input.
func readLine(input io.Reader) ([]byte, error) {
	var line []byte
	buffer := make([]byte, 1)
	for {
		n, err := input.Read(buffer)
		if n > 0 {
			if buffer[0] == '\n' {
				break
			}
			line = append(line, buffer[0])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return []byte(strings.TrimRight(string(line), "\r")), nil
}
