package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter reads trimmed lines from an input stream.
type Prompter struct {
	reader *bufio.Reader
}

// NewPrompter creates a prompter over r.
func NewPrompter(r io.Reader) *Prompter {
	return &Prompter{reader: bufio.NewReader(r)}
}

// Prompt writes message and returns the next input line. It returns io.EOF
// only once the input is exhausted.
func (p *Prompter) Prompt(message string) (string, error) {
	fmt.Fprint(out, message)
	input, err := p.reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
