// Package prompt implements the interactive stdin prompts of the CLI.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompt reads operator answers line by line.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a prompt over the given reader and writer.
func New(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// Choice prints a numbered menu and returns the selected index.
// Invalid input re-asks until a valid number or EOF arrives.
func (p *Prompt) Choice(title string, options []string) (int, error) {
	fmt.Fprintln(p.out, title)
	for i, opt := range options {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, opt)
	}

	for {
		fmt.Fprintf(p.out, "> ")
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 1 || n > len(options) {
			fmt.Fprintf(p.out, "enter a number from 1 to %d\n", len(options))
			continue
		}
		return n - 1, nil
	}
}

// Text asks a free-form question and returns the trimmed answer.
func (p *Prompt) Text(title string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", title)
	return p.readLine()
}

// Confirm asks a yes/no question. Invalid input re-asks.
func (p *Prompt) Confirm(title string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s [y/n]: ", title)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes", "da", "да":
			return true, nil
		case "n", "no", "net", "нет":
			return false, nil
		}
		fmt.Fprintln(p.out, "answer y or n")
	}
}

func (p *Prompt) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
