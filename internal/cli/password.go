package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordEmpty    = errors.New("password cannot be empty")
)

// isTerminal reports whether stdin is attached to a terminal rather than
// a pipe or redirected file; term.ReadPassword only works on the former.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readLine reads a single line from r and strips its trailing newline,
// tolerating both LF and CRLF endings. It reads one byte at a time so
// nothing past the newline is consumed, leaving the next line for the
// next call.
func readLine(r io.Reader) (string, error) {
	var line []byte
	b := make([]byte, 1)
	for {
		n, err := r.Read(b)
		if n == 1 {
			if b[0] == '\n' {
				break
			}
			line = append(line, b[0])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
	}
	for len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return string(line), nil
}

// readPasswordSecure prompts on stderr and reads one password from
// stdin. On a real terminal it disables echo; otherwise it reads a
// plain line, which is what happens under test harnesses and piped
// input alike.
func readPasswordSecure(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	if !isTerminal() {
		return readLine(os.Stdin)
	}

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}

// ReadPasswordInteractive reads a repository password from the
// controlling terminal, prompting a second time for confirmation when
// confirm is set (new repositories) but not when opening an existing
// one.
func ReadPasswordInteractive(confirm bool) (string, error) {
	first, err := readPasswordSecure("Password: ")
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", ErrPasswordEmpty
	}
	if !confirm {
		return first, nil
	}

	second, err := readPasswordSecure("Confirm password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", ErrPasswordMismatch
	}
	return first, nil
}

// ReadPasswordFromStdin reads a single password line from stdin without
// any prompt, for scripted invocations that pipe the password in (the
// --password-stdin flag).
func ReadPasswordFromStdin() (string, error) {
	return readLine(os.Stdin)
}
