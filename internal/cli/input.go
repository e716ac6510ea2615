package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var ErrNoAPIKey = errors.New("no API key: set GEMINI_API_KEY, api_key in the config file or --api-key")

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
	stdinFd      = func() int { return int(os.Stdin.Fd()) }
)

// promptAPIKey asks for the key without echo. It fails when stdin is not a
// terminal.
func promptAPIKey(w io.Writer) (string, error) {
	fd := stdinFd()
	if !isTerminal(fd) {
		return "", ErrNoAPIKey
	}

	if _, err := fmt.Fprint(w, "Gemini API key: "); err != nil {
		return "", err
	}
	key, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	defer clear(key)

	k := strings.TrimSpace(string(key))
	if k == "" {
		return "", ErrNoAPIKey
	}
	return k, nil
}
