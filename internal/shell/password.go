package shell

import (
	"os"

	"golang.org/x/term"
)

// PasswordReader reads a secret without echoing it.
type PasswordReader interface {
	ReadPassword() (string, error)
}

type termPasswordReader struct {
	fd int
}

// TerminalPasswords returns a reader for f when f is a terminal. When it
// is not (pipes, tests) ok is false and the shell reads the password as an
// ordinary input line.
func TerminalPasswords(f *os.File) (r PasswordReader, ok bool) {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return nil, false
	}
	return termPasswordReader{fd: int(f.Fd())}, true
}

func (t termPasswordReader) ReadPassword() (string, error) {
	b, err := term.ReadPassword(t.fd)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
