package admin

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var errPasswordMismatch = errors.New("passwords do not match")

// GetPassword prints prompt to w and reads a password from the terminal
// without echo. The caller should wipe the returned slice.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetNewPassword asks for a password twice and returns it only if both
// entries match. The confirmation copy is always wiped.
func GetNewPassword(w io.Writer) ([]byte, error) {
	pw, err := GetPassword(w, "Enter password: ")
	if err != nil {
		return nil, err
	}

	confirm, err := GetPassword(w, "Repeat password: ")
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		common.WipeByteArray(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}
