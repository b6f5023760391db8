// Package admin implements the operator commands of cmd/admin.
package admin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/flagx"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
)

type UserCreator interface {
	CreateUser(ctx context.Context, email, password string, superuser bool) (*models.User, error)
}

type CreateUserOptions struct {
	Email     string
	Superuser bool
}

var createUserFlags = []string{"-email", "-superuser"}

// ParseCreateUser reads -email and -superuser from args. Other flags are left
// for the config loader.
func ParseCreateUser(args []string) (CreateUserOptions, error) {
	var opts CreateUserOptions

	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.Email, "email", "", "email of the new user")
	fs.BoolVar(&opts.Superuser, "superuser", false, "grant superuser")

	if err := fs.Parse(flagx.FilterArgs(args, createUserFlags)); err != nil {
		return opts, err
	}
	if opts.Email == "" {
		return opts, errors.New("-email is required")
	}
	return opts, nil
}

// CreateUser prompts for the password and creates an active user.
func CreateUser(ctx context.Context, users UserCreator, opts CreateUserOptions, w io.Writer) error {
	pw, err := GetNewPassword(w)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	user, err := users.CreateUser(ctx, opts.Email, string(pw), opts.Superuser)
	if err != nil {
		var verr *common.ValidationError
		switch {
		case errors.As(err, &verr):
			return errors.New(verr.Message)
		case errors.Is(err, common.ErrorAlreadyExists):
			return fmt.Errorf("user %s already exists", opts.Email)
		}
		return err
	}

	kind := "user"
	if user.IsSuperuser {
		kind = "superuser"
	}
	_, err = fmt.Fprintf(w, "Created %s %s (%s)\n", kind, user.Email, user.ID)
	return err
}
