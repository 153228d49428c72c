package main

import (
	"context"

	"github.com/Hussainrokeriya/champweb-backend/core/user"
)

// addUser creates a user.User account.
func (cli *commandLine) addUser(ctx context.Context, name, email, pwd string) error {
	nu := user.NewUser{
		Name:            name,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	_, err := cli.usrSvc.Create(ctx, nu)
	return err
}

// resetPassword sets a new password on an existing account.
func (cli *commandLine) resetPassword(ctx context.Context, email, pwd string) error {
	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	_, err = cli.usrSvc.SetPassword(ctx, usr, pwd)
	return err
}
