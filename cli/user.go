package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alecthomas/kong"

	actx "go.hackfix.me/curator/app/context"
	aerrors "go.hackfix.me/curator/app/errors"
	"go.hackfix.me/curator/db/models"
	"go.hackfix.me/curator/db/types"
)

// The User command manages the accounts of Curator administrators.
type User struct {
	Add struct {
		Name     string `arg:"" help:"The unique name of the user."`
		Password string `help:"The user password. A random one is generated if empty."`
	} `kong:"cmd,help='Add a new administrator.'"`
	Passwd struct {
		Name     string `arg:"" help:"The unique name of the user."`
		Password string `help:"The new password. A random one is generated if empty."`
	} `kong:"cmd,help='Change the password of an administrator.'"`
	Rm struct {
		Name string `arg:"" help:"The unique name of the user."`
	} `kong:"cmd,help='Remove an administrator.'"`
	Ls struct{} `kong:"cmd,name='list',aliases='ls',help='List administrators.'"`
}

// Run the user command.
func (c *User) Run(kctx *kong.Context, appCtx *actx.Context) error {
	dbCtx := appCtx.DB.NewContext()

	switch commandPath(kctx) {
	case "user add":
		password, err := passwordOrRandom(c.Add.Password)
		if err != nil {
			return err
		}
		user := &models.User{Username: c.Add.Name}
		if err = user.SetPassword(password); err != nil {
			return err
		}
		if err = user.Save(dbCtx, appCtx.DB, false); err != nil {
			return aerrors.NewRuntimeError(
				fmt.Sprintf("failed adding user '%s'", c.Add.Name), err, "")
		}
		if c.Add.Password == "" {
			fmt.Fprintf(appCtx.Stdout, "User '%s' created with password: %s\n", c.Add.Name, password)
		}
	case "user passwd":
		user := &models.User{Username: c.Passwd.Name}
		if err := user.Load(dbCtx, appCtx.DB); err != nil {
			return aerrors.NewRuntimeError(
				fmt.Sprintf("failed loading user '%s'", c.Passwd.Name), err, "")
		}
		password, err := passwordOrRandom(c.Passwd.Password)
		if err != nil {
			return err
		}
		if err = user.SetPassword(password); err != nil {
			return err
		}
		if err = user.Save(dbCtx, appCtx.DB, true); err != nil {
			return aerrors.NewRuntimeError(
				fmt.Sprintf("failed updating user '%s'", c.Passwd.Name), err, "")
		}
		if c.Passwd.Password == "" {
			fmt.Fprintf(appCtx.Stdout, "New password of user '%s': %s\n", c.Passwd.Name, password)
		}
	case "user rm":
		return removeUser(appCtx, c.Rm.Name)
	case "user list":
		users, err := models.Users(dbCtx, appCtx.DB, nil)
		if err != nil {
			return aerrors.NewRuntimeError("failed listing users", err, "")
		}

		data := make([][]string, len(users))
		for i, user := range users {
			lastLogin := "never"
			if user.LastLogin.Valid {
				lastLogin = user.LastLogin.V.UTC().Format(time.DateTime)
			}
			data[i] = []string{user.Username, lastLogin}
		}

		if len(data) > 0 {
			header := []string{"Name", "Last Login"}
			if err = renderTable(header, data, appCtx.Stdout); err != nil {
				return fmt.Errorf("failed rendering users table: %w", err)
			}
		}
	}

	return nil
}

func removeUser(appCtx *actx.Context, name string) error {
	dbCtx := appCtx.DB.NewContext()

	return appCtx.DB.Tx(dbCtx, func(s types.Schema) error {
		users, err := models.Users(dbCtx, s, nil)
		if err != nil {
			return aerrors.NewRuntimeError("failed listing users", err, "")
		}
		if len(users) == 1 && users[0].Username == name {
			return aerrors.NewRuntimeError(
				fmt.Sprintf("failed removing user '%s'", name),
				errors.New("it's the last administrator account"),
				"add another administrator first")
		}

		user := &models.User{Username: name}
		if err = user.Delete(dbCtx, s); err != nil {
			return aerrors.NewRuntimeError(fmt.Sprintf("failed removing user '%s'", name), err, "")
		}

		return nil
	})
}

func passwordOrRandom(password string) (string, error) {
	if password != "" {
		return password, nil
	}

	return newPassword()
}
