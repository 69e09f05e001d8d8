package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/jgirmay/attendance/cmd/attendance-cli/output"
	"github.com/jgirmay/attendance/pkg/client"
	"github.com/jgirmay/attendance/pkg/models"
)

func RegisterCommand(args []string) error {
	fs, g := newFlagSet("register")
	name := fs.String("name", "", "Full name")
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password (at least 6 characters)")
	employeeID := fs.String("employee-id", "", "Employee ID")
	department := fs.String("department", "", "Department")
	role := fs.String("role", "", "Role (employee, manager)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g.apply()

	return withSession(g, func(c *client.Client, sess *client.Session) error {
		user, err := c.Register(context.Background(), sess, models.RegisterRequest{
			Name:       *name,
			Email:      *email,
			Password:   *password,
			EmployeeID: *employeeID,
			Department: *department,
			Role:       models.Role(*role),
		})
		if err != nil {
			return err
		}
		return printUser(g, user, "Registered")
	})
}

func LoginCommand(args []string) error {
	fs, g := newFlagSet("login")
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g.apply()
	if *email == "" || *password == "" {
		return errors.New("--email and --password are required")
	}

	return withSession(g, func(c *client.Client, sess *client.Session) error {
		user, err := c.Login(context.Background(), sess, *email, *password)
		if err != nil {
			return err
		}
		return printUser(g, user, "Signed in")
	})
}

func LogoutCommand(args []string) error {
	fs, g := newFlagSet("logout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g.apply()

	return withSession(g, func(c *client.Client, sess *client.Session) error {
		c.Logout(sess)
		output.PrintSuccess("Signed out")
		return nil
	})
}

func WhoAmICommand(args []string) error {
	fs, g := newFlagSet("whoami")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g.apply()

	return withSession(g, func(c *client.Client, sess *client.Session) error {
		if err := requireSignedIn(sess); err != nil {
			return err
		}
		user, err := c.Me(context.Background(), sess)
		if err != nil {
			return err
		}
		return printUser(g, user, "")
	})
}

func printUser(g *globalFlags, user *models.User, banner string) error {
	if g.json() {
		return output.PrintJSON(user)
	}
	if banner != "" {
		output.PrintSuccess(fmt.Sprintf("%s as %s", banner, user.Email))
	}
	output.PrintKeyValue("Name", user.Name)
	output.PrintKeyValue("Employee ID", user.EmployeeID)
	output.PrintKeyValue("Department", user.Department)
	output.PrintKeyValue("Role", string(user.Role))
	return nil
}
