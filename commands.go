package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/user/ems-go/client"
)

// clientFlags are shared by the commands that talk to a running server.
func clientFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api",
			Usage:   "base URL of the ems API",
			Value:   "http://localhost:5000",
			EnvVars: []string{"EMS_API_URL"},
		},
		&cli.StringFlag{
			Name:    "session",
			Usage:   "session file (default: <user config dir>/ems/session.json)",
			EnvVars: []string{"EMS_SESSION_FILE"},
		},
	}
}

func sessionStore(c *cli.Context) (*client.SessionStore, error) {
	path := c.String("session")
	if path == "" {
		var err error
		if path, err = client.DefaultSessionPath(); err != nil {
			return nil, err
		}
	}
	return client.NewSessionStore(path), nil
}

// guarded loads the session, applies guard and returns a client carrying the token.
// A redirect is reported the way the web front end would route the user.
func guarded(c *cli.Context, guard client.Guard) (*client.Client, error) {
	store, err := sessionStore(c)
	if err != nil {
		return nil, err
	}
	sess := store.Load()
	switch guard(sess) {
	case client.LoginRoute:
		return nil, cli.Exit("not logged in; run `ems login` first", 1)
	case client.UnauthorizedRoute:
		return nil, cli.Exit("unauthorized: this command requires an admin account", 1)
	}
	return client.New(c.String("api"), client.WithToken(sess.Token)), nil
}

// apiFailure turns a client error into the message the user should see.
func apiFailure(err error) error {
	return cli.Exit(client.ErrorMessage(err), 1)
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "log in and remember the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"EMS_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			store, err := sessionStore(c)
			if err != nil {
				return err
			}
			resp, err := client.New(c.String("api")).Login(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				return apiFailure(err)
			}
			if err := store.Save(&client.Session{Token: resp.Token, User: resp.User}); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "logged in as %s (%s)\n", resp.User.Email, resp.User.Role)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the saved session",
		Action: func(c *cli.Context) error {
			store, err := sessionStore(c)
			if err != nil {
				return err
			}
			return store.Clear()
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the user of the saved session, as the server sees it",
		Action: func(c *cli.Context) error {
			api, err := guarded(c, client.RequireAuth())
			if err != nil {
				return err
			}
			u, err := api.Verify(c.Context)
			if err != nil {
				return apiFailure(err)
			}
			fmt.Fprintf(c.App.Writer, "%s <%s> role=%s id=%s\n", u.Name, u.Email, u.Role, u.ID)
			return nil
		},
	}
}

func dashboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "show the admin overview counters",
		Action: func(c *cli.Context) error {
			api, err := guarded(c, client.AdminOnly)
			if err != nil {
				return err
			}
			s, err := api.DashboardSummary(c.Context)
			if err != nil {
				return apiFailure(err)
			}
			fmt.Fprintf(c.App.Writer, "Total departments: %d\nTotal employees:   %d\n", s.TotalDepartments, s.TotalEmployees)
			return nil
		},
	}
}

func departmentsCommand() *cli.Command {
	return &cli.Command{
		Name:    "departments",
		Aliases: []string{"dep"},
		Usage:   "manage departments",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list departments",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "filter by name"},
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.IntFlag{Name: "per-page", Value: client.DefaultPageSize},
				},
				Action: func(c *cli.Context) error {
					api, err := guarded(c, client.RequireAuth())
					if err != nil {
						return err
					}
					view := client.NewDepartmentList(api)
					view.PageSize = c.Int("per-page")
					if err := view.Load(c.Context); err != nil {
						return cli.Exit(view.Error, 1)
					}
					view.Search(c.String("search"))
					printDepartmentPage(c.App.Writer, view, c.Int("page"))
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "show one department",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					api, err := guarded(c, client.RequireAuth())
					if err != nil {
						return err
					}
					d, err := api.GetDepartment(c.Context, id)
					if err != nil {
						return apiFailure(err)
					}
					fmt.Fprintf(c.App.Writer, "ID:          %s\nName:        %s\nDescription: %s\nCreated:     %s\nUpdated:     %s\n",
						d.ID, d.Name, d.Description, d.CreatedAt.Format("2006-01-02 15:04"), d.UpdatedAt.Format("2006-01-02 15:04"))
					return nil
				},
			},
			{
				Name:  "add",
				Usage: "add a department",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "description"},
				},
				Action: func(c *cli.Context) error {
					api, err := guarded(c, client.AdminOnly)
					if err != nil {
						return err
					}
					form := client.NewAddDepartmentForm(api)
					form.Name = c.String("name")
					form.Description = c.String("description")
					return submitForm(c, form)
				},
			},
			{
				Name:      "edit",
				Usage:     "edit a department",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "description"},
				},
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					api, err := guarded(c, client.AdminOnly)
					if err != nil {
						return err
					}
					form, err := client.LoadEditDepartmentForm(c.Context, api, id)
					if err != nil {
						return apiFailure(err)
					}
					if c.IsSet("name") {
						form.Name = c.String("name")
					}
					if c.IsSet("description") {
						form.Description = c.String("description")
					}
					return submitForm(c, form)
				},
			},
			{
				Name:      "delete",
				Usage:     "delete a department",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					api, err := guarded(c, client.AdminOnly)
					if err != nil {
						return err
					}
					d, err := api.DeleteDepartment(c.Context, id)
					if err != nil {
						return apiFailure(err)
					}
					fmt.Fprintf(c.App.Writer, "deleted %s (%s)\n", d.Name, d.ID)
					return nil
				},
			},
		},
	}
}

func requireID(c *cli.Context) (string, error) {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return "", cli.Exit("missing department id", 1)
	}
	return id, nil
}

func submitForm(c *cli.Context, form *client.DepartmentForm) error {
	next, err := form.Submit(c.Context)
	if err != nil {
		return cli.Exit(form.Error, 1)
	}
	fmt.Fprintf(c.App.Writer, "saved %q; see `ems departments list` (%s)\n", form.Name, next)
	return nil
}

func printDepartmentPage(w io.Writer, view *client.DepartmentList, page int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "S No\tDepartment\tID")
	for _, row := range view.Page(page) {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", row.Serial, row.Name, row.ID)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "page %d of %d", page, view.PageCount())
	if q := view.Query(); q != "" {
		fmt.Fprintf(w, " (search %q)", q)
	}
	fmt.Fprintln(w)
}
