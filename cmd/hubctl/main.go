package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/mcc-event-hub/web-gateway/internal/clients"
	"github.com/mcc-event-hub/web-gateway/internal/events"
	"github.com/mcc-event-hub/web-gateway/internal/forms"
	"github.com/mcc-event-hub/web-gateway/internal/models"
	"github.com/mcc-event-hub/web-gateway/internal/session"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "hubctl",
		Usage: "Manage MCC Event Hub events and admins from the command line.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Base URL of the hub API",
				EnvVars: []string{"HUB_API_URL"},
				Value:   "http://localhost:8000",
			},
			&cli.StringFlag{
				Name:    "session-file",
				Usage:   "Path of the stored session credentials",
				EnvVars: []string{"HUBCTL_SESSION_FILE"},
				Value:   ".hub-session.json",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log request diagnostics",
			},
		},
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			statusCommand(),
			eventsCommand(),
			adminsCommand(),
			agendaCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newEnv(c *cli.Context) (*clients.HubClient, *session.FileStore) {
	logger := zap.NewNop()
	if c.Bool("verbose") {
		logger, _ = zap.NewDevelopment()
	}
	return clients.NewHubClient(c.String("api-url"), logger), session.NewFileStore(c.String("session-file"))
}

// token loads the stored credential; commands that need auth fail fast when
// no session is stored instead of sending "Bearer null" to the hub.
func token(ctx context.Context, store *session.FileStore) (string, error) {
	if !session.IsAuthenticated(ctx, store, "") {
		return "", fmt.Errorf("not logged in; run `hubctl login` first")
	}
	return store.Token(ctx, "")
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:      "login",
		Usage:     "Log in with an allowlisted admin email.",
		ArgsUsage: "<email>",
		Action: func(c *cli.Context) error {
			email := c.Args().First()
			if email == "" {
				return fmt.Errorf("usage: hubctl login <email>")
			}

			client, store := newEnv(c)
			resp, err := client.Login(c.Context, email)
			if err != nil {
				if err == clients.ErrUnauthorized {
					return fmt.Errorf("email not authorized; contact an administrator")
				}
				return err
			}

			if err := store.Set(c.Context, "", resp.Token, email); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			fmt.Printf("Logged in as %s\n", email)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Clear the stored session.",
		Action: func(c *cli.Context) error {
			client, store := newEnv(c)
			if tok, _ := store.Token(c.Context, ""); tok != "" {
				// Best-effort remote invalidation; the local session is
				// cleared either way.
				_ = client.Logout(c.Context, tok)
			}
			if err := store.Clear(c.Context, ""); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Check whether the stored session is still valid.",
		Action: func(c *cli.Context) error {
			client, store := newEnv(c)
			tok, err := token(c.Context, store)
			if err != nil {
				return err
			}

			email, err := client.VerifySession(c.Context, tok)
			if err != nil {
				if err == clients.ErrUnauthorized {
					_ = store.Clear(c.Context, "")
					return fmt.Errorf("session expired; run `hubctl login` again")
				}
				return err
			}
			fmt.Printf("Logged in as %s\n", email)
			return nil
		},
	}
}

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "List, create, and delete calendar events.",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List events, optionally by type or organization.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Usage: "event or office_hours"},
					&cli.StringFlag{Name: "org", Usage: "organization filter", Value: "All"},
				},
				Action: func(c *cli.Context) error {
					client, _ := newEnv(c)
					evts, err := client.ListEvents(c.Context, models.EventType(c.String("type")))
					if err != nil {
						return err
					}
					evts = events.FilterByOrganization(evts, c.String("org"))

					w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tORG\tTITLE\tSTART\tEND")
					for _, ev := range evts {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
							ev.ID, ev.Organization, ev.Title,
							ev.StartTime.Local().Format("2006-01-02 15:04"),
							ev.EndTime.Local().Format("2006-01-02 15:04"))
					}
					return w.Flush()
				},
			},
			{
				Name:  "create",
				Usage: "Create an event. Times are local wall clock (2006-01-02T15:04).",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "org", Required: true},
					&cli.StringFlag{Name: "type", Value: string(models.TypeEvent)},
					&cli.StringFlag{Name: "start", Required: true},
					&cli.StringFlag{Name: "end", Required: true},
					&cli.StringFlag{Name: "description"},
				},
				Action: func(c *cli.Context) error {
					client, _ := newEnv(c)

					f := forms.NewCreateForm(time.Local)
					f.Title = c.String("title")
					f.Organization = c.String("org")
					f.Type = models.EventType(c.String("type"))
					f.StartTime = c.String("start")
					f.EndTime = c.String("end")
					f.Description = c.String("description")

					if err := f.Submit(c.Context, client, ""); err != nil {
						return err
					}
					fmt.Println("Event created")
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete an event by ID.",
				ArgsUsage: "<event-id>",
				Action: func(c *cli.Context) error {
					id := c.Args().First()
					if id == "" {
						return fmt.Errorf("usage: hubctl events delete <event-id>")
					}

					client, store := newEnv(c)
					tok, err := token(c.Context, store)
					if err != nil {
						return err
					}
					if err := client.DeleteEvent(c.Context, tok, id); err != nil {
						if err == clients.ErrUnauthorized {
							_ = store.Clear(c.Context, "")
							return fmt.Errorf("session expired; run `hubctl login` again")
						}
						return err
					}
					fmt.Println("Event deleted")
					return nil
				},
			},
			{
				Name:  "orgs",
				Usage: "List the known organizations.",
				Action: func(c *cli.Context) error {
					client, _ := newEnv(c)
					evts, err := client.ListEvents(c.Context, "")
					if err != nil {
						return err
					}
					for _, org := range events.OrganizationList(evts) {
						fmt.Println(org)
					}
					return nil
				},
			},
		},
	}
}

func adminsCommand() *cli.Command {
	return &cli.Command{
		Name:  "admins",
		Usage: "Manage the admin allowlist.",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List admins.",
				Action: func(c *cli.Context) error {
					client, store := newEnv(c)
					tok, err := token(c.Context, store)
					if err != nil {
						return err
					}
					admins, err := client.ListAdmins(c.Context, tok)
					if err != nil {
						if err == clients.ErrUnauthorized {
							_ = store.Clear(c.Context, "")
							return fmt.Errorf("session expired; run `hubctl login` again")
						}
						return err
					}

					w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "EMAIL\tSINCE")
					for _, a := range admins {
						fmt.Fprintf(w, "%s\t%s\n", a.Email, a.CreatedAt.Local().Format("2006-01-02"))
					}
					return w.Flush()
				},
			},
			{
				Name:      "add",
				Usage:     "Add an admin by email.",
				ArgsUsage: "<email>",
				Action: func(c *cli.Context) error {
					email := c.Args().First()
					if email == "" {
						return fmt.Errorf("usage: hubctl admins add <email>")
					}

					client, store := newEnv(c)
					tok, err := token(c.Context, store)
					if err != nil {
						return err
					}
					if err := client.AddAdmin(c.Context, tok, email); err != nil {
						return err
					}
					fmt.Printf("Admin %s added\n", email)
					return nil
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove an admin by email.",
				ArgsUsage: "<email>",
				Action: func(c *cli.Context) error {
					email := c.Args().First()
					if email == "" {
						return fmt.Errorf("usage: hubctl admins remove <email>")
					}

					client, store := newEnv(c)
					if own, _ := store.Email(c.Context, ""); own == email {
						return fmt.Errorf("you cannot remove yourself as an admin")
					}
					tok, err := token(c.Context, store)
					if err != nil {
						return err
					}
					if err := client.RemoveAdmin(c.Context, tok, email); err != nil {
						return err
					}
					fmt.Printf("Admin %s removed\n", email)
					return nil
				},
			},
		},
	}
}

func agendaCommand() *cli.Command {
	return &cli.Command{
		Name:      "agenda",
		Usage:     "Organize meeting topics into an agenda.",
		ArgsUsage: "<topics...>",
		Action: func(c *cli.Context) error {
			message := ""
			for i, arg := range c.Args().Slice() {
				if i > 0 {
					message += " "
				}
				message += arg
			}
			if message == "" {
				return fmt.Errorf("usage: hubctl agenda <topics...>")
			}

			client, _ := newEnv(c)
			reply, err := client.OptimizeAgenda(c.Context, message, nil)
			if err != nil {
				return err
			}
			fmt.Println(reply)
			return nil
		},
	}
}
