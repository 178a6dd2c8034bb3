// botpanel is an admin console for a messaging-bot backend. All business
// logic lives behind the backend's REST API; this binary only holds the
// session, renders views, and forwards commands.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"botpanel/internal/api"
	"botpanel/internal/config"
	"botpanel/internal/mockapi"
	"botpanel/internal/models"
	"botpanel/internal/panel"
	"botpanel/internal/session"
	"botpanel/internal/version"
)

func main() {
	// Optional .env in the working directory; absence is normal.
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger := newLogger(cfg.LogLevel)

	store := session.NewStore(session.NewFileStorage(cfg.SessionFile), logger)
	client := api.New(cfg.APIURL, store, logger)
	client.SetHTTPClient(&http.Client{Timeout: cfg.Timeout})
	console := panel.New(client, store, os.Stdout, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, console, logger, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

func run(ctx context.Context, cfg config.Config, console *panel.Panel, logger zerolog.Logger, args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return cmdLogin(ctx, console, rest)
	case "logout":
		return console.Logout()
	case "whoami":
		return console.Whoami()
	case "register":
		return cmdRegister(ctx, console, rest)
	case "dashboard":
		return cmdDashboard(ctx, console, rest)
	case "plugins":
		return cmdPlugins(ctx, console, rest)
	case "users":
		return cmdUsers(ctx, console, rest)
	case "logs":
		return cmdLogs(ctx, console, rest)
	case "settings":
		return cmdSettings(ctx, console, rest)
	case "stats":
		return cmdStats(ctx, console, rest)
	case "mock-server":
		return cmdMockServer(ctx, cfg, logger, rest)
	case "version":
		fmt.Println("botpanel", version.String())
		return nil
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Print(`usage: botpanel <command> [flags]

commands:
  login      sign in to the backend (-u username)
  logout     discard the stored session
  whoami     show the stored profile and token expiry
  register   create an account (-u username -e email)
  dashboard  stats, activity and system overview (-watch, -interval)
  plugins    list | install <url> | enable <id> | disable <id> |
             settings <id> <json> | remove <id>
  users      list [-q term] | create | activate <id> | deactivate <id> |
             promote <id> | demote <id>
  logs       view backend logs (-page, -page-size, -level, -all)
  settings   list | set <key> <value>
  stats      message volume chart (-range day|week|month|year)
  mock-server  run an in-memory backend for local development (-addr)
  version    print the build version
`)
}

// promptPassword reads a password without echo when stdin is a terminal,
// and falls back to a plain line read otherwise (pipes, tests).
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", err
	}
	return line, nil
}

func cmdLogin(ctx context.Context, console *panel.Panel, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		fmt.Fprint(os.Stderr, "username: ")
		if _, err := fmt.Fscanln(os.Stdin, username); err != nil {
			return err
		}
	}
	password, err := promptPassword("password: ")
	if err != nil {
		return err
	}
	return console.Login(ctx, *username, password)
}

func cmdRegister(ctx context.Context, console *panel.Panel, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	email := fs.String("e", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" {
		return fmt.Errorf("register requires -u and -e")
	}
	password, err := promptPassword("password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("confirm password: ")
	if err != nil {
		return err
	}
	return console.Register(ctx, models.Registration{
		Username:        *username,
		Email:           *email,
		Password:        password,
		ConfirmPassword: confirm,
	})
}

func cmdDashboard(ctx context.Context, console *panel.Panel, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	watch := fs.Bool("watch", false, "refresh continuously")
	interval := fs.Duration("interval", 10*time.Second, "refresh interval in watch mode")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return console.Dashboard(ctx, *watch, *interval)
}

func cmdPlugins(ctx context.Context, console *panel.Panel, args []string) error {
	if len(args) == 0 {
		return console.PluginsList(ctx)
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return console.PluginsList(ctx)
	case "install":
		if len(rest) != 1 {
			return fmt.Errorf("usage: plugins install <url>")
		}
		return console.PluginInstall(ctx, rest[0])
	case "enable", "disable":
		if len(rest) != 1 {
			return fmt.Errorf("usage: plugins %s <id>", sub)
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		return console.PluginSetEnabled(ctx, id, sub == "enable")
	case "settings":
		if len(rest) != 2 {
			return fmt.Errorf("usage: plugins settings <id> <json>")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		return console.PluginSaveSettings(ctx, id, rest[1])
	case "remove":
		if len(rest) != 1 {
			return fmt.Errorf("usage: plugins remove <id>")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		return console.PluginRemove(ctx, id)
	default:
		return fmt.Errorf("unknown plugins subcommand %q", sub)
	}
}

func cmdUsers(ctx context.Context, console *panel.Panel, args []string) error {
	if len(args) == 0 {
		return console.UsersList(ctx, "")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		fs := flag.NewFlagSet("users list", flag.ContinueOnError)
		search := fs.String("q", "", "filter by username, name or email")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return console.UsersList(ctx, *search)
	case "create":
		fs := flag.NewFlagSet("users create", flag.ContinueOnError)
		username := fs.String("u", "", "username")
		email := fs.String("e", "", "email address")
		fullName := fs.String("n", "", "full name")
		admin := fs.Bool("admin", false, "grant admin rights")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *username == "" || *email == "" {
			return fmt.Errorf("users create requires -u and -e")
		}
		password, err := promptPassword("password: ")
		if err != nil {
			return err
		}
		return console.UserCreate(ctx, models.NewUser{
			Username: *username,
			Email:    *email,
			FullName: *fullName,
			Password: password,
			IsAdmin:  *admin,
		})
	case "activate", "deactivate":
		if len(rest) != 1 {
			return fmt.Errorf("usage: users %s <id>", sub)
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		return console.UserSetActive(ctx, id, sub == "activate")
	case "promote", "demote":
		if len(rest) != 1 {
			return fmt.Errorf("usage: users %s <id>", sub)
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		return console.UserSetAdmin(ctx, id, sub == "promote")
	default:
		return fmt.Errorf("unknown users subcommand %q", sub)
	}
}

func cmdLogs(ctx context.Context, console *panel.Panel, args []string) error {
	fs := flag.NewFlagSet("logs", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	pageSize := fs.Int("page-size", 50, "entries per page")
	level := fs.String("level", "", "filter by level (INFO, WARNING, ERROR, DEBUG)")
	all := fs.Bool("all", false, "fetch every page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return console.Logs(ctx, panel.LogsOptions{
		Page:     *page,
		PageSize: *pageSize,
		Level:    strings.ToUpper(*level),
		All:      *all,
	})
}

func cmdSettings(ctx context.Context, console *panel.Panel, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		return console.SettingsList(ctx)
	}
	if args[0] == "set" {
		if len(args) != 3 {
			return fmt.Errorf("usage: settings set <key> <value>")
		}
		return console.SettingSet(ctx, args[1], args[2])
	}
	return fmt.Errorf("unknown settings subcommand %q", args[0])
}

func cmdStats(ctx context.Context, console *panel.Panel, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	rng := fs.String("range", "day", "day, week, month or year")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return console.Stats(ctx, *rng)
}

func cmdMockServer(ctx context.Context, cfg config.Config, logger zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("mock-server", flag.ContinueOnError)
	addr := fs.String("addr", cfg.MockAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	srv, err := mockapi.New(mockapi.Options{
		AdminUser:     cfg.MockUser,
		AdminPassword: cfg.MockPassword,
		JWTSecret:     cfg.MockSecret,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	logger.Info().Str("user", cfg.MockUser).Msg("mock backend admin account seeded")
	return srv.Run(ctx, *addr)
}

func parseID(raw string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(raw, "%d", &id); err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
