package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/localmart-users/internal/client/client"
	"github.com/dmitrijs2005/localmart-users/internal/client/config"
	"github.com/dmitrijs2005/localmart-users/internal/server/models"
)

const usage = `Usage: users-cli [-a url] [-f token-file] [-i seconds] [-c config.json] <command>

Commands:
  signup       create an account
  login        log in
  logout       forget the cached token
  me           show your profile
  update       change your name and/or email
  get <id>     show an account by id
  help         show this message`

// ErrUsage is returned for an unknown command or missing arguments.
var ErrUsage = errors.New("invalid usage")

type App struct {
	config *config.Config
	api    client.Client
	tokens *TokenStore
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    client.NewHTTPClient(c.ServerURL, c.RequestTimeout),
		tokens: NewTokenStore(c.TokenFile),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Run executes the command named by the first positional argument in args.
func (a *App) Run(ctx context.Context, args []string) error {
	pos := Positional(args, config.Flags)
	if len(pos) == 0 {
		fmt.Fprintln(a.out, usage)
		return ErrUsage
	}

	cmd, rest := pos[0], pos[1:]
	switch cmd {
	case "help":
		fmt.Fprintln(a.out, usage)
		return nil
	case "signup", "register":
		return a.Signup(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout()
	case "me":
		return a.Me(ctx)
	case "update":
		return a.Update(ctx)
	case "get":
		if len(rest) != 1 {
			fmt.Fprintln(a.out, "Usage: get <id>")
			return ErrUsage
		}
		return a.Get(ctx, rest[0])
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
		return ErrUsage
	}
}

// Positional returns the arguments that are neither flags nor flag values.
// valued lists the flags that consume the next argument.
func Positional(args []string, valued []string) []string {
	takesValue := make(map[string]struct{}, len(valued))
	for _, f := range valued {
		takesValue[f] = struct{}{}
	}

	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			out = append(out, arg)
			continue
		}
		if strings.Contains(arg, "=") {
			continue
		}
		if _, ok := takesValue[arg]; ok && i+1 < len(args) {
			i++
		}
	}
	return out
}

func (a *App) printAccount(v *models.AccountView) {
	role := "user"
	if v.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.out, "id:      %d\nname:    %s\nemail:   %s\nrole:    %s\ncreated: %s\nupdated: %s\n",
		v.ID, v.Name, v.Email, role,
		v.CreatedAt.Format("2006-01-02 15:04:05"), v.UpdatedAt.Format("2006-01-02 15:04:05"))
}
