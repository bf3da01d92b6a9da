package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ananyak/chatterm/internal/api"
	"github.com/ananyak/chatterm/internal/auth"
	"github.com/ananyak/chatterm/internal/session"
)

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	backendFlag := flag.String("backend", "", "backend base URL (overrides config)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	sessionName := session.Resolve(*sessionFlag)
	if err := session.ValidateName(sessionName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := session.EnsureDir(sessionName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	store := auth.NewStore(session.TokenPath(sessionName))
	client := api.New(session.ResolveBackendURL(*backendFlag), store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cli := &ctl{client: client, store: store, json: *jsonFlag, session: sessionName}

	var err error
	switch args[0] {
	case "login":
		err = cli.login(ctx, args[1:])
	case "signup":
		err = cli.signup(ctx, args[1:])
	case "signout":
		err = cli.signout(ctx)
	case "list":
		err = cli.list(ctx)
	case "show":
		err = cli.show(ctx, args[1:])
	case "create":
		err = cli.create(ctx, args[1:])
	case "send":
		err = cli.send(ctx, args[1:])
	case "rename":
		err = cli.rename(ctx, args[1:])
	case "delete":
		err = cli.delete(ctx, args[1:])
	case "status":
		err = cli.status()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", errText(err))
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: chatctl [--session <name>] [--backend <url>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  login <email> <password>     Log in and store the access token")
	fmt.Fprintln(os.Stderr, "  signup <email> <password>    Register a new account")
	fmt.Fprintln(os.Stderr, "  signout                      Sign out and discard the token")
	fmt.Fprintln(os.Stderr, "  list                         List chats")
	fmt.Fprintln(os.Stderr, "  show <chat-id>               Show a chat transcript")
	fmt.Fprintln(os.Stderr, "  create <title> <message>     Create a chat with its first message")
	fmt.Fprintln(os.Stderr, "  send <chat-id> <message>     Send a message to a chat")
	fmt.Fprintln(os.Stderr, "  rename <chat-id> <title>     Rename a chat")
	fmt.Fprintln(os.Stderr, "  delete <chat-id>             Delete a chat")
	fmt.Fprintln(os.Stderr, "  status                       Show local auth status")
}

// errText prefers a backend {detail} over raw error text.
func errText(err error) string {
	var he *api.HTTPError
	if errors.As(err, &he) {
		if d := he.Detail(); d != "" {
			return d
		}
	}
	return err.Error()
}

type ctl struct {
	client  *api.Client
	store   *auth.Store
	json    bool
	session string
}

func (c *ctl) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: chatctl login <email> <password>")
	}
	token, err := c.client.Login(ctx, api.Credentials{Email: args[0], Password: args[1]})
	if err != nil {
		return err
	}
	if err := c.store.Set(token); err != nil {
		return err
	}
	return c.emit(map[string]string{"status": "logged in"}, "logged in")
}

func (c *ctl) signup(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: chatctl signup <email> <password>")
	}
	if err := c.client.Signup(ctx, api.Credentials{Email: args[0], Password: args[1]}); err != nil {
		return err
	}
	return c.emit(map[string]string{"status": "account created"}, "account created, log in with: chatctl login")
}

func (c *ctl) signout(ctx context.Context) error {
	// Best effort against the backend; the local token goes away regardless.
	if err := c.client.Signout(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: backend signout failed: %s\n", errText(err))
	}
	if err := c.store.Clear(); err != nil {
		return err
	}
	return c.emit(map[string]string{"status": "signed out"}, "signed out")
}

func (c *ctl) list(ctx context.Context) error {
	chats, err := c.client.ListChats(ctx)
	if err != nil {
		return err
	}
	if c.json {
		return c.emitJSON(chats)
	}
	if len(chats) == 0 {
		fmt.Println("no chats")
		return nil
	}
	for _, ch := range chats {
		fmt.Printf("%s\t%s\n", ch.ID, ch.Title)
	}
	return nil
}

func (c *ctl) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: chatctl show <chat-id>")
	}
	t, err := c.client.GetChat(ctx, args[0])
	if err != nil {
		return err
	}
	if c.json {
		return c.emitJSON(t)
	}
	fmt.Printf("# %s\n\n", t.Title)
	for _, m := range t.Messages {
		sender := "assistant"
		if m.Role == api.RoleUser {
			sender = "you"
		}
		fmt.Printf("[%s] %s\n", sender, m.Text)
	}
	return nil
}

func (c *ctl) create(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: chatctl create <title> <message>")
	}
	title, text := args[0], strings.Join(args[1:], " ")
	id, reply, err := c.client.CreateChat(ctx, title, text)
	if err != nil {
		return err
	}
	if c.json {
		out := map[string]any{"id": id}
		if reply != nil {
			out["reply"] = reply
		}
		return c.emitJSON(out)
	}
	fmt.Printf("created %s\n", id)
	if reply != nil {
		fmt.Printf("[assistant] %s\n", reply.Text)
	}
	return nil
}

func (c *ctl) send(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: chatctl send <chat-id> <message>")
	}
	reply, err := c.client.AddMessage(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	if c.json {
		return c.emitJSON(reply)
	}
	fmt.Printf("[assistant] %s\n", reply.Text)
	return nil
}

func (c *ctl) rename(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: chatctl rename <chat-id> <title>")
	}
	if err := c.client.RenameChat(ctx, args[0], args[1]); err != nil {
		return err
	}
	return c.emit(map[string]string{"status": "renamed"}, "renamed")
}

func (c *ctl) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: chatctl delete <chat-id>")
	}
	if err := c.client.DeleteChat(ctx, args[0]); err != nil {
		return err
	}
	return c.emit(map[string]string{"status": "deleted"}, "deleted")
}

func (c *ctl) status() error {
	authed := c.store.Token() != ""
	if c.json {
		return c.emitJSON(map[string]any{"session": c.session, "authenticated": authed})
	}
	state := "unauthenticated"
	if authed {
		state = "authenticated"
	}
	fmt.Printf("session: %s\nauth: %s\n", c.session, state)
	return nil
}

func (c *ctl) emit(jsonOut any, text string) error {
	if c.json {
		return c.emitJSON(jsonOut)
	}
	fmt.Println(text)
	return nil
}

func (c *ctl) emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
