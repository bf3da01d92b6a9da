package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/fx"

	"github.com/ananyak/chatterm/internal/session"
	"github.com/ananyak/chatterm/internal/stub"
)

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	addrFlag := flag.String("addr", "127.0.0.1:8884", "listen address")
	flag.Parse()

	sessionName := session.Resolve(*sessionFlag)
	if err := session.ValidateName(sessionName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	app := fx.New(
		stub.Module(stub.Params{SessionName: sessionName, Addr: *addrFlag}),
	)

	app.Run()
}
