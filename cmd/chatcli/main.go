package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"selfchat/internal/app/adapters/client"
	"selfchat/internal/app/domain/message"
	"selfchat/pkg/logger"
	"strings"
	"syscall"
	"time"
)

const (
	envServerURL     = "CHAT_SERVER_URL"
	envProxy         = "CHAT_PROXY"
	defaultServerURL = "http://localhost:5000"
)

const usage = `usage: chatcli <command> [flags]

commands:
  watch                               poll and render the conversation
  send   -sender A|B <primary> <secondary>
  edit   <id> <primary> <secondary>
  delete <id>

environment:
  CHAT_SERVER_URL  server base URL (default http://localhost:5000)
  CHAT_PROXY       SOCKS5 proxy address, host:port
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New("")
	log.SetLogLevel("warn")

	serverURL := defaultServerURL
	if v, ok := os.LookupEnv(envServerURL); ok && v != "" {
		serverURL = v
	}

	hc, err := client.NewHTTPClient(os.Getenv(envProxy), 10*time.Second)
	if err != nil {
		log.Fatal("Error creating HTTP client", err)
	}
	c := client.New(log, serverURL, hc)

	if err := run(ctx, c, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) error {
	switch cmd {
	case "watch":
		cfg, err := c.Config(ctx)
		if err != nil {
			return err
		}
		return c.Watch(ctx, os.Stdout, cfg.TTL(), cfg.PollInterval(), time.Second)

	case "send":
		fs := flag.NewFlagSet("send", flag.ExitOnError)
		sender := fs.String("sender", "A", "who is speaking, A or B")
		_ = fs.Parse(args)
		if fs.NArg() != 2 {
			return fmt.Errorf("send needs <primary> <secondary>")
		}

		msg, err := c.Send(ctx, message.Sender(strings.ToUpper(*sender)), fs.Arg(0), fs.Arg(1))
		if err != nil {
			return err
		}
		fmt.Println(msg.ID)

	case "edit":
		if len(args) != 3 {
			return fmt.Errorf("edit needs <id> <primary> <secondary>")
		}
		msg, err := c.Edit(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("updated %s\n", msg.ID)

	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("delete needs <id>")
		}
		if err := c.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted successfully")

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	return nil
}
