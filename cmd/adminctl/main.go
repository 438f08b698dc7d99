package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"pickup-service/internal/auth/credentials"

	webpush "github.com/SherClockHolmes/webpush-go"
)

const usage = `usage:
  adminctl vapid-keys          print a new VAPID key pair as env lines
  adminctl hash-pass -pass P   print a bcrypt hash for ADMIN_PASS_HASH
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "adminctl:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "vapid-keys":
		return vapidKeys(out)
	case "hash-pass":
		return hashPass(args[1:], out)
	default:
		return errUsage
	}
}

func vapidKeys(out io.Writer) error {
	private, public, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return fmt.Errorf("generate vapid keys: %w", err)
	}

	fmt.Fprintf(out, "WEB_PUSH_PUBLIC_KEY=%s\n", public)
	fmt.Fprintf(out, "WEB_PUSH_PRIVATE_KEY=%s\n", private)
	return nil
}

func hashPass(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("hash-pass", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	pass := fs.String("pass", os.Getenv("ADMIN_PASS"), "passphrase to hash (default $ADMIN_PASS)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *pass == "" {
		return errUsage
	}

	hash, err := credentials.HashPassword(*pass)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "ADMIN_PASS_HASH=%s\n", hash)
	return nil
}
