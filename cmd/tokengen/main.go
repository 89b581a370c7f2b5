// Command tokengen mints an access token for the dutybadge API, signed
// with the server's secret key.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/dutybadge/internal/server/auth"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("tokengen", flag.ContinueOnError)

	secret := fs.String("s", os.Getenv("DUTYBADGE_SECRET_KEY"), "secret key")
	userID := fs.String("u", "", "user id")
	name := fs.String("n", "", "display name")
	admin := fs.Bool("admin", false, "grant admin permission")
	ttl := fs.Duration("ttl", 0, "token validity, 0 for no expiry")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *secret == "" || *userID == "" {
		return fmt.Errorf("both -s and -u are required")
	}

	token, err := auth.GenerateToken(auth.Identity{UserID: *userID, DisplayName: *name, Admin: *admin}, []byte(*secret), *ttl)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, token)
	return err
}
