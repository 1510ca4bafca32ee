// Command listusers prints every registered account with a per-role summary.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mind-engage/mindengage-testgen/internal/config"
	"github.com/mind-engage/mindengage-testgen/internal/db"
	"github.com/mind-engage/mindengage-testgen/internal/users"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return err
	}
	defer dbh.Close()

	list, err := users.NewSQLStore(dbh).List(ctx, "")
	if err != nil {
		return err
	}
	return render(os.Stdout, list, time.Now())
}

func render(out io.Writer, list []users.User, now time.Time) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(out, "No users found in the database.")
		return err
	}

	rule := strings.Repeat("=", 80)
	fmt.Fprintln(out, "Registered Users:")
	fmt.Fprintln(out, rule)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tNAME\tROLE\tREGISTERED")
	counts := map[string]int{}
	for _, u := range list {
		role := u.Role
		if role == "" {
			role = users.RoleStudent
		}
		counts[role]++
		created := time.UnixMilli(u.CreatedAt)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s (%s)\n",
			orNA(u.Email), orNA(u.Name), role,
			created.Format("Jan 2, 2006 15:04"), humanize.RelTime(created, now, "ago", "from now"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Total Users: %s\n\n", humanize.Comma(int64(len(list))))

	roles := make([]string, 0, len(counts))
	for r := range counts {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	fmt.Fprintln(out, "Summary by Role:")
	for _, r := range roles {
		fmt.Fprintf(out, "  %s: %d\n", strings.ToUpper(r[:1])+r[1:], counts[r])
	}
	return nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
