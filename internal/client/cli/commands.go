package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/dutybadge/internal/api"
	"github.com/dmitrijs2005/dutybadge/internal/client/client"
	"github.com/dmitrijs2005/dutybadge/internal/common"
)

var errUsage = errors.New("usage: report <user id> [sessions]")

func (a *App) Start(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	res, err := a.client.Start(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✅ %s started duty\n", res.DisplayName)
	fmt.Fprintf(a.out, "Start time: %s\n", a.formatTime(res.Start))
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	res, err := a.client.Stop(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "🔴 %s ended duty\n", res.DisplayName)
	fmt.Fprintf(a.out, "End time: %s\n", a.formatTime(res.Session.End))
	fmt.Fprintf(a.out, "Session duration: %s\n", formatHMS(res.Session.Duration))
	fmt.Fprintf(a.out, "Total duty time: %s\n", formatHM(res.Total))
	return nil
}

func (a *App) Me(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	st, err := a.client.Status(ctx)
	if err != nil {
		return err
	}
	if !st.Known {
		fmt.Fprintln(a.out, "You have no duty record yet.")
		return nil
	}

	fmt.Fprintln(a.out, "📊 Your duty statistics")
	a.writeStatus(st)
	return nil
}

func (a *App) OnDuty(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	list, err := a.client.OnDuty(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "👥 Personnel on duty")
	if len(list.Users) == 0 {
		fmt.Fprintln(a.out, "Nobody is on duty right now.")
		return nil
	}
	for _, u := range list.Users {
		fmt.Fprintf(a.out, "👤 %s\n   Since: %s\n   Duration: %s\n", u.DisplayName, a.formatTime(u.Start), formatHM(u.Elapsed))
	}
	return nil
}

func (a *App) Report(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage
	}
	var limit int
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return errUsage
		}
		limit = n
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	rep, err := a.client.Report(ctx, args[0], limit)
	if errors.Is(err, common.ErrUnknownUser) {
		fmt.Fprintf(a.out, "❌ %s has no duty record.\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "📊 Duty report - %s\n", rep.DisplayName)
	a.writeStatus(rep.Status)
	if len(rep.Recent) > 0 {
		fmt.Fprintln(a.out, "Last sessions:")
		for _, s := range rep.Recent {
			fmt.Fprintf(a.out, "  %s - %s\n", a.formatDate(s.Start), formatHM(s.Duration))
		}
	}
	return nil
}

func (a *App) writeStatus(st api.Status) {
	fmt.Fprintf(a.out, "Total duty time: %s\n", formatHM(st.LiveTotal))
	fmt.Fprintf(a.out, "Sessions: %d\n", st.SessionCount)
	if st.OnDuty && st.CurrentStart != nil {
		fmt.Fprintln(a.out, "Status: 🟢 On duty")
		fmt.Fprintf(a.out, "On duty since: %s (%s)\n", a.formatTime(*st.CurrentStart), formatHM(breakdownOf(st.ElapsedSeconds)))
	} else {
		fmt.Fprintln(a.out, "Status: 🔴 Off duty")
	}
}

// describeError turns a client error into a line for the user.
func describeError(err error) string {
	switch {
	case errors.Is(err, common.ErrAlreadyOnDuty):
		return "❌ You are already on duty."
	case errors.Is(err, common.ErrNotOnDuty):
		return "❌ You are not on duty."
	case errors.Is(err, common.ErrClockSkew):
		return "❌ The server clock moved backwards, your session is still open. Try again later."
	case errors.Is(err, client.ErrForbidden):
		return "❌ This command needs an admin token."
	case errors.Is(err, client.ErrUnauthorized):
		return "❌ Access token is missing or invalid."
	case errors.Is(err, client.ErrUnavailable):
		return "❌ Server unavailable, try again later."
	case errors.Is(err, errUsage):
		return err.Error()
	default:
		return "❌ " + strings.TrimSpace(err.Error())
	}
}
