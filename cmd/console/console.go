package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/evolutionflow/admin-bff/internal/auth"
	"github.com/evolutionflow/admin-bff/internal/lifecycle"
	"github.com/evolutionflow/admin-bff/internal/members"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/listview"
	"github.com/evolutionflow/admin-bff/pkg/logger"
)

const helpText = `commands:
  login <email> <password>   sign in as an admin
  logout                     sign out and forget the stored tokens
  whoami                     show the signed-in admin
  list                       load the members page
  search <text>              debounced search
  filter <key> <value>       status | membershipLevel
  clear                      drop all filters
  sort <key> [asc|desc]      sort the members list
  page <n>                   jump to a page
  status <id> <status>       change a member status (optimistic)
  help                       this text
  quit                       exit`

// console is a line-driven members screen over the stateful list view.
type console struct {
	store   *auth.Store
	members members.Service
	view    *listview.View[members.Member]
	logg    *logger.Logger

	mu  sync.Mutex
	out io.Writer
}

func newConsole(store *auth.Store, svc members.Service, opts []listview.ViewOption, out io.Writer, logg *logger.Logger) *console {
	c := &console{store: store, members: svc, out: out, logg: logg}
	c.view = listview.NewView(c.fetch, func(m members.Member) string { return m.ID }, listview.Query{Page: 1}, opts...)
	c.view.Subscribe(c.render)
	store.Subscribe(func(s auth.State) {
		if s.User == nil {
			c.printf("signed out\n")
			return
		}
		c.printf("signed in as %s (%s)\n", s.User.Email, s.User.Role)
	})
	return c
}

func (c *console) fetch(ctx context.Context, q listview.Query) (listview.Result[members.Member], error) {
	token := c.store.State().AccessToken
	if token == "" {
		return listview.Result[members.Member]{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	return c.members.List(ctx, token, q)
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) render(s listview.State[members.Member]) {
	if s.ActionErr != nil {
		c.printf("action failed for %s: %v\n", s.ActionErr.Key, s.ActionErr.Err)
	}
	switch {
	case s.Status == listview.StatusLoading:
		c.printf("loading...\n")
	case s.Status == listview.StatusError:
		c.printf("error: %v\n", s.Err)
	case s.Empty():
		c.printf("no members match\n")
	case s.Status == listview.StatusReady:
		var b strings.Builder
		res := s.Result
		fmt.Fprintf(&b, "page %d/%d (%d total)\n", res.Page, res.TotalPages, res.Total)
		for _, m := range res.Items {
			marker := ""
			if s.InFlight[m.ID] {
				marker = " *"
			}
			fmt.Fprintf(&b, "  %-6s %-20s %-28s %-10s -> %v%s\n", m.ID, m.Name, m.Email, m.Status, m.AllowedTransitions, marker)
		}
		c.printf("%s", b.String())
	}
}

// run reads commands until quit or EOF.
func (c *console) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	c.printf("%s\n", helpText)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := c.exec(ctx, fields[0], fields[1:]); err != nil {
			c.printf("error: %v\n", err)
		}
	}
	return scanner.Err()
}

func (c *console) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		c.printf("%s\n", helpText)
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		return c.store.SignIn(ctx, args[0], args[1])
	case "logout":
		return c.store.SignOut(ctx)
	case "whoami":
		s := c.store.State()
		if !s.SignedIn() {
			c.printf("not signed in\n")
			return nil
		}
		c.printf("%s %s (%s)\n", s.User.ID, s.User.Email, s.User.Role)
	case "list":
		c.view.Refresh()
	case "search":
		c.view.SetSearch(strings.Join(args, " "))
	case "filter":
		if len(args) != 2 {
			return fmt.Errorf("usage: filter <key> <value>")
		}
		c.view.SetFilter(args[0], args[1])
	case "clear":
		c.view.ClearFilters()
	case "sort":
		if len(args) == 0 {
			return fmt.Errorf("usage: sort <key> [asc|desc]")
		}
		dir := listview.Asc
		if len(args) > 1 {
			dir = listview.ParseDirection(args[1], listview.Asc)
		}
		c.view.SetSort(args[0], dir)
	case "page":
		if len(args) != 1 {
			return fmt.Errorf("usage: page <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("page must be a positive integer")
		}
		c.view.SetPage(n)
	case "status":
		if len(args) != 2 {
			return fmt.Errorf("usage: status <id> <status>")
		}
		return c.changeStatus(ctx, args[0], args[1])
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

func (c *console) changeStatus(ctx context.Context, id, raw string) error {
	to, err := enums.ParseMemberStatus(raw)
	if err != nil {
		return err
	}
	token := c.store.State().AccessToken
	apply := func(m members.Member) members.Member {
		m.Status = to
		m.AllowedTransitions = lifecycle.Member.Allowed(to)
		return m
	}
	var callErr error
	err = c.view.Mutate(ctx, id, apply, func(ctx context.Context) error {
		_, callErr = c.members.ChangeStatus(ctx, token, id, to)
		return callErr
	})
	if callErr != nil {
		// already rendered as the row's action error
		return nil
	}
	return err
}

func (c *console) close() {
	c.view.Close()
}
