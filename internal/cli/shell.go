package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"stockdesk/internal/domain"
	"stockdesk/internal/filterbar"
	"stockdesk/internal/report"
	"stockdesk/internal/service"
)

const prompt = "> "

const shellHelp = `Filter:  period P | range YYYY-MM-DD YYYY-MM-DD | store [ID] | group [G|none] | clear
Table:   page N | next | prev | size N | sort COL | search COL [TEXT] | hide COL | show COL
Other:   refresh | chart | export FILE | help | quit
`

// Shell drives one report session from line commands. Filter commands go
// through a filter bar; every accepted change triggers exactly one load.
type Shell struct {
	session   report.Session
	exports   service.ExportService
	out       io.Writer
	bar       *filterbar.Bar
	next      *domain.ReportFilter
	showChart bool
}

// NewShell wraps s. exports serves the export command.
func NewShell(s report.Session, exports service.ExportService, out io.Writer) *Shell {
	sh := &Shell{session: s, exports: exports, out: out}
	sh.resetBar()
	return sh
}

func (sh *Shell) resetBar() {
	sh.bar = filterbar.NewWithFilter(sh.session.Filter(), func(f domain.ReportFilter) {
		sh.next = &f
	})
}

// Run mounts the report and reads commands from in until quit or EOF.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	if err := sh.session.Mount(ctx); err != nil {
		fmt.Fprintf(sh.out, "error: %s\n", err)
	}
	sh.print()

	scanner := bufio.NewScanner(in)
	fmt.Fprint(sh.out, prompt)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Fprint(sh.out, prompt)
			continue
		}
		quit, err := sh.Exec(ctx, line)
		if quit {
			return nil
		}
		if err != nil {
			fmt.Fprintf(sh.out, "error: %s\n", err)
		}
		sh.print()
		fmt.Fprint(sh.out, prompt)
	}
	return scanner.Err()
}

func (sh *Shell) print() {
	if err := printView(sh.out, sh.session.View(), sh.showChart); err != nil {
		fmt.Fprintf(sh.out, "error: %s\n", err)
	}
}

// Exec runs one command line. quit is true for quit and exit.
func (sh *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprint(sh.out, shellHelp)
		return false, nil

	case "period":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: period P", ErrUsage)
		}
		return false, sh.change(ctx, func() error { return sh.bar.SelectPeriod(domain.Period(args[0])) })
	case "range":
		if len(args) != 2 {
			return false, fmt.Errorf("%w: range START END", ErrUsage)
		}
		start, err := time.Parse(domain.DateLayout, args[0])
		if err != nil {
			return false, fmt.Errorf("%w: invalid start date %q", domain.ErrInvalidFilter, args[0])
		}
		end, err := time.Parse(domain.DateLayout, args[1])
		if err != nil {
			return false, fmt.Errorf("%w: invalid end date %q", domain.ErrInvalidFilter, args[1])
		}
		return false, sh.change(ctx, func() error { sh.bar.SelectRange(start, end); return nil })
	case "store":
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return false, sh.change(ctx, func() error { sh.bar.SelectStore(id); return nil })
	case "group":
		g := domain.GroupBy("")
		if len(args) > 0 && args[0] != "none" {
			g = domain.GroupBy(args[0])
		}
		return false, sh.change(ctx, func() error { return sh.bar.SelectGroupBy(g) })
	case "clear":
		return false, sh.change(ctx, func() error { sh.bar.Clear(); return nil })

	case "page":
		n, err := intArg(args, "page N")
		if err != nil {
			return false, err
		}
		return false, sh.session.GoToPage(ctx, n)
	case "next":
		return false, sh.session.NextPage(ctx)
	case "prev":
		return false, sh.session.PreviousPage(ctx)
	case "size":
		n, err := intArg(args, "size N")
		if err != nil {
			return false, err
		}
		return false, sh.session.SetPageSize(ctx, n)
	case "sort":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: sort COL", ErrUsage)
		}
		return false, sh.session.ToggleSort(args[0])
	case "search":
		if len(args) == 0 {
			return false, sh.session.SetSearch("", "")
		}
		return false, sh.session.SetSearch(args[0], strings.Join(args[1:], " "))
	case "hide", "show":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: %s COL", ErrUsage, cmd)
		}
		return false, sh.session.SetColumnVisible(args[0], cmd == "show")

	case "refresh":
		return false, sh.session.Refresh(ctx)
	case "chart":
		sh.showChart = !sh.showChart
		return false, nil
	case "export":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: export FILE", ErrUsage)
		}
		return false, sh.export(ctx, args[0])
	default:
		return false, fmt.Errorf("%w: unknown command %q (try help)", ErrUsage, cmd)
	}
}

// change applies one filter bar interaction and loads the result.
func (sh *Shell) change(ctx context.Context, interact func() error) error {
	sh.next = nil
	if err := interact(); err != nil {
		return err
	}
	if sh.next == nil {
		return nil
	}
	f := *sh.next
	sh.next = nil
	if err := sh.session.SetFilter(ctx, f); err != nil {
		sh.resetBar()
		return err
	}
	return nil
}

func (sh *Shell) export(ctx context.Context, dest string) error {
	info := sh.session.Info()
	var res *service.ExportResult
	err := sh.session.Export(ctx, func(ctx context.Context, f domain.ReportFilter) error {
		var err error
		res, err = sh.exports.SaveFile(ctx, info.Domain, info.Name, f, dest)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Saved %s (%d bytes)\n", res.Filename, res.Bytes)
	return nil
}

func intArg(args []string, form string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s", ErrUsage, form)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrUsage, args[0])
	}
	return n, nil
}

func (a *App) shell(ctx context.Context, args []string) error {
	fs := newFlagSet("shell")
	var ff filterFlags
	ff.register(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: shell takes one report key", ErrUsage)
	}
	if _, _, err := splitKey(fs.Arg(0)); err != nil {
		return err
	}
	f, err := ff.filter()
	if err != nil {
		return err
	}

	s, err := a.Reports.NewSession(fs.Arg(0), f)
	if err != nil {
		return err
	}
	defer s.Close()
	return NewShell(s, a.Exports, a.Out).Run(ctx, a.In)
}
