// Package cli implements stockctl, the terminal front end for reports,
// exports and adjustment actions.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"stockdesk/internal/domain"
	"stockdesk/internal/export"
	"stockdesk/internal/service"
)

// ErrUsage marks a malformed command line.
var ErrUsage = errors.New("usage error")

// App runs stockctl commands against the services.
type App struct {
	Reports     service.ReportService
	Exports     service.ExportService
	Adjustments service.AdjustmentService
	Options     service.OptionsService
	In          io.Reader
	Out         io.Writer
	Log         *zap.Logger
}

const usage = `Usage: stockctl [--token T] <command> [args]

Commands:
  reports                         list available reports
  report <domain/name> [flags]    render a report
  export <domain/name> [flags]    export a report (--out FILE, --out -, or --s3)
  adjustment <action> [id]        list, show, submit, approve, reject, apply, delete
  options                         products and stores for the adjustment form
  shell <domain/name>             interactive report session
`

// Run executes one command. The context must carry the API token.
func (a *App) Run(ctx context.Context, args []string) error {
	if a.Log == nil {
		a.Log = zap.NewNop()
	}
	if len(args) == 0 {
		fmt.Fprint(a.Out, usage)
		return ErrUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "reports":
		return a.listReports()
	case "report":
		return a.showReport(ctx, rest)
	case "export":
		return a.export(ctx, rest)
	case "adjustment", "adj":
		return a.adjustment(ctx, rest)
	case "options":
		return a.formOptions(ctx)
	case "shell":
		return a.shell(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.Out, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)
	return fs
}

func (a *App) listReports() error {
	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tTITLE\tPAGING\tCHART")
	for _, info := range a.Reports.List() {
		paging := "client"
		if info.ServerPagination {
			paging = "server"
		}
		chartKind := string(info.Chart)
		if chartKind == "" {
			chartKind = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Key, info.Title, paging, chartKind)
	}
	return tw.Flush()
}

func (a *App) showReport(ctx context.Context, args []string) error {
	fs := newFlagSet("report")
	var ff filterFlags
	var tf tableFlags
	ff.register(fs)
	tf.register(fs)
	withChart := fs.Bool("chart", false, "draw the chart as text bars")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: report takes one report key", ErrUsage)
	}
	domainName, name, err := splitKey(fs.Arg(0))
	if err != nil {
		return err
	}
	f, err := ff.filter()
	if err != nil {
		return err
	}
	p, err := tf.params()
	if err != nil {
		return err
	}

	v, err := a.Reports.Render(ctx, domainName, name, f, p)
	if err != nil {
		return err
	}
	return printView(a.Out, v, *withChart)
}

func (a *App) export(ctx context.Context, args []string) error {
	fs := newFlagSet("export")
	var ff filterFlags
	var tf tableFlags
	ff.register(fs)
	tf.register(fs)
	out := fs.String("out", "", "destination file, or - for stdout")
	toS3 := fs.Bool("s3", false, "archive to object storage and print a download link")
	format := fs.String("format", "", "render the table view locally as csv or xlsx instead of the API export")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: export takes one report key", ErrUsage)
	}
	if *out == "" && !*toS3 || *out != "" && *toS3 {
		return fmt.Errorf("%w: export needs exactly one of --out or --s3", ErrUsage)
	}
	domainName, name, err := splitKey(fs.Arg(0))
	if err != nil {
		return err
	}
	f, err := ff.filter()
	if err != nil {
		return err
	}

	if *format != "" {
		if *toS3 {
			return fmt.Errorf("%w: --format cannot be combined with --s3", ErrUsage)
		}
		return a.exportTable(ctx, domainName, name, f, &tf, *format, *out)
	}

	switch {
	case *toS3:
		res, err := a.Exports.Archive(ctx, domainName, name, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "Archived %s (%d bytes)\n%s\n", res.Key, res.Bytes, res.URL)
	case *out == "-":
		_, err := a.Exports.Stream(ctx, domainName, name, f, a.Out)
		return err
	default:
		res, err := a.Exports.SaveFile(ctx, domainName, name, f, *out)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "Saved %s (%d bytes)\n", res.Filename, res.Bytes)
	}
	return nil
}

func (a *App) exportTable(ctx context.Context, domainName, name string, f domain.ReportFilter, tf *tableFlags, rawFormat, out string) error {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return err
	}
	p, err := tf.params()
	if err != nil {
		return err
	}
	if out == "-" {
		_, err := a.Exports.Table(ctx, domainName, name, f, p, format, a.Out)
		return err
	}
	res, err := saveTable(ctx, a.Exports, domainName, name, f, p, format, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Saved %s (%d bytes)\n", out, res.Bytes)
	return nil
}

func (a *App) adjustment(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: adjustment needs an action", ErrUsage)
	}
	action, rest := args[0], args[1:]
	if action == "list" {
		return a.listAdjustments(ctx, rest)
	}

	fs := newFlagSet("adjustment " + action)
	reason := fs.String("reason", "", "rejection reason")
	if err := fs.Parse(rest); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: adjustment %s takes one id", ErrUsage, action)
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id < 1 {
		return fmt.Errorf("%w: invalid adjustment id %q", ErrUsage, fs.Arg(0))
	}

	var v *service.AdjustmentView
	switch action {
	case "show":
		v, err = a.Adjustments.Get(ctx, id)
	case "submit":
		v, err = a.Adjustments.Submit(ctx, id)
	case "approve":
		v, err = a.Adjustments.Approve(ctx, id)
	case "reject":
		v, err = a.Adjustments.Reject(ctx, id, *reason)
	case "apply":
		v, err = a.Adjustments.Apply(ctx, id)
	case "delete":
		if err := a.Adjustments.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "Deleted adjustment %d\n", id)
		return nil
	default:
		return fmt.Errorf("%w: unknown adjustment action %q", ErrUsage, action)
	}
	if err != nil {
		return err
	}
	printAdjustment(a.Out, v)
	return nil
}

func (a *App) listAdjustments(ctx context.Context, args []string) error {
	fs := newFlagSet("adjustment list")
	var ff filterFlags
	ff.register(fs)
	status := fs.String("status", "", "draft, pending, approved, completed or rejected")
	search := fs.String("search", "", "reference number search")
	page := fs.Int("page", 0, "page number")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	f, err := ff.filter()
	if err != nil {
		return err
	}
	if *page < 0 {
		return fmt.Errorf("%w: page must be positive", domain.ErrInvalidFilter)
	}
	f.Page = *page
	input := service.AdjustmentListInput{Filter: f, Status: domain.AdjustmentStatus(*status), Search: *search}
	if input.Status != "" && !input.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrUsage, *status)
	}

	res, err := a.Adjustments.List(ctx, input)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tREFERENCE\tSTORE\tTYPE\tSTATUS\tVALUE\tACTIONS")
	for _, v := range res.Data {
		actions := make([]string, len(v.Actions))
		for i, act := range v.Actions {
			actions[i] = string(act)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.ReferenceNo, v.StoreName, v.Type, v.Status, v.TotalValue.StringFixed(2), strings.Join(actions, ","))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if res.Pagination != nil {
		p := res.Pagination
		fmt.Fprintf(a.Out, "Page %d of %d (%d adjustments)\n", p.CurrentPage, max(p.LastPage, 1), p.Total)
	}
	return nil
}

func (a *App) formOptions(ctx context.Context) error {
	opts, err := a.Options.AdjustmentForm(ctx)
	if err != nil {
		return err
	}
	for _, w := range opts.Warnings {
		fmt.Fprintf(a.Out, "! %s\n", w)
	}
	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tSKU\tUNIT COST")
	for _, p := range opts.Products {
		fmt.Fprintf(tw, "%d %s\t%s\t%s\n", p.ID, p.Name, p.SKU, p.UnitCost.StringFixed(2))
	}
	fmt.Fprintln(tw, "\t\t")
	fmt.Fprintln(tw, "STORE\t\t")
	for _, s := range opts.Stores {
		fmt.Fprintf(tw, "%d %s\t\t\n", s.ID, s.Name)
	}
	return tw.Flush()
}
