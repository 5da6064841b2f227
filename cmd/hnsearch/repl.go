package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/peterh/liner"

	"hn-search/ranker"
	"hn-search/scraper"
	"hn-search/search"
	"hn-search/storage"
)

var commands = []string{"search", "edit", "submit", "rm", "filter", "sort", "read", "show", "status", "help", "quit"}

// settingsLister is implemented by preference backends that can enumerate
// what they store.
type settingsLister interface {
	ListSettings() ([]storage.Setting, error)
}

// REPL is the interactive prompt. It only sends intents to the session and
// renders its views.
type REPL struct {
	session     *search.Session
	reader      scraper.Reader
	out         io.Writer
	historyPath string

	// prefsDesc names the preference backend; settings is nil when the
	// backend cannot list its contents.
	prefsDesc string
	settings  settingsLister

	filter string
	order  ranker.Order
}

// Run reads commands until quit, EOF, Ctrl-C or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completeCommand)

	if r.historyPath != "" {
		r.loadHistory(line)
		defer r.saveHistory(line)
	}

	fmt.Fprintln(r.out, "hnsearch - type 'help' for commands")
	r.session.Wait()
	render(r.out, r.session.View(), r.filter, r.order)

	for ctx.Err() == nil {
		input, err := line.Prompt("search> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if quit := r.execute(ctx, input); quit {
			return nil
		}
	}
	return nil
}

func (r *REPL) loadHistory(line *liner.State) {
	f, err := os.Open(r.historyPath)
	if err != nil {
		slog.Debug("no prompt history loaded", "path", r.historyPath, "error", err)
		return
	}
	defer f.Close()
	if _, err := line.ReadHistory(f); err != nil {
		slog.Debug("reading prompt history", "path", r.historyPath, "error", err)
	}
}

func (r *REPL) saveHistory(line *liner.State) {
	f, err := os.Create(r.historyPath)
	if err != nil {
		slog.Debug("creating prompt history", "path", r.historyPath, "error", err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		slog.Debug("writing prompt history", "path", r.historyPath, "error", err)
	}
}

func completeCommand(input string) []string {
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, strings.ToLower(input)) {
			out = append(out, c)
		}
	}
	return out
}

// execute runs one command line and reports whether the prompt should exit.
func (r *REPL) execute(ctx context.Context, input string) bool {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return true

	case "help", "?":
		printHelp(r.out)

	case "search", "s":
		r.session.OnTypedQueryChange(arg)
		r.submit(ctx)

	case "edit", "e":
		r.session.OnTypedQueryChange(arg)
		fmt.Fprintf(r.out, "typed: %q (not submitted)\n", arg)

	case "submit":
		r.submit(ctx)

	case "rm", "remove":
		if arg == "" {
			fmt.Fprintln(r.out, "usage: rm <id>")
			break
		}
		if err := r.session.OnRemove(arg); err != nil {
			fmt.Fprintf(r.out, "cannot remove %q: %v\n", arg, err)
			break
		}
		render(r.out, r.session.View(), r.filter, r.order)

	case "filter", "f":
		r.filter = arg
		render(r.out, r.session.View(), r.filter, r.order)

	case "sort":
		order, err := ranker.ParseOrder(strings.ToLower(arg))
		if err != nil {
			fmt.Fprintln(r.out, err)
			break
		}
		r.order = order
		render(r.out, r.session.View(), r.filter, r.order)

	case "read":
		r.read(ctx, arg)

	case "status":
		r.status()

	case "show", "ls":
		render(r.out, r.session.View(), r.filter, r.order)

	default:
		fmt.Fprintf(r.out, "unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (r *REPL) submit(ctx context.Context) {
	committed := r.session.OnSubmit(ctx)
	if committed != "" {
		fmt.Fprintf(r.out, "Loading %q ...\n", committed)
	}
	r.session.Wait()
	render(r.out, r.session.View(), r.filter, r.order)
}

func (r *REPL) read(ctx context.Context, id string) {
	st, ok := r.session.View().Results.Find(id)
	if !ok {
		fmt.Fprintf(r.out, "no story with id %q\n", id)
		return
	}
	p, err := r.reader.Read(ctx, st.URL)
	if err != nil {
		fmt.Fprintf(r.out, "cannot preview %q: %v\n", st.Title, err)
		return
	}
	title := p.Title
	if title == "" {
		title = st.Title
	}
	fmt.Fprintf(r.out, "%s\n", title)
	if p.Byline != "" {
		fmt.Fprintf(r.out, "by %s\n", p.Byline)
	}
	fmt.Fprintf(r.out, "\n%s\n", p.Text)
	if p.Truncated {
		fmt.Fprintf(r.out, "... (continues at %s)\n", st.URL)
	}
}

func (r *REPL) status() {
	st := r.session.Status()
	fmt.Fprintf(r.out, "generation %d: %s %q\n", st.Generation, st.Phase, st.Query)

	desc := r.prefsDesc
	if desc == "" {
		desc = "memory"
	}
	fmt.Fprintf(r.out, "preferences: %s\n", desc)
	if r.settings == nil {
		return
	}
	settings, err := r.settings.ListSettings()
	if err != nil {
		fmt.Fprintf(r.out, "  cannot list preferences: %v\n", err)
		return
	}
	for _, s := range settings {
		fmt.Fprintf(r.out, "  %s = %q (updated %s)\n", s.Key, s.Value, time.Unix(s.UpdatedAt, 0).Format(time.DateTime))
	}
}

// render prints the committed query, the fetch status and the stories whose
// title matches filter, in the given order.
func render(w io.Writer, v search.View, filter string, order ranker.Order) {
	fmt.Fprintf(w, "Searching for %s\n", v.Committed)
	if v.Typed != v.Committed {
		fmt.Fprintf(w, "(typed, not submitted: %s)\n", v.Typed)
	}
	switch {
	case v.Results.IsLoading:
		fmt.Fprintln(w, "Loading ...")
	case v.Results.IsError:
		fmt.Fprintln(w, "Something went wrong ...")
	}

	items := ranker.Rank(v.Results.Filter(filter), order)
	if filter != "" {
		fmt.Fprintf(w, "filter %q: %d of %d stories\n", filter, len(items), len(v.Results.Items))
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "no stories")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCOMMENTS\tPOINTS\tURL")
	for _, st := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n", st.ID, st.Title, st.Author, st.CommentCount, st.Score, st.URL)
	}
	tw.Flush()
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `Commands:
  search <text>   submit a new query
  edit <text>     change the query text without submitting
  submit          submit the current query text
  rm <id>         hide a story from the results
  filter [term]   show only stories whose title contains term
  sort [order]    order by points, comments or hot; no order restores it
  read <id>       print a readable preview of a story
  show            print the results again
  status          show the latest search and stored preferences
  help            show this help
  quit            exit
`)
}
