package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/boltdb/bolt"
	"go.llib.dev/frameless/pkg/cli"
	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
	"go.llib.dev/lazyfilter/adapter/boltdb"
	"go.llib.dev/lazyfilter/pkg/container"
	"go.llib.dev/lazyfilter/pkg/filterkit"
)

func main() {
	cli.Main(context.Background(), Mux())
}

func Mux() *cli.Mux {
	var m cli.Mux
	m.Handle("lines", LinesCommand{})
	m.Handle("bolt", BoltCommand{})
	return &m
}

const (
	ModeSeq        = "seq"
	ModeCollection = "collection"
)

const ErrInvalidPattern errorkit.Error = "ErrInvalidPattern"

type LinesCommand struct {
	Contains string `flag:"contains" desc:"keep the lines which contain this text"`
	Match    string `flag:"match" desc:"keep the lines which match this regular expression"`
	Invert   bool   `flag:"invert,v" desc:"keep the lines which don't match"`
	Number   bool   `flag:"n" desc:"prefix each line with its line number"`
	Mode     string `flag:"mode" env:"LAZYFILTER_MODE" enum:"seq,collection," desc:"seq streams the input, collection buffers it and walks filtered positions"`
	Skip     int    `flag:"skip" desc:"number of matching lines to skip"`
	Limit    int    `flag:"limit" desc:"maximum number of lines to print, zero prints all of them"`
	Tail     int    `flag:"tail" desc:"only filter the last N input lines, zero keeps all of them (collection mode)"`
}

func (cmd LinesCommand) Summary() string { return "filter the lines of STDIN" }

type line struct {
	No   int
	Text string
}

func (cmd LinesCommand) ServeCLI(w cli.Response, r *cli.Request) {
	ctx := r.Context()

	predicate, err := cmd.predicate()
	if err != nil {
		badRequest(w, err)
		return
	}
	if cmd.Skip < 0 || cmd.Limit < 0 || cmd.Tail < 0 {
		badRequest(w, fmt.Errorf("skip, limit and tail can't be negative"))
		return
	}

	mode := cmd.Mode
	if mode == "" {
		mode = ModeSeq
	}
	logger.Debug(ctx, "filtering lines",
		logging.Field("mode", mode),
		logging.Field("skip", cmd.Skip),
		logging.Field("limit", cmd.Limit))

	var n int
	switch mode {
	case ModeCollection:
		n, err = cmd.serveCollection(w, r.Body, predicate)
	default:
		n, err = cmd.serveSeq(w, r.Body, predicate)
	}
	if err != nil {
		logger.Error(ctx, "filtering lines failed", logging.ErrField(err))
		cli.HandleError(w, r, err)
		return
	}
	logger.Debug(ctx, "lines filtered", logging.Field("printed", n))
}

func (cmd LinesCommand) predicate() (filterkit.Predicate[line], error) {
	var ps []filterkit.Predicate[line]
	if cmd.Contains != "" {
		ps = append(ps, func(l line) bool { return strings.Contains(l.Text, cmd.Contains) })
	}
	if cmd.Match != "" {
		rx, err := regexp.Compile(cmd.Match)
		if err != nil {
			return nil, ErrInvalidPattern.F("%s", err.Error())
		}
		ps = append(ps, func(l line) bool { return rx.MatchString(l.Text) })
	}
	return func(l line) bool {
		for _, p := range ps {
			if !p(l) {
				return cmd.Invert
			}
		}
		return !cmd.Invert
	}, nil
}

func (cmd LinesCommand) serveSeq(w io.Writer, body io.Reader, predicate filterkit.Predicate[line]) (int, error) {
	var (
		lr      = newLineReader(body)
		view    = filterkit.FilterSeq(lr.All(), predicate)
		skipped int
		printed int
	)
	for l := range view.All() {
		if skipped < cmd.Skip {
			skipped++
			continue
		}
		cmd.print(w, l)
		printed++
		if 0 < cmd.Limit && cmd.Limit <= printed {
			break
		}
	}
	return printed, lr.Err()
}

func (cmd LinesCommand) serveCollection(w io.Writer, body io.Reader, predicate filterkit.Predicate[line]) (int, error) {
	lr := newLineReader(body)
	lines := &container.LinkedList[line]{}
	for l := range lr.All() {
		lines.Append(l)
		if 0 < cmd.Tail && cmd.Tail < lines.Length() {
			lines.Shift()
		}
	}
	if err := lr.Err(); err != nil {
		return 0, err
	}

	var (
		view  = filterkit.FilterCollection[line, container.Node[line]](lines, predicate)
		start = view.Advance(view.Start(), cmd.Skip)
		end   = view.End()
	)
	if 0 < cmd.Limit {
		end = view.AdvanceLimit(start, cmd.Limit, end)
	}
	var printed int
	for i := start; i.NotEqual(end); i = view.Successor(i) {
		cmd.print(w, view.At(i))
		printed++
	}
	return printed, nil
}

func (cmd LinesCommand) print(w io.Writer, l line) {
	if cmd.Number {
		fmt.Fprintf(w, "%d:%s\n", l.No, l.Text)
		return
	}
	fmt.Fprintln(w, l.Text)
}

type lineReader struct {
	scanner *bufio.Scanner
	no      int
}

func newLineReader(r io.Reader) *lineReader {
	if r == nil {
		r = strings.NewReader("")
	}
	return &lineReader{scanner: bufio.NewScanner(r)}
}

func (lr *lineReader) All() iter.Seq[line] {
	return func(yield func(line) bool) {
		for lr.scanner.Scan() {
			lr.no++
			if !yield(line{No: lr.no, Text: lr.scanner.Text()}) {
				return
			}
		}
	}
}

func (lr *lineReader) Err() error {
	return lr.scanner.Err()
}

const lockTimeout = time.Second

type BoltCommand struct {
	Path   string `arg:"0" required:"true" desc:"path of the bolt database file"`
	Bucket string `arg:"1" required:"true" desc:"name of the bucket to list"`
	Prefix string `flag:"prefix" desc:"keep the entries whose key has this prefix"`
	Limit  int    `flag:"limit" desc:"maximum number of entries to print, zero prints all of them"`
}

func (cmd BoltCommand) Summary() string { return "list the entries of a bolt bucket" }

func (cmd BoltCommand) ServeCLI(w cli.Response, r *cli.Request) {
	ctx := logging.ContextWith(r.Context(),
		logging.Field("db", cmd.Path),
		logging.Field("bucket", cmd.Bucket))

	if cmd.Limit < 0 {
		badRequest(w, fmt.Errorf("limit can't be negative"))
		return
	}
	if _, err := os.Stat(cmd.Path); err != nil {
		logger.Error(ctx, "database is not accessible", logging.ErrField(err))
		cli.HandleError(w, r, err)
		return
	}

	db, err := bolt.Open(cmd.Path, 0600, &bolt.Options{ReadOnly: true, Timeout: lockTimeout})
	if err != nil {
		logger.Error(ctx, "opening database failed", logging.ErrField(err))
		cli.HandleError(w, r, err)
		return
	}

	var printed int
	err = boltdb.View(db, []byte(cmd.Bucket), func(b boltdb.Bucket) error {
		var (
			view = filterkit.FilterCollection[boltdb.Entry, boltdb.Key](b, boltdb.HasPrefix([]byte(cmd.Prefix)))
			end  = view.End()
		)
		if 0 < cmd.Limit {
			end = view.AdvanceLimit(view.Start(), cmd.Limit, end)
		}
		for i := view.Start(); i.NotEqual(end); i = view.Successor(i) {
			e := view.At(i)
			if _, err := fmt.Fprintf(w, "%s=%s\n", e.Key, e.Value); err != nil {
				return err
			}
			printed++
		}
		return nil
	})
	err = errorkit.Merge(err, db.Close())
	if err != nil {
		logger.Error(ctx, "listing bucket failed", logging.ErrField(err))
		cli.HandleError(w, r, err)
		return
	}
	logger.Debug(ctx, "bucket listed", logging.Field("printed", printed))
}

func badRequest(w cli.Response, err error) {
	w.ExitCode(cli.ExitCodeBadRequest)
	var out io.Writer = w
	if ew, ok := w.(cli.ErrorWriter); ok {
		out = ew.Stderr()
	}
	fmt.Fprintln(out, err.Error())
}
