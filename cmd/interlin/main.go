package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/interlin/config"
	"github.com/revelaction/interlin/pipeline"
	"github.com/revelaction/interlin/render"
	"github.com/revelaction/interlin/storage"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(ui).RunContext(ctx, os.Args); err != nil {
		fprintErr(ui.Err, err)
		stop()
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "interlin: %v\n", err)
}

// env is the state shared by the commands of one invocation.
type env struct {
	ui     UI
	cfg    *config.Config
	logger *slog.Logger
	pool   *Pool
}

func (e *env) setup(c *cli.Context) error {
	path, required := config.DefaultPath, false
	if p := c.String("config"); p != "" {
		path, required = p, true
	}

	cfg, err := config.LoadFile(path, required)
	if err != nil {
		return err
	}
	if p := c.String("doc-path"); p != "" {
		cfg.Storage.Path = p
	}

	e.cfg = cfg
	e.logger = config.NewLogger(cfg.Log, e.ui.Err)
	e.pool = &Pool{size: cfg.Pipeline.Workers}
	return nil
}

func (e *env) close(*cli.Context) error {
	if e.pool == nil {
		return nil
	}
	return e.pool.Close()
}

func (e *env) repo(create bool) (storage.DocRepository, error) {
	return NewDocRepository(e.pool, e.cfg.Storage.Path, create)
}

// runner applies the command line overrides of the align flags and builds
// the pipeline.
func (e *env) runner(c *cli.Context) (*pipeline.Runner, error) {
	cfg := *e.cfg
	if c.IsSet("heuristics") {
		cfg.Align.HeuristicsRaw = c.String("heuristics")
	}
	if c.IsSet("strict") {
		cfg.Align.StrictMorphs = c.Bool("strict")
	}
	if c.IsSet("workers") {
		cfg.Pipeline.Workers = c.Int("workers")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewRunner(&cfg, c.String("lookup"), e.logger)
}

func docArg(c *cli.Context, i int) (int, error) {
	s := c.Args().Get(i)
	if s == "" {
		return 0, fmt.Errorf("missing document id")
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid document id %q: %w", s, err)
	}
	return id, nil
}

func alignFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "lookup", Aliases: []string{"l"}, EnvVars: []string{"INTERLIN_LOOKUP"}, Usage: "JSON file with translation analyses, used as parser and lemma table"},
		&cli.StringFlag{Name: "heuristics", Usage: "comma separated heuristics, in order (exact, lemma, sub, gram)"},
		&cli.BoolFlag{Name: "strict", Usage: "align gloss and language morphemes phrase wide"},
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "parallel records, 0 for one per CPU"},
	}
}

func newApp(ui UI) *cli.App {
	e := &env{ui: ui}

	return &cli.App{
		Name:      "interlin",
		Usage:     "align interlinear glossed text and project dependency structures",
		Writer:    ui.Out,
		ErrWriter: ui.Err,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, EnvVars: []string{"INTERLIN_CONFIG"}, Usage: "YAML configuration file"},
			&cli.StringFlag{Name: "doc-path", Aliases: []string{"p"}, Usage: "document directory or SQLite file, overrides storage.path"},
		},
		Before: e.setup,
		After:  e.close,
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "align and project the records of documents, all by default",
				ArgsUsage: "[doc id...]",
				Flags: append(alignFlags(),
					&cli.BoolFlag{Name: "no-progress", Usage: "do not show progress bars"},
				),
				Action: func(c *cli.Context) error {
					ids, err := intArgs(c)
					if err != nil {
						return err
					}
					repo, err := e.repo(false)
					if err != nil {
						return err
					}
					runner, err := e.runner(c)
					if err != nil {
						return err
					}
					return runCommand(c.Context, repo, runner, ids, !c.Bool("no-progress"), e.ui)
				},
			},
			{
				Name:      "show",
				Usage:     "render the processed records of a document",
				ArgsUsage: "<doc id> [record id...]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: render.Defaultformat, Usage: "igt, align, dep, all or json"},
					&cli.BoolFlag{Name: "no-color"},
					&cli.BoolFlag{Name: "no-prefix"},
				},
				Action: func(c *cli.Context) error {
					id, err := docArg(c, 0)
					if err != nil {
						return err
					}
					repo, err := e.repo(false)
					if err != nil {
						return err
					}
					opts := ShowOptions{Format: c.String("format"), NoColor: c.Bool("no-color"), NoPrefix: c.Bool("no-prefix")}
					return showCommand(repo, opts, id, c.Args().Tail(), e.ui)
				},
			},
			{
				Name:  "ls",
				Usage: "list documents",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "label", Usage: "only documents with a label containing this"},
				},
				Action: func(c *cli.Context) error {
					repo, err := e.repo(false)
					if err != nil {
						return err
					}
					return lsDocCommand(repo, c.String("label"), e.ui)
				},
			},
			{
				Name:      "labels",
				Usage:     "list document labels",
				ArgsUsage: "[pattern]",
				Action: func(c *cli.Context) error {
					repo, err := e.repo(false)
					if err != nil {
						return err
					}
					return lsLabelsCommand(repo, c.Args().First(), e.ui)
				},
			},
			{
				Name:      "find",
				Usage:     "find records whose gloss has all the given parts",
				ArgsUsage: "<part...>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 100, Usage: "maximum records, 0 for no limit"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("missing gloss parts")
					}
					repo, err := e.repo(false)
					if err != nil {
						return err
					}
					return findCommand(repo, c.Args().Slice(), c.Int("limit"), e.ui)
				},
			},
			{
				Name:      "import",
				Usage:     "import a JSON document or a plain interlinear text file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}},
					&cli.StringSliceFlag{Name: "label"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("import needs one file")
					}
					repo, err := e.repo(true)
					if err != nil {
						return err
					}
					opts := ImportDocOptions{From: c.Args().First(), Title: c.String("title"), Labels: c.StringSlice("label")}
					return importDocCommand(repo, opts, e.ui)
				},
			},
			{
				Name:      "export",
				Usage:     "write a document to a file",
				ArgsUsage: "<doc id> <file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "text", Usage: "plain interlinear text instead of JSON"},
				},
				Action: func(c *cli.Context) error {
					id, err := docArg(c, 0)
					if err != nil {
						return err
					}
					if c.Args().Get(1) == "" {
						return fmt.Errorf("missing output file")
					}
					repo, err := e.repo(false)
					if err != nil {
						return err
					}
					return exportDocCommand(repo, id, ExportDocOptions{To: c.Args().Get(1), Text: c.Bool("text")}, e.ui)
				},
			},
			{
				Name:  "migrate",
				Usage: "copy all documents to another store",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Required: true, Usage: "destination directory or SQLite file"},
					&cli.BoolFlag{Name: "no-progress"},
				},
				Action: func(c *cli.Context) error {
					src, err := e.repo(false)
					if err != nil {
						return err
					}
					dstPool := &Pool{size: e.cfg.Pipeline.Workers}
					defer dstPool.Close()
					dst, err := NewDocRepository(dstPool, c.String("to"), true)
					if err != nil {
						return err
					}
					return migrateCommand(src, dst, !c.Bool("no-progress"), e.ui)
				},
			},
			{
				Name:      "stat",
				Usage:     "alignment and projection coverage of documents, all by default",
				ArgsUsage: "[doc id...]",
				Action: func(c *cli.Context) error {
					ids, err := intArgs(c)
					if err != nil {
						return err
					}
					repo, err := e.repo(false)
					if err != nil {
						return err
					}
					return statCommand(repo, ids, e.ui)
				},
			},
			{
				Name:      "eval",
				Usage:     "score results against the gold alignments and tags of documents, all by default",
				ArgsUsage: "[doc id...]",
				Action: func(c *cli.Context) error {
					ids, err := intArgs(c)
					if err != nil {
						return err
					}
					repo, err := e.repo(false)
					if err != nil {
						return err
					}
					return evalCommand(repo, ids, e.ui)
				},
			},
			{
				Name:      "inspect",
				Usage:     "browse the records of a document interactively",
				ArgsUsage: "<doc id>",
				Flags: append(alignFlags(),
					&cli.BoolFlag{Name: "no-color"},
				),
				Action: func(c *cli.Context) error {
					id, err := docArg(c, 0)
					if err != nil {
						return err
					}
					repo, err := e.repo(false)
					if err != nil {
						return err
					}
					runner, err := e.runner(c)
					if err != nil {
						return err
					}
					return inspectCommand(repo, runner, id, c.Bool("no-color"), e.ui)
				},
			},
			{
				Name:  "serve",
				Usage: "serve the projection JSON API",
				Flags: append(alignFlags(),
					&cli.StringFlag{Name: "addr", Usage: "listen address, overrides server.addr"},
				),
				Action: func(c *cli.Context) error {
					runner, err := e.runner(c)
					if err != nil {
						return err
					}
					addr := e.cfg.Server.Addr
					if c.IsSet("addr") {
						addr = c.String("addr")
					}
					return serveCommand(c.Context, runner, addr, e.cfg.Server.AllowedOrigins(), e.logger)
				},
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(c *cli.Context) error {
					return versionCommand(e.ui)
				},
			},
		},
	}
}

func intArgs(c *cli.Context) ([]int, error) {
	var ids []int
	for _, s := range c.Args().Slice() {
		id, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid document id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
