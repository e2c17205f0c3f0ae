package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/zhaohua/mpconsole/internal/app"
	"github.com/zhaohua/mpconsole/internal/export"
	"github.com/zhaohua/mpconsole/internal/jsontable"
)

const version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Version kong.VersionFlag `help:"Show version information." short:"v"`

	Tui    TuiCmd    `cmd:"" default:"withargs" help:"Start the terminal console (default)."`
	Render RenderCmd `cmd:"" help:"Print JSON or YAML objects as a table."`
	Export ExportCmd `cmd:"" help:"Write JSON or YAML objects to an xlsx workbook."`
}

// runEnv carries process state into command Run methods.
type runEnv struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	width  int // terminal width of stdout, zero when not a terminal
}

// TuiCmd starts the interactive console.
type TuiCmd struct {
	Config  string `help:"Config file path." type:"path" placeholder:"PATH"`
	Prefs   string `help:"Preferences file path." type:"path" placeholder:"PATH"`
	EnvFile string `help:"Optional .env file applied before the config." name:"env-file" type:"path" placeholder:"PATH"`
	Poll    int    `help:"Refresh interval in seconds (overrides config)." placeholder:"SECONDS"`
}

func (c *TuiCmd) Run(env *runEnv) error {
	return app.Run(env.ctx, app.Options{
		ConfigPath: c.Config,
		PrefsPath:  c.Prefs,
		EnvFile:    c.EnvFile,
		PollEvery:  c.Poll,
	})
}

// Input selects the objects render and export work on.
type Input struct {
	File    string   `arg:"" optional:"" default:"-" help:"Input file, or - for stdin."`
	Columns []string `help:"Explicit columns as key[:label[:type]]; skips schema inference." short:"c" sep:","`
	Demo    bool     `help:"Use the built-in demo payload instead of an input file."`
}

func (s Input) table(env *runEnv) (jsontable.RenderedTable, error) {
	var data jsontable.TableData
	if s.Demo {
		data = jsontable.DemoData()
	} else {
		raw, err := readInput(env.stdin, s.File)
		if err != nil {
			return jsontable.RenderedTable{}, err
		}
		items, err := jsontable.DecodeObjects(raw, true)
		if err != nil {
			return jsontable.RenderedTable{}, fmt.Errorf("decode %s: %w", displayName(s.File), err)
		}
		data.Items = items
	}

	if len(s.Columns) > 0 {
		conf, err := parseColumns(s.Columns)
		if err != nil {
			return jsontable.RenderedTable{}, err
		}
		data.Conf = &conf
	}

	out, err := jsontable.Render(data)
	if err != nil {
		return jsontable.RenderedTable{}, fmt.Errorf("render table: %w", err)
	}
	return out, nil
}

// RenderCmd prints objects as a text table.
type RenderCmd struct {
	Input  `embed:""`
	Format string `help:"Output format (table, html, markdown)." short:"f" enum:"table,html,markdown,md" default:"table"`
}

func (c *RenderCmd) Run(env *runEnv) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	table, err := c.table(env)
	if err != nil {
		return err
	}
	if format == export.FormatTable {
		table = fitWidth(table, env.width)
	}
	return export.WriteText(env.stdout, table, format)
}

// ExportCmd writes objects to a workbook.
type ExportCmd struct {
	Input `embed:""`
	Out   string `help:"Destination .xlsx file." short:"o" required:"" type:"path"`
}

func (c *ExportCmd) Run(env *runEnv) error {
	table, err := c.table(env)
	if err != nil {
		return err
	}
	if err := export.SaveXLSX(c.Out, table); err != nil {
		return fmt.Errorf("write %s: %w", c.Out, err)
	}
	_, err = fmt.Fprintf(env.stdout, "wrote %d rows to %s\n", len(table.Rows), c.Out)
	return err
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func displayName(file string) string {
	if file == "" || file == "-" {
		return "stdin"
	}
	return file
}

// parseColumns turns key[:label[:type]] specs into a table config.
func parseColumns(specs []string) (jsontable.TableConfig, error) {
	cols := make([]jsontable.ColumnConfig, 0, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 3)
		col := jsontable.NewColumn(strings.TrimSpace(parts[0]))
		if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
			col = col.WithLabel(strings.TrimSpace(parts[1]))
		}
		if len(parts) > 2 {
			typ, ok := jsontable.ParseColumnType(strings.TrimSpace(parts[2]))
			if !ok {
				return jsontable.TableConfig{}, fmt.Errorf("column %q: unknown type %q", parts[0], parts[2])
			}
			col = col.WithType(typ)
		}
		cols = append(cols, col)
	}
	conf, err := jsontable.NewTableConfig(cols...)
	if err != nil {
		return jsontable.TableConfig{}, fmt.Errorf("parse columns: %w", err)
	}
	return conf, nil
}

// fitWidth shortens cell texts so a bordered table fits in width columns.
// A zero width leaves the table as is.
func fitWidth(table jsontable.RenderedTable, width int) jsontable.RenderedTable {
	n := len(table.Header)
	if width <= 0 || n == 0 {
		return table
	}
	limit := max(width/n-3, 4)

	fit := func(cells []jsontable.Cell) []jsontable.Cell {
		out := make([]jsontable.Cell, len(cells))
		for i, c := range cells {
			c.Text = runewidth.Truncate(c.Text, limit, "…")
			out[i] = c
		}
		return out
	}

	table.Header = fit(table.Header)
	rows := make([][]jsontable.Cell, len(table.Rows))
	for i, row := range table.Rows {
		rows[i] = fit(row)
	}
	table.Rows = rows
	return table
}

func terminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

func printError(w io.Writer, err error) {
	_, _ = color.New(color.FgRed).Fprintf(w, "mpconsole: %v\n", err)
}

func main() {
	os.Exit(run())
}

func run() int {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("mpconsole"),
		kong.Description("Console for the sizes backend and a JSON-to-table renderer."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env := &runEnv{
		ctx:    ctx,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		width:  terminalWidth(os.Stdout),
	}
	if err := kctx.Run(env); err != nil {
		printError(os.Stderr, err)
		return 1
	}
	return 0
}
