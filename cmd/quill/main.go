// Command quill parses, formats and checks queries, and serves the parser
// over HTTP and WebSocket.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ulikunitz/xz"

	apperrors "github.com/FocuswithJustin/quill/core/errors"
	"github.com/FocuswithJustin/quill/core/sql"
	"github.com/FocuswithJustin/quill/core/syn"
	"github.com/FocuswithJustin/quill/internal/api"
	"github.com/FocuswithJustin/quill/internal/logging"
)

var version = "0.1.0"

// The standard streams are swapped out by tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// CLI defines the command-line interface for quill.
var CLI struct {
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" env:"QUILL_LOG_LEVEL"`
	LogFormat string `name:"log-format" help:"Log format (json, text)" env:"QUILL_LOG_FORMAT" enum:"json,text" default:"text"`

	Parse   ParseCmd   `cmd:"" help:"Parse queries and list their statements"`
	Tokens  TokensCmd  `cmd:"" help:"Print the token stream of a query"`
	Fmt     FmtCmd     `cmd:"" help:"Print queries in canonical form"`
	Check   CheckCmd   `cmd:"" help:"Check that queries parse"`
	Serve   ServeCmd   `cmd:"" help:"Start the parse service"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ParseCmd parses each source and prints one line per statement.
type ParseCmd struct {
	Files []string `arg:"" optional:"" help:"Query files (.xz allowed); '-' or none reads stdin"`
	As    string   `help:"Grammar entry point" enum:"query,value,idiom,thing,duration,datetime" default:"query"`
}

func (c *ParseCmd) Run() error {
	for _, name := range sources(c.Files) {
		src, err := readSource(name)
		if err != nil {
			return err
		}
		out, err := parseAs(c.As, src)
		if err != nil {
			return reportParseFailure(name, src, err)
		}
		fmt.Fprint(stdout, out)
	}
	return nil
}

// parseAs parses src with the named entry point and returns the listing
// to print.
func parseAs(entry, src string) (string, error) {
	var node sql.Node
	var err error
	switch entry {
	case "value":
		node, err = syn.Value(src)
	case "idiom":
		node, err = syn.Idiom(src)
	case "thing":
		node, err = syn.Thing(src)
	case "duration":
		node, err = syn.Duration(src)
	case "datetime":
		node, err = syn.Datetime(src)
	default:
		q, perr := syn.Parse(src)
		if perr != nil {
			return "", perr
		}
		var sb strings.Builder
		for i, stmt := range q {
			fmt.Fprintf(&sb, "%d\t%s\t%s\n", i+1, statementKind(stmt), stmt)
		}
		return sb.String(), nil
	}
	if err != nil {
		return "", err
	}
	return node.String() + "\n", nil
}

// statementKind names a statement by its AST type, e.g. "select".
func statementKind(stmt sql.Statement) string {
	name := fmt.Sprintf("%T", stmt)
	name = name[strings.LastIndexByte(name, '.')+1:]
	return strings.ToLower(strings.TrimSuffix(name, "Statement"))
}

// TokensCmd prints the lexer's view of a query.
type TokensCmd struct {
	File string `arg:"" optional:"" help:"Query file (.xz allowed); '-' or none reads stdin"`
}

func (c *TokensCmd) Run() error {
	name := c.File
	if name == "" {
		name = "-"
	}
	src, err := readSource(name)
	if err != nil {
		return err
	}

	invalid := 0
	for _, tok := range syn.Tokenize(src) {
		fmt.Fprintf(stdout, "%d:%d\t%s\t%q", tok.Offset, tok.Len, tok.Kind, tok.Text)
		if tok.Error != "" {
			fmt.Fprintf(stdout, "\t%s", tok.Error)
			invalid++
		}
		fmt.Fprintln(stdout)
	}
	if invalid > 0 {
		return fmt.Errorf("%s: %d invalid token(s)", displayName(name), invalid)
	}
	return nil
}

// FmtCmd prints each source in canonical form.
type FmtCmd struct {
	Files []string `arg:"" optional:"" help:"Query files (.xz allowed); '-' or none reads stdin"`
	Write bool     `short:"w" help:"Rewrite plain files in place instead of printing"`
}

func (c *FmtCmd) Run() error {
	for _, name := range sources(c.Files) {
		src, err := readSource(name)
		if err != nil {
			return err
		}
		q, err := syn.Parse(src)
		if err != nil {
			return reportParseFailure(name, src, err)
		}
		canonical := q.String() + "\n"

		if c.Write && name != "-" && !strings.HasSuffix(name, ".xz") {
			if canonical == src {
				continue
			}
			if err := os.WriteFile(name, []byte(canonical), 0644); err != nil {
				return apperrors.NewIO("write", name, err)
			}
			logging.Info("formatted", "file", name)
			continue
		}
		fmt.Fprint(stdout, canonical)
	}
	return nil
}

// CheckCmd parses every source concurrently and reports all failures.
type CheckCmd struct {
	Files []string `arg:"" optional:"" help:"Query files (.xz allowed); '-' or none reads stdin"`
	Jobs  int      `short:"j" help:"Number of files parsed at once (0 means one per CPU)" default:"0"`
}

// checkResult is the outcome for one source.
type checkResult struct {
	name       string
	statements int
	err        error
}

func (c *CheckCmd) Run() error {
	names := sources(c.Files)
	results := checkSources(names, c.Jobs)

	failed := 0
	for _, res := range results {
		if res.err == nil {
			logging.Debug("check passed", "source", displayName(res.name), "statements", res.statements)
			continue
		}
		failed++
		var serr *apperrors.SourceError
		if apperrors.As(res.err, &serr) && serr.Rendered != "" {
			fmt.Fprintf(stderr, "%s:%d:%d\n%s\n", serr.Source, serr.Line, serr.Column, serr.Rendered)
		} else {
			fmt.Fprintln(stderr, res.err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d source(s) failed to parse", failed, len(results))
	}
	fmt.Fprintf(stdout, "ok: %d source(s)\n", len(results))
	return nil
}

// checkSources parses names with at most jobs goroutines. Results keep the
// order of names.
func checkSources(names []string, jobs int) []checkResult {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	results := make([]checkResult, len(names))
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup

	for i, name := range names {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, name string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = checkSource(name)
		}(i, name)
	}
	wg.Wait()
	return results
}

func checkSource(name string) checkResult {
	res := checkResult{name: name}
	src, err := readSource(name)
	if err != nil {
		res.err = err
		return res
	}
	q, err := syn.Parse(src)
	if err != nil {
		logging.ParseFailure(context.Background(), displayName(name), len(src), err)
		res.err = syn.Attribute(displayName(name), src, err)
		return res
	}
	res.statements = len(q)
	return res
}

// ServeCmd starts the HTTP and WebSocket parse service.
type ServeCmd struct {
	Port           int           `help:"HTTP server port" default:"8080" env:"QUILL_PORT"`
	CacheTTL       time.Duration `name:"cache-ttl" help:"How long parsed queries stay cached (0 keeps them until evicted)" default:"10m" env:"QUILL_CACHE_TTL"`
	CacheSize      int           `help:"Maximum number of cached queries" default:"1024" env:"QUILL_CACHE_SIZE"`
	MaxQueryBytes  int64         `help:"Largest accepted query in bytes" default:"1048576" env:"QUILL_MAX_QUERY_BYTES"`
	AllowedOrigins []string      `help:"Origins allowed for CORS and WebSocket (empty allows all)" env:"QUILL_ALLOWED_ORIGINS"`
	RateLimit      int           `help:"Requests per minute per client IP (0 disables)" default:"0" env:"QUILL_RATE_LIMIT"`
	APIKey         string        `name:"api-key" help:"Require this API key on query endpoints" env:"QUILL_API_KEY"`
	TLSCert        string        `name:"tls-cert" help:"TLS certificate file" type:"path"`
	TLSKey         string        `name:"tls-key" help:"TLS private key file" type:"path"`
}

// config builds the service configuration from the flags.
func (c *ServeCmd) config() api.Config {
	cfg := api.DefaultConfig()
	cfg.Port = c.Port
	cfg.Version = version
	cfg.CacheTTL = c.CacheTTL
	cfg.CacheSize = c.CacheSize
	cfg.MaxQueryBytes = c.MaxQueryBytes
	cfg.AllowedOrigins = c.AllowedOrigins
	cfg.RateLimitRequests = c.RateLimit
	if c.APIKey != "" {
		cfg.Auth = api.AuthConfig{Enabled: true, APIKey: c.APIKey}
	}
	if c.TLSCert != "" || c.TLSKey != "" {
		cfg.TLS = api.TLSConfig{Enabled: true, CertFile: c.TLSCert, KeyFile: c.TLSKey}
	}
	return cfg
}

func (c *ServeCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return api.Start(ctx, c.config())
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Fprintf(stdout, "quill version %s\n", version)
	return nil
}

// sources returns files, or stdin when none are given.
func sources(files []string) []string {
	if len(files) == 0 {
		return []string{"-"}
	}
	return files
}

func displayName(name string) string {
	if name == "-" {
		return "<stdin>"
	}
	return name
}

// readSource reads a query from a file or, for "-", from stdin. Files
// ending in .xz are decompressed.
func readSource(name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", apperrors.NewIO("read", "<stdin>", err)
		}
		return string(data), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return "", apperrors.NewIO("open", name, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(name, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return "", apperrors.NewIO("decompress", name, err)
		}
		r = xr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", apperrors.NewIO("read", name, err)
	}
	return string(data), nil
}

// reportParseFailure prints the rendered diagnostic and returns the
// attributed error.
func reportParseFailure(name, src string, err error) error {
	logging.ParseFailure(context.Background(), displayName(name), len(src), err)
	fmt.Fprintln(stderr, syn.Render(err, src))
	return syn.Attribute(displayName(name), src, err)
}

// setupLogging configures the logger for command. Without an explicit
// level, serve logs at info and the other commands only log errors.
func setupLogging(command, levelName, formatName string) error {
	if levelName == "" {
		levelName = "error"
		if command == "serve" {
			levelName = "info"
		}
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(formatName)
	if err != nil {
		return err
	}
	logging.InitLoggerTo(stderr, level, format)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("quill"),
		kong.Description("quill - query parser, formatter and parse service"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	ctx.FatalIfErrorf(setupLogging(ctx.Command(), CLI.LogLevel, CLI.LogFormat))
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
