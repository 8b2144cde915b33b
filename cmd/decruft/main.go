package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/vishalsodani/decruft"
	"github.com/vishalsodani/decruft/bloom"
	"github.com/vishalsodani/decruft/bluemonday"
	"github.com/vishalsodani/decruft/chardet"
	"github.com/vishalsodani/decruft/etree"
	"github.com/vishalsodani/decruft/fs"
	"github.com/vishalsodani/decruft/goquery"
	"github.com/vishalsodani/decruft/htmltomarkdown"
	dhttp "github.com/vishalsodani/decruft/http"
	"github.com/vishalsodani/decruft/pipeline"
	"github.com/vishalsodani/decruft/readability"
	"github.com/vishalsodani/decruft/repair"
	dslog "github.com/vishalsodani/decruft/slog"
	"github.com/vishalsodani/decruft/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin is read for the "-" input.
	Stdin io.Reader

	// Fetcher retrieves URL inputs. Built from flags when nil.
	Fetcher decruft.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin: os.Stdin,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("decruft"),
		kong.Description("Extract a clean title and body from messy HTML"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no inputs provided")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	decoder := chardet.NewDecoder()
	attrs := repair.NewAttributeStripper()
	verifier := goquery.NewVerifier()
	pl := &pipeline.Pipeline{
		Decoder:    decoder,
		Repairer:   repair.NewEngine(),
		Parser:     goquery.NewParser(),
		Attributes: attrs,
		Verifier:   verifier,
		Logger:     logger,
	}

	var ext decruft.Extractor
	switch cli.Engine {
	case EngineReadability:
		ext = readability.NewExtractor(decoder, attrs,
			readability.WithVerifier(verifier),
			readability.WithLogger(logger),
		)
	case EngineTrafilatura:
		ext = trafilatura.NewExtractor(decoder, attrs,
			trafilatura.WithVerifier(verifier),
			trafilatura.WithLogger(logger),
		)
	default:
		ext = pl
	}
	if cli.Format == FormatTitle && cli.Engine == EngineDecruft {
		ext = &titleExtractor{pipeline: pl, logger: logger}
	}
	deps.Extractor = dslog.NewLoggingExtractor(ext, logger)

	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = dhttp.NewFetcher(
			dhttp.WithTimeout(cli.Timeout),
			dhttp.WithLimiter(dhttp.NewDomainLimiter(cli.Rate, 1)),
			dhttp.WithRetryDelays(dhttp.DefaultRetryDelays()),
		)
	}
	deps.Fetcher = dslog.NewLoggingFetcher(fetcher, logger)
	defer deps.Fetcher.Close()

	deps.Converter = htmltomarkdown.NewConverter()
	deps.FeedWriter = etree.NewFeedWriter()
	deps.Sanitizer = bluemonday.NewSanitizer()
	if cli.OutputDir != "" {
		suffix := ".html"
		switch cli.Format {
		case FormatMarkdown:
			suffix = ".md"
		case FormatHTML:
		default:
			return fmt.Errorf("--output-dir requires the html or markdown format")
		}
		deps.Store = fs.NewFileStore(cli.OutputDir, suffix)
	}
	if cli.Dedup {
		deps.Seen = bloom.NewFilter(bloom.DefaultExpectedItems, bloom.DefaultFalsePositive)
	}

	cmd := &ExtractCmd{
		Inputs:      cli.Inputs,
		BaseHref:    cli.BaseHref,
		Format:      cli.Format,
		Concurrency: cli.Concurrency,
		FeedTitle:   cli.FeedTitle,
		FeedLink:    cli.FeedLink,
	}
	return cmd.Run(deps)
}

// titleExtractor parses documents for their title only, leaving the body
// untouched.
type titleExtractor struct {
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

func (e *titleExtractor) Extract(in *decruft.Input) (*decruft.ExtractResult, error) {
	if len(in.Raw) == 0 {
		return nil, decruft.Errorf(decruft.EINVALID, "empty HTML input")
	}
	doc, charset, err := e.pipeline.ParseInput(in, dslog.Notify(e.logger, "url", in.BaseHref))
	if err != nil {
		return nil, err
	}
	title, _ := e.pipeline.Title(doc)
	return &decruft.ExtractResult{
		Title:     title,
		Charset:   charset,
		SourceURL: in.BaseHref,
	}, nil
}
