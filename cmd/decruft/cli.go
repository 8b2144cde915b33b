package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/vishalsodani/decruft"
	"github.com/vishalsodani/decruft/pipeline"
	"golang.org/x/sync/errgroup"
)

// Extraction engines.
const (
	EngineDecruft     = "decruft"
	EngineReadability = "readability"
	EngineTrafilatura = "trafilatura"
)

// Output formats.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatRSS      = "rss"
	FormatTitle    = "title"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Inputs      []string      `arg:"" name:"input" help:"HTML files, http(s) URLs, or - for stdin"`
	BaseHref    string        `name:"base-href" env:"DECRUFT_BASE_HREF" help:"URL relative links resolve against (default: the fetched URL)"`
	Engine      string        `short:"e" enum:"decruft,readability,trafilatura" default:"decruft" env:"DECRUFT_ENGINE" help:"Extraction engine"`
	Format      string        `short:"f" enum:"html,markdown,rss,title" default:"html" env:"DECRUFT_FORMAT" help:"Output format"`
	Concurrency int           `short:"c" default:"3" env:"DECRUFT_CONCURRENCY" help:"Documents processed concurrently"`
	Timeout     time.Duration `short:"t" default:"10s" env:"DECRUFT_TIMEOUT" help:"Fetch timeout per URL"`
	Rate        float64       `default:"1" env:"DECRUFT_RATE" help:"Requests per second per host (0 disables limiting)"`
	Dedup       bool          `env:"DECRUFT_DEDUP" help:"Skip documents whose cleaned body was already written"`
	FeedTitle   string        `name:"feed-title" default:"decruft" env:"DECRUFT_FEED_TITLE" help:"Channel title for rss output"`
	FeedLink    string        `name:"feed-link" env:"DECRUFT_FEED_LINK" help:"Channel link for rss output"`
	OutputDir   string        `short:"o" name:"output-dir" type:"path" env:"DECRUFT_OUTPUT_DIR" help:"Write one file per document into this directory (html and markdown formats)"`
	Verbose     bool          `short:"v" env:"DECRUFT_VERBOSE" help:"Log debug detail to stderr"`
}

// Deduper records content hashes and reports repeats.
type Deduper interface {
	Seen(key string) bool
	EstimatedCount() uint
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Extractor  decruft.Extractor
	Fetcher    decruft.Fetcher
	Converter  decruft.Converter
	FeedWriter decruft.FeedWriter

	// Sanitizer cleans item descriptions in rss output. Optional.
	Sanitizer decruft.Sanitizer

	// Store is nil when output goes to Stdout.
	Store decruft.PageStore

	// Seen is nil unless de-duplication is enabled.
	Seen Deduper
}

// ExtractCmd loads every input, extracts it and writes the results.
type ExtractCmd struct {
	Inputs      []string
	BaseHref    string
	Format      string
	Concurrency int
	FeedTitle   string
	FeedLink    string
}

// extracted pairs a result with the input it came from.
type extracted struct {
	name   string
	result *decruft.ExtractResult
}

// Run executes the command. Inputs that fail are logged and skipped; the
// returned error reports how many failed.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	loaded, loadErrs := c.load(deps)

	failed := 0
	var pending []*decruft.Input
	var names []string
	for i, err := range loadErrs {
		if err != nil {
			failed++
			deps.Logger.Error("load failed", "input", c.Inputs[i], "err", err)
			continue
		}
		pending = append(pending, loaded[i])
		names = append(names, c.Inputs[i])
	}

	var docs []*extracted
	var skipped int
	for i, r := range pipeline.ExtractAll(deps.Ctx, deps.Extractor, pending, c.Concurrency) {
		if r.Err != nil {
			failed++
			continue
		}
		out := r.Output
		if out.ContentHash == "" {
			out.ContentHash = pipeline.ComputeHash(out.ContentHTML)
		}
		if deps.Seen != nil && c.Format != FormatTitle && deps.Seen.Seen(out.ContentHash) {
			deps.Logger.Info("duplicate skipped", "input", names[i], "hash", out.ContentHash)
			skipped++
			continue
		}
		docs = append(docs, &extracted{name: names[i], result: out})
	}
	if deps.Seen != nil && c.Format != FormatTitle {
		deps.Logger.Info("dedup", "distinct", deps.Seen.EstimatedCount(), "skipped", skipped)
	}

	if deps.Store != nil {
		if err := c.store(deps, docs); err != nil {
			return err
		}
	} else if err := c.write(deps, docs); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(c.Inputs))
	}
	return nil
}

// load reads every input concurrently. Results and errors are indexed like
// c.Inputs.
func (c *ExtractCmd) load(deps *Dependencies) ([]*decruft.Input, []error) {
	inputs := make([]*decruft.Input, len(c.Inputs))
	errs := make([]error, len(c.Inputs))

	var g errgroup.Group
	g.SetLimit(max(c.Concurrency, 1))
	for i, name := range c.Inputs {
		g.Go(func() error {
			inputs[i], errs[i] = c.loadInput(deps, name)
			return nil
		})
	}
	_ = g.Wait()

	return inputs, errs
}

func (c *ExtractCmd) loadInput(deps *Dependencies, name string) (*decruft.Input, error) {
	switch {
	case name == "-":
		raw, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return &decruft.Input{Raw: raw, BaseHref: c.BaseHref}, nil

	case strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://"):
		resp, err := deps.Fetcher.Fetch(deps.Ctx, name)
		if err != nil {
			return nil, err
		}
		base := c.BaseHref
		if base == "" {
			base = resp.URL
		}
		return &decruft.Input{Raw: resp.Body, ContentType: resp.ContentType, BaseHref: base}, nil

	default:
		raw, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		return &decruft.Input{Raw: raw, BaseHref: c.BaseHref}, nil
	}
}

func (c *ExtractCmd) write(deps *Dependencies, docs []*extracted) error {
	switch c.Format {
	case FormatTitle:
		for _, doc := range docs {
			fmt.Fprintln(deps.Stdout, doc.result.Title)
		}

	case FormatMarkdown:
		var written bool
		for _, doc := range docs {
			md, ok, err := c.render(deps, doc.result)
			if err != nil {
				return fmt.Errorf("converting %s: %w", doc.name, err)
			} else if !ok {
				continue
			}
			if written {
				fmt.Fprintln(deps.Stdout)
			}
			fmt.Fprintln(deps.Stdout, md)
			written = true
		}

	case FormatRSS:
		feed := &decruft.Feed{
			Title: c.FeedTitle,
			Link:  c.FeedLink,
		}
		for _, doc := range docs {
			description := doc.result.ContentHTML
			if deps.Sanitizer != nil {
				description = deps.Sanitizer.Sanitize(description)
			}
			feed.Items = append(feed.Items, &decruft.FeedItem{
				Title:       doc.result.Title,
				Link:        doc.result.SourceURL,
				Description: description,
				ContentHash: doc.result.ContentHash,
			})
		}
		return deps.FeedWriter.WriteFeed(deps.Stdout, feed)

	default:
		for _, doc := range docs {
			fmt.Fprintln(deps.Stdout, doc.result.ContentHTML)
		}
	}
	return nil
}

// store saves one page per document and commits them together. Any save
// failure discards the whole batch.
func (c *ExtractCmd) store(deps *Dependencies, docs []*extracted) error {
	for _, doc := range docs {
		content, ok, err := c.render(deps, doc.result)
		if err == nil && !ok {
			continue
		}
		if err == nil {
			err = deps.Store.Save(deps.Ctx, &decruft.Page{
				Name:      doc.name,
				SourceURL: doc.result.SourceURL,
				Title:     doc.result.Title,
				Content:   content,
			})
		}
		if err != nil {
			if abortErr := deps.Store.Abort(); abortErr != nil {
				deps.Logger.Error("abort failed", "err", abortErr)
			}
			return fmt.Errorf("saving %s: %w", doc.name, err)
		}
	}
	return deps.Store.Commit()
}

// render returns the document in the html or markdown format. ok is false
// when there is nothing to render.
func (c *ExtractCmd) render(deps *Dependencies, doc *decruft.ExtractResult) (string, bool, error) {
	if c.Format != FormatMarkdown {
		return doc.ContentHTML, true, nil
	}
	md, err := deps.Converter.Convert(doc.ContentHTML)
	if decruft.ErrorCode(err) == decruft.EINVALID {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	if doc.Title != "" {
		md = "# " + doc.Title + "\n\n" + md
	}
	return md, true, nil
}
