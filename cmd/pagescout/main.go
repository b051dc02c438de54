package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pagescout/pagescout"
	"github.com/pagescout/pagescout/crawl"
	"github.com/pagescout/pagescout/goquery"
	pshttp "github.com/pagescout/pagescout/http"
	"github.com/pagescout/pagescout/readability"
	"github.com/pagescout/pagescout/regex"
	"github.com/pagescout/pagescout/rod"
	psslog "github.com/pagescout/pagescout/slog"
	"github.com/pagescout/pagescout/trafilatura"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagescout"),
		kong.Description("In-page search and bounded same-site crawling"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	return kctx.Run(deps)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API server"`
	Crawl   CrawlCmd   `cmd:"" help:"Crawl a site scope and report how many pages were indexed"`
	Search  SearchCmd  `cmd:"" help:"Crawl a site scope and search the indexed pages"`
	Suggest SuggestCmd `cmd:"" help:"Index an HTML file and print suggestions for a query"`
}

// Dependencies holds what every command needs to run.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// fetchFlags are the crawl tuning flags shared by the commands that
// fetch pages.
type fetchFlags struct {
	Render      bool          `help:"Render pages in headless Chrome instead of plain HTTP"`
	Extractor   string        `default:"regex" enum:"regex,goquery,readability,trafilatura" help:"Content extractor to use"`
	MaxPages    int           `default:"60" help:"Maximum pages indexed per crawl session"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent fetch limit"`
	Timeout     time.Duration `short:"t" default:"12s" help:"Fetch timeout per page"`
	Rate        float64       `default:"2" help:"Maximum requests per second per host"`
}

// newCrawlService wires a crawl service from the flags. The returned
// cleanup closes the fetcher.
func (f *fetchFlags) newCrawlService(deps *Dependencies) (pagescout.CrawlService, func(), error) {
	var fetcher pagescout.Fetcher
	if f.Render {
		rodFetcher, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = rodFetcher
	} else {
		fetcher = pshttp.NewFetcher(pshttp.WithTimeout(f.Timeout))
	}
	fetcher = psslog.NewLoggingFetcher(fetcher, deps.Logger)

	var content pagescout.ContentExtractor
	var links pagescout.LinkExtractor = regex.NewLinkExtractor()
	switch f.Extractor {
	case "goquery":
		content = goquery.NewContentExtractor()
		links = goquery.NewLinkExtractor()
	case "readability":
		content = readability.NewExtractor()
	case "trafilatura":
		content = trafilatura.NewExtractor()
	default:
		content = regex.NewContentExtractor()
	}

	sitemaps := psslog.NewLoggingSitemapService(pshttp.NewSitemapService(nil), deps.Logger)

	svc := crawl.NewService(fetcher, content, links,
		crawl.WithHostLimiter(crawl.NewHostLimiter(f.Rate)),
		crawl.WithSitemaps(sitemaps),
		crawl.WithLogger(deps.Logger),
		crawl.WithMaxPages(f.MaxPages),
		crawl.WithWorkers(f.Concurrency),
		crawl.WithFetchTimeout(f.Timeout),
	)

	cleanup := func() {
		if err := fetcher.Close(); err != nil {
			deps.Logger.Error("closing fetcher", slog.Any("error", err))
		}
	}

	return psslog.NewLoggingCrawlService(svc, deps.Logger), cleanup, nil
}
