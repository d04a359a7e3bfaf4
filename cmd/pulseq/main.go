package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/wippyai/pulseq"
	"github.com/wippyai/pulseq/dump"
	"github.com/wippyai/pulseq/grammar"
	"github.com/wippyai/pulseq/internal/config"
	"github.com/wippyai/pulseq/internal/telemetry"
	"github.com/wippyai/pulseq/sequence"
)

var version = "dev"

func main() {
	var (
		format      = flag.String("format", "summary", "Output format: summary, text or yaml")
		interactive = flag.Bool("i", false, "Browse the blocks of one file in a TUI")
		logLevel    = flag.String("log-level", "", "Override PULSEQ_LOG_LEVEL")
		logFormat   = flag.String("log-format", "", "Override PULSEQ_LOG_FORMAT")
		parallel    = flag.Int("parallel", 0, "Override PULSEQ_MAX_PARALLEL")
	)
	flag.Parse()
	files := flag.Args()

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: pulseq [-format summary|text|yaml] [-parallel N] <file.seq>...")
		fmt.Fprintln(os.Stderr, "       pulseq -i <file.seq>  (interactive mode)")
		os.Exit(1)
	}

	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if *parallel > 0 {
		cfg.MaxParallel = *parallel
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *interactive {
		if len(files) != 1 {
			fmt.Fprintln(os.Stderr, "Error: interactive mode takes exactly one file")
			os.Exit(1)
		}
		if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
	}

	if err := run(ctx, cfg, files, *format, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, files []string, format string, interactive bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !validFormat(format) {
		return fmt.Errorf("unknown format %q", format)
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	grammar.SetLogger(logger.Named("grammar"))
	sequence.SetLogger(logger.Named("sequence"))

	shutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return err
	}
	defer func() {
		if serr := shutdown(context.Background()); serr != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(serr))
		}
	}()

	if interactive {
		return runInteractive(ctx, files[0])
	}

	seqs, err := decodeAll(ctx, files, cfg.MaxParallel)
	if err != nil {
		return err
	}
	logger.Debug("decoded", zap.Int("files", len(files)))

	return render(os.Stdout, format, files, seqs, isTerminal(os.Stdout))
}

// decodeAll decodes files concurrently, at most limit at a time. The result
// keeps the order of files.
func decodeAll(ctx context.Context, files []string, limit int) ([]*sequence.Sequence, error) {
	seqs := make([]*sequence.Sequence, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range files {
		g.Go(func() error {
			seq, err := pulseq.DecodeFile(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			seqs[i] = seq
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return seqs, nil
}

func render(w io.Writer, format string, files []string, seqs []*sequence.Sequence, styled bool) error {
	for i, seq := range seqs {
		var err error
		switch format {
		case "summary":
			_, err = io.WriteString(w, summary(files[i], seq, styled))
		case "text":
			if len(seqs) > 1 {
				fmt.Fprintf(w, "==> %s <==\n", files[i])
			}
			err = dump.Text(w, seq)
		case "yaml":
			if i > 0 {
				_, err = io.WriteString(w, "---\n")
			}
			if err == nil {
				err = dump.YAML(w, seq)
			}
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", files[i], err)
		}
	}
	return nil
}

func validFormat(format string) bool {
	switch format {
	case "summary", "text", "yaml":
		return true
	}
	return false
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var zcfg zap.Config
	if format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
