package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"headshot/internal/domain"
	"headshot/internal/headshot"
	"headshot/internal/infra"
	"headshot/internal/providers/prompt"
	"headshot/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		inFlag         string
		styleFlag      string
		backgroundFlag string
		customFlag     string
		outFlag        string
		promptFlag     string
		modelFlag      string
	)
	flag.StringVar(&inFlag, "in", "", "Path to the selfie (JPG or PNG)")
	flag.StringVar(&styleFlag, "style", string(domain.DefaultStyle), "Attire preset: startup, corporate, minimalist or creative")
	flag.StringVar(&backgroundFlag, "background", string(domain.DefaultBackground), "Backdrop preset: office, studio, bokeh or gradient")
	flag.StringVar(&customFlag, "custom", "", "Optional adjustments, e.g. \"Remove my glasses\"")
	flag.StringVar(&outFlag, "out", ".", "Directory the headshot is written to")
	flag.StringVar(&promptFlag, "prompt", "", "Run a single text completion instead of generating a headshot")
	flag.StringVar(&modelFlag, "model", "", "Override the text completion model")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "headshot").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := headshot.NewFromConfig(ctx, cfg, &logger, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		return 1
	}

	if strings.TrimSpace(promptFlag) != "" {
		return runCompletion(ctx, svc, promptFlag, modelFlag)
	}
	if strings.TrimSpace(inFlag) == "" {
		fmt.Fprintln(os.Stderr, "-in is required (or use -prompt for text mode)")
		flag.Usage()
		return 2
	}
	return runHeadshot(ctx, svc, inFlag, styleFlag, backgroundFlag, customFlag, outFlag)
}

func runCompletion(ctx context.Context, svc *headshot.Service, text, model string) int {
	res, err := svc.CompleteText(ctx, prompt.CompletionRequest{Prompt: text, Model: model})
	if err != nil {
		fmt.Fprintf(os.Stderr, "completion failed: %v\n", err)
		return exitCode(err)
	}
	if res.FallbackReason != "" {
		fmt.Fprintf(os.Stderr, "note: fallback answer (%s)\n", res.FallbackReason)
	}
	fmt.Println(res.Text)
	return 0
}

func runHeadshot(ctx context.Context, svc *headshot.Service, in, style, background, custom, out string) int {
	tracker := domain.NewTracker()
	report := func() {
		status, cause := tracker.Status()
		if cause != nil {
			fmt.Fprintf(os.Stderr, "status: %s (%v)\n", status, cause)
			return
		}
		fmt.Fprintf(os.Stderr, "status: %s\n", status)
	}

	if err := tracker.MarkUploading(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	report()
	data, err := os.ReadFile(in)
	if err != nil {
		tracker.Fail(err)
		report()
		return 1
	}

	store, err := storage.NewFileStore(out)
	if err != nil {
		tracker.Fail(err)
		report()
		return 1
	}

	req := domain.GenerationRequest{
		Image:      data,
		Style:      domain.ParseStyle(style),
		Background: domain.ParseBackground(background),
		CustomText: custom,
	}
	if !req.Style.Known() || !req.Background.Known() {
		fmt.Fprintf(os.Stderr, "warning: unknown preset %q/%q, using generic attire or backdrop\n", req.Style, req.Background)
	}

	fmt.Fprintln(os.Stderr, "status: processing")
	res, err := svc.Run(ctx, tracker, req)
	report()
	if err != nil {
		return exitCode(err)
	}

	path, err := store.SaveHeadshot(ctx, req.Style, res)
	if err != nil {
		fmt.Fprintf(os.Stderr, "save: %v\n", err)
		return 1
	}
	fmt.Println(path)
	return 0
}

// exitCode separates caller mistakes (2) and missing setup (3) from provider
// failures (1).
func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return 2
	case errors.Is(err, domain.ErrConfiguration):
		return 3
	default:
		return 1
	}
}
