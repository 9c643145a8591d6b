package headshot

import (
	"context"
	"errors"
	"time"

	"headshot/internal/domain"
	"headshot/internal/imagegen"
	"headshot/internal/infra"
	"headshot/internal/metrics"
	"headshot/internal/providers/prompt"
)

// ImageEditor is the image edit dispatcher.
type ImageEditor interface {
	EditImage(ctx context.Context, image []byte, mimeType, instruction string) (*domain.ImageResult, error)
}

type Options struct {
	Editor    ImageEditor
	Completer prompt.Completer
	Logger    *infra.Logger
	Metrics   *metrics.Collector

	// ImageProvider and TextProvider label metrics and logs.
	ImageProvider string
	TextProvider  string

	MaxImageBytes  int
	MaxCustomRunes int
}

// Service composes instructions and performs exactly one dispatch per call.
type Service struct {
	editor         ImageEditor
	completer      prompt.Completer
	logger         *infra.Logger
	metrics        *metrics.Collector
	imageProvider  string
	textProvider   string
	maxImageBytes  int
	maxCustomRunes int
}

func NewService(opts Options) *Service {
	s := &Service{
		editor:         opts.Editor,
		completer:      opts.Completer,
		logger:         infra.DiscardLogger(opts.Logger),
		metrics:        opts.Metrics,
		imageProvider:  opts.ImageProvider,
		textProvider:   opts.TextProvider,
		maxImageBytes:  opts.MaxImageBytes,
		maxCustomRunes: opts.MaxCustomRunes,
	}
	if s.imageProvider == "" {
		s.imageProvider = "gemini"
	}
	if s.textProvider == "" {
		s.textProvider = "openrouter"
	}
	if s.maxImageBytes <= 0 {
		s.maxImageBytes = imagegen.MaxImageBytes
	}
	if s.maxCustomRunes <= 0 {
		s.maxCustomRunes = imagegen.MaxCustomTextRunes
	}
	return s
}

// GenerateHeadshot validates the request, renders the instruction and sends
// one image edit. Validation failures never reach the provider.
func (s *Service) GenerateHeadshot(ctx context.Context, req domain.GenerationRequest) (*domain.ImageResult, error) {
	mimeType, err := imagegen.ValidateSource(req.Image, req.MIMEType, s.maxImageBytes)
	if err != nil {
		return nil, err
	}
	if err := imagegen.ValidateCustomText(req.CustomText, s.maxCustomRunes); err != nil {
		return nil, err
	}
	if s.editor == nil {
		return nil, domain.NewConfigurationError(s.imageProvider, "no image editor configured")
	}
	req.MIMEType = mimeType
	instruction := imagegen.BuildInstruction(req)

	s.logger.Debug().
		Str("style", string(req.Style)).
		Str("background", string(req.Background)).
		Bool("custom", req.CustomText != "").
		Int("image_bytes", len(req.Image)).
		Msg("headshot: dispatching image edit")

	start := time.Now()
	res, err := s.editor.EditImage(ctx, req.Image, mimeType, instruction)
	s.record(s.imageProvider, metrics.ModeImageEdit, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CompleteText forwards one prompt to the text dispatcher.
func (s *Service) CompleteText(ctx context.Context, req prompt.CompletionRequest) (*prompt.Completion, error) {
	if s.completer == nil {
		return nil, domain.NewConfigurationError(s.textProvider, "no completer configured")
	}
	start := time.Now()
	res, err := s.completer.Complete(ctx, req)
	if errors.Is(err, domain.ErrValidation) {
		return nil, err
	}
	s.record(s.textProvider, metrics.ModeText, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	if res.FallbackReason != "" {
		s.metrics.RecordFallback(res.FallbackReason)
	}
	return res, nil
}

func (s *Service) record(provider, mode string, err error, elapsed time.Duration) {
	if err == nil {
		s.metrics.RecordDispatch(provider, mode, metrics.OutcomeSuccess, elapsed)
		return
	}
	kind := domain.KindOf(err)
	outcome := string(kind)
	if outcome == "" {
		outcome = "unknown"
	}
	s.metrics.RecordDispatch(provider, mode, outcome, elapsed)

	event := s.logger.Warn().Err(err).Str("provider", provider).Str("mode", mode).Str("kind", outcome)
	var derr *domain.Error
	if errors.As(err, &derr) && derr.StatusCode != 0 {
		event = event.Int("status_code", derr.StatusCode)
	}
	event.Dur("elapsed", elapsed).Msg("headshot: dispatch failed")
}

// Run drives a tracker through one generation, for callers that surface
// progress to a user.
func (s *Service) Run(ctx context.Context, tracker *domain.Tracker, req domain.GenerationRequest) (*domain.ImageResult, error) {
	var res *domain.ImageResult
	err := tracker.Run(func() error {
		var err error
		res, err = s.GenerateHeadshot(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
