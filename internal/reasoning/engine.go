package reasoning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/bioclassify/taric/internal/config"
)

type engine struct {
	cfg     config.EngineConfig
	logger  *slog.Logger
	limiter *rate.Limiter

	mu     sync.Mutex
	client *genai.Client
}

// New creates a Gemini-backed reasoning engine. The underlying client is
// created on first use so a missing API key surfaces as ErrNotConfigured
// at request time rather than failing startup.
func New(cfg config.EngineConfig, logger *slog.Logger) System {
	perSecond := rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)

	return &engine{
		cfg:     cfg,
		logger:  logger.With("system", "reasoning"),
		limiter: rate.NewLimiter(perSecond, cfg.Burst),
	}
}

func (e *engine) Complete(ctx context.Context, system, user string) (string, error) {
	client, err := e.connect(ctx)
	if err != nil {
		return "", err
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return "", mapContextErr(err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.TimeoutDuration())
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(user, genai.RoleUser),
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(e.cfg.Temperature)),
		TopP:            genai.Ptr(float32(e.cfg.TopP)),
		MaxOutputTokens: int32(e.cfg.MaxOutputTokens),
	}
	if system != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	started := time.Now()
	resp, err := client.Models.GenerateContent(ctx, e.cfg.Model, contents, genCfg)
	if err != nil {
		return "", e.mapAPIErr(err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}

	e.logger.Debug("completion received",
		"model", e.cfg.Model,
		"elapsed", time.Since(started),
	)

	return text, nil
}

func (e *engine) connect(ctx context.Context) (*genai.Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		return e.client, nil
	}

	if e.cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: e.cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create reasoning client: %w", err)
	}

	e.client = client
	return client, nil
}

func (e *engine) mapAPIErr(err error) error {
	if ctxErr := mapContextErr(err); ctxErr != err {
		return ctxErr
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
		case apiErr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %s", ErrUnavailable, apiErr.Message)
		}
	}

	e.logger.Error("completion failed", "error", err)
	return fmt.Errorf("generate completion: %w", err)
}

func mapContextErr(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		return err
	}
}
