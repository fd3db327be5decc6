package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"HNSummarizer/internal/config"
	"HNSummarizer/internal/domain"
	"HNSummarizer/internal/ports"
)

// Factory builds a delivery channel from the delivery configuration.
type Factory func(cfg config.DeliveryConfig, log *slog.Logger) (ports.DeliveryChannel, error)

// Registry keeps a mapping from channel names to their factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds or replaces a channel factory under name.
func (r *Registry) Register(name string, factory Factory) {
	if r.factories == nil {
		r.factories = map[string]Factory{}
	}
	r.factories[strings.ToLower(name)] = factory
}

// Resolve returns a channel factory by name or an error if absent.
func (r *Registry) Resolve(name string) (Factory, error) {
	if factory, ok := r.factories[strings.ToLower(name)]; ok {
		return factory, nil
	}
	return nil, fmt.Errorf("unsupported delivery method: %s", name)
}

// Service fans a record batch out to every configured channel.
// Channels are mutually independent: one channel's failure never
// prevents the others from being attempted.
type Service struct {
	channels []ports.DeliveryChannel
	logger   *slog.Logger
}

var _ ports.Deliverer = (*Service)(nil)

// NewService constructs every channel named by cfg.Method. A channel
// whose construction fails (missing credential) is logged and skipped;
// the remaining channels stay usable. Zero usable channels is an error.
func NewService(reg *Registry, cfg config.DeliveryConfig, log *slog.Logger) (*Service, error) {
	methods := cfg.Methods()
	if len(methods) == 0 {
		return nil, fmt.Errorf("no delivery method configured")
	}

	channels := make([]ports.DeliveryChannel, 0, len(methods))
	for _, name := range methods {
		factory, err := reg.Resolve(name)
		if err != nil {
			logWarn(log, "skipping delivery method", "method", name, "error", err)
			continue
		}
		channel, err := factory(cfg, log)
		if err != nil {
			logWarn(log, "delivery channel unusable", "method", name, "error", err)
			continue
		}
		channels = append(channels, channel)
	}

	if len(channels) == 0 {
		return nil, fmt.Errorf("no usable delivery channels among: %s", cfg.Method)
	}

	return &Service{channels: channels, logger: log}, nil
}

// Channels exposes the constructed channel set, mostly for wiring logs.
func (s *Service) Channels() []ports.DeliveryChannel {
	return s.channels
}

// Deliver invokes every channel and returns the logical AND of their
// results. Every channel is always attempted.
func (s *Service) Deliver(ctx context.Context, records []domain.SummaryRecord) bool {
	allOK := true
	for _, channel := range s.channels {
		ok := s.safeSend(ctx, channel, records)
		if ok {
			logInfo(s.logger, "delivery succeeded", "channel", channel.Name(), "records", len(records))
		} else {
			logWarn(s.logger, "delivery failed", "channel", channel.Name())
			allOK = false
		}
	}
	return allOK
}

// safeSend converts a panicking channel into a failed send.
func (s *Service) safeSend(ctx context.Context, channel ports.DeliveryChannel, records []domain.SummaryRecord) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logWarn(s.logger, "delivery channel panicked", "channel", channel.Name(), "panic", r)
			ok = false
		}
	}()
	return channel.Send(ctx, records)
}

func logInfo(log *slog.Logger, msg string, args ...any) {
	if log != nil {
		log.Info(msg, args...)
	}
}

func logWarn(log *slog.Logger, msg string, args ...any) {
	if log != nil {
		log.Warn(msg, args...)
	}
}
