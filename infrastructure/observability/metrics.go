package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gemarcade/config"
	"gemarcade/events"
	"gemarcade/rng"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// MetricsProvider manages OpenTelemetry metrics for the arcade
type MetricsProvider struct {
	config        *config.Config
	reader        sdkmetric.Reader
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	// Metric instruments
	ledgerEntriesCounter       metric.Int64Counter
	ledgerGemsCounter          metric.Int64Counter
	accountsCreatedCounter     metric.Int64Counter
	gameRoundsCounter          metric.Int64Counter
	gameWageredCounter         metric.Int64Counter
	gamePaidCounter            metric.Int64Counter
	jackpotSettlementsCounter  metric.Int64Counter
	casesOpenedCounter         metric.Int64Counter
	commandsCounter            metric.Int64Counter
	rateLimitRejectionsCounter metric.Int64Counter
	natsPublishedCounter       metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// NewMetricsProviderWithReader creates a provider that exports through the
// given reader instead of the configured exporter
func NewMetricsProviderWithReader(cfg *config.Config, reader sdkmetric.Reader) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
		reader: reader,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	reader := mp.reader
	if reader == nil {
		var exporter sdkmetric.Exporter
		switch mp.config.OTelExporterType {
		case "console":
			exporter, err = stdoutmetric.New()
			if err != nil {
				return fmt.Errorf("failed to create console exporter: %w", err)
			}
			log.Info("Using console metric exporter")

		case "otlp":
			dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			exporter, err = otlpmetricgrpc.New(dialCtx,
				otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
				otlpmetricgrpc.WithInsecure(),
			)
			if err != nil {
				return fmt.Errorf("failed to create OTLP exporter: %w", err)
			}
			log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

		case "none":
			log.Info("Metrics export disabled (exporter_type='none')")
			mp.initialized = true
			return nil

		default:
			return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
		}

		reader = sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
		)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	if mp.reader == nil {
		otel.SetMeterProvider(mp.meterProvider)
	}
	mp.meter = mp.meterProvider.Meter(MetricPrefix)

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

func (mp *MetricsProvider) createInstruments() error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&mp.ledgerEntriesCounter, LedgerEntriesTotal, "Total number of committed ledger entries", "1"},
		{&mp.ledgerGemsCounter, LedgerGemsMoved, "Absolute gems moved by committed ledger entries", "{gem}"},
		{&mp.accountsCreatedCounter, AccountsCreatedTotal, "Total number of accounts opened", "1"},
		{&mp.gameRoundsCounter, GameRoundsTotal, "Total number of finished game rounds", "1"},
		{&mp.gameWageredCounter, GameWageredTotal, "Gems staked on finished game rounds", "{gem}"},
		{&mp.gamePaidCounter, GamePaidTotal, "Gems paid out on finished game rounds", "{gem}"},
		{&mp.jackpotSettlementsCounter, JackpotSettlementsTotal, "Total number of jackpot rounds closed or settled", "1"},
		{&mp.casesOpenedCounter, CasesOpenedTotal, "Total number of cases opened", "1"},
		{&mp.commandsCounter, CommandsTotal, "Total number of bot commands handled", "1"},
		{&mp.rateLimitRejectionsCounter, RateLimitRejectionsTotal, "Total number of actions rejected by the rate limiter", "1"},
		{&mp.natsPublishedCounter, NATSMessagesPublishedTotal, "Total number of NATS messages published", "1"},
	}

	for _, c := range counters {
		counter, err := mp.meter.Int64Counter(c.name,
			metric.WithDescription(c.description),
			metric.WithUnit(c.unit),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.target = counter
	}
	return nil
}

// Subscribe records committed events from the bus
func (mp *MetricsProvider) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, mp.handleEvent)
	bus.Subscribe(events.EventTypeAccountCreated, mp.handleEvent)
	bus.Subscribe(events.EventTypeGameRoundCompleted, mp.handleEvent)
	bus.Subscribe(events.EventTypeJackpotSettled, mp.handleEvent)
	bus.Subscribe(events.EventTypeCaseOpened, mp.handleEvent)
}

func (mp *MetricsProvider) handleEvent(ctx context.Context, event events.Event) {
	if !mp.isEnabled() {
		return
	}

	switch e := event.(type) {
	case events.BalanceChangeEvent:
		attrs := metric.WithAttributes(attribute.String(LabelType, string(e.TransactionType)))
		amount := e.ChangeAmount
		if amount < 0 {
			amount = -amount
		}
		mp.ledgerEntriesCounter.Add(ctx, 1, attrs)
		mp.ledgerGemsCounter.Add(ctx, amount, attrs)
	case events.AccountCreatedEvent:
		mp.accountsCreatedCounter.Add(ctx, 1)
	case events.GameRoundCompletedEvent:
		game := attribute.String(LabelGame, string(e.Game))
		mp.gameRoundsCounter.Add(ctx, 1, metric.WithAttributes(game, attribute.String(LabelOutcome, e.Outcome)))
		mp.gameWageredCounter.Add(ctx, e.Bet, metric.WithAttributes(game))
		mp.gamePaidCounter.Add(ctx, e.Payout, metric.WithAttributes(game))
	case events.JackpotSettledEvent:
		mp.jackpotSettlementsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelStatus, string(e.Status))))
	case events.CaseOpenedEvent:
		mp.casesOpenedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelRarity, e.Rarity)))
	}
}

// DrawCounter reports cumulative draws per RNG stream. *rng.Service implements it.
type DrawCounter interface {
	Draws(stream rng.Stream) uint64
}

// ObserveRNGDraws exports counter's per-stream totals on every collection
func (mp *MetricsProvider) ObserveRNGDraws(counter DrawCounter, streams []rng.Stream) error {
	if !mp.isEnabled() {
		return nil
	}

	mp.mu.RLock()
	meter := mp.meter
	mp.mu.RUnlock()

	_, err := meter.Int64ObservableCounter(RNGDrawsTotal,
		metric.WithDescription("Total number of values drawn from the RNG"),
		metric.WithUnit("1"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			for _, stream := range streams {
				o.Observe(int64(counter.Draws(stream)), metric.WithAttributes(attribute.String(LabelStream, string(stream))))
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s counter: %w", RNGDrawsTotal, err)
	}
	return nil
}

// RecordCommand records a handled bot command and its result
func (mp *MetricsProvider) RecordCommand(command, result string) {
	if !mp.isEnabled() {
		return
	}
	mp.commandsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelCommand, command),
			attribute.String(LabelResult, result),
		),
	)
}

// RecordRateLimited records an action rejected by the rate limiter
func (mp *MetricsProvider) RecordRateLimited(action string) {
	if !mp.isEnabled() {
		return
	}
	mp.rateLimitRejectionsCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelType, action)),
	)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}
	mp.natsPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, eventType)),
	)
}

// Shutdown flushes and stops the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.enabled = false
	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// isEnabled checks if instruments exist and have not been shut down
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.enabled
}
