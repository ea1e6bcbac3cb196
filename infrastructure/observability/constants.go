package observability

// Metric name prefix
const (
	MetricPrefix = "gemarcade"
)

// Metric names
const (
	// Ledger metrics
	LedgerEntriesTotal = MetricPrefix + ".ledger.entries_total"
	LedgerGemsMoved    = MetricPrefix + ".ledger.gems_moved"

	// Account metrics
	AccountsCreatedTotal = MetricPrefix + ".accounts.created_total"

	// Game metrics
	GameRoundsTotal  = MetricPrefix + ".games.rounds_total"
	GameWageredTotal = MetricPrefix + ".games.wagered_total"
	GamePaidTotal    = MetricPrefix + ".games.paid_total"

	// Jackpot and case metrics
	JackpotSettlementsTotal = MetricPrefix + ".jackpot.settlements_total"
	CasesOpenedTotal        = MetricPrefix + ".cases.opened_total"

	// Transport metrics
	CommandsTotal              = MetricPrefix + ".bot.commands_total"
	RateLimitRejectionsTotal   = MetricPrefix + ".bot.rate_limit_rejections_total"
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// RNG metrics
	RNGDrawsTotal = MetricPrefix + ".rng.draws_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelGame      = "game"
	LabelOutcome   = "outcome"
	LabelStatus    = "status"
	LabelRarity    = "rarity"
	LabelCommand   = "command"
	LabelResult    = "result"
	LabelStream    = "stream"
)
