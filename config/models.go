package config

// AppConfig is decoded from the process environment via envconfig, the way
// the teacher's config.AppConfig is. See SPEC_FULL.md §1 - process shape.
type AppConfig struct {
	Workdir string `envconfig:"WORK_DIR"`
	Chain   string `envconfig:"CHAIN" default:"mainnet"`
	// NodeIdPrefix6 names the database file, per spec.md §6. Seed
	// derivation and key management are out of scope (spec.md §1), so the
	// prefix is supplied directly rather than derived from a node key
	// held in this process.
	NodeIdPrefix6 string `envconfig:"NODE_ID_PREFIX"`
	Port          string `envconfig:"PORT" default:"9740"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"4"`
	LogToFile     bool   `envconfig:"LOG_TO_FILE" default:"true"`
	LogDBQueries  bool   `envconfig:"LOG_DB_QUERIES" default:"false"`

	// LspUri is the single trusted peer's connection string, pubkey@host:port,
	// per spec.md §1's "one trusted service provider only".
	LspUri string `envconfig:"LSP_URI"`

	EngineDriver string `envconfig:"ENGINE_DRIVER"`
	EngineDSN    string `envconfig:"ENGINE_DSN"`

	ResolverDriver string `envconfig:"RESOLVER_DRIVER"`
	ResolverDSN    string `envconfig:"RESOLVER_DSN"`

	HttpPasswordPrimary string `envconfig:"HTTP_PASSWORD"`
	HttpPasswordLimited string `envconfig:"HTTP_PASSWORD_LIMITED_ACCESS"`

	WebhookSecret string `envconfig:"WEBHOOK_SECRET"`
	WebhookUrl    string `envconfig:"WEBHOOK_URL"`

	MaxAbsoluteFeeSat   uint64 `envconfig:"MAX_ABSOLUTE_FEE_SAT" default:"40000"`
	MaxRelativeFeeBps   uint32 `envconfig:"MAX_RELATIVE_FEE_BPS" default:"30"`
	MaxAllowedCreditSat uint64 `envconfig:"MAX_ALLOWED_CREDIT_SAT" default:"100000"`
	SkipAbsoluteFeeCheck bool  `envconfig:"SKIP_ABSOLUTE_FEE_CHECK" default:"false"`
}
