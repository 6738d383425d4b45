package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/lightningco/nodecore/liquidity"
	"github.com/lightningco/nodecore/utils"
)

// Config is the immutable, process-wide configuration value named in
// spec.md §9 ("Global-ish state... localize them behind a single immutable
// configuration value"), plus the one piece of mutable state it legitimately
// hosts: the liquidity policy cell (spec.md §5 - "held behind a
// single-writer, many-reader cell").
type Config struct {
	env        *AppConfig
	workdir    string
	policy     *liquidity.Cell
	lspPubkey  string
	lspHost    string
}

// NewConfig resolves the data directory (defaulting to xdg.DataHome/phoenix,
// the way the teacher's service.NewService defaults Workdir to
// xdg.DataHome/lokihub), parses the single trusted peer's URI, and
// constructs the liquidity policy cell from env.
func NewConfig(env *AppConfig) (*Config, error) {
	workdir := env.Workdir
	if workdir == "" {
		workdir = filepath.Join(xdg.DataHome, "phoenix")
	}

	lspPubkey, lspHost, err := utils.ParseLSPURI(env.LspUri)
	if err != nil {
		return nil, err
	}

	bounds := liquidity.Bounds{
		MaxAbsoluteFeeSat:    env.MaxAbsoluteFeeSat,
		MaxRelativeFeeBps:    env.MaxRelativeFeeBps,
		MaxAllowedCreditSat:  env.MaxAllowedCreditSat,
		SkipAbsoluteFeeCheck: env.SkipAbsoluteFeeCheck,
	}

	return &Config{
		env:       env,
		workdir:   workdir,
		policy:    liquidity.NewCell(liquidity.Policy{Bounds: bounds}),
		lspPubkey: lspPubkey,
		lspHost:   lspHost,
	}, nil
}

func (c *Config) Env() *AppConfig { return c.env }

func (c *Config) Workdir() string { return c.workdir }

// LspPubkey and LspHost are the parsed halves of AppConfig.LspUri.
func (c *Config) LspPubkey() string { return c.lspPubkey }
func (c *Config) LspHost() string   { return c.lspHost }

// Policy returns the single-writer/many-reader liquidity policy cell built
// at startup and read by the peer supervisor; no HTTP route replaces it.
func (c *Config) Policy() *liquidity.Cell { return c.policy }

// DatabasePath builds the per-node database filename named in spec.md §6:
// "phoenix.<chain>.<nodeIdPrefix6>.db".
func (c *Config) DatabasePath(nodeIdPrefix6 string) string {
	return filepath.Join(c.workdir, "phoenix."+c.env.Chain+"."+nodeIdPrefix6+".db")
}

// ExportsDir is the CSV exports subdirectory named in spec.md §6.
func (c *Config) ExportsDir() string {
	return filepath.Join(c.workdir, "exports")
}
