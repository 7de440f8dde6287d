package types

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Config is the toml node configuration.
type Config struct {
	Title      string           `toml:"title"`
	DB         DBConfig         `toml:"db"`
	RPC        RPCConfig        `toml:"rpc"`
	Chains     []ChainConfig    `toml:"chain"`
	Lottery    LotteryConfig    `toml:"lottery"`
	Prediction PredictionConfig `toml:"prediction"`
}

type DBConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	Cache   int32  `toml:"cache"`
}

type RPCConfig struct {
	Listen string `toml:"listen"`
}

// ChainConfig describes one hosted chain. HostChain fields in the dapp
// sections name the single canonical chain whose rounds accept stakes;
// every other chain relays.
type ChainConfig struct {
	ID string `toml:"id"`
}

type LotteryConfig struct {
	HostChain   string `toml:"host_chain"`
	TicketPrice string `toml:"ticket_price"`
}

type PredictionConfig struct {
	HostChain        string `toml:"host_chain"`
	LeaderboardChain string `toml:"leaderboard_chain"`
}

func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if len(cfg.Chains) == 0 {
		return nil, errors.New("config: no chains defined")
	}
	return &cfg, nil
}

// ParseCoinAmount converts a decimal token string ("1.5") to base units.
func ParseCoinAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(ErrAmount, "parse amount %q", s)
	}
	units := d.Mul(decimal.New(Coin, 0))
	if !units.Equal(units.Truncate(0)) {
		return 0, errors.Wrapf(ErrAmount, "amount %q below base unit precision", s)
	}
	amount := units.IntPart()
	if !CheckAmount(amount) {
		return 0, ErrAmount
	}
	return amount, nil
}
