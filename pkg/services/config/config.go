package config

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"

	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
)

// Dest is one report's destination range and update policy.
type Dest struct {
	RangeName string `mapstructure:"range_name"`
	Policy    string `mapstructure:"policy"`
}

// MultiDest holds parallel range/policy lists for the selections that
// place two reports side by side on one sheet.
type MultiDest struct {
	RangeNames []string `mapstructure:"range_names"`
	Policies   []string `mapstructure:"policies"`
}

// RevenueReports configures the revenue spreadsheet's destinations.
type RevenueReports struct {
	GID           string    `mapstructure:"gid"`
	DonHang       Dest      `mapstructure:"don_hang"`
	ChoHangTonKho MultiDest `mapstructure:"cho_hang_ton_kho"`
	KhuVuc        MultiDest `mapstructure:"khu_vuc"`
}

// OrderShop is the per-shop destination spreadsheet of the order flow.
type OrderShop struct {
	GID string `mapstructure:"gid"`
}

// OrderReports configures the order spreadsheets' destinations.
type OrderReports struct {
	Shops       map[string]OrderShop `mapstructure:"shops"`
	Pos         Dest                 `mapstructure:"pos"`
	ChoHang     Dest                 `mapstructure:"cho_hang"`
	TonKho      Dest                 `mapstructure:"ton_kho"`
	DonHangGHTK Dest                 `mapstructure:"don_hang_ghtk"`
	DonHangVTP  Dest                 `mapstructure:"don_hang_vtp"`
}

// Reports groups the two flows' destination settings.
type Reports struct {
	Revenue RevenueReports `mapstructure:"revenue"`
	Order   OrderReports   `mapstructure:"order"`
}

// Shop is one configured Pancake shop.
type Shop struct {
	ID     int64  `mapstructure:"id"`
	Name   string `mapstructure:"name"`
	APIKey string `mapstructure:"api_key"`
}

// Config is the whole exporter configuration, loaded once at startup
// and passed into constructors; nothing reads it ambiently.
type Config struct {
	Endpoint string          `mapstructure:"endpoint"`
	Shops    map[string]Shop `mapstructure:"shops"`
	Reports  Reports         `mapstructure:"reports"`
}

// Load reads and decodes the YAML configuration at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// DomainShops maps the configured shops to domain values, sorted by
// shop code so runs process shops in a stable order.
func (c *Config) DomainShops() []domain.Shop {
	shops := make([]domain.Shop, 0, len(c.Shops))
	for code, s := range c.Shops {
		shops = append(shops, domain.Shop{
			Code:   code,
			ID:     s.ID,
			Name:   s.Name,
			APIKey: s.APIKey,
		})
	}
	sort.Slice(shops, func(i, j int) bool { return shops[i].Code < shops[j].Code })
	return shops
}
