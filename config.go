package tkep

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// PropConfig gathers the accuracy and budget parameters of a propagation.
// The tolerances are base-10 exponents: LogTol = -10 requests an absolute
// truncation error of 1e-10 per step.
type PropConfig struct {
	LogTol    float64 // log10 of the absolute tolerance
	LogRelTol float64 // log10 of the relative tolerance
	MaxIter   int     // maximum number of steps per call
	MaxOrder  int     // maximum polynomial order
}

// DefaultPropConfig returns the stock accuracy parameters.
func DefaultPropConfig() PropConfig {
	return PropConfig{LogTol: -10, LogRelTol: -10, MaxIter: 100000, MaxOrder: 3000}
}

var (
	cfgLoaded = false
	config    = _tkepconfig{}
)

// _tkepconfig is a "hidden" struct, just use `tkepConfig`
type _tkepconfig struct {
	VSOP87Dir string
	outputDir string
	prop      PropConfig
}

// tkepConfig returns the site configuration. The conf.toml is looked up in
// the directory named by TKEP_CONFIG; without it everything falls back to
// the built-in defaults so that library use needs no file at all.
func tkepConfig() _tkepconfig {
	if cfgLoaded {
		return config
	}
	config = _tkepconfig{prop: DefaultPropConfig()}
	if confPath := os.Getenv("TKEP_CONFIG"); confPath != "" {
		viper.SetConfigName("conf")
		viper.AddConfigPath(confPath)
		if err := viper.ReadInConfig(); err != nil {
			panic(fmt.Errorf("%s/conf.toml not found", confPath))
		}
		config.VSOP87Dir = viper.GetString("VSOP87.directory")
		config.outputDir = viper.GetString("general.output_path")
		if viper.IsSet("propagator.log_tol") {
			config.prop.LogTol = viper.GetFloat64("propagator.log_tol")
		}
		if viper.IsSet("propagator.log_rel_tol") {
			config.prop.LogRelTol = viper.GetFloat64("propagator.log_rel_tol")
		}
		if viper.IsSet("propagator.max_iter") {
			config.prop.MaxIter = viper.GetInt("propagator.max_iter")
		}
		if viper.IsSet("propagator.max_order") {
			config.prop.MaxOrder = viper.GetInt("propagator.max_order")
		}
	}
	cfgLoaded = true
	return config
}

// SitePropConfig returns the propagator defaults from the conf.toml, or
// DefaultPropConfig when no site configuration exists.
func SitePropConfig() PropConfig {
	return tkepConfig().prop
}
