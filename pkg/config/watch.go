package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch re-loads the configuration file on every write and invokes onChange
// with the newly validated Config. The returned stop function does
// nothing: once started, the watch stays active for the life of the
// process.
//
// viper.WatchConfig is backed by fsnotify; metacachectl uses it for the
// ambient config (logging level, metrics port, sweep interval) but NOT for
// Cache.Capacity/MaxEntrySize/HeaderPageSize, which are baked into the
// Cache at construction — onChange receivers that rebuild a Cache from a
// changed capacity are responsible for draining and replacing the old one
// themselves; this package only reports the new values.
func Watch(configPath string, onChange func(*Config)) (stop func(), err error) {
	v := viper.New()
	setupViper(v, configPath)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg := GetDefaultConfig()
		if err := v.Unmarshal(cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
			return
		}
		ApplyDefaults(cfg)
		if err := Validate(cfg); err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()

	return func() {}, nil
}
