// Package config provides loading and environment overlay for wideid
// configuration. It exposes a Default() baseline and helpers mapping a Config
// onto codec options.
//
// Example:
//
//	cfg, err := config.Load("/etc/wideid.json")
//	if err != nil {
//	    return err
//	}
//	config.FromEnv(&cfg)
//	opts, err := cfg.CodecOptions()
//	if err != nil {
//	    return err
//	}
//	c := codec.New(cfg.Provider(), opts...)
package config
