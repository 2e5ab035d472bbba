// Package config loads pycompat settings with Viper.
//
// Values are resolved in increasing order of precedence:
//
//  1. Built-in defaults ([DefaultConfig])
//  2. The TOML config file: --config, or config.toml under [ConfigDir]
//  3. Environment variables prefixed PYCOMPAT_ (dots become underscores,
//     e.g. PYCOMPAT_CACHE_BACKEND)
//  4. Command-line flags bound through [LoadOptions.Flags]
//
// A missing default config file is not an error. A missing file named with
// --config is.
package config
