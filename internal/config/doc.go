// SPDX-License-Identifier: MPL-2.0

// Package config loads the bundler configuration with Viper.
//
// The configuration file is taken from --config or discovered as
// minipack.config.{cue,toml,yaml,yml,json} in the working directory. Every
// format is checked against the embedded CUE schema (config_schema.cue)
// before it is merged over the defaults. MINIPACK_* environment variables
// override scalar settings, e.g. MINIPACK_OUTPUT_PATH for output.path.
package config
