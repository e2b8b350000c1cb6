// Package cli builds the repotree command-line interface: the Cobra command
// tree, layered Viper configuration with embedded defaults, and the zap logger
// handed to every subcommand.
package cli
