// Package utils holds the ambient helpers shared by repotree commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// environment variables through Viper. LoggerFactory builds zap loggers for the
// structured and console formats. FlushingWriter keeps table output visible as
// it is produced.
package utils
