// Package commands provides the command-line interface for file2html.
//
// The root command runs a conversion from flags and environment variables;
// the interactive subcommand builds the same configuration through a
// prompt flow. Flag, environment, and default handling goes through cobra
// and viper.
package commands
