// Package utils exposes reusable helpers consumed by multiple commands.
//
// It houses ConfigurationLoader, which layers embedded defaults, configuration
// files, dotenv files, and FIRESTORESCRIPTS_* environment variables through
// Viper, and LoggerFactory, which builds the zap loggers shared by commands.
package utils
