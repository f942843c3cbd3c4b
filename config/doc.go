// Package config loads service configuration with viper.
//
// A config.yml is searched under ./cmd/<service>/, ./config/ and the
// working directory; a .env file next to it is loaded with godotenv.
// Environment variables override file values by underscore path, so
// OUTPUT_DIR sets output.dir and TRANSCRIPTION_OPENAI_API_KEY sets
// transcription.openai.api_key.
//
// # Usage
//
//	var cfg Config
//	if err := config.LoadConfig("subtitler", &cfg); err != nil {
//	    return err
//	}
package config
