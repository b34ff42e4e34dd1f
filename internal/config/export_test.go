package config

// GetEnvAsBool exposes getEnvAsBool for tests.
var GetEnvAsBool = getEnvAsBool
