package usecases

import "time"

const (
	// defaultTemperature applies when the embed settings leave it unset
	defaultTemperature = 0.7

	// rateLimitWindow is the sliding window for the per-session cap,
	// recomputed from stored usage records at request time.
	rateLimitWindow = time.Hour
)
