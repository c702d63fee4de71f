package config

import "time"

const (
	// Reports
	// ReportThreshold is the number of pending/approved reports against one
	// target that triggers the automatic consequence.
	ReportThreshold = 5
	// DormantThreshold is the user report_count at which the account goes dormant.
	DormantThreshold = 5
	// ReportDetailMinLen is the minimum length of a report's free-text detail.
	ReportDetailMinLen = 10

	// Chat
	// MessageMaxRunes caps stored message length; longer input is truncated
	// with a marker rather than rejected.
	MessageMaxRunes = 500

	// Products
	ProductTitleMaxLen = 50
	ProductPriceMin    = 1
	ProductPriceMax    = 100_000_000
	SearchQueryMinLen  = 2

	// Rate limiting
	RateLimitRequests = 60
	RateLimitWindow   = time.Minute
	LoginMaxAttempts  = 5
	LoginAttemptTTL   = 15 * time.Minute

	// Auth
	TokenTTL = 72 * time.Hour
)
