package redisx

import "time"

const (
	// Cached order body: order:{order_id} -> response JSON
	KeyOrder = "order:%s"

	// Fixed-window request counter: ratelimit:{client}:{window} -> count
	KeyRateWindow = "ratelimit:%s:%d"
)

var (
	TTLOrderCache = 5 * time.Minute
	TTLRateWindow = 2 * time.Minute
)
