package tracing

// Span attribute keys.
const (
	AttrHubMethod      = "hub.method"
	AttrHubPath        = "hub.path"
	AttrHubErrorCode   = "hub.error.code"
	AttrHTTPStatusCode = "http.status_code"
	AttrCellID         = "cell.id"
	AttrCacheHit       = "cache.hit"
)

// SpanPrefixHub prefixes spans for Hub API requests.
const SpanPrefixHub = "hub."
