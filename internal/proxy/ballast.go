package proxy

var (
	// A minimum GC heap size keeps collection overhead down on a busy
	// relay; GOGC+GOMEMLIMIT can't express this. Only virtual memory is
	// allocated, not RSS, so ignore it in memory profiles.
	ballast = make([]byte, 0, 25_000_000)
	_       = ballast
)
