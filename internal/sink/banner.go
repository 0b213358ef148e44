package sink

// BannerThrottle decides which receipts carry the banner.
// Due on invocations 1, F+1, 2F+1, … counted in Advance calls.
// Not persisted; a restart starts over at 0.
type BannerThrottle struct {
	freq int
	n    int
}

// NewBannerThrottle returns a throttle with frequency freq (min 1).
func NewBannerThrottle(freq int) *BannerThrottle {
	if freq < 1 {
		freq = 1
	}
	return &BannerThrottle{freq: freq}
}

// Due reports whether the current invocation carries the banner.
func (t *BannerThrottle) Due() bool {
	return t.n == 0
}

// Advance moves to the next invocation, wrapping modulo the frequency.
func (t *BannerThrottle) Advance() {
	t.n = (t.n + 1) % t.freq
}
