package quorum

import "math"

// Clock abstracts wall-clock reads so that election-timeout arithmetic is
// deterministic in tests, rather than calling time.Now() directly inside
// election logic.
type Clock interface {
	NowMs() int64
}

// Randomizer abstracts the random source used to draw election timeouts,
// so that tests can inject a deterministic sequence.
type Randomizer interface {
	// Intn returns a non-negative value in [0, n).
	Intn(n int) int
}

// electionDeadline is an absolute millisecond timestamp at which an
// election timeout fires. Role states store this instead of a
// time.Duration so that transitions which "inherit remaining election
// time" can compute it against a fresh clock read without drifting.
type electionDeadline struct {
	deadlineMs int64
}

// infiniteElectionTimeoutMs is the sentinel an Observer passes for
// "never time out". It is kept well under math.MaxInt64 so that adding
// any nowMs reached in practice can't overflow and wrap negative.
const infiniteElectionTimeoutMs = math.MaxInt64 / 2

func newElectionDeadline(nowMs, timeoutMs int64) electionDeadline {
	if timeoutMs >= infiniteElectionTimeoutMs {
		return electionDeadline{deadlineMs: math.MaxInt64}
	}
	return electionDeadline{deadlineMs: nowMs + timeoutMs}
}

func (d electionDeadline) remainingMs(nowMs int64) int64 {
	remaining := d.deadlineMs - nowMs
	if remaining < 0 {
		return 0
	}
	return remaining
}

// randomElectionTimeoutMs randomizes an election timeout so voters don't
// all wake up and call for an election at the same instant: a configured
// base of 0 always yields 0 (the deterministic test hook), otherwise the
// draw is base + uniform[0, base), landing in [base, 2*base).
func randomElectionTimeoutMs(baseMs int, rnd Randomizer) int64 {
	if baseMs == 0 {
		return 0
	}
	return int64(baseMs + rnd.Intn(baseMs))
}
