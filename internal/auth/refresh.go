package auth

// RefreshDecision is the verdict on a single refresh attempt.
type RefreshDecision int

const (
	// RefreshValid: live token, correct epoch, counter within bounds.
	RefreshValid RefreshDecision = iota
	// RefreshExpiredButRefreshable: token past expiry, but its recovered
	// claims still qualify for a chained re-issue.
	RefreshExpiredButRefreshable
	// RefreshReplayDetected: live token from an invalidated epoch.
	RefreshReplayDetected
	// RefreshMalformed: bad structure or signature.
	RefreshMalformed
	// RefreshRateExceeded: counter missing, zero, or at the ceiling.
	RefreshRateExceeded
	// RefreshClaimsUnrecoverable: expired token whose claims could not be
	// recovered.
	RefreshClaimsUnrecoverable
)

func (d RefreshDecision) String() string {
	switch d {
	case RefreshValid:
		return "valid"
	case RefreshExpiredButRefreshable:
		return "expired_but_refreshable"
	case RefreshReplayDetected:
		return "replay_detected"
	case RefreshMalformed:
		return "malformed"
	case RefreshRateExceeded:
		return "rate_exceeded"
	case RefreshClaimsUnrecoverable:
		return "claims_unrecoverable"
	}
	return "unknown"
}

// Refreshable reports whether the decision permits issuing a successor token.
func (d RefreshDecision) Refreshable() bool {
	return d == RefreshValid || d == RefreshExpiredButRefreshable
}

// EvaluateRefresh decides whether a parsed token may be exchanged for a new
// one. The epoch comparison only applies to live tokens: an expired token
// goes straight to claim recovery, so a chain from an older epoch can still
// refresh once its token has lapsed. That asymmetry is a known policy gap
// carried over from the original flow and is kept intact here.
func EvaluateRefresh(parsed ParsedToken, currentEpoch, maxRefreshRate int) RefreshDecision {
	switch parsed.State {
	case TokenStateMalformed:
		return RefreshMalformed

	case TokenStateValid:
		if parsed.ReloginEpoch != 0 && parsed.ReloginEpoch != currentEpoch {
			return RefreshReplayDetected
		}
		if !counterWithinBounds(parsed, maxRefreshRate) {
			return RefreshRateExceeded
		}
		return RefreshValid

	case TokenStateExpired:
		if parsed.Subject == "" {
			return RefreshClaimsUnrecoverable
		}
		if !counterWithinBounds(parsed, maxRefreshRate) {
			return RefreshRateExceeded
		}
		return RefreshExpiredButRefreshable
	}

	return RefreshMalformed
}

// counterWithinBounds enforces the chain limits: a subject must be present,
// the counter must have been set (first issue starts at 1, never 0), and the
// chain ends once the counter reaches the configured ceiling.
func counterWithinBounds(parsed ParsedToken, maxRefreshRate int) bool {
	return parsed.Subject != "" &&
		parsed.RefreshCount != 0 &&
		parsed.RefreshCount < maxRefreshRate
}
