package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateRefresh(t *testing.T) {
	const (
		currentEpoch   = 3
		maxRefreshRate = 5
	)

	tests := []struct {
		name   string
		parsed ParsedToken
		want   RefreshDecision
	}{
		{
			name:   "malformed token",
			parsed: ParsedToken{State: TokenStateMalformed},
			want:   RefreshMalformed,
		},
		{
			name:   "live token at current epoch",
			parsed: ParsedToken{State: TokenStateValid, Subject: "a@b.c", RefreshCount: 1, ReloginEpoch: currentEpoch},
			want:   RefreshValid,
		},
		{
			name:   "live token with zero epoch predates epoch tracking",
			parsed: ParsedToken{State: TokenStateValid, Subject: "a@b.c", RefreshCount: 2, ReloginEpoch: 0},
			want:   RefreshValid,
		},
		{
			name:   "live token from invalidated epoch",
			parsed: ParsedToken{State: TokenStateValid, Subject: "a@b.c", RefreshCount: 1, ReloginEpoch: currentEpoch - 1},
			want:   RefreshReplayDetected,
		},
		{
			name:   "live token at refresh ceiling",
			parsed: ParsedToken{State: TokenStateValid, Subject: "a@b.c", RefreshCount: maxRefreshRate, ReloginEpoch: currentEpoch},
			want:   RefreshRateExceeded,
		},
		{
			name:   "live token with zero counter never part of a chain",
			parsed: ParsedToken{State: TokenStateValid, Subject: "a@b.c", RefreshCount: 0, ReloginEpoch: currentEpoch},
			want:   RefreshRateExceeded,
		},
		{
			name:   "expired token with recoverable claims",
			parsed: ParsedToken{State: TokenStateExpired, Subject: "a@b.c", RefreshCount: 2, ReloginEpoch: currentEpoch},
			want:   RefreshExpiredButRefreshable,
		},
		{
			name: "expired token skips the epoch comparison",
			// same stale epoch that fails on the live path passes here
			parsed: ParsedToken{State: TokenStateExpired, Subject: "a@b.c", RefreshCount: 2, ReloginEpoch: currentEpoch - 1},
			want:   RefreshExpiredButRefreshable,
		},
		{
			name:   "expired token without subject",
			parsed: ParsedToken{State: TokenStateExpired, Subject: "", RefreshCount: 2},
			want:   RefreshClaimsUnrecoverable,
		},
		{
			name:   "expired token at refresh ceiling",
			parsed: ParsedToken{State: TokenStateExpired, Subject: "a@b.c", RefreshCount: maxRefreshRate},
			want:   RefreshRateExceeded,
		},
		{
			name:   "expired token with zero counter",
			parsed: ParsedToken{State: TokenStateExpired, Subject: "a@b.c", RefreshCount: 0},
			want:   RefreshRateExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateRefresh(tt.parsed, currentEpoch, maxRefreshRate)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRefreshDecisionRefreshable(t *testing.T) {
	require.True(t, RefreshValid.Refreshable())
	require.True(t, RefreshExpiredButRefreshable.Refreshable())
	require.False(t, RefreshReplayDetected.Refreshable())
	require.False(t, RefreshMalformed.Refreshable())
	require.False(t, RefreshRateExceeded.Refreshable())
	require.False(t, RefreshClaimsUnrecoverable.Refreshable())
}
