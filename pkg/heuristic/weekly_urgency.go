package heuristic

import "github.com/jeremyhon/codex-cli-account-switcher/pkg/models"

// WeeklyUrgency is the default selection strategy. Among accounts with a
// usable rolling window it picks the one with the highest weekly urgency,
// the ratio of weekly remaining percent to time until the weekly reset.
// Burning the account whose weekly quota refills soonest wastes the least.
type WeeklyUrgency struct{}

type urgencyBest struct {
	weekly    int
	rolling   int
	ttrWeekly int64
	wreset    int64
	name      string
}

type urgencyFallback struct {
	rolling    int
	ttrRolling int64
	name       string
}

// Choose implements Chooser. Candidates with an unknown weekly or rolling
// remaining percent are skipped entirely. When every candidate fails the
// rolling usability filter the one with the most rolling headroom wins as a
// fallback. Returns "" when nothing can be chosen.
func (WeeklyUrgency) Choose(candidates []models.Candidate, nowTS int64, cfg Config) string {
	var best *urgencyBest
	var fallback *urgencyFallback

	for _, c := range candidates {
		if c.Name == "" {
			continue
		}
		if c.WeeklyRemaining < 0 || c.RollingRemaining < 0 {
			continue
		}

		ttrWeekly := timeToReset(c.WeeklyResetAt, nowTS, cfg.UnknownResetTTRSec)
		ttrRolling := timeToReset(c.RollingResetAt, nowTS, cfg.UnknownResetTTRSec)

		// Fallback tracks the best rolling headroom even for candidates the
		// usability filter rejects below.
		if fallback == nil ||
			c.RollingRemaining > fallback.rolling ||
			(c.RollingRemaining == fallback.rolling && ttrRolling < fallback.ttrRolling) {
			fallback = &urgencyFallback{rolling: c.RollingRemaining, ttrRolling: ttrRolling, name: c.Name}
		}

		if c.RollingRemaining <= cfg.RollingUnusablePct {
			continue
		}

		if best == nil {
			best = &urgencyBest{
				weekly:    c.WeeklyRemaining,
				rolling:   c.RollingRemaining,
				ttrWeekly: ttrWeekly,
				wreset:    c.WeeklyResetAt,
				name:      c.Name,
			}
			continue
		}

		// Compare weekly/ttr ratios by cross multiplication to stay in
		// integer arithmetic.
		lhs := int64(c.WeeklyRemaining) * best.ttrWeekly
		rhs := int64(best.weekly) * ttrWeekly
		take := false
		switch {
		case lhs > rhs:
			take = true
		case lhs == rhs:
			// Tie-break: weekly remaining, then rolling remaining, then the
			// earlier known weekly reset. A known reset beats an unknown one;
			// two unknowns keep the incumbent.
			switch {
			case c.WeeklyRemaining > best.weekly:
				take = true
			case c.WeeklyRemaining == best.weekly:
				switch {
				case c.RollingRemaining > best.rolling:
					take = true
				case c.RollingRemaining == best.rolling:
					if c.WeeklyResetAt > 0 && (best.wreset <= 0 || c.WeeklyResetAt < best.wreset) {
						take = true
					}
				}
			}
		}
		if take {
			best = &urgencyBest{
				weekly:    c.WeeklyRemaining,
				rolling:   c.RollingRemaining,
				ttrWeekly: ttrWeekly,
				wreset:    c.WeeklyResetAt,
				name:      c.Name,
			}
		}
	}

	if best != nil {
		return best.name
	}
	if fallback != nil {
		return fallback.name
	}
	return ""
}

// timeToReset returns seconds until resetAt, clamped to at least 1 for known
// resets. Unknown resets get the configured sentinel so they never look
// urgent.
func timeToReset(resetAt, nowTS, unknownTTR int64) int64 {
	if resetAt <= 0 {
		return unknownTTR
	}
	ttr := resetAt - nowTS
	if ttr < 1 {
		ttr = 1
	}
	return ttr
}
