// Package command turns raw prefix-command argument tokens into a typed
// moderation request: a target user, an optional duration or count token,
// and a free-text reason. The token grammars live here as named regexp
// constants so every caller shares one definition.
package command

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoTarget means no replied-to author, mention, or bare ID could
	// be resolved; callers should show usage help.
	ErrNoTarget = errors.New("no target user in arguments")
	// ErrNoDurationToken means the command requires a duration token and
	// none of the arguments matched the duration grammar.
	ErrNoDurationToken = errors.New("no duration token in arguments")
	// ErrNoCountToken is the counterpart for count-taking commands.
	ErrNoCountToken = errors.New("no count token in arguments")
)

var (
	// mentionRe matches Discord user mentions, with or without the
	// nickname marker: <@123456789012345678> or <@!123456789012345678>.
	mentionRe = regexp.MustCompile(`^<@!?(\d+)>$`)
	// snowflakeRe matches a bare user ID. Discord snowflakes are 64-bit
	// and currently render as 16-20 decimal digits.
	snowflakeRe = regexp.MustCompile(`^\d{16,20}$`)
	// durationRe matches tokens like 30s, 5m, 2hr, 7days. The number of
	// seconds per unit is fixed in unitSeconds.
	durationRe = regexp.MustCompile(`(?i)^(\d+)(s|sec|secs|m|min|mins|h|hr|hrs|d|day|days)$`)
	// countRe matches a bare integer, used for purge message counts.
	countRe = regexp.MustCompile(`^\d+$`)
)

var unitSeconds = map[string]int64{
	"s": 1, "sec": 1, "secs": 1,
	"m": 60, "min": 60, "mins": 60,
	"h": 3600, "hr": 3600, "hrs": 3600,
	"d": 86400, "day": 86400, "days": 86400,
}

// TokenKind selects which grammar Resolve scans the arguments for.
type TokenKind int

const (
	TokenNone TokenKind = iota
	TokenDuration
	TokenCount
)

// Hints carries context extracted from the platform event before
// resolution: the author of a replied-to message (empty when the command
// is not a reply, or when the reply targets the bot itself) and the first
// mentioned user when the message leads with a mention.
type Hints struct {
	RepliedAuthorID  string
	LeadingMentionID string
}

// Spec describes what a particular command expects from its arguments.
type Spec struct {
	Token         TokenKind
	TokenRequired bool
	// TargetOptional makes a missing target a valid outcome (purge works
	// channel-wide when no user is named) instead of ErrNoTarget.
	TargetOptional bool
	// MaxDuration clamps parsed durations; zero means no clamp. Out of
	// range values are clamped, not rejected, because the platform API
	// hard-rejects anything larger (28 days for timeouts, 7 days of
	// message deletion for bans).
	MaxDuration time.Duration
	// MaxCount clamps parsed counts into [1, MaxCount].
	MaxCount int
	// DefaultReason substitutes an empty reason so the platform API is
	// never handed a blank audit-log entry.
	DefaultReason string
}

// Args is the resolved result. Duration is set for TokenDuration specs,
// Count for TokenCount specs.
type Args struct {
	TargetID string
	Duration time.Duration
	Count    int
	Reason   string
}

// Resolve extracts a target user, an optional duration/count token, and a
// reason from raw whitespace-split arguments. The first available target
// source wins: replied-to author (consumes nothing), leading mention
// (consumes the first token), bare or mention-decorated ID as the first
// token (consumes it). The duration/count token may sit anywhere in the
// remaining tokens; the first match is taken. TargetOptional specs
// additionally accept a user token anywhere in the remaining tokens, so
// both "25 @user" and "@user 25" name the same filter. A nil slice is
// treated as empty. Malformed input surfaces as a sentinel error, never a
// panic.
func Resolve(raw []string, hints Hints, spec Spec) (Args, error) {
	remaining := append([]string(nil), raw...)

	target := ""
	switch {
	case hints.RepliedAuthorID != "":
		target = hints.RepliedAuthorID
	case hints.LeadingMentionID != "" && len(remaining) > 0:
		target = hints.LeadingMentionID
		remaining = remaining[1:]
	case len(remaining) > 0:
		if id, ok := parseUserToken(remaining[0]); ok {
			target = id
			remaining = remaining[1:]
		}
	}
	if target == "" && !spec.TargetOptional {
		return Args{}, ErrNoTarget
	}

	args := Args{TargetID: target}

	switch spec.Token {
	case TokenDuration:
		token, rest, found := extractToken(remaining, durationRe)
		if found {
			args.Duration = parseDuration(token, spec.MaxDuration)
			remaining = rest
		} else if spec.TokenRequired {
			return Args{}, ErrNoDurationToken
		}
	case TokenCount:
		token, rest, found := extractToken(remaining, countRe)
		if found {
			args.Count = parseCount(token, spec.MaxCount)
			remaining = rest
		} else if spec.TokenRequired {
			return Args{}, ErrNoCountToken
		}
	}

	// Target-optional commands take the count first by convention, so a
	// user token anywhere in the leftovers still names the target.
	if args.TargetID == "" && spec.TargetOptional {
		for i, token := range remaining {
			if id, ok := parseUserToken(token); ok {
				args.TargetID = id
				remaining = append(append([]string(nil), remaining[:i]...), remaining[i+1:]...)
				break
			}
		}
	}

	args.Reason = strings.TrimSpace(strings.Join(remaining, " "))
	if args.Reason == "" {
		args.Reason = spec.DefaultReason
	}
	return args, nil
}

// MentionID returns the user ID inside a mention token, if the token is
// one. Callers use it to populate Hints.LeadingMentionID from the first
// argument.
func MentionID(token string) (string, bool) {
	if m := mentionRe.FindStringSubmatch(token); m != nil {
		return m[1], true
	}
	return "", false
}

// ParseDurationToken parses a token against the duration grammar and
// clamps to max, for callers (slash options) that take the token outside
// a full argument list.
func ParseDurationToken(token string, max time.Duration) (time.Duration, bool) {
	if !durationRe.MatchString(token) {
		return 0, false
	}
	return parseDuration(token, max), true
}

// parseUserToken accepts either a bare snowflake or a mention-decorated
// one and returns the digits.
func parseUserToken(token string) (string, bool) {
	if m := mentionRe.FindStringSubmatch(token); m != nil {
		return m[1], true
	}
	if snowflakeRe.MatchString(token) {
		return token, true
	}
	return "", false
}

// extractToken returns the first token matching re and the tokens with
// that one removed. The match is not required to be positional, so reason
// text may come before or after it.
func extractToken(tokens []string, re *regexp.Regexp) (string, []string, bool) {
	for i, token := range tokens {
		if re.MatchString(token) {
			rest := append(append([]string(nil), tokens[:i]...), tokens[i+1:]...)
			return token, rest, true
		}
	}
	return "", tokens, false
}

func parseDuration(token string, max time.Duration) time.Duration {
	m := durationRe.FindStringSubmatch(token)
	if m == nil {
		return 0
	}
	value, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		// Overflow on absurdly long digit runs; clamp to the maximum.
		if max > 0 {
			return max
		}
		return 0
	}
	seconds := value * unitSeconds[strings.ToLower(m[2])]
	d := time.Duration(seconds) * time.Second
	if d < 0 || (max > 0 && d > max) {
		return max
	}
	return d
}

func parseCount(token string, max int) int {
	value, err := strconv.Atoi(token)
	if err != nil {
		value = max
	}
	if max > 0 && value > max {
		value = max
	}
	if value < 1 {
		value = 1
	}
	return value
}
