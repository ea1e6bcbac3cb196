package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatGems formats an amount with thousand separators
func FormatGems(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	str := strconv.FormatInt(amount, 10)

	var result strings.Builder
	if negative {
		result.WriteByte('-')
	}
	n := len(str)
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	return result.String()
}

// FormatSignedGems formats an amount with an explicit sign
func FormatSignedGems(amount int64) string {
	if amount > 0 {
		return "+" + FormatGems(amount)
	}
	return FormatGems(amount)
}

// FormatMultiplier formats a payout multiplier like "2.5x"
func FormatMultiplier(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64) + "x"
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// FormatDuration renders a short countdown like "4m 05s"
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	if minutes == 0 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm %02ds", minutes, seconds)
}

// CustomID joins parts into a component custom ID
func CustomID(parts ...string) string {
	return strings.Join(parts, CustomIDSeparator)
}

// ParseCustomID splits a custom ID and checks its prefix and part count
func ParseCustomID(customID, prefix string, parts int) ([]string, bool) {
	split := strings.Split(customID, CustomIDSeparator)
	if len(split) != parts || split[0] != prefix {
		return nil, false
	}
	return split, true
}
