package helper

import (
	"strings"
)

// NormTF приводит таймфрейм к каноничному виду: "60m" и "1h" — одно и то же.
func NormTF(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "60m", "1h":
		return "1h"
	case "240m", "4h":
		return "4h"
	case "1440m", "1d", "d":
		return "1d"
	case "15m":
		return "15m"
	case "5m":
		return "5m"
	case "30m":
		return "30m"
	default:
		return s
	}
}
