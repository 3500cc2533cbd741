package segment

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Claude pricing constants (per 1M tokens)
const (
	SonnetInputCost  = 3.00  // $3.00 per 1M input tokens
	SonnetOutputCost = 15.00 // $15.00 per 1M output tokens
	HaikuInputCost   = 0.25  // $0.25 per 1M input tokens
	HaikuOutputCost  = 1.25  // $1.25 per 1M output tokens
	OpusInputCost    = 15.00 // $15.00 per 1M input tokens
	OpusOutputCost   = 75.00 // $75.00 per 1M output tokens
)

// calculateCost estimates a session's cost from token counts when the host
// did not report one. Unknown models are priced as Sonnet.
func calculateCost(modelName string, inputTokens, outputTokens int) float64 {
	var inputCostPer1M, outputCostPer1M float64

	modelLower := strings.ToLower(modelName)
	switch {
	case strings.Contains(modelLower, "haiku"):
		inputCostPer1M = HaikuInputCost
		outputCostPer1M = HaikuOutputCost
	case strings.Contains(modelLower, "opus"):
		inputCostPer1M = OpusInputCost
		outputCostPer1M = OpusOutputCost
	default:
		inputCostPer1M = SonnetInputCost
		outputCostPer1M = SonnetOutputCost
	}

	return (float64(inputTokens)*inputCostPer1M + float64(outputTokens)*outputCostPer1M) / 1000000
}

// formatTokens formats token counts: 500, 5k, 172.1k, 2.5M.
func formatTokens(tokens int) string {
	switch {
	case tokens >= 1000000:
		return humanize.FtoaWithDigits(float64(tokens)/1000000, 1) + "M"
	case tokens >= 1000:
		return humanize.FtoaWithDigits(float64(tokens)/1000, 1) + "k"
	}
	return strconv.Itoa(tokens)
}

// formatCost formats cost values for display
func formatCost(cost float64) string {
	if cost < 0.01 {
		return fmt.Sprintf("%.3f¢", cost*100)
	} else if cost < 1.0 {
		return fmt.Sprintf("%.2f¢", cost*100)
	}
	return fmt.Sprintf("$%.2f", cost)
}

// formatPercent drops the decimal for whole numbers: 20%, 42.5%.
func formatPercent(p float64) string {
	return humanize.FtoaWithDigits(p, 1) + "%"
}

// formatDuration renders elapsed session time: 45s, 12m, 1h 5m.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
