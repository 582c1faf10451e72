package service

import (
	"fmt"
	"strings"
	"time"

	"sniper_bot/internal/models"
	"sniper_bot/internal/modules/config"
)

const (
	noSessionText      = "❌ No active session found."
	comingSoonText     = "⚙️ Feature coming soon!"
	buttonErrorText    = "❌ Button error. Try using commands directly."
	commandErrorText   = "❌ Command error. Please try again."
	alreadyActiveText  = "⚠️ Sniping session already active. Check /status or stop it first."
	unknownCommandText = "🤷 Unknown command. Try /help"
)

func helpText() string {
	return "*🎯 Sniper Bot*\n\n" +
		"/snipe — start an automated session\n" +
		"/status — current session\n" +
		"/stop — stop the session\n" +
		"/balance — wallet balance\n" +
		"/help — this message"
}

func formatBalance(address string, balance float64) string {
	return fmt.Sprintf(
		"*💰 Wallet Balance*\n\n"+
			"Address: `%s`\n"+
			"Balance: `%.6f SOL`",
		address, balance,
	)
}

func formatSnipeStarted(t config.Trading) string {
	return fmt.Sprintf(
		"*🎯 Sniping Started*\n\n"+
			"• Trade size: `%.4f SOL`\n"+
			"• Entry in: `%s`\n"+
			"• Exit after: `%s`\n"+
			"• Target profit: `%s%%`\n"+
			"• Auto-reinvest: *%s*",
		t.TradeAmount,
		t.EntryDelay,
		t.ExitDelay,
		f2(t.ProfitRatio*100),
		onOff(t.AutoReinvest),
	)
}

func formatStatus(sess models.Session, active bool, now time.Time, reinvest bool) string {
	if !active {
		return "*📊 Status: INACTIVE*\n\nNo session running. Use /snipe to start."
	}

	var b strings.Builder
	b.WriteString("*📊 Status: ACTIVE*\n\n")
	fmt.Fprintf(&b, "• Phase: `%s`\n", sess.Phase)
	fmt.Fprintf(&b, "• Running: `%s`\n", formatDuration(sess.Elapsed(now)))
	fmt.Fprintf(&b, "• Trades: `%d`\n", sess.TradesExecuted)
	fmt.Fprintf(&b, "• Profit: `%+.6f SOL`\n", sess.TotalProfit)
	if sess.PendingToken != nil {
		fmt.Fprintf(&b, "• Token: `%s`\n", sess.PendingToken.Symbol)
	}
	fmt.Fprintf(&b, "• Auto-reinvest: *%s*", onOff(reinvest))
	return b.String()
}

func formatStopSummary(s models.Summary) string {
	return fmt.Sprintf(
		"*⏹️ Sniping Stopped*\n\n"+
			"*Session Summary:*\n"+
			"• Duration: %s\n"+
			"• Trades: %d\n"+
			"• Profit: %+.6f SOL",
		formatDuration(s.Duration),
		s.TradesExecuted,
		s.TotalProfit,
	)
}

// formatDuration: H:MM:SS, доли секунды отбрасываются.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	h := int64(d / time.Hour)
	m := int64(d%time.Hour) / int64(time.Minute)
	s := int64(d%time.Minute) / int64(time.Second)
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
