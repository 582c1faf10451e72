package runner

import (
	"fmt"

	"sniper_bot/internal/models"
)

func entryText(tok models.Token, amount float64, ref string) string {
	return fmt.Sprintf(
		"🟢 Bought %s (%s)\n• Amount: %.4f SOL\n• Mint: %s\n• Tx: %s",
		tok.Symbol, tok.Name, amount, tok.Mint, ref,
	)
}

func exitText(tok models.Token, profit, balance float64, ref string, reinvest bool) string {
	msg := fmt.Sprintf(
		"💰 Sold %s\n• Profit: %+.6f SOL\n• Balance: %.6f SOL\n• Tx: %s",
		tok.Symbol, profit, balance, ref,
	)
	if reinvest {
		msg += "\n♻️ Auto-reinvest: profit rolled into next trade size"
	}
	return msg
}

func noCandidatesText() string {
	return "🔍 No candidate tokens this cycle, session keeps scanning."
}

func scanFailedText(err error) string {
	return fmt.Sprintf("⚠️ Token scan failed: %v", err)
}

func entryFailedText(tok models.Token, err error, terminated bool) string {
	if terminated {
		return fmt.Sprintf("❌ Buy %s failed: %v\nSession terminated.", tok.Symbol, err)
	}
	return fmt.Sprintf("❌ Buy %s failed: %v\nSession keeps scanning.", tok.Symbol, err)
}

func exitFailedText(tok models.Token, err error) string {
	return fmt.Sprintf("❌ Sell %s failed: %v\nPosition remains open.", tok.Symbol, err)
}
