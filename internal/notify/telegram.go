// Package notify sends Telegram alerts for deals whose analysis clears the
// configured cashflow threshold.
package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"dealwise/server/internal/models"
)

// TelegramConfig is the bot credential set plus the alert threshold.
type TelegramConfig struct {
	BotToken          string
	ChatID            string
	IsEnabled         bool
	CashflowThreshold float64
}

type Service struct {
	logger *logrus.Logger
	client *http.Client
	config TelegramConfig
}

func NewService(config TelegramConfig, logger *logrus.Logger) *Service {
	return &Service{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		config: config,
	}
}

// SendMessage sends a message to the configured Telegram chat.
func (s *Service) SendMessage(message string) error {
	if !s.config.IsEnabled {
		return nil
	}

	if s.config.BotToken == "" {
		return errors.New("Telegram bot token is not configured")
	}
	if s.config.ChatID == "" {
		return errors.New("Telegram chat ID is not configured")
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.config.BotToken)
	payload := map[string]interface{}{
		"chat_id":    s.config.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %v", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyDealAnalyzed sends an alert when any strategy's monthly cashflow
// meets the threshold. Deals below the threshold are silently skipped.
func (s *Service) NotifyDealAnalyzed(deal *models.Deal, results map[models.StrategyType]models.AnalysisResults) error {
	if !s.config.IsEnabled {
		return nil
	}

	best, ok := bestStrategy(results, s.config.CashflowThreshold)
	if !ok {
		return nil
	}

	s.logger.WithFields(logrus.Fields{
		"deal_id":  deal.ID,
		"strategy": best.Strategy,
		"cashflow": best.MonthlyCashflow,
	}).Info("Sending deal alert")

	return s.SendMessage(formatDealAlert(deal, best))
}

// bestStrategy picks the highest-cashflow strategy at or above the
// threshold.
func bestStrategy(results map[models.StrategyType]models.AnalysisResults, threshold float64) (models.AnalysisResults, bool) {
	var best models.AnalysisResults
	found := false
	for _, result := range results {
		if result.MonthlyCashflow >= threshold && (!found || result.MonthlyCashflow > best.MonthlyCashflow) {
			best = result
			found = true
		}
	}
	return best, found
}

func formatDealAlert(deal *models.Deal, result models.AnalysisResults) string {
	roiLine := fmt.Sprintf("%.1f%%", result.ROI)
	if result.Refinance != nil && result.Refinance.AllMoneyOut {
		roiLine = "unbounded (all money out)"
	}

	payback := "no payback from cashflow"
	if result.PaybackMonths != nil {
		payback = fmt.Sprintf("%.0f months", *result.PaybackMonths)
	}

	return fmt.Sprintf(
		"<b>Deal Alert: %s cashflow target hit</b>\n\n"+
			"🏠 %s\n"+
			"📍 %s, %s\n"+
			"💰 Asking £%.0f\n"+
			"📈 Strategy: %s\n"+
			"💵 Cashflow: £%.2f/month\n"+
			"📊 ROI: %s\n"+
			"🎯 Gross yield: %.1f%%\n"+
			"⏳ Payback: %s",
		result.Strategy,
		deal.Property.Address.Line1,
		deal.Property.Address.City,
		deal.Property.Address.Postcode,
		deal.Property.AskingPrice,
		result.Strategy,
		result.MonthlyCashflow,
		roiLine,
		result.GrossYield,
		payback,
	)
}
