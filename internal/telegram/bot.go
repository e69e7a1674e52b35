package telegram

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

type Bot struct {
	api *tgbotapi.BotAPI
	h   *Handlers
}

// NewBot connects to the Bot API and registers webhookURL.
func NewBot(token, webhookURL string, analyzer Analyzer) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	webhook, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, err
	}
	if _, err := api.Request(webhook); err != nil {
		return nil, err
	}
	log.Info().Str("url", webhookURL).Str("bot", api.Self.UserName).Msg("telegram: webhook set")

	return &Bot{api: api, h: NewHandlers(api, analyzer)}, nil
}

// WebhookHandler is registered at /telegram/webhook.
func (b *Bot) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "bad update", http.StatusBadRequest)
		return
	}
	if update.Message == nil {
		log.Debug().Int("update_id", update.UpdateID).Msg("telegram: non-message update")
		w.WriteHeader(http.StatusOK)
		return
	}
	log.Info().Int64("chat_id", update.Message.Chat.ID).Str("text", update.Message.Text).Msg("telegram: message")
	go b.h.HandleMessage(update.Message)
	w.WriteHeader(http.StatusOK)
}
