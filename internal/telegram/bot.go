package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"triply/internal/calendar"
	"triply/internal/config"
	"triply/internal/ghost"
	"triply/internal/itinerary"
	"triply/internal/metrics"
	"triply/internal/planner"
	"triply/internal/trip"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// API is the subset of the Telegram client the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// TripStore persists trips to history.
type TripStore interface {
	Save(ctx context.Context, t *trip.Trip) error
}

// UsageReporter provides the usage ledger shown by /metrics.
type UsageReporter interface {
	DailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error)
	TopDestinations(ctx context.Context, days, limit int) ([]metrics.DestinationCount, error)
}

// CoverFinder resolves a destination's cover image.
type CoverFinder interface {
	Lookup(ctx context.Context, destination string) (string, error)
}

// Deps are the services the bot talks to. Covers and Publisher are optional.
type Deps struct {
	Gateway   planner.Gateway
	Trips     TripStore
	Usage     UsageReporter
	Covers    CoverFinder
	Publisher ghost.Publisher
	Logger    *zap.Logger
}

// Options controls access and session lifetime.
type Options struct {
	// AllowedUserIDs limits who may use the bot. Empty allows everyone.
	AllowedUserIDs []int64
	AdminID        int64
	SessionTTL     time.Duration
	DataDir        string
}

// chatState is the live trip of one chat.
type chatState struct {
	session *planner.Session

	mu   sync.Mutex
	trip *trip.Trip
	// dayMessages holds one message ID per day index; 0 marks a day whose
	// message could not be sent.
	dayMessages []int
}

// Bot serves the itinerary checklist over Telegram.
type Bot struct {
	api      API
	client   *tgbotapi.BotAPI
	deps     Deps
	opts     Options
	logger   *zap.Logger
	sessions *cache.Cache
	wg       sync.WaitGroup
}

// NewBot connects to Telegram and, when a webhook URL is configured,
// registers it.
func NewBot(cfg *config.Config, deps Deps) (*Bot, error) {
	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	b := newBot(api, deps, Options{
		AllowedUserIDs: cfg.TelegramAllowedUserIDs,
		AdminID:        cfg.AdminTelegramID,
		SessionTTL:     cfg.SessionTTL,
		DataDir:        filepath.Dir(cfg.DatabasePath),
	})
	b.client = api
	b.logger.Info("authorized on telegram", zap.String("account", api.Self.UserName))

	if cfg.TelegramWebhookURL != "" {
		wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
		}
		resp, err := api.Request(wh)
		if err != nil {
			return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
		}
		b.logger.Info("webhook set", zap.String("description", resp.Description))
	}
	return b, nil
}

func newBot(api API, deps Deps, opts Options) *Bot {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	return &Bot{
		api:      api,
		deps:     deps,
		opts:     opts,
		logger:   logger,
		sessions: cache.New(opts.SessionTTL, 10*time.Minute),
	}
}

// RegisterHandlers registers the webhook and health endpoints.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("error parsing update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.HandleUpdate(ctx, *update)
	}()
}

// Poll receives updates by long polling until ctx is done. It is used when
// no webhook is configured.
func (b *Bot) Poll(ctx context.Context) error {
	if b.client == nil {
		return errors.New("polling requires a connected telegram client")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.client.GetUpdatesChan(u)
	defer b.client.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

// Wait blocks until every in-flight update has been handled.
func (b *Bot) Wait() {
	b.wg.Wait()
}

// HandleUpdate processes a single update synchronously.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		if q.From == nil || !b.allowed(q.From.ID) || q.Message == nil || q.Message.Chat == nil {
			b.logUnauthorized(q.From)
			return
		}
		b.handleCallback(ctx, q)
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || !b.allowed(msg.From.ID) {
			b.logUnauthorized(msg.From)
			return
		}
		b.processMessage(ctx, msg)
	}
}

func (b *Bot) allowed(userID int64) bool {
	return len(b.opts.AllowedUserIDs) == 0 || lo.Contains(b.opts.AllowedUserIDs, userID)
}

func (b *Bot) logUnauthorized(u *tgbotapi.User) {
	if u == nil {
		return
	}
	b.logger.Warn("unauthorized access attempt", zap.Int64("user_id", u.ID), zap.String("username", u.UserName))
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			b.reply(chatID, helpText())
		case "reset":
			b.handleReset(chatID)
		case "metrics":
			b.handleMetricsRequest(ctx, msg)
		case "plan":
			b.handlePlan(ctx, msg, msg.CommandArguments())
		default:
			b.reply(chatID, "Unknown command. Send /help for usage.")
		}
		return
	}
	b.handlePlan(ctx, msg, msg.Text)
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// state returns the chat's live trip, creating an empty one when create is set.
// Every access refreshes the expiry.
func (b *Bot) state(chatID int64, create bool) *chatState {
	key := chatKey(chatID)
	if v, ok := b.sessions.Get(key); ok {
		b.sessions.SetDefault(key, v)
		return v.(*chatState)
	}
	if !create {
		return nil
	}
	st := &chatState{session: planner.NewSession(b.deps.Gateway, b.logger)}
	if err := b.sessions.Add(key, st, cache.DefaultExpiration); err != nil {
		if v, ok := b.sessions.Get(key); ok {
			return v.(*chatState)
		}
	}
	return st
}

func (b *Bot) handlePlan(ctx context.Context, msg *tgbotapi.Message, text string) {
	chatID := msg.Chat.ID
	pr, err := parsePlanRequest(text)
	if err != nil {
		b.reply(chatID, escape(err.Error()))
		return
	}
	if _, err := planner.NewTripRequest(pr.Destination, pr.Arrival, pr.Departure); err != nil {
		b.reply(chatID, "❌ "+escape(planner.Notice(err)))
		return
	}

	st := b.state(chatID, true)
	status, err := b.send(chatID, fmt.Sprintf("🧭 <b>Planning your trip to %s...</b>", escape(pr.Destination)), nil)
	if err != nil {
		b.logger.Error("failed to send status message", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}

	prevTrip, prevMsgs := st.detach()
	view, err := st.session.Generate(ctx, pr.Destination, pr.Arrival, pr.Departure)
	if err != nil {
		st.reattach(prevTrip, prevMsgs)
		b.edit(chatID, status.MessageID, "❌ "+escape(planner.Notice(err)), nil)
		return
	}

	if view.Empty() {
		b.edit(chatID, status.MessageID, "No itinerary could be generated.", nil)
		return
	}

	b.edit(chatID, status.MessageID, tripHeader(view.Trip), nil)
	b.sendCover(ctx, chatID, view.Trip.Destination)

	publish := b.deps.Publisher != nil
	ids := make([]int, len(view.Itinerary))
	for i, day := range view.Itinerary {
		kb := dayKeyboard(i, day, view.Checked, i == len(view.Itinerary)-1, publish)
		sent, err := b.send(chatID, dayText(view.Trip.Destination, i, day), &kb)
		if err != nil {
			b.logger.Error("failed to send day message", zap.Int("day", day.Day), zap.Error(err))
			continue
		}
		ids[i] = sent.MessageID
	}
	if last := actionDay(ids); last >= 0 && last != len(ids)-1 {
		kb := dayKeyboard(last, view.Itinerary[last], view.Checked, true, publish)
		b.editMarkup(chatID, ids[last], kb)
	}

	st.mu.Lock()
	st.dayMessages = ids
	st.trip = trip.FromView(strconv.FormatInt(msg.From.ID, 10), view)
	st.mu.Unlock()
	b.saveTrip(ctx, st)
}

func (b *Bot) sendCover(ctx context.Context, chatID int64, destination string) {
	if b.deps.Covers == nil {
		return
	}
	img, err := b.deps.Covers.Lookup(ctx, destination)
	if err != nil {
		b.logger.Debug("no cover image", zap.String("destination", destination), zap.Error(err))
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(img))
	photo.Caption = destination
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Warn("failed to send cover image", zap.String("url", img), zap.Error(err))
	}
}

// saveTrip writes the session's current state to history.
func (b *Bot) saveTrip(ctx context.Context, st *chatState) {
	if b.deps.Trips == nil {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.trip == nil {
		return
	}
	st.trip.Update(st.session.View())
	if err := b.deps.Trips.Save(ctx, st.trip); err != nil {
		b.logger.Warn("failed to save trip to history", zap.String("owner", st.trip.OwnerID), zap.Error(err))
		return
	}
	b.logger.Info("trip saved", zap.String("trip_id", st.trip.ID), zap.String("destination", st.trip.Destination))
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	chatID := q.Message.Chat.ID
	action, addr, err := parseCallback(q.Data)
	if err != nil {
		b.logger.Warn("bad callback data", zap.String("data", q.Data), zap.Error(err))
		b.answer(q.ID, "")
		return
	}

	st := b.state(chatID, false)
	if st == nil || !st.owns(q.Message.MessageID) {
		b.answer(q.ID, "This trip is no longer active. Send a new destination to start over.")
		return
	}

	switch action {
	case cbToggle:
		b.handleToggle(q, st, *addr)
	case cbReroll:
		b.handleReroll(ctx, q, st)
	case cbCalendar:
		b.handleCalendar(q, st)
	case cbPublish:
		b.handlePublish(ctx, q, st)
	}
}

// owns reports whether messageID is one of the current trip's day messages.
func (st *chatState) owns(messageID int) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return messageID != 0 && lo.Contains(st.dayMessages, messageID)
}

// detach unbinds the current trip and its messages so that old keyboards
// stop acting on the session while a new itinerary is generated.
func (st *chatState) detach() (*trip.Trip, []int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	t, msgs := st.trip, st.dayMessages
	st.trip, st.dayMessages = nil, nil
	return t, msgs
}

// reattach restores what detach returned, unless a newer plan already
// bound its own messages.
func (st *chatState) reattach(t *trip.Trip, msgs []int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.dayMessages == nil {
		st.trip, st.dayMessages = t, msgs
	}
}

// actionDay is the index of the last delivered day message, the one that
// carries the trip actions, or -1 when none was delivered.
func actionDay(ids []int) int {
	_, i, _ := lo.FindLastIndexOf(ids, func(id int) bool { return id != 0 })
	return i
}

func (st *chatState) messages() []int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]int(nil), st.dayMessages...)
}

func (st *chatState) tripID() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.trip == nil {
		return ""
	}
	return st.trip.ID
}

func (b *Bot) handleToggle(q *tgbotapi.CallbackQuery, st *chatState, addr itinerary.ItemAddress) {
	checked, err := st.session.Toggle(addr)
	if err != nil {
		b.answer(q.ID, planner.Notice(err))
		return
	}
	b.answer(q.ID, lo.Ternary(checked, "Kept", "Will be rerolled"))

	view := st.session.View()
	if addr.DayIndex >= len(view.Itinerary) {
		return
	}
	day := view.Itinerary[addr.DayIndex]
	last := addr.DayIndex == actionDay(st.messages())
	kb := dayKeyboard(addr.DayIndex, day, view.Checked, last, b.deps.Publisher != nil)
	b.editMarkup(q.Message.Chat.ID, q.Message.MessageID, kb)
}

func (b *Bot) handleReroll(ctx context.Context, q *tgbotapi.CallbackQuery, st *chatState) {
	chatID := q.Message.Chat.ID
	b.answer(q.ID, "")

	status, err := b.send(chatID, "🎲 <b>Rerolling unchecked activities...</b>", nil)
	if err != nil {
		b.logger.Error("failed to send status message", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}

	res, err := st.session.Reroll(ctx)
	if err != nil {
		b.edit(chatID, status.MessageID, "❌ "+escape(planner.Notice(err)), nil)
		return
	}

	view := res.View
	publish := b.deps.Publisher != nil
	msgs := st.messages()
	last := actionDay(msgs)
	for i, day := range view.Itinerary {
		if i >= len(msgs) || msgs[i] == 0 {
			continue
		}
		kb := dayKeyboard(i, day, view.Checked, i == last, publish)
		b.edit(chatID, msgs[i], dayText(view.Trip.Destination, i, day), &kb)
	}

	b.edit(chatID, status.MessageID, fmt.Sprintf("✅ Replaced %s.", pluralActivities(len(res.Replaced))), nil)
	b.saveTrip(ctx, st)
}

func pluralActivities(n int) string {
	return fmt.Sprintf("%d %s", n, english.PluralWord(n, "activity", "activities"))
}

func (b *Bot) handleCalendar(q *tgbotapi.CallbackQuery, st *chatState) {
	view := st.session.View()
	if view.Empty() {
		b.answer(q.ID, "No itinerary could be generated.")
		return
	}
	b.answer(q.ID, "")

	ics := calendar.Export(st.tripID(), view.Trip.Destination, view.Itinerary)
	doc := tgbotapi.NewDocument(q.Message.Chat.ID, tgbotapi.FileBytes{
		Name:  calendar.FileName(view.Trip.Destination),
		Bytes: []byte(ics),
	})
	doc.Caption = "Import this file into your calendar app."
	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error("failed to send calendar", zap.Error(err))
	}
}

func (b *Bot) handlePublish(ctx context.Context, q *tgbotapi.CallbackQuery, st *chatState) {
	chatID := q.Message.Chat.ID
	if b.deps.Publisher == nil {
		b.answer(q.ID, "Publishing is not configured.")
		return
	}
	b.answer(q.ID, "Publishing...")

	view := st.session.View()
	cover := ""
	if b.deps.Covers != nil {
		cover, _ = b.deps.Covers.Lookup(ctx, view.Trip.Destination)
	}
	draft, err := ghost.TripDraft(view.Trip.Destination, cover, view.Itinerary, view.Checked, true)
	if err != nil {
		b.logger.Error("failed to render trip", zap.Error(err))
		b.reply(chatID, "❌ Could not publish the trip.")
		return
	}

	post, err := b.deps.Publisher.CreatePost(ctx, draft)
	if err != nil {
		b.logger.Error("failed to publish trip", zap.Error(err))
		b.reply(chatID, "❌ Could not publish the trip.")
		return
	}
	b.reply(chatID, fmt.Sprintf(`📤 Published: <a href="%s">%s</a>`, escape(post.URL), escape(post.Title)))
}

func (b *Bot) handleReset(chatID int64) {
	if st := b.state(chatID, false); st != nil {
		if err := st.session.Reset(); err != nil {
			b.reply(chatID, escape(planner.Notice(err)))
			return
		}
		b.sessions.Delete(chatKey(chatID))
	}
	b.reply(chatID, "🧹 Trip cleared. Send a new destination to start over.")
}

func (b *Bot) handleMetricsRequest(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From.ID != b.opts.AdminID {
		b.reply(msg.Chat.ID, "⛔ <b>Access Denied</b>: Admin only.")
		return
	}
	b.handleMetricsCommand(ctx, msg.Chat.ID)
}

func (b *Bot) handleMetricsCommand(ctx context.Context, chatID int64) {
	if b.deps.Usage == nil {
		b.reply(chatID, "❌ Metrics are not available.")
		return
	}
	usage, err := b.deps.Usage.DailyUsage(ctx, 7)
	if err != nil {
		b.logger.Error("failed to fetch usage", zap.Error(err))
		b.reply(chatID, "❌ Error fetching metrics.")
		return
	}
	top, err := b.deps.Usage.TopDestinations(ctx, 7, 5)
	if err != nil {
		b.logger.Error("failed to fetch top destinations", zap.Error(err))
		b.reply(chatID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.ReadHealth(b.opts.DataDir)

	var sb strings.Builder
	sb.WriteString("📊 <b>Usage &amp; Health Report</b>\n\n")

	sb.WriteString("🗓 <b>Last 7 days</b>\n")
	if len(usage) == 0 {
		sb.WriteString("<i>No data yet</i>\n")
	}
	for _, d := range usage {
		fmt.Fprintf(&sb, "• <b>%s</b>: %s tokens (%d %s, %d %s)\n", escape(d.Date), humanize.Comma(int64(d.Tokens())),
			d.Calls, english.PluralWord(d.Calls, "call", ""), d.Rerolls, english.PluralWord(d.Rerolls, "reroll", ""))
	}

	if len(top) > 0 {
		sb.WriteString("\n🌍 <b>Most planned</b>\n")
		for i, d := range top {
			fmt.Fprintf(&sb, "%d. %s (%d)\n", i+1, escape(d.Destination), d.Plans)
		}
	}

	sb.WriteString("\n🧠 <b>System Health</b>\n")
	fmt.Fprintf(&sb, "• Heap: %s / Sys: %s\n", health.Heap(), health.Sys())
	fmt.Fprintf(&sb, "• Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "• Data: %s\n", health.DataSize())
	fmt.Fprintf(&sb, "• Active trips: %d\n", b.sessions.ItemCount())

	b.reply(chatID, sb.String())
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.send(chatID, text, nil); err != nil {
		b.logger.Error("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) send(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	return b.api.Send(msg)
}

func (b *Bot) edit(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true
	edit.ReplyMarkup = kb
	if _, err := b.api.Request(edit); err != nil {
		b.logger.Warn("failed to edit message", zap.Int64("chat_id", chatID), zap.Int("message_id", messageID), zap.Error(err))
	}
}

func (b *Bot) editMarkup(chatID int64, messageID int, kb tgbotapi.InlineKeyboardMarkup) {
	if _, err := b.api.Request(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, kb)); err != nil {
		b.logger.Warn("failed to update keyboard", zap.Int64("chat_id", chatID), zap.Int("message_id", messageID), zap.Error(err))
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.Debug("failed to answer callback", zap.Error(err))
	}
}
