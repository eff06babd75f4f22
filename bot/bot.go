package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/pivolan/bandwidth_insights/export"
	"github.com/pivolan/bandwidth_insights/loader"
	"github.com/pivolan/bandwidth_insights/logging"
	"github.com/pivolan/bandwidth_insights/report"
	"github.com/pivolan/bandwidth_insights/session"
	"go.uber.org/zap"
)

const welcomeText = `Hi! Send me a merged client file and I will reply with bandwidth insights.

What I accept:
- CSV with the columns COMPANY NAME, BRANCH/LOCATION, STATE, REGION, WAN/INTERNET CLIENT, BANDWIDTH SUBSCRIPTION (Mbps), CUSTOMER STATUS and CLIENT or Client Type
- the same file packed as .gz, .lz4 or .zip

What you get back:
- a summary table
- the PDF report with charts
- the cleaned CSV`

const maxExclusionsShown = 20

var supportedExt = []string{".csv", ".gz", ".lz4", ".zip"}

// API is the part of tgbotapi.BotAPI the handler uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Handler struct {
	api    API
	log    *zap.SugaredLogger
	client *http.Client
	title  string
	topN   int
}

func NewHandler(api API, log *zap.SugaredLogger, title string, topN int) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{
		api:    api,
		log:    log,
		client: &http.Client{Timeout: 2 * time.Minute},
		title:  title,
		topN:   topN,
	}
}

// Run polls for updates until ctx is cancelled.
func Run(ctx context.Context, token string, log *zap.SugaredLogger, title string, topN int) error {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := api.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("telegram updates: %w", err)
	}
	handler := NewHandler(api, log, title, topN)
	handler.log.Infow("bot started", "account", api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			handler.HandleUpdate(ctx, update)
		}
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil {
		return
	}
	if message.Document != nil {
		h.handleDocument(ctx, message)
		return
	}
	h.reply(message.Chat.ID, welcomeText)
}

func (h *Handler) handleDocument(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	name := filepath.Base(message.Document.FileName)
	if !supported(name) {
		h.reply(chatID, fmt.Sprintf("%s is not a CSV file. Send a .csv (optionally packed as .gz, .lz4 or .zip).", name))
		return
	}

	dir, err := os.MkdirTemp("", "insights-")
	if err != nil {
		h.log.Errorw("temp dir", "error", err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, name)
	if err := h.download(ctx, message.Document.FileID, path); err != nil {
		h.log.Errorw("download failed", "file", name, "chat", chatID, "error", err)
		h.reply(chatID, "Could not download the file, try again or send a smaller file.")
		return
	}

	ds, err := loader.New(h.log).LoadFile(path)
	if err != nil {
		h.log.Warnw("load failed", "file", name, "chat", chatID, "error", err)
		var missing *models.MissingColumnError
		switch {
		case errors.As(err, &missing):
			h.reply(chatID, fmt.Sprintf("The file has no %q column.", missing.Column))
		case errors.Is(err, models.ErrEmptyFile):
			h.reply(chatID, "The file is empty.")
		default:
			h.reply(chatID, "Could not read the file: "+err.Error())
		}
		return
	}

	h.sendInsights(chatID, session.FromDataset(path, ds))
}

func (h *Handler) sendInsights(chatID int64, sess *session.Session) {
	snap := sess.Snapshot(sess.Apply(models.Filter{}), h.title, h.topN)
	stamp := time.Now().Format("20060102-150405")

	h.replyPre(chatID, report.SummaryTable(snap))
	if rep := sess.Report(); rep.ExcludedCount() > 0 {
		h.replyPre(chatID, report.ExclusionsTable(rep, maxExclusionsShown))
	}

	h.sendFile(chatID, "insights_"+stamp+".txt", "Full tables", []byte(report.Text(snap)))

	pdf, err := report.PDF(snap)
	if err != nil {
		h.log.Errorw("pdf failed", "error", err)
		h.reply(chatID, "Could not build the PDF report.")
	} else {
		h.sendFile(chatID, "bandwidth_insights_"+stamp+".pdf", snap.Title, pdf)
	}

	cleaned, err := export.Full(sess)
	if err != nil {
		h.log.Errorw("csv export failed", "error", err)
		return
	}
	h.sendFile(chatID, "cleaned_clients_"+stamp+".csv", "Cleaned data", cleaned)
}

func (h *Handler) download(ctx context.Context, fileID, path string) error {
	url, err := h.api.GetFileDirectURL(fileID)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: status %s", resp.Status)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(file, resp.Body)
	return err
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.log.Errorw("send message", "chat", chatID, "error", err)
	}
}

func (h *Handler) replyPre(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "<pre>\n"+html.EscapeString(text)+"\n</pre>")
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := h.api.Send(msg); err != nil {
		h.log.Errorw("send message", "chat", chatID, "error", err)
	}
}

func (h *Handler) sendFile(chatID int64, name, caption string, data []byte) {
	doc := tgbotapi.NewDocumentUpload(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	if _, err := h.api.Send(doc); err != nil {
		h.log.Errorw("send document", "chat", chatID, "file", name, "error", err)
	}
}

func supported(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range supportedExt {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
