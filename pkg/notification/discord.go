package notification

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"time"

	"github.com/autobrr/autobrr/pkg/errors"
	"github.com/bobesa/go-domain-util/domainutil"
	"github.com/dustin/go-humanize"
	"github.com/lucperkins/rek"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"

	"github.com/autobrr/discordhook/pkg/config"
	"github.com/autobrr/discordhook/pkg/httputils"
	"github.com/autobrr/discordhook/pkg/logger"
)

// Discord webhooks allow 30 requests per minute per webhook.
const webhookRequestsPerMinute = 30

type discordPayload struct {
	Content   string `json:"content"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Discord markdown characters that need escaping
var discordMarkdownChars = regexp.MustCompile(`([\\*_~` + "`" + `|>])`)

// escapeDiscordMarkdown escapes Discord markdown formatting characters
func escapeDiscordMarkdown(text string) string {
	if text == "" {
		return text
	}

	// Escape Discord markdown characters: \ * _ ~ ` | >
	return discordMarkdownChars.ReplaceAllString(text, `\$1`)
}

type Options struct {
	EscapeMarkdown bool
	DryRun         bool
}

type discordSender struct {
	log      *logrus.Entry
	settings *config.Settings
	opts     Options

	httpClient *http.Client
}

func NewDiscordSender(settings *config.Settings, opts Options) Sender {
	l := logger.GetLogger("discord")

	return &discordSender{
		log:      l,
		settings: settings,
		opts:     opts,
		httpClient: httputils.NewWebhookClient(settings.Timeout,
			ratelimit.New(webhookRequestsPerMinute, ratelimit.Per(time.Minute)), l),
	}
}

func (d *discordSender) Name() string {
	return "discord"
}

func (d *discordSender) CanSend() bool {
	return d.settings.WebhookURL != ""
}

// Send makes exactly one POST to the webhook. JSON body when there are no
// attachments, multipart form with a payload_json part otherwise. Attachment
// parts keep the order of msg.Attachments.
func (d *discordSender) Send(ctx context.Context, msg Message) error {
	if msg.Content == "" && len(msg.Attachments) == 0 {
		return ErrEmptyMessage
	}

	content := msg.Content
	if d.opts.EscapeMarkdown {
		content = escapeDiscordMarkdown(content)
	}

	payload := discordPayload{
		Content:   content,
		Username:  d.settings.Username,
		AvatarURL: d.settings.AvatarURL,
	}

	d.log.Debugf("Sending %d chars and %d attachment(s) to %s",
		len(content), len(msg.Attachments), domainutil.Domain(d.settings.WebhookURL))

	if d.opts.DryRun {
		d.logDryRun(payload, msg.Attachments)
		return nil
	}

	if len(msg.Attachments) == 0 {
		return d.sendJSON(ctx, payload)
	}

	return d.sendMultipart(ctx, payload, msg.Attachments)
}

func (d *discordSender) sendJSON(ctx context.Context, payload discordPayload) error {
	resp, err := rek.Post(d.settings.WebhookURL,
		rek.Client(d.httpClient),
		rek.Json(payload),
		rek.Context(ctx),
	)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body().Close()

	return d.checkResponse(resp.StatusCode(), resp.Body())
}

func (d *discordSender) sendMultipart(ctx context.Context, payload discordPayload, attachments []Attachment) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "could not marshal payload_json")
	}

	if err := writer.WriteField("payload_json", string(payloadJSON)); err != nil {
		return errors.Wrap(err, "could not write payload_json part")
	}

	for i, attachment := range attachments {
		part, err := writer.CreateFormFile(fmt.Sprintf("files[%d]", i), attachment.Name)
		if err != nil {
			return errors.Wrap(err, "could not create form file for %q", attachment.Name)
		}

		if _, err := part.Write(attachment.Data); err != nil {
			return errors.Wrap(err, "could not write form file for %q", attachment.Name)
		}
	}

	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "could not finalize multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.settings.WebhookURL, body)
	if err != nil {
		return errors.Wrap(err, "could not create request")
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := d.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer res.Body.Close()

	return d.checkResponse(res.StatusCode, res.Body)
}

func (d *discordSender) checkResponse(statusCode int, body io.Reader) error {
	if statusCode >= 200 && statusCode < 300 {
		d.log.Debugf("Webhook response status: %d", statusCode)
		return nil
	}

	b, err := io.ReadAll(bufio.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "could not read response body")
	}

	return &DeliveryError{StatusCode: statusCode, Body: string(b)}
}

func (d *discordSender) logDryRun(payload discordPayload, attachments []Attachment) {
	d.log.Warn("Dry-run enabled, skipping send...")
	d.log.Infof("Content: %q", payload.Content)
	if payload.Username != "" {
		d.log.Infof("Username: %q", payload.Username)
	}
	if payload.AvatarURL != "" {
		d.log.Infof("Avatar URL: %q", payload.AvatarURL)
	}
	for i, attachment := range attachments {
		d.log.Infof("Attachment %d: %s (%s)", i, attachment.Name, humanize.IBytes(uint64(len(attachment.Data))))
	}
}
