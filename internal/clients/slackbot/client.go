// Package slackbot posts run summaries and slash-command responses to Slack.
package slackbot

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aristath/sdnwatch/internal/domain"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
)

// ChartFilename is the name of the uploaded history chart
const ChartFilename = "sdn-history.png"

// Client wraps the Slack Web API for sdnwatch
type Client struct {
	api        *slack.Client
	httpClient *http.Client
	channel    string
	log        zerolog.Logger
}

// NewClient creates a client that posts to channel. Extra options are passed
// to the Slack client (tests use slack.OptionAPIURL).
func NewClient(token, channel string, log zerolog.Logger, options ...slack.Option) *Client {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	opts := append([]slack.Option{slack.OptionHTTPClient(httpClient)}, options...)

	return &Client{
		api:        slack.New(token, opts...),
		httpClient: httpClient,
		channel:    channel,
		log:        log.With().Str("client", "slack").Logger(),
	}
}

// Send posts the run summary and, when chart is non-empty, uploads it as a
// thread reply. A failed chart upload is logged; the summary is already out.
func (c *Client) Send(ctx context.Context, summary domain.Summary, chart []byte) error {
	channelID, ts, err := c.api.PostMessageContext(ctx, c.channel,
		slack.MsgOptionText(FormatSummary(summary), false),
	)
	if err != nil {
		return fmt.Errorf("failed to post summary to %s: %w", c.channel, err)
	}

	c.log.Info().Str("channel", channelID).Str("ts", ts).Msg("Summary posted")

	if len(chart) == 0 {
		return nil
	}

	// Uploads need the channel ID, which the post response carries
	_, err = c.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		Channel:         channelID,
		ThreadTimestamp: ts,
		Filename:        ChartFilename,
		Title:           "SDN changes per run",
		Reader:          bytes.NewReader(chart),
		FileSize:        len(chart),
	})
	if err != nil {
		c.log.Warn().Err(err).Str("channel", channelID).Msg("Failed to upload history chart")
	}
	return nil
}

// Respond posts a message to a slash-command response_url
func (c *Client) Respond(ctx context.Context, responseURL string, msg *slack.WebhookMessage) error {
	if err := slack.PostWebhookCustomHTTPContext(ctx, responseURL, c.httpClient, msg); err != nil {
		return fmt.Errorf("failed to post to response_url: %w", err)
	}
	return nil
}

// FormatSummary renders the run summary as Slack mrkdwn
func FormatSummary(s domain.Summary) string {
	var b strings.Builder

	b.WriteString("*🛡 Daily Sanctions Update*\n")
	fmt.Fprintf(&b, "> *Total Records:* %d\n", s.TotalRecords)
	fmt.Fprintf(&b, "> *➕ New:* %d  |  *➖ Removed:* %d\n", s.AddedCount, s.RemovedCount)
	fmt.Fprintf(&b, "> *Run Time:* `%.2f`s", s.DurationSeconds)

	if s.Trend.Runs > 1 {
		fmt.Fprintf(&b, "\n> *Last %d runs:* +%.0f / -%.0f (avg +%.1f / -%.1f)",
			s.Trend.Runs, s.Trend.TotalAdditions, s.Trend.TotalDeletions,
			s.Trend.MeanAdditions, s.Trend.MeanDeletions)
	}
	if s.Wiped {
		b.WriteString("\n> :warning: The downloaded list contained no records. Every previous record was counted as removed.")
	}
	if s.SnapshotLink != "" {
		fmt.Fprintf(&b, "\n<%s|📄 View latest list>", s.SnapshotLink)
	}

	return b.String()
}
