// Package lookup answers name lookups against the current SDN snapshot.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aristath/sdnwatch/internal/domain"
	"github.com/aristath/sdnwatch/internal/metrics"
	"github.com/aristath/sdnwatch/internal/modules/sdn"
	"github.com/aristath/sdnwatch/internal/queue"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
)

// UsageText is shown when /check_sdn is called without a name
const UsageText = "Please provide a name to check. Usage: `/check_sdn <name>`"

// Payload keys of a lookup job
const (
	PayloadQuery       = "query"
	PayloadResponseURL = "response_url"
	PayloadUserID      = "user_id"
)

// Responder delivers a message to a slash-command response_url
type Responder interface {
	Respond(ctx context.Context, responseURL string, msg *slack.WebhookMessage) error
}

// Service performs lookups and posts their results back to Slack
type Service struct {
	snapshots domain.SnapshotStore
	responder Responder
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

// NewService creates a lookup service. responder may be nil when results are
// only served over the API.
func NewService(snapshots domain.SnapshotStore, responder Responder, log zerolog.Logger) *Service {
	return &Service{
		snapshots: snapshots,
		responder: responder,
		log:       log.With().Str("service", "lookup").Logger(),
	}
}

// SetMetrics sets the metrics sink
func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Lookup searches the current snapshot for query. An empty query returns
// sdn.ErrEmptyQuery without touching storage.
func (s *Service) Lookup(ctx context.Context, query string) ([]domain.EntityRecord, error) {
	if strings.TrimSpace(query) == "" {
		s.metrics.IncrementLookup(metrics.LookupEmptyQuery)
		return nil, sdn.ErrEmptyQuery
	}

	snapshot, err := s.snapshots.Load(ctx)
	if err != nil {
		s.metrics.IncrementLookup(metrics.LookupError)
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	results, err := sdn.Search(query, snapshot)
	if err != nil {
		s.metrics.IncrementLookup(metrics.LookupError)
		return nil, err
	}

	if len(results) > 0 {
		s.metrics.IncrementLookup(metrics.LookupMatch)
	} else {
		s.metrics.IncrementLookup(metrics.LookupNoMatch)
	}

	s.log.Debug().
		Str("query", query).
		Int("snapshot_records", len(snapshot)).
		Int("matches", len(results)).
		Msg("Lookup completed")

	return results, nil
}

// Respond runs a lookup and posts the result to responseURL. When the lookup
// itself fails the user still gets an ephemeral apology and the error is returned.
func (s *Service) Respond(ctx context.Context, query, responseURL string) error {
	if s.responder == nil {
		return errors.New("no responder configured")
	}

	results, err := s.Lookup(ctx, query)

	var msg *slack.WebhookMessage
	switch {
	case errors.Is(err, sdn.ErrEmptyQuery):
		msg = UsageMessage()
		err = nil
	case err != nil:
		msg = &slack.WebhookMessage{
			ResponseType: slack.ResponseTypeEphemeral,
			Text:         "Sorry, the SDN list could not be searched right now. Please try again later.",
		}
	default:
		msg = BuildResponse(results, strings.TrimSpace(query))
	}

	if postErr := s.responder.Respond(ctx, responseURL, msg); postErr != nil {
		return errors.Join(err, postErr)
	}
	return err
}

// HandleJob is the queue handler for lookup jobs
func (s *Service) HandleJob(ctx context.Context, job *queue.Job) error {
	query := job.PayloadString(PayloadQuery)
	responseURL := job.PayloadString(PayloadResponseURL)
	if responseURL == "" {
		return fmt.Errorf("lookup job %s has no response_url", job.ID)
	}

	s.log.Info().
		Str("job_id", job.ID).
		Str("query", query).
		Str("user_id", job.PayloadString(PayloadUserID)).
		Msg("Answering slash command")

	return s.Respond(ctx, query, responseURL)
}

// UsageMessage is the ephemeral reply to an empty /check_sdn
func UsageMessage() *slack.WebhookMessage {
	return &slack.WebhookMessage{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         UsageText,
		Blocks: &slack.Blocks{BlockSet: []slack.Block{
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, UsageText, false, false), nil, nil),
		}},
	}
}

// BuildResponse wraps FormatBlocks in a slash-command reply. Matches are
// posted to the channel; a miss is only shown to the caller.
func BuildResponse(results []domain.EntityRecord, query string) *slack.WebhookMessage {
	responseType := slack.ResponseTypeEphemeral
	if len(results) > 0 {
		responseType = slack.ResponseTypeInChannel
	}
	return &slack.WebhookMessage{
		ResponseType: responseType,
		Text:         headline(results, query),
		Blocks:       &slack.Blocks{BlockSet: FormatBlocks(results, query)},
	}
}

// FormatBlocks renders lookup results as Slack blocks, at most
// sdn.MaxDisplayResults entries each followed by a divider.
func FormatBlocks(results []domain.EntityRecord, query string) []slack.Block {
	if len(results) == 0 {
		return []slack.Block{markdownSection(headline(results, query))}
	}

	shown := results
	if len(shown) > sdn.MaxDisplayResults {
		shown = shown[:sdn.MaxDisplayResults]
	}

	blocks := make([]slack.Block, 0, 2*len(shown)+2)
	blocks = append(blocks, markdownSection(headline(results, query)))

	for _, rec := range shown {
		text := fmt.Sprintf("*Name:* %s\n*ID:* %s\n*Type:* %s\n*Program:* %s",
			rec.Name, orNA(rec.ID), orNA(rec.Type), orNA(rec.Program))
		blocks = append(blocks, markdownSection(text), slack.NewDividerBlock())
	}

	if len(results) > len(shown) {
		note := fmt.Sprintf("Showing the first %d of %d matches. Refine the name to narrow the list.",
			len(shown), len(results))
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, note, false, false)))
	}

	return blocks
}

func headline(results []domain.EntityRecord, query string) string {
	if len(results) == 0 {
		return fmt.Sprintf(":white_check_mark: No SDN records found for *%s*.", query)
	}
	return fmt.Sprintf(":warning: *Found %d SDN record(s) for* `%s`:", len(results), query)
}

func markdownSection(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
