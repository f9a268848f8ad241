package clients

import (
	"context"

	slackgo "github.com/slack-go/slack"
)

// Slack wraps the Slack Web API through slack-go.
// endpoint overrides the API URL for testing.
type Slack struct {
	api *slackgo.Client
}

func NewSlack(endpoint, token string) *Slack {
	opts := []slackgo.Option{}
	if endpoint != "" {
		opts = append(opts, slackgo.OptionAPIURL(endpoint))
	}
	return &Slack{api: slackgo.New(token, opts...)}
}

// AuthCheck verifies the bot token, used as the connectivity probe.
func (s *Slack) AuthCheck(ctx context.Context) Result {
	resp, err := s.api.AuthTestContext(ctx)
	if err != nil {
		return Failf("slack auth test: %v", err)
	}
	return Ok(map[string]any{
		"user": resp.User,
		"team": resp.Team,
	})
}

// ListChannels lists public channels the bot can see.
func (s *Slack) ListChannels(ctx context.Context) Result {
	channels, _, err := s.api.GetConversationsContext(ctx, &slackgo.GetConversationsParameters{
		Types:           []string{"public_channel"},
		Limit:           100,
		ExcludeArchived: true,
	})
	if err != nil {
		return Failf("slack list channels: %v", err)
	}

	out := make([]map[string]any, 0, len(channels))
	for _, ch := range channels {
		out = append(out, map[string]any{
			"id":   ch.ID,
			"name": ch.Name,
		})
	}
	return Ok(out)
}

// SendChannelMessage posts text to a channel (id or name).
func (s *Slack) SendChannelMessage(ctx context.Context, channel, text string) Result {
	_, ts, err := s.api.PostMessageContext(ctx, channel,
		slackgo.MsgOptionText(text, false))
	if err != nil {
		return Failf("slack post message: %v", err)
	}
	return Ok(map[string]any{
		"channel": channel,
		"ts":      ts,
	})
}
