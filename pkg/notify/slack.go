package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// slackClient is the part of *slack.Client used to send direct messages
type slackClient interface {
	GetUserByEmailContext(ctx context.Context, email string) (*slack.User, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackTransport sends each message as a direct message to the Slack user
// registered with the recipient's email address
type SlackTransport struct {
	client slackClient
}

// NewSlackTransport creates a transport authenticated with botToken
func NewSlackTransport(botToken string) *SlackTransport {
	return &SlackTransport{client: slack.New(botToken)}
}

func (s *SlackTransport) Name() string {
	return "slack"
}

func (s *SlackTransport) Deliver(ctx context.Context, msg Message) error {
	user, err := s.client.GetUserByEmailContext(ctx, msg.Recipient.Email)
	if err != nil {
		return fmt.Errorf("failed to look up slack user %s: %w", msg.Recipient.Email, err)
	}
	text := fmt.Sprintf("*%s*\n%s", msg.Subject, msg.Body)
	if _, _, err := s.client.PostMessageContext(ctx, user.ID, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("failed to message slack user %s: %w", user.ID, err)
	}
	return nil
}
