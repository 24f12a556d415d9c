package telegraph

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// commandPrefix is the prefix that triggers command handling.
const commandPrefix = "!sw"

// Router classifies inbound chat messages and routes them to the command
// handler, or ignores them.
type Router struct {
	cmdHandler *CommandHandler
	adapter    Adapter
	botUserID  string // the bot's own user ID (to filter self-messages)
	log        *zap.Logger
}

// RouterOpts holds parameters for creating a Router.
type RouterOpts struct {
	CmdHandler *CommandHandler
	Adapter    Adapter
	BotUserID  string      // bot's user ID for self-message filtering
	Logger     *zap.Logger // defaults to a no-op logger
}

// NewRouter creates a Router.
func NewRouter(opts RouterOpts) (*Router, error) {
	if opts.CmdHandler == nil {
		return nil, fmt.Errorf("telegraph: router: command handler is required")
	}
	if opts.Adapter == nil {
		return nil, fmt.Errorf("telegraph: router: adapter is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		cmdHandler: opts.CmdHandler,
		adapter:    opts.Adapter,
		botUserID:  opts.BotUserID,
		log:        log,
	}, nil
}

// Handle classifies and routes a single inbound message. Routing paths:
//  1. Bot self-message → ignore
//  2. Command prefix "!sw" → command handler
//  3. @mention of the bot → command handler with the mention stripped
//  4. Everything else → ignore
func (r *Router) Handle(ctx context.Context, msg InboundMessage) {
	if r.isSelfMessage(msg) {
		return
	}

	text := strings.TrimSpace(msg.Text)
	r.log.Debug("telegraph: router: recv",
		zap.String("channel", msg.ChannelID),
		zap.String("thread", msg.ThreadID),
		zap.String("user", msg.UserName),
		zap.String("text", truncate(text, 80)),
	)

	if isCommand(text) {
		r.handleCommand(ctx, msg, text)
		return
	}
	if cmd, ok := r.extractMentionCommand(text); ok {
		r.handleCommand(ctx, msg, commandPrefix+" "+cmd)
		return
	}
}

// handleCommand dispatches a "!sw" command and sends the response in the
// same thread.
func (r *Router) handleCommand(ctx context.Context, msg InboundMessage, text string) {
	response := r.cmdHandler.Execute(text)
	if err := r.adapter.Send(ctx, OutboundMessage{
		ChannelID: msg.ChannelID,
		ThreadID:  msg.ThreadID,
		Text:      response,
	}); err != nil {
		r.log.Warn("telegraph: router: send command response", zap.Error(err))
	}
}

// isSelfMessage returns true if the message is from the bot itself.
func (r *Router) isSelfMessage(msg InboundMessage) bool {
	return r.botUserID != "" && msg.UserID == r.botUserID
}

// isCommand returns true if the text starts with the command prefix.
func isCommand(text string) bool {
	return strings.HasPrefix(text, commandPrefix+" ") || text == commandPrefix
}

// mentionRe matches Slack <@U123> and Discord <@123> / <@!123> mentions.
var mentionRe = regexp.MustCompile(`<@!?([A-Za-z0-9]+)>`)

// extractMentionCommand reports whether text mentions the bot and, if so,
// returns the text with every mention removed. When the bot's user ID is
// unknown any mention counts.
func (r *Router) extractMentionCommand(text string) (string, bool) {
	matches := mentionRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", false
	}
	mentioned := r.botUserID == ""
	for _, m := range matches {
		if m[1] == r.botUserID {
			mentioned = true
		}
	}
	if !mentioned {
		return "", false
	}
	return strings.TrimSpace(mentionRe.ReplaceAllString(text, "")), true
}

// truncate returns s truncated to maxLen with "..." appended if needed.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
