package telegraph

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/metrics"
	"github.com/zulandar/southwood/internal/query"
	"github.com/zulandar/southwood/internal/risk"
	"github.com/zulandar/southwood/internal/store"
)

// CommandHandler processes read-only "!sw" commands from chat. Anything
// that is not a known command is answered as a free-text question.
type CommandHandler struct {
	db    *gorm.DB
	clock civil.Clock
}

// CommandHandlerOpts holds parameters for creating a CommandHandler.
type CommandHandlerOpts struct {
	DB    *gorm.DB
	Clock civil.Clock // defaults to the system clock
}

// NewCommandHandler creates a CommandHandler.
func NewCommandHandler(opts CommandHandlerOpts) (*CommandHandler, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("telegraph: command handler: db is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = civil.SystemClock{}
	}
	return &CommandHandler{db: opts.DB, clock: clock}, nil
}

// Execute parses and executes a "!sw" command string. Returns the
// response text to send back to the chat channel.
func (ch *CommandHandler) Execute(text string) string {
	rest := stripPrefix(text)
	if rest == "" {
		return ch.helpText()
	}
	args := strings.Fields(rest)

	switch strings.ToLower(args[0]) {
	case "status":
		return ch.cmdStatus()
	case "show":
		return ch.cmdShow(args[1:])
	case "help":
		return ch.helpText()
	default:
		return ch.cmdAsk(rest)
	}
}

// stripPrefix removes the "!sw" prefix and surrounding whitespace.
func stripPrefix(text string) string {
	text = strings.TrimSpace(text)
	if text == commandPrefix {
		return ""
	}
	text = strings.TrimPrefix(text, commandPrefix+" ")
	return strings.TrimSpace(text)
}

// cmdStatus returns the portfolio KPI summary.
func (ch *CommandHandler) cmdStatus() string {
	projects, err := store.All(ch.db)
	if err != nil {
		return fmt.Sprintf("Error getting status: %v", err)
	}
	return formatKPI(risk.Portfolio(projects, ch.clock.Today()))
}

// cmdShow shows details for a single project.
func (ch *CommandHandler) cmdShow(args []string) string {
	if len(args) == 0 {
		return "Usage: `!sw show <project-id>`"
	}
	id := strings.ToUpper(args[0])
	p, err := store.Get(ch.db, id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("No project `%s`.", id)
	}
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return eventText(FormatProject(p, ch.clock.Today()))
}

// cmdAsk answers a free-text question over every project.
func (ch *CommandHandler) cmdAsk(question string) string {
	projects, err := store.All(ch.db)
	if err != nil {
		return fmt.Sprintf("Error loading projects: %v", err)
	}
	r := query.Answer(projects, question, ch.clock.Today())
	metrics.IncrementQuery(r.Kind)
	return r.Text
}

// helpText returns usage information for all commands.
func (ch *CommandHandler) helpText() string {
	return "**Southwood Commands**\n" +
		"`!sw status` — Portfolio summary\n" +
		"`!sw show <id>` — Project details\n" +
		"`!sw <question>` — Ask about projects, e.g. `!sw what's due next week`\n" +
		"`!sw help` — This message"
}
