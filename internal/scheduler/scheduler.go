package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"TickerLens/internal/analysis"
	"TickerLens/internal/logger"
	"TickerLens/internal/model"
	"TickerLens/internal/notifier"
	"TickerLens/internal/portfolio"
	"TickerLens/internal/recorder"
	"TickerLens/internal/strategy"
)

const (
	TriggerCron    = "CRON"
	TriggerCommand = "COMMAND"
	TriggerStartup = "STARTUP"
	TriggerAPI     = "API"
)

// Sender delivers a formatted message. *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// RefreshObserver records refresh totals.
type RefreshObserver interface {
	ObserveRefresh(succeeded, failed int)
}

// Deps bundles the collaborators of a Scheduler. Sender and Metrics may be nil.
type Deps struct {
	Analyzer  portfolio.Analyzer
	Portfolio *portfolio.Manager
	Refresher *portfolio.Refresher
	Recorder  recorder.Recorder
	Sender    Sender
	Metrics   RefreshObserver
	Log       *logger.Logger
}

// Scheduler runs periodic refreshes and answers chat commands.
type Scheduler struct {
	Cron    *cron.Cron
	deps    Deps
	ctx     context.Context
	running atomic.Bool
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, deps Deps) *Scheduler {
	if deps.Recorder == nil {
		deps.Recorder = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		deps: deps,
		ctx:  ctx,
	}
}

// RegisterAll registers the refresh task and, when digestCron is set, the digest task.
func (s *Scheduler) RegisterAll(refreshCron, digestCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, func() { s.RunRefresh(TriggerCron) }); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if digestCron == "" {
		return nil
	}
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	s.deps.Log.Info("scheduler started", logger.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.deps.Log.Info("scheduler stopped")
}

// RunRefresh re-analyzes the portfolio, records the results and sends a digest.
// Cron runs only notify when a recommendation changed or a symbol failed.
// Overlapping calls return nil without doing anything.
func (s *Scheduler) RunRefresh(trigger string) []portfolio.Outcome {
	outcomes, _ := s.refresh(trigger)
	return outcomes
}

func (s *Scheduler) refresh(trigger string) ([]portfolio.Outcome, bool) {
	if !s.running.CompareAndSwap(false, true) {
		s.deps.Log.Warn("refresh already running, skipping", logger.String("trigger", trigger))
		return nil, false
	}
	defer s.running.Store(false)

	log := s.deps.Log.With(logger.String("trigger", trigger))
	log.Info("running refresh")
	started := time.Now()
	outcomes := s.deps.Refresher.Refresh(s.ctx)

	run := &recorder.RefreshRun{
		StartedAt: started,
		Duration:  time.Since(started),
		Symbols:   len(outcomes),
		Trigger:   trigger,
	}
	for _, o := range outcomes {
		if o.Err != nil {
			run.Failed++
			continue
		}
		run.Succeeded++
		if o.Changed() {
			run.Changed++
		}
		if err := s.deps.Recorder.RecordReport(o.Report); err != nil {
			log.Error("record report failed", logger.String("symbol", o.Symbol), logger.Error(err))
		}
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveRefresh(run.Succeeded, run.Failed)
	}
	if err := s.deps.Recorder.RecordRefresh(run); err != nil {
		log.Error("record refresh failed", logger.Error(err))
	}
	log.Info("refresh complete",
		logger.Int("symbols", run.Symbols),
		logger.Int("succeeded", run.Succeeded),
		logger.Int("failed", run.Failed),
		logger.Int("changed", run.Changed),
		logger.Duration("took", run.Duration))

	if trigger != TriggerCron || run.Changed > 0 || run.Failed > 0 {
		s.trySend(notifier.FormatRefreshDigest(outcomes))
	}
	return outcomes, true
}

func (s *Scheduler) digestTask() {
	s.deps.Log.Info("sending portfolio digest")
	state := s.deps.Portfolio.Snapshot()
	s.trySend(notifier.FormatPortfolio(state, s.deps.Portfolio.Summary()) + "\n" + notifier.FormatWatchlist(state))
}

const helpText = `Available commands:
• /analyze SYMBOL [1mo|3mo|1y] [standard|advanced]
• /portfolio
• /watchlist
• /add SYMBOL SHARES COST
• /remove SYMBOL
• /watch SYMBOL
• /unwatch SYMBOL
• /refresh
• /profiles`

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Group chats append the bot name: /analyze@TickerLensBot
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch name {
	case "/analyze":
		return s.cmdAnalyze(args)
	case "/portfolio":
		return notifier.FormatPortfolio(s.deps.Portfolio.Snapshot(), s.deps.Portfolio.Summary())
	case "/watchlist":
		return notifier.FormatWatchlist(s.deps.Portfolio.Snapshot())
	case "/add":
		return s.cmdAdd(args)
	case "/remove":
		if len(args) != 1 {
			return "Usage: /remove SYMBOL"
		}
		return replyFor(s.deps.Portfolio.RemoveHolding(args[0]), fmt.Sprintf("Removed %s from holdings.", symbolText(args[0])))
	case "/watch":
		if len(args) != 1 {
			return "Usage: /watch SYMBOL"
		}
		return replyFor(s.deps.Portfolio.Watch(args[0]), fmt.Sprintf("Watching %s.", symbolText(args[0])))
	case "/unwatch":
		if len(args) != 1 {
			return "Usage: /unwatch SYMBOL"
		}
		return replyFor(s.deps.Portfolio.Unwatch(args[0]), fmt.Sprintf("Stopped watching %s.", symbolText(args[0])))
	case "/refresh":
		if _, ok := s.refresh(TriggerCommand); !ok {
			return "A refresh is already running."
		}
		return ""
	case "/profiles":
		var b strings.Builder
		for _, p := range strategy.Profiles() {
			b.WriteString(fmt.Sprintf("• <b>%s</b>: %s\n", p.Name, p.Description))
		}
		return b.String()
	default:
		return helpText
	}
}

func (s *Scheduler) cmdAnalyze(args []string) string {
	if len(args) == 0 || len(args) > 3 {
		return "Usage: /analyze SYMBOL [1mo|3mo|1y] [standard|advanced]"
	}
	req := analysis.Request{Symbol: args[0]}
	if len(args) > 1 {
		period, err := model.ParseLookback(args[1])
		if err != nil {
			return errorReply(err)
		}
		req.Period = period
	}
	if len(args) > 2 {
		req.Profile = args[2]
	}

	report, err := s.deps.Analyzer.Analyze(s.ctx, req)
	if err != nil {
		s.deps.Log.Warn("analyze command failed", logger.String("symbol", req.Symbol), logger.Error(err))
		return errorReply(err)
	}
	if err := s.deps.Recorder.RecordReport(report); err != nil {
		s.deps.Log.Error("record report failed", logger.String("symbol", report.Symbol), logger.Error(err))
	}
	s.deps.Portfolio.ApplyReport(report)
	return notifier.FormatReport(report)
}

func (s *Scheduler) cmdAdd(args []string) string {
	const usage = "Usage: /add SYMBOL SHARES COST"
	if len(args) != 3 {
		return usage
	}
	shares, err := decimal.NewFromString(args[1])
	if err != nil {
		return usage
	}
	cost, err := decimal.NewFromString(args[2])
	if err != nil {
		return usage
	}
	h, err := s.deps.Portfolio.AddHolding(args[0], shares, cost)
	if err != nil {
		return errorReply(err)
	}
	return fmt.Sprintf("Holding %s: %s shares @ %s.", html.EscapeString(h.Symbol), h.Shares.String(), h.CostBasis.StringFixed(2))
}

// errorReply escapes err for the HTML parse mode replies are sent with.
func errorReply(err error) string {
	return "❌ " + html.EscapeString(err.Error())
}

func symbolText(s string) string {
	return html.EscapeString(strings.ToUpper(strings.TrimSpace(s)))
}

func replyFor(err error, ok string) string {
	if errors.Is(err, portfolio.ErrNotFound) {
		return errorReply(err)
	}
	if err != nil {
		return errorReply(fmt.Errorf("could not save portfolio: %w", err))
	}
	return ok
}

func (s *Scheduler) trySend(text string) {
	if s.deps.Sender == nil {
		return
	}
	if err := s.deps.Sender.SendWithRetry(s.ctx, text, 3); err != nil {
		s.deps.Log.Error("send notification failed", logger.Error(err))
	}
}
