package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/imtarget05/Health-Tracker-App/models"

	"github.com/google/uuid"
)

type JobKind string

const (
	JobDailySummary   JobKind = "daily-summary"
	JobStreakReminder JobKind = "streak-reminder"
	JobReEngagement   JobKind = "re-engagement"
)

func ParseJobKind(s string) (JobKind, error) {
	switch JobKind(s) {
	case JobDailySummary, JobStreakReminder, JobReEngagement:
		return JobKind(s), nil
	}
	return "", fmt.Errorf("unknown job kind %q", s)
}

// Chunks are processed one after another; everyone inside a chunk runs
// concurrently. Daily summary does the heaviest per-user reads, so it gets
// the smaller chunk.
func chunkSize(kind JobKind) int {
	if kind == JobDailySummary {
		return 30
	}
	return 50
}

// DispatchStore is the slice of persistence the pipeline needs: user
// enumeration, token lookup and the insert-only audit append.
type DispatchStore interface {
	ProfileUserIDs(ctx context.Context) ([]uint, error)
	InactiveUserIDs(ctx context.Context, cutoff time.Time) ([]uint, error)
	ActiveTokens(ctx context.Context, userID uint) ([]models.DeviceToken, error)
	UserEmail(ctx context.Context, userID uint) (string, error)
	AppendNotification(ctx context.Context, n *models.Notification) error
}

// FactsSource computes the per-user state a job evaluates.
type FactsSource interface {
	DailyFacts(ctx context.Context, userID uint, day time.Time) (*DailyFacts, error)
	LoggedDates(ctx context.Context, userID uint, from, to time.Time) (map[string]bool, error)
}

// PushGateway fans one notification out to many device tokens and reports
// per-attempt counts without raising individual token failures.
type PushGateway interface {
	SendMulticast(ctx context.Context, endpoints []models.DeviceToken, title, body string, data map[string]string) MulticastResult
}

// ReEngagementMailer is the optional email fallback for inactive users
// with no push-capable device left.
type ReEngagementMailer func(to string, inactiveDays int) error

type DispatchConfig struct {
	Quiet          QuietWindow
	InactivityDays int           // re-engagement threshold
	UserTimeout    time.Duration // converts a stalled user into an isolated failure
	Now            func() time.Time
}

type DispatchService struct {
	store   DispatchStore
	facts   FactsSource
	gateway PushGateway
	mail    ReEngagementMailer
	hub     *RealtimeHub
	cfg     DispatchConfig
	log     *slog.Logger
}

func NewDispatchService(store DispatchStore, facts FactsSource, gateway PushGateway, cfg DispatchConfig, log *slog.Logger) *DispatchService {
	if cfg.Quiet == (QuietWindow{}) {
		cfg.Quiet = DefaultQuietWindow
	}
	if cfg.InactivityDays <= 0 {
		cfg.InactivityDays = 3
	}
	if cfg.UserTimeout <= 0 {
		cfg.UserTimeout = 30 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &DispatchService{store: store, facts: facts, gateway: gateway, cfg: cfg, log: log}
}

// WithMailer enables the re-engagement email fallback.
func (s *DispatchService) WithMailer(m ReEngagementMailer) *DispatchService {
	s.mail = m
	return s
}

// WithHub mirrors dispatched notifications onto connected websockets.
func (s *DispatchService) WithHub(h *RealtimeHub) *DispatchService {
	s.hub = h
	return s
}

// DispatchReport is the per-run tally returned to the scheduler or an
// operator replaying a job by hand.
type DispatchReport struct {
	RunID   string  `json:"run_id"`
	Kind    JobKind `json:"kind"`
	Users   int     `json:"users"`
	Chunks  int     `json:"chunks"`
	Sent    int     `json:"sent"`
	Skipped int     `json:"skipped"`
	Failed  int     `json:"failed"`
}

type userOutcome struct {
	sent bool
	err  error
}

// RunDispatch executes one full pipeline pass for a job kind. Only an
// enumeration failure abandons the run; every other error stays confined
// to the user it happened for, and the run always covers the whole
// enumerated set.
func (s *DispatchService) RunDispatch(ctx context.Context, kind JobKind) (*DispatchReport, error) {
	report := &DispatchReport{RunID: uuid.NewString(), Kind: kind}
	log := s.log.With("runId", report.RunID, "kind", string(kind))

	userIDs, err := s.enumerate(ctx, kind)
	if err != nil {
		log.Error("user enumeration failed, abandoning run", "error", err)
		return nil, fmt.Errorf("enumerate users for %s: %w", kind, err)
	}
	report.Users = len(userIDs)

	size := chunkSize(kind)
	for lo := 0; lo < len(userIDs); lo += size {
		chunk := userIDs[lo:min(lo+size, len(userIDs))]
		report.Chunks++

		outcomes := make([]userOutcome, len(chunk))
		var wg sync.WaitGroup
		for i, uid := range chunk {
			wg.Add(1)
			go func(i int, uid uint) {
				defer wg.Done()
				uctx, cancel := context.WithTimeout(ctx, s.cfg.UserTimeout)
				defer cancel()
				outcomes[i] = s.dispatchToUser(uctx, log, kind, uid)
			}(i, uid)
		}
		wg.Wait()

		for i, o := range outcomes {
			switch {
			case o.err != nil:
				report.Failed++
				log.Error("user dispatch failed", "userId", chunk[i], "error", o.err)
			case o.sent:
				report.Sent++
			default:
				report.Skipped++
			}
		}
	}

	log.Info("dispatch run complete",
		"users", report.Users, "chunks", report.Chunks,
		"sent", report.Sent, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

func (s *DispatchService) enumerate(ctx context.Context, kind JobKind) ([]uint, error) {
	switch kind {
	case JobReEngagement:
		cutoff := s.cfg.Now().AddDate(0, 0, -s.cfg.InactivityDays)
		return s.store.InactiveUserIDs(ctx, cutoff)
	default:
		// streak eligibility is decided per user inside the fan-out,
		// so both daily jobs enumerate everyone with a profile
		return s.store.ProfileUserIDs(ctx)
	}
}

func (s *DispatchService) dispatchToUser(ctx context.Context, log *slog.Logger, kind JobKind, userID uint) userOutcome {
	now := s.cfg.Now()

	notifKind, vars, eligible, err := s.computeFacts(ctx, kind, userID, now)
	if err != nil {
		return userOutcome{err: err}
	}
	if !eligible {
		return userOutcome{}
	}

	// Quiet hours make the whole attempt a silent no-op: nothing rendered,
	// nothing delivered, no audit row.
	if s.cfg.Quiet.Contains(now) {
		log.Info("quiet hours, skipping send", "userId", userID)
		return userOutcome{}
	}

	title, body := RenderTemplate(notifKind, vars)
	if title == "" && body == "" {
		log.Warn("no template for kind, not sending", "userId", userID, "notificationKind", string(notifKind))
		return userOutcome{}
	}

	data := map[string]string{"kind": string(kind)}
	for k, v := range vars {
		data[k] = fmt.Sprint(v)
	}

	tokens, err := s.store.ActiveTokens(ctx, userID)
	if err != nil {
		return userOutcome{err: fmt.Errorf("fetch device tokens: %w", err)}
	}
	if len(tokens) == 0 {
		if kind == JobReEngagement && s.mail != nil {
			return s.mailFallback(ctx, log, userID, notifKind, title, body, data, now)
		}
		log.Info("no active tokens, skipping", "userId", userID)
		return userOutcome{}
	}

	res := s.gateway.SendMulticast(ctx, tokens, title, body, data)
	log.Info("multicast sent", "userId", userID, "success", res.Success, "failure", res.Failure)

	s.appendAudit(ctx, log, userID, notifKind, title, body, data, now)
	if res.Success == 0 && res.Failure > 0 {
		// every token failed; the attempt delivered nothing
		return userOutcome{err: fmt.Errorf("multicast reached no device (%d failures)", res.Failure)}
	}
	if s.hub != nil {
		s.hub.Publish(userID, NotificationEvent{
			Kind:   string(notifKind),
			Title:  title,
			Body:   body,
			SentAt: now,
		})
	}
	return userOutcome{sent: true}
}

// computeFacts resolves which notification a user gets and the variables
// it renders with. eligible=false is a routine skip, not a failure.
func (s *DispatchService) computeFacts(ctx context.Context, kind JobKind, userID uint, now time.Time) (NotificationKind, map[string]any, bool, error) {
	switch kind {
	case JobDailySummary:
		facts, err := s.facts.DailyFacts(ctx, userID, now)
		if err != nil {
			return "", nil, false, fmt.Errorf("daily facts: %w", err)
		}
		if !facts.Determined {
			// incomplete biometrics resolve to skip, never to a batch failure
			return "", nil, false, nil
		}
		b := facts.Bucket
		vars := map[string]any{
			"calories":        int(math.Round(b.TotalCalories)),
			"target_calories": b.TargetCalories,
			"water":           int(math.Round(b.TotalWaterMl)),
			"target_water":    b.TargetWaterMl,
			"verdict":         summaryVerdict(b.Status),
			"date":            b.Date,
			"status":          string(b.Status),
		}
		if b.Status == StatusAchieved {
			return KindGoalAchieved, vars, true, nil
		}
		return KindDailySummary, vars, true, nil

	case JobStreakReminder:
		logged, err := s.facts.LoggedDates(ctx, userID, now, now)
		if err != nil {
			return "", nil, false, fmt.Errorf("today's logs: %w", err)
		}
		if logged[now.Format("2006-01-02")] {
			return "", nil, false, nil
		}
		streak, err := s.streakDays(ctx, userID, now)
		if err != nil {
			return "", nil, false, err
		}
		if streak == 0 {
			// nothing to protect; re-engagement covers the fully lapsed
			return "", nil, false, nil
		}
		return KindStreakReminder, map[string]any{"streak_days": streak}, true, nil

	case JobReEngagement:
		return KindReEngagement, map[string]any{"inactive_days": s.cfg.InactivityDays}, true, nil
	}
	return "", nil, false, fmt.Errorf("unknown job kind %q", kind)
}

const streakLookbackDays = 30

// streakDays counts consecutive logged days ending yesterday.
func (s *DispatchService) streakDays(ctx context.Context, userID uint, now time.Time) (int, error) {
	from := now.AddDate(0, 0, -streakLookbackDays)
	yesterday := now.AddDate(0, 0, -1)
	logged, err := s.facts.LoggedDates(ctx, userID, from, yesterday)
	if err != nil {
		return 0, fmt.Errorf("streak lookback: %w", err)
	}
	streak := 0
	for d := yesterday; !d.Before(from); d = d.AddDate(0, 0, -1) {
		if !logged[d.Format("2006-01-02")] {
			break
		}
		streak++
	}
	return streak, nil
}

func (s *DispatchService) mailFallback(ctx context.Context, log *slog.Logger, userID uint, notifKind NotificationKind, title, body string, data map[string]string, now time.Time) userOutcome {
	email, err := s.store.UserEmail(ctx, userID)
	if err != nil {
		return userOutcome{err: fmt.Errorf("lookup email: %w", err)}
	}
	if err := s.mail(email, s.cfg.InactivityDays); err != nil {
		return userOutcome{err: fmt.Errorf("re-engagement email: %w", err)}
	}
	log.Info("no tokens, re-engagement sent by email", "userId", userID)
	data["channel"] = "email"
	s.appendAudit(ctx, log, userID, notifKind, title, body, data, now)
	return userOutcome{sent: true}
}

// appendAudit writes the delivery record. Losing one is tolerable; the
// user's dispatch already happened.
func (s *DispatchService) appendAudit(ctx context.Context, log *slog.Logger, userID uint, kind NotificationKind, title, body string, data map[string]string, sentAt time.Time) {
	payload, _ := json.Marshal(data)
	n := &models.Notification{
		UserID:  userID,
		Kind:    string(kind),
		Title:   title,
		Body:    body,
		Payload: string(payload),
		SentAt:  sentAt,
	}
	if err := s.store.AppendNotification(ctx, n); err != nil {
		log.Warn("could not write delivery record", "userId", userID, "error", err)
	}
}

func summaryVerdict(s DayStatus) string {
	switch s {
	case StatusOver:
		return "A bit over target today."
	case StatusUnder:
		return "You still have room to eat."
	default:
		return "Keep logging to see how you're doing."
	}
}
