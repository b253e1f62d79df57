package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/imtarget05/Health-Tracker-App/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- fakes ----------

type fakeStore struct {
	mu           sync.Mutex
	profileIDs   []uint
	inactiveIDs  []uint
	tokens       map[uint][]models.DeviceToken
	emails       map[uint]string
	appended     []*models.Notification
	enumerateErr error
	appendErr    error
}

func (f *fakeStore) ProfileUserIDs(ctx context.Context) ([]uint, error) {
	if f.enumerateErr != nil {
		return nil, f.enumerateErr
	}
	return f.profileIDs, nil
}

func (f *fakeStore) InactiveUserIDs(ctx context.Context, cutoff time.Time) ([]uint, error) {
	if f.enumerateErr != nil {
		return nil, f.enumerateErr
	}
	return f.inactiveIDs, nil
}

func (f *fakeStore) ActiveTokens(ctx context.Context, userID uint) ([]models.DeviceToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[userID], nil
}

func (f *fakeStore) UserEmail(ctx context.Context, userID uint) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.emails[userID]
	if !ok {
		return "", fmt.Errorf("no user %d", userID)
	}
	return e, nil
}

func (f *fakeStore) AppendNotification(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, n)
	return nil
}

func (f *fakeStore) auditCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appended)
}

type fakeFacts struct {
	mu       sync.Mutex
	facts    map[uint]*DailyFacts
	factsErr map[uint]error
	logged   map[uint]map[string]bool
}

func (f *fakeFacts) DailyFacts(ctx context.Context, userID uint, day time.Time) (*DailyFacts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.factsErr[userID]; err != nil {
		return nil, err
	}
	if facts, ok := f.facts[userID]; ok {
		return facts, nil
	}
	return &DailyFacts{Determined: true, Bucket: DailyBucket{Status: StatusUnder}}, nil
}

func (f *fakeFacts) LoggedDates(ctx context.Context, userID uint, from, to time.Time) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logged[userID], nil
}

type gatewayCall struct {
	userID uint
	title  string
	body   string
	data   map[string]string
}

type fakeGateway struct {
	mu    sync.Mutex
	calls []gatewayCall
}

func (f *fakeGateway) SendMulticast(ctx context.Context, endpoints []models.DeviceToken, title, body string, data map[string]string) MulticastResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	var uid uint
	if len(endpoints) > 0 {
		uid = endpoints[0].UserID
	}
	f.calls = append(f.calls, gatewayCall{userID: uid, title: title, body: body, data: data})
	return MulticastResult{Success: len(endpoints)}
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// ---------- helpers ----------

func noonClock() func() time.Time {
	return func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local) }
}

func newTestDispatch(store *fakeStore, facts *fakeFacts, gw PushGateway, cfg DispatchConfig) *DispatchService {
	if cfg.Now == nil {
		cfg.Now = noonClock()
	}
	return NewDispatchService(store, facts, gw, cfg, slog.Default())
}

func tokensFor(ids ...uint) map[uint][]models.DeviceToken {
	out := map[uint][]models.DeviceToken{}
	for _, id := range ids {
		out[id] = []models.DeviceToken{{ID: id, UserID: id, Active: true}}
	}
	return out
}

// ---------- tests ----------

func TestParseJobKind(t *testing.T) {
	for _, s := range []string{"daily-summary", "streak-reminder", "re-engagement"} {
		kind, err := ParseJobKind(s)
		require.NoError(t, err)
		assert.Equal(t, JobKind(s), kind)
	}
	_, err := ParseJobKind("weekly-digest")
	assert.Error(t, err)
}

func TestRunDispatchChunkingAndIsolation(t *testing.T) {
	const n = 75 // daily-summary chunk size 30 → 3 waves
	ids := make([]uint, 0, n)
	for i := uint(1); i <= n; i++ {
		ids = append(ids, i)
	}

	store := &fakeStore{profileIDs: ids, tokens: tokensFor(ids...)}
	facts := &fakeFacts{factsErr: map[uint]error{37: errors.New("log store unavailable")}}
	gw := &fakeGateway{}

	report, err := newTestDispatch(store, facts, gw, DispatchConfig{}).
		RunDispatch(context.Background(), JobDailySummary)
	require.NoError(t, err)

	assert.Equal(t, n, report.Users)
	assert.Equal(t, 3, report.Chunks)
	assert.Equal(t, n-1, report.Sent)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Skipped)

	// one user's failure never suppresses the rest of its chunk or later chunks
	assert.Equal(t, n-1, gw.callCount())
	assert.Equal(t, n-1, store.auditCount())
}

func TestRunDispatchQuietHours(t *testing.T) {
	store := &fakeStore{profileIDs: []uint{1, 2}, tokens: tokensFor(1, 2)}
	gw := &fakeGateway{}

	svc := newTestDispatch(store, &fakeFacts{}, gw, DispatchConfig{
		Now: func() time.Time { return time.Date(2026, 8, 31, 23, 30, 0, 0, time.Local) },
	})
	report, err := svc.RunDispatch(context.Background(), JobDailySummary)
	require.NoError(t, err)

	// quiet hours are a silent no-op: nothing rendered, delivered or recorded
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 0, gw.callCount())
	assert.Equal(t, 0, store.auditCount())
}

func TestRunDispatchNoTokensSkips(t *testing.T) {
	store := &fakeStore{profileIDs: []uint{1}, tokens: map[uint][]models.DeviceToken{}}
	gw := &fakeGateway{}

	report, err := newTestDispatch(store, &fakeFacts{}, gw, DispatchConfig{}).
		RunDispatch(context.Background(), JobDailySummary)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, gw.callCount())
	assert.Equal(t, 0, store.auditCount())
}

func TestRunDispatchUndeterminedTargetsSkips(t *testing.T) {
	store := &fakeStore{profileIDs: []uint{1}, tokens: tokensFor(1)}
	facts := &fakeFacts{facts: map[uint]*DailyFacts{1: {Determined: false}}}
	gw := &fakeGateway{}

	report, err := newTestDispatch(store, facts, gw, DispatchConfig{}).
		RunDispatch(context.Background(), JobDailySummary)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Failed, "incomplete biometrics are a skip, not a failure")
	assert.Equal(t, 0, gw.callCount())
}

func TestRunDispatchGoalAchievedKind(t *testing.T) {
	store := &fakeStore{profileIDs: []uint{1}, tokens: tokensFor(1)}
	facts := &fakeFacts{facts: map[uint]*DailyFacts{
		1: {Determined: true, Bucket: DailyBucket{Status: StatusAchieved, TargetCalories: 1659}},
	}}
	gw := &fakeGateway{}

	report, err := newTestDispatch(store, facts, gw, DispatchConfig{}).
		RunDispatch(context.Background(), JobDailySummary)
	require.NoError(t, err)
	require.Equal(t, 1, report.Sent)

	require.Equal(t, 1, store.auditCount())
	assert.Equal(t, string(KindGoalAchieved), store.appended[0].Kind)
	assert.Contains(t, gw.calls[0].body, "1659")
}

func TestStreakReminderEligibility(t *testing.T) {
	today := noonClock()().Format("2006-01-02")
	yesterday := noonClock()().AddDate(0, 0, -1).Format("2006-01-02")
	twoBack := noonClock()().AddDate(0, 0, -2).Format("2006-01-02")
	threeBack := noonClock()().AddDate(0, 0, -3).Format("2006-01-02")

	store := &fakeStore{profileIDs: []uint{1, 2, 3}, tokens: tokensFor(1, 2, 3)}
	facts := &fakeFacts{logged: map[uint]map[string]bool{
		1: {today: true},                                     // already logged → skip
		2: {yesterday: true, twoBack: true, threeBack: true}, // 3-day streak at risk
		3: {},                                                // nothing to protect → skip
	}}
	gw := &fakeGateway{}

	report, err := newTestDispatch(store, facts, gw, DispatchConfig{}).
		RunDispatch(context.Background(), JobStreakReminder)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 2, report.Skipped)
	require.Equal(t, 1, gw.callCount())
	assert.Equal(t, uint(2), gw.calls[0].userID)
	assert.Equal(t, "3", gw.calls[0].data["streak_days"])
	assert.Contains(t, gw.calls[0].body, "3-day streak")
}

func TestReEngagementEmailFallback(t *testing.T) {
	store := &fakeStore{
		inactiveIDs: []uint{7},
		tokens:      map[uint][]models.DeviceToken{}, // no devices left
		emails:      map[uint]string{7: "lee@example.com"},
	}
	gw := &fakeGateway{}

	var mailedTo []string
	var mu sync.Mutex
	svc := newTestDispatch(store, &fakeFacts{}, gw, DispatchConfig{InactivityDays: 3}).
		WithMailer(func(to string, days int) error {
			mu.Lock()
			defer mu.Unlock()
			mailedTo = append(mailedTo, to)
			assert.Equal(t, 3, days)
			return nil
		})

	report, err := svc.RunDispatch(context.Background(), JobReEngagement)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 0, gw.callCount())
	assert.Equal(t, []string{"lee@example.com"}, mailedTo)
	require.Equal(t, 1, store.auditCount())
	assert.Equal(t, string(KindReEngagement), store.appended[0].Kind)
	assert.Contains(t, store.appended[0].Payload, "email")
}

func TestEnumerationFailureAbandonsRun(t *testing.T) {
	store := &fakeStore{enumerateErr: errors.New("cannot list users")}
	gw := &fakeGateway{}

	_, err := newTestDispatch(store, &fakeFacts{}, gw, DispatchConfig{}).
		RunDispatch(context.Background(), JobDailySummary)
	require.Error(t, err)
	assert.Equal(t, 0, gw.callCount())
}

func TestAuditWriteFailureDoesNotFailUser(t *testing.T) {
	store := &fakeStore{
		profileIDs: []uint{1},
		tokens:     tokensFor(1),
		appendErr:  errors.New("insert refused"),
	}
	gw := &fakeGateway{}

	report, err := newTestDispatch(store, &fakeFacts{}, gw, DispatchConfig{}).
		RunDispatch(context.Background(), JobDailySummary)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sent, "losing the audit record does not fail the dispatch")
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 1, gw.callCount())
}

func TestRunDispatchStalledUserIsIsolated(t *testing.T) {
	store := &fakeStore{profileIDs: []uint{1, 2}, tokens: tokensFor(1, 2)}
	facts := &fakeFacts{}
	slow := &slowGateway{inner: &fakeGateway{}, stallFor: map[uint]bool{1: true}}

	svc := newTestDispatch(store, facts, slow, DispatchConfig{UserTimeout: 50 * time.Millisecond})
	report, err := svc.RunDispatch(context.Background(), JobDailySummary)
	require.NoError(t, err)

	// the stalled user times out into a failure on its own; the sibling still sends
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Skipped)
}

func TestRunDispatchAllTokenFailuresCountFailed(t *testing.T) {
	store := &fakeStore{profileIDs: []uint{1}, tokens: tokensFor(1)}

	report, err := newTestDispatch(store, &fakeFacts{}, deadGateway{}, DispatchConfig{}).
		RunDispatch(context.Background(), JobDailySummary)
	require.NoError(t, err)

	// a multicast that reached no device is a delivery failure, not a send
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, store.auditCount(), "the attempt is still recorded")
}

// deadGateway fails every token it is handed.
type deadGateway struct{}

func (deadGateway) SendMulticast(ctx context.Context, endpoints []models.DeviceToken, title, body string, data map[string]string) MulticastResult {
	return MulticastResult{Failure: len(endpoints)}
}

// slowGateway blocks for selected users until their context expires.
type slowGateway struct {
	inner    *fakeGateway
	stallFor map[uint]bool
}

func (s *slowGateway) SendMulticast(ctx context.Context, endpoints []models.DeviceToken, title, body string, data map[string]string) MulticastResult {
	if len(endpoints) > 0 && s.stallFor[endpoints[0].UserID] {
		<-ctx.Done()
		return MulticastResult{Failure: len(endpoints)}
	}
	return s.inner.SendMulticast(ctx, endpoints, title, body, data)
}
