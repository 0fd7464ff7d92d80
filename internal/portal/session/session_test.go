package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/text/language"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/locale"
	"github.com/ngo-portal/portal-backend/internal/portal/notify"
	"github.com/ngo-portal/portal-backend/internal/portal/seed"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var bundle = locale.MustLoad("en")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newManager(t *testing.T, backend Backend, clock *fakeClock) (*Manager, *int) {
	t.Helper()
	count := new(int)
	m, err := NewManager(Config{
		Backend: backend,
		Bundle:  bundle,
		Seed:    seed.Default(),
		IdleTTL: 10 * time.Minute,
		Clock:   clock.Now,
		OnCount: func(n int) { *count = n },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	return m, count
}

func TestNewManager_RequiresBundleAndBackend(t *testing.T) {
	_, err := NewManager(Config{Backend: MemoryBackend()})
	assert.Error(t, err)

	_, err = NewManager(Config{Bundle: bundle})
	assert.Error(t, err)
}

func TestManager_CreateSeedsEveryScreen(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	m, count := newManager(t, MemoryBackend(), clock)
	ctx := context.Background()

	w, err := m.Create(ctx, language.Spanish)
	require.NoError(t, err)
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, "es", w.Localizer().Lang())
	assert.Equal(t, 1, *count)

	ngos, err := w.NGOs.All(ctx)
	require.NoError(t, err)
	assert.Len(t, ngos, 3)
	admin, err := w.AdminProjects.All(ctx)
	require.NoError(t, err)
	assert.Len(t, admin, 2)
	projects, err := w.NGOProjects.All(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	got, err := m.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Same(t, w, got)
}

func TestManager_GetUnknown(t *testing.T) {
	m, _ := newManager(t, MemoryBackend(), &fakeClock{now: time.Now()})
	_, err := m.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = m.Reset(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_WorkspacesAreIsolated(t *testing.T) {
	m, _ := newManager(t, MemoryBackend(), &fakeClock{now: time.Now()})
	ctx := context.Background()

	a, err := m.Create(ctx, language.English)
	require.NoError(t, err)
	b, err := m.Create(ctx, language.English)
	require.NoError(t, err)

	removed, err := a.NGOs.Delete(ctx, "2")
	require.NoError(t, err)
	require.True(t, removed)

	aNGOs, err := a.NGOs.All(ctx)
	require.NoError(t, err)
	bNGOs, err := b.NGOs.All(ctx)
	require.NoError(t, err)
	assert.Len(t, aNGOs, 2)
	assert.Len(t, bNGOs, 3)

	assert.Len(t, a.Feed.Recent(0), 1)
	assert.Empty(t, b.Feed.Recent(0))
}

func TestManager_ResetDiscardsChanges(t *testing.T) {
	m, _ := newManager(t, MemoryBackend(), &fakeClock{now: time.Now()})
	ctx := context.Background()

	w, err := m.Create(ctx, language.English)
	require.NoError(t, err)
	_, err = w.NGOs.Create(ctx, domain.NGODraft{Name: "New", ManagerName: "M", Email: "m@n.org", Phone: "1"})
	require.NoError(t, err)
	_, err = w.NGOProjects.Delete(ctx, "1")
	require.NoError(t, err)
	_, err = w.NGOs.Search(ctx, "new")
	require.NoError(t, err)

	_, err = m.Reset(ctx, w.ID)
	require.NoError(t, err)

	ngos, err := w.NGOs.All(ctx)
	require.NoError(t, err)
	assert.Len(t, ngos, 3)
	assert.Empty(t, w.NGOs.Query())
	projects, err := w.NGOProjects.All(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
	assert.Empty(t, w.Feed.Drain())
}

func TestManager_SweepEvictsIdle(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	m, count := newManager(t, MemoryBackend(), clock)
	ctx := context.Background()

	idle, err := m.Create(ctx, language.English)
	require.NoError(t, err)
	active, err := m.Create(ctx, language.English)
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	_, err = m.Get(ctx, active.ID)
	require.NoError(t, err)
	clock.Advance(6 * time.Minute)

	assert.Equal(t, 1, m.Sweep(ctx))
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 1, *count)
	_, err = m.Get(ctx, idle.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = m.Get(ctx, active.ID)
	assert.NoError(t, err)

	assert.Zero(t, m.Sweep(ctx))
}

func TestManager_RemoveClosesFeed(t *testing.T) {
	m, _ := newManager(t, MemoryBackend(), &fakeClock{now: time.Now()})
	ctx := context.Background()

	w, err := m.Create(ctx, language.English)
	require.NoError(t, err)
	ch, cancel := w.Feed.Subscribe()
	defer cancel()

	require.NoError(t, m.Remove(ctx, w.ID))
	_, open := <-ch
	assert.False(t, open)
	assert.NoError(t, m.Remove(ctx, w.ID))
}

func TestManager_PublisherReceivesNotifications(t *testing.T) {
	var got []domain.Notification
	var mu sync.Mutex
	m, err := NewManager(Config{
		Backend: MemoryBackend(),
		Bundle:  bundle,
		Seed:    seed.Default(),
		Publisher: func(string) notify.Notifier {
			return notify.Func(func(_ context.Context, n domain.Notification) {
				mu.Lock()
				defer mu.Unlock()
				got = append(got, n)
			})
		},
	})
	require.NoError(t, err)
	defer m.Close(context.Background())

	w, err := m.Create(context.Background(), language.English)
	require.NoError(t, err)
	_, err = w.AdminProjects.Create(context.Background(), domain.AdminProjectDraft{Name: "P"})
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, "Missing fields", got[0].Title)
	assert.Equal(t, "admin_projects", got[0].Screen)
}

func TestWorkspace_SetLanguage(t *testing.T) {
	m, _ := newManager(t, MemoryBackend(), &fakeClock{now: time.Now()})
	w, err := m.Create(context.Background(), language.English)
	require.NoError(t, err)

	w.SetLanguage(language.Spanish)
	assert.Equal(t, "Proyectos", w.Localizer().T("nav.projects"))

	w.SetLanguage(language.Japanese)
	assert.Equal(t, "en", w.Localizer().Lang())
}

func TestManager_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	m, _ := newManager(t, RedisBackend(client, time.Hour), &fakeClock{now: time.Now()})
	ctx := context.Background()

	w, err := m.Create(ctx, language.English)
	require.NoError(t, err)
	ngo, err := w.NGOs.Create(ctx, domain.NGODraft{Name: "R", ManagerName: "M", Email: "r@m.org", Phone: "1"})
	require.NoError(t, err)
	assert.Equal(t, "4", ngo.ID)
	assert.NotEmpty(t, mr.Keys())

	require.NoError(t, m.Remove(ctx, w.ID))
	assert.Empty(t, mr.Keys())
}

func TestManager_RedisRecordsOutliveReadOnlyActivity(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	clock := &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	m, _ := newManager(t, RedisBackend(client, 10*time.Minute), clock)
	ctx := context.Background()

	w, err := m.Create(ctx, language.English)
	require.NoError(t, err)
	ngo, err := w.NGOs.Create(ctx, domain.NGODraft{Name: "R", ManagerName: "M", Email: "r@m.org", Phone: "1"})
	require.NoError(t, err)
	require.Equal(t, "4", ngo.ID)
	removed, err := w.NGOs.Delete(ctx, "4")
	require.NoError(t, err)
	require.True(t, removed)

	for i := 0; i < 3; i++ {
		clock.Advance(4 * time.Minute)
		mr.FastForward(4 * time.Minute)

		got, err := m.Get(ctx, w.ID)
		require.NoError(t, err)
		_, err = got.NGOs.Visible(ctx)
		require.NoError(t, err)
	}
	assert.Zero(t, m.Sweep(ctx))

	ngos, err := w.NGOs.All(ctx)
	require.NoError(t, err)
	assert.Len(t, ngos, 3)

	next, err := w.NGOs.Create(ctx, domain.NGODraft{Name: "S", ManagerName: "M", Email: "s@m.org", Phone: "2"})
	require.NoError(t, err)
	assert.Equal(t, "5", next.ID)
}

func TestManager_GetExpiresIdleWorkspaceBeforeSweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	m, count := newManager(t, MemoryBackend(), clock)
	ctx := context.Background()

	w, err := m.Create(ctx, language.English)
	require.NoError(t, err)

	clock.Advance(11 * time.Minute)
	_, err = m.Get(ctx, w.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Zero(t, m.Len())
	assert.Zero(t, *count)
}

func TestManager_MaxWorkspaces(t *testing.T) {
	m, err := NewManager(Config{
		Backend:       MemoryBackend(),
		Bundle:        bundle,
		Seed:          seed.Default(),
		MaxWorkspaces: 2,
	})
	require.NoError(t, err)
	ctx := context.Background()
	defer m.Close(ctx)

	first, err := m.Create(ctx, language.English)
	require.NoError(t, err)
	_, err = m.Create(ctx, language.English)
	require.NoError(t, err)

	_, err = m.Create(ctx, language.English)
	assert.ErrorIs(t, err, domain.ErrSessionLimit)
	assert.Equal(t, 2, m.Len())

	require.NoError(t, m.Remove(ctx, first.ID))
	_, err = m.Create(ctx, language.English)
	assert.NoError(t, err)
}

func newSessionRouter(t *testing.T, m *Manager, mw gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", mw, func(c *gin.Context) {
		id := ""
		if w := FromContext(c); w != nil {
			id = w.ID
		}
		c.String(http.StatusOK, id)
	})
	return r
}

func TestMiddleware_SessionLimit(t *testing.T) {
	m, err := NewManager(Config{
		Backend:       MemoryBackend(),
		Bundle:        bundle,
		Seed:          seed.Default(),
		MaxWorkspaces: 1,
	})
	require.NoError(t, err)
	defer m.Close(context.Background())
	r := newSessionRouter(t, m, Middleware(m, bundle, nil))

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, first.Code)
	sid := first.Header().Get(HeaderName)
	require.NotEmpty(t, sid)

	rejected := httptest.NewRecorder()
	r.ServeHTTP(rejected, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rejected.Code)
	assert.Equal(t, "60", rejected.Header().Get("Retry-After"))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderName, sid)
	known := httptest.NewRecorder()
	r.ServeHTTP(known, req)
	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, sid, known.Body.String())
}

func TestPeek_NeverStartsWorkspace(t *testing.T) {
	m, _ := newManager(t, MemoryBackend(), &fakeClock{now: time.Now()})
	r := newSessionRouter(t, m, Peek(m))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
	assert.Empty(t, rr.Header().Get("Set-Cookie"))
	assert.Zero(t, m.Len())

	w, err := m.Create(context.Background(), language.English)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: w.ID})
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, w.ID, rr.Body.String())
	assert.Equal(t, 1, m.Len())
}

func TestSweeper(t *testing.T) {
	m, _ := newManager(t, MemoryBackend(), &fakeClock{now: time.Now()})

	_, err := NewSweeper(m, "not a spec", nil)
	assert.Error(t, err)

	s, err := NewSweeper(m, "@every 1h", nil)
	require.NoError(t, err)
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
