package api_test

import (
	"context"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vytor/loginlab/internal/api"
	"github.com/vytor/loginlab/internal/attack"
	"github.com/vytor/loginlab/internal/content"
	"github.com/vytor/loginlab/internal/demo"
	"github.com/vytor/loginlab/internal/repository/sqlite"
	"github.com/vytor/loginlab/internal/services"
	"github.com/vytor/loginlab/internal/session"
	"github.com/vytor/loginlab/internal/testutil"
)

type testSite struct {
	t      *testing.T
	url    string
	timers *testutil.ManualTimers
	views  *session.Store
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()

	database := testutil.OpenTestDB(t)
	accounts := sqlite.NewAccountRepository(database.DB)
	attempts := sqlite.NewAttemptRepository(database.DB)
	require.NoError(t, services.SeedAccounts(context.Background(), accounts, bcrypt.MinCost))

	catalog, err := content.Load()
	require.NoError(t, err)
	tmpl, err := api.LoadTemplates()
	require.NoError(t, err)

	timers := &testutil.ManualTimers{}
	views := session.NewStore(time.Hour)
	t.Cleanup(views.Close)

	srv := &api.Server{
		DB:                 database,
		Catalog:            catalog,
		Sessions:           session.NewManager("test-secret-0123456789", time.Hour, false),
		Views:              views,
		SafeLoginService:   services.NewSafeLoginService(accounts, attempts, 5),
		UnsafeLoginService: services.NewUnsafeLoginService(accounts),
		Templates:          tmpl,
		AchievementDisplay: 3 * time.Second,
		AfterFunc:          timers.AfterFunc,
	}
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	return &testSite{t: t, url: ts.URL, timers: timers, views: views}
}

// browser is a client with its own cookie jar that follows redirects.
type browser struct {
	site   *testSite
	client *http.Client
}

func (s *testSite) browser() *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(s.t, err)
	return &browser{site: s, client: &http.Client{Jar: jar}}
}

type page struct {
	status int
	url    *url.URL
	body   string
	header http.Header
}

func (b *browser) do(req *http.Request) page {
	t := b.site.t
	t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return page{status: resp.StatusCode, url: resp.Request.URL, body: string(body), header: resp.Header}
}

func (b *browser) get(path string) page {
	b.site.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.site.url+path, nil)
	require.NoError(b.site.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) page {
	b.site.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.site.url+path, strings.NewReader(form.Encode()))
	require.NoError(b.site.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

var (
	viewRe = regexp.MustCompile(`name="view" value="([^"]+)"`)
	csrfRe = regexp.MustCompile(`name="csrf_token" value="([0-9a-f]+)"`)
)

func (p page) viewID(t *testing.T) string {
	t.Helper()
	m := viewRe.FindStringSubmatch(p.body)
	require.Len(t, m, 2, "page has no view id")
	return m[1]
}

func (p page) csrfToken(t *testing.T) string {
	t.Helper()
	m := csrfRe.FindStringSubmatch(p.body)
	require.Len(t, m, 2, "page has no csrf token")
	return m[1]
}

func TestHome_StartsSessionAndSetsHeaders(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()

	p := b.get("/")

	require.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "Login security, hands on")
	assert.Contains(t, p.header.Get("Set-Cookie"), session.CookieName)
	assert.Contains(t, p.header.Get("Set-Cookie"), "HttpOnly")
	assert.Equal(t, "nosniff", p.header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", p.header.Get("X-Frame-Options"))
	assert.NotEmpty(t, p.header.Get("X-Request-ID"))
	assert.Contains(t, p.body, `href="/learn"`)
}

func TestCompare_RendersFeaturesAndTimeline(t *testing.T) {
	site := newTestSite(t)
	catalog, err := content.Load()
	require.NoError(t, err)

	p := site.browser().get("/compare")

	require.Equal(t, http.StatusOK, p.status)
	for _, f := range catalog.CompareFeatures {
		assert.Contains(t, p.body, html.EscapeString(f.Title))
	}
	assert.Contains(t, p.body, "What you learned")
}

func TestLearn_CompleteSectionShowsAchievement(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/learn").viewID(t)

	p := b.post("/learn/complete", url.Values{"view": {id}, "section": {"intro"}})

	require.Equal(t, http.StatusOK, p.status)
	assert.Equal(t, id, p.url.Query().Get("view"))
	assert.Contains(t, p.body, "Progress: 20% (1 of 5 lessons)")
	assert.Contains(t, p.body, "Section completed: Introduction")
}

func TestLearn_AchievementClearsAfterDisplay(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/learn").viewID(t)
	b.post("/learn/complete", url.Values{"view": {id}})

	site.timers.FireAll()

	p := b.get("/learn?view=" + id)
	assert.NotContains(t, p.body, "Achievement unlocked")
	assert.Contains(t, p.body, "Progress: 20%")
}

func TestLearn_DismissAchievement(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/learn").viewID(t)
	b.post("/learn/complete", url.Values{"view": {id}})

	p := b.post("/learn/achievement/dismiss", url.Values{"view": {id}})

	assert.NotContains(t, p.body, "Achievement unlocked")
}

func TestLearn_QuizFlow(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/learn").viewID(t)

	p := b.post("/learn/quiz/open", url.Values{"view": {id}})
	assert.Contains(t, p.body, `name="option"`)

	p = b.post("/learn/quiz/answer", url.Values{"view": {id}, "option": {"1"}})
	assert.Contains(t, p.body, "Correct!")
	assert.Contains(t, p.body, "Progress: 20%")

	p = b.post("/learn/next", url.Values{"view": {id}})
	assert.Contains(t, p.body, "The Enigma machine")
	assert.NotContains(t, p.body, `name="option"`)
}

func TestLearn_WrongAnswerChangesNothing(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/learn").viewID(t)
	b.post("/learn/quiz/open", url.Values{"view": {id}})

	p := b.post("/learn/quiz/answer", url.Values{"view": {id}, "option": {"0"}})

	assert.Contains(t, p.body, "Not quite")
	assert.Contains(t, p.body, "Progress: 0%")
}

func TestLearn_AnswerOutOfRange(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/learn").viewID(t)
	b.post("/learn/quiz/open", url.Values{"view": {id}})

	p := b.post("/learn/quiz/answer", url.Values{"view": {id}, "option": {"9"}})
	assert.Equal(t, http.StatusBadRequest, p.status)

	p = b.post("/learn/quiz/answer", url.Values{"view": {id}, "option": {"first"}})
	assert.Equal(t, http.StatusBadRequest, p.status)
}

func TestLearn_UnknownTab(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/learn").viewID(t)

	p := b.post("/learn/tab", url.Values{"view": {id}, "section": {"cryptography"}})

	assert.Equal(t, http.StatusBadRequest, p.status)
}

func TestLearn_AllSectionsShowsCallToAction(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/learn").viewID(t)

	var p page
	for _, s := range []string{"intro", "history", "attacks", "best-practices", "psychology"} {
		p = b.post("/learn/complete", url.Values{"view": {id}, "section": {s}})
	}

	assert.Contains(t, p.body, "Progress: 100%")
	assert.Contains(t, p.body, "Learning module 100% complete!")
	assert.Contains(t, p.body, "You finished every lesson")
}

func TestLearn_UnknownViewRemounts(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()

	p := b.post("/learn/next", url.Values{"view": {"gone"}})

	require.Equal(t, http.StatusOK, p.status)
	assert.Equal(t, "/learn", p.url.Path)
	assert.Empty(t, p.url.Query().Get("view"))
	assert.NotEqual(t, "gone", p.viewID(t))
}

func TestLearn_ViewsArePrivateToTheBrowser(t *testing.T) {
	site := newTestSite(t)
	alice, mallory := site.browser(), site.browser()
	id := alice.get("/learn").viewID(t)
	alice.post("/learn/complete", url.Values{"view": {id}})

	p := mallory.get("/learn?view=" + id)
	assert.NotEqual(t, id, p.viewID(t))
	assert.Contains(t, p.body, "Progress: 0%")

	p = mallory.post("/learn/complete", url.Values{"view": {id}, "section": {"history"}})
	assert.NotEqual(t, id, p.viewID(t))

	p = alice.get("/learn?view=" + id)
	assert.Contains(t, p.body, "Progress: 20%")
}

func TestLearn_ReloadWithoutViewMountsFresh(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/learn").viewID(t)
	b.post("/learn/complete", url.Values{"view": {id}})

	p := b.get("/learn")

	assert.NotEqual(t, id, p.viewID(t))
	assert.Contains(t, p.body, "Progress: 0%")
	assert.Equal(t, 2, site.views.Len())
}

func TestLearn_ReloadsDoNotAccumulateViews(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()

	first := b.get("/learn").viewID(t)
	var last string
	for i := 0; i < 50; i++ {
		last = b.get("/learn").viewID(t)
	}

	assert.Equal(t, session.DefaultViewsPerOwner, site.views.Len())

	p := b.post("/learn/complete", url.Values{"view": {first}})
	assert.Contains(t, p.body, "Progress: 0%", "an evicted view remounts")

	p = b.post("/learn/complete", url.Values{"view": {last}})
	assert.Contains(t, p.body, "Progress: 20%")
}

func TestLoginSafe_Success(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	p := b.get("/login-safe")
	id, token := p.viewID(t), p.csrfToken(t)

	p = b.post("/login-safe/login", url.Values{
		"view": {id}, "csrf_token": {token},
		"username": {demo.SafeUsername}, "password": {demo.SafePassword},
	})

	require.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, html.EscapeString(demo.SafeSuccessMessage))
	assert.Contains(t, p.body, "Login attempts: 1 / 5")
}

func TestLoginSafe_FailureIsGeneric(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	p := b.get("/login-safe")

	p = b.post("/login-safe/login", url.Values{
		"view": {p.viewID(t)}, "csrf_token": {p.csrfToken(t)},
		"username": {"nobody"}, "password": {"x"},
	})

	assert.Contains(t, p.body, html.EscapeString(demo.SafeFailureMessage))
	assert.NotContains(t, p.body, "nobody</")
}

func TestLoginSafe_BadCSRF(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/login-safe").viewID(t)

	p := b.post("/login-safe/login", url.Values{
		"view": {id}, "csrf_token": {"forged"},
		"username": {demo.SafeUsername}, "password": {demo.SafePassword},
	})

	assert.Equal(t, http.StatusForbidden, p.status)
	assert.Contains(t, p.body, "invalid CSRF token")
}

func TestLoginSafe_SimulateUntilLocked(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	p := b.get("/login-safe")
	id, token := p.viewID(t), p.csrfToken(t)

	for i := 0; i < 6; i++ {
		p = b.post("/login-safe/attempts/simulate", url.Values{"view": {id}})
	}
	assert.Contains(t, p.body, "Login attempts: 5 / 5")
	assert.Contains(t, p.body, "Account temporarily locked")

	p = b.post("/login-safe/login", url.Values{
		"view": {id}, "csrf_token": {token},
		"username": {demo.SafeUsername}, "password": {demo.SafePassword},
	})
	assert.Contains(t, p.body, html.EscapeString(demo.SafeRateLimitedMessage))

	p = b.post("/login-safe/attempts/reset", url.Values{"view": {id}})
	assert.Contains(t, p.body, "Login attempts: 0 / 5")
	assert.NotContains(t, p.body, "Account temporarily locked")
}

func TestLoginSafe_XSSTestIsEscaped(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/login-safe").viewID(t)

	p := b.post("/login-safe/xss-test", url.Values{"view": {id}})

	assert.NotContains(t, p.body, attack.XSSPayload)
	assert.Contains(t, p.body, "&lt;img")
	assert.Contains(t, p.body, "Defence triggered")
}

func TestLoginSafe_DismissHighlight(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/login-safe").viewID(t)
	b.post("/login-safe/xss-test", url.Values{"view": {id}})

	p := b.post("/login-safe/highlight/dismiss", url.Values{"view": {id}})

	assert.NotContains(t, p.body, "Defence triggered")
	assert.Contains(t, p.body, "1 / 5 seen")
}

func TestLoginUnsafe_SQLWalkthrough(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/login-unsafe").viewID(t)

	p := b.post("/login-unsafe/scenario", url.Values{"view": {id}, "scenario": {"sql"}})
	assert.Contains(t, p.body, "Step 1 of 4")

	for i := 0; i < 4; i++ {
		p = b.post("/login-unsafe/step", url.Values{"view": {id}})
	}
	assert.Contains(t, p.body, "Attack complete")

	p = b.post("/login-unsafe/finish", url.Values{"view": {id}})
	assert.Contains(t, p.body, `value="admin&#39; --"`)

	p = b.post("/login-unsafe/login", url.Values{
		"view": {id}, "username": {attack.SQLUsernamePayload}, "password": {attack.SQLPasswordPayload},
	})
	assert.Contains(t, p.body, "Login successful for admin")
}

func TestLoginUnsafe_LeaksWhichFieldWasWrong(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/login-unsafe").viewID(t)

	p := b.post("/login-unsafe/login", url.Values{"view": {id}, "username": {"admin"}, "password": {"nope"}})
	assert.Contains(t, p.body, "Incorrect password for user: admin")

	p = b.post("/login-unsafe/login", url.Values{"view": {id}, "username": {"ghost"}, "password": {"nope"}})
	assert.Contains(t, p.body, "User not found: ghost")
}

func TestLoginUnsafe_XSSOpensModal(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/login-unsafe").viewID(t)

	b.post("/login-unsafe/scenario", url.Values{"view": {id}, "scenario": {"xss"}})
	b.post("/login-unsafe/finish", url.Values{"view": {id}})
	p := b.post("/login-unsafe/login", url.Values{"view": {id}, "username": {attack.XSSPayload}, "password": {""}})

	assert.Contains(t, p.body, "XSS attack simulated")
	assert.NotContains(t, p.body, attack.XSSPayload)

	p = b.post("/login-unsafe/modal/dismiss", url.Values{"view": {id}})
	assert.NotContains(t, p.body, "XSS attack simulated")
}

func TestLoginUnsafe_UnknownScenario(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()
	id := b.get("/login-unsafe").viewID(t)

	p := b.post("/login-unsafe/scenario", url.Values{"view": {id}, "scenario": {"csrf"}})

	assert.Equal(t, http.StatusBadRequest, p.status)
}

func TestLoginUnsafe_ShowsPlaintextAccounts(t *testing.T) {
	site := newTestSite(t)

	p := site.browser().get("/login-unsafe")

	for _, a := range demo.UnsafeAccounts {
		assert.Contains(t, p.body, "<code>"+a.Password+"</code>")
	}
}

func TestProbesAndMetrics(t *testing.T) {
	site := newTestSite(t)
	b := site.browser()

	p := b.get("/healthz")
	assert.Equal(t, http.StatusOK, p.status)
	assert.Equal(t, "OK", p.body)
	assert.Empty(t, p.header.Get("Set-Cookie"))

	p = b.get("/readyz")
	assert.Equal(t, http.StatusOK, p.status)
	assert.Equal(t, "Ready", p.body)

	b.get("/learn")
	p = b.get("/metrics")
	assert.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "loginlab_views_mounted_total")
	assert.Contains(t, p.body, "loginlab_http_request_duration_seconds")
}

func TestStaticAssets(t *testing.T) {
	site := newTestSite(t)

	p := site.browser().get("/static/style.css")

	assert.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "--primary")
}
