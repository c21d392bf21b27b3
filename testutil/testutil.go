// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/crowd-band/auth"
	"github.com/danielhkuo/crowd-band/cliparse"
	"github.com/danielhkuo/crowd-band/contest"
	"github.com/danielhkuo/crowd-band/models"
	"github.com/danielhkuo/crowd-band/store"
)

// Epoch is the starting time of every test clock
var Epoch = time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC)

// Clock is a manually advanced clock
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SetupTestStore opens an in-memory badger store closed at test cleanup
func SetupTestStore(t testing.TB) store.Store {
	t.Helper()

	s, err := store.OpenBadger(store.InMemoryBadgerConfig())
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// SetupSQLiteStore opens a sqlite store in a temp directory
func SetupSQLiteStore(t testing.TB) store.Store {
	t.Helper()

	s, err := store.OpenSQL(store.TypeSQLite, "file:"+filepath.Join(t.TempDir(), "crowdband.db"))
	if err != nil {
		t.Fatalf("Failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// SetupTestEngine returns an engine on a fresh in-memory store and its clock
func SetupTestEngine(t testing.TB) (*contest.Engine, *Clock) {
	t.Helper()
	return SetupEngineOn(t, SetupTestStore(t))
}

// SetupEngineOn returns an engine on the given store and its clock
func SetupEngineOn(t testing.TB, s store.Store) (*contest.Engine, *Clock) {
	t.Helper()

	clock := NewClock(Epoch)
	return contest.New(s, contest.Config{Genre: contest.DefaultGenre, Now: clock.Now}), clock
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		StoreType:     cliparse.StoreBadger,
		AdminKeySalt:  "test-admin-salt",
		UserTokenSalt: "test-user-salt",
		CloseInterval: time.Second,
		RateLimit:     1000,
		RateBurst:     1000,
		CORSOrigins:   []string{"*"},
		SongGenre:     contest.DefaultGenre,
	}
}

// StartTestCycle opens a five minute cycle for week
func StartTestCycle(t testing.TB, e *contest.Engine, week int) models.Prompt {
	t.Helper()

	prompt, err := e.StartCycle(context.Background(), "What keeps you up at 3 AM?", week, "3 AM Thoughts", 5*time.Minute)
	if err != nil {
		t.Fatalf("Failed to start test cycle: %v", err)
	}
	return prompt
}

// FixtureUser is a fake contest participant
type FixtureUser struct {
	UserID   string
	Username string
}

// FixtureLyric is a fake submission with the votes it should end up with
type FixtureLyric struct {
	Text  string
	Role  string
	Votes int
}

var FixtureUsers = []FixtureUser{
	{"user_test_001", "LyricMaster"},
	{"user_test_002", "BeatsPoet"},
	{"user_test_003", "ChorusKing"},
	{"user_test_004", "VerseLord"},
	{"user_test_005", "RhymeQueen"},
}

var FixtureLyrics = []FixtureLyric{
	{"Late night thoughts racing through my mind", models.RoleVerse, 15},
	{"City lights fade as the moon takes flight", models.RoleVerse, 12},
	{"3 AM and I'm wide awake again", models.RoleChorus, 25},
	{"Dreams and reality start to blend", models.RoleChorus, 18},
	{"In the silence I find my peace", models.RoleBridge, 20},
	{"Coffee cold but my heart still beats", models.RoleVerse, 8},
	{"Lost in thoughts that never sleep", models.RoleBridge, 14},
	{"Neon signs guide me home tonight", models.RoleVerse, 22},
	{"Can't escape these midnight feels", models.RoleChorus, 30},
	{"Time stands still at 3 AM", models.RoleBridge, 17},
}

// FixtureTotalVotes is the sum of FixtureLyrics votes
func FixtureTotalVotes() int64 {
	var n int64
	for _, l := range FixtureLyrics {
		n += int64(l.Votes)
	}
	return n
}

// SeedFixture submits every fixture lyric to the open prompt and casts
// the fixture's votes through the vote ledger. Lyric i is written by a
// distinct user whose display name is FixtureUsers[i%5].Username.
func SeedFixture(t testing.TB, e *contest.Engine, clock *Clock) []models.Submission {
	t.Helper()
	ctx := context.Background()

	subs := make([]models.Submission, 0, len(FixtureLyrics))
	for i, lyric := range FixtureLyrics {
		user := FixtureUsers[i%len(FixtureUsers)]
		userID := fmt.Sprintf("%s_%02d", user.UserID, i)

		sub, _, err := e.SubmitLyric(ctx, userID, user.Username, lyric.Text, lyric.Role)
		if err != nil {
			t.Fatalf("Failed to submit fixture lyric %d: %v", i, err)
		}
		subs = append(subs, sub)
		clock.Advance(time.Second)
	}

	for i, lyric := range FixtureLyrics {
		for v := 0; v < lyric.Votes; v++ {
			if _, err := e.ToggleVote(ctx, fmt.Sprintf("voter_%03d", v), subs[i].ID); err != nil {
				t.Fatalf("Failed to cast fixture vote on %d: %v", i, err)
			}
		}
		subs[i].Votes = int64(lyric.Votes)
	}
	return subs
}

// UserHeaders returns identity headers for a user
func UserHeaders(cfg cliparse.Config, userID, username string) map[string]string {
	return map[string]string{
		auth.HeaderUserID:    userID,
		auth.HeaderUsername:  username,
		auth.HeaderUserToken: auth.GenerateUserToken(userID, cfg.UserTokenSalt),
	}
}

// OperatorHeaders returns headers carrying the operator admin key
func OperatorHeaders(cfg cliparse.Config) map[string]string {
	return map[string]string{
		auth.HeaderAdminKey: auth.GenerateAdminKey(auth.OperatorSubject, cfg.AdminKeySalt),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t testing.TB, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t testing.TB, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
