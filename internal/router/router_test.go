package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/profolio/config"
	"github.com/oksasatya/profolio/internal/application"
	"github.com/oksasatya/profolio/internal/container"
	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/pkg/helpers"
	"github.com/oksasatya/profolio/pkg/mailer"
	"github.com/oksasatya/profolio/pkg/validation"
)

type outbox struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (o *outbox) Send(_ context.Context, m mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, m)
	return nil
}

type server struct {
	t        *testing.T
	engine   *gin.Engine
	services *container.Services
	mail     *outbox
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	jwt := helpers.NewJWTManager("access", "refresh", 15*time.Minute, time.Hour)

	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetJWT(jwt)
	services := container.NewServices(container.MemoryRepositories())

	mail := &outbox{}
	engine := gin.New()
	reg := NewRegistry(engine)
	Mount(reg, Deps{
		Config:   &config.Config{AppName: "profolio", ContactRateLimit: 3},
		Services: services,
		JWT:      jwt,
		Redis:    rdb,
		Mail:     mail,
		Logger:   logger,
	})
	reg.RegisterAll()
	return &server{t: t, engine: engine, services: services, mail: mail}
}

// do sends a JSON request, optionally as the holder of cookies.
func (s *server) do(method, path string, body any, cookies []*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (s *server) signup(name string) []*http.Cookie {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/api/signup", map[string]string{
		"username": name, "email": name + "@example.com", "password": "Abcdef1!",
	}, nil)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(s.t, cookies)
	return cookies
}

func (s *server) exampleTheme() *entity.Theme {
	s.t.Helper()
	th, err := s.services.Themes.Create(context.Background(), application.CreateThemeInput{
		Name:      "Paper",
		ThemeData: entity.ThemeData{BackgroundColor: "#fff", SectionColor: "#eeeeee", TextColor: "#222"},
		IsExample: true,
	})
	require.NoError(s.t, err)
	return th
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestPortfolioLifecycleOverHTTP(t *testing.T) {
	s := newServer(t)
	th := s.exampleTheme()
	alice := s.signup("alice")
	bob := s.signup("bob")

	w, env := s.do(http.MethodPost, "/api/portfolios", map[string]any{
		"title":                "Alice Builds",
		"description":          "Backend things",
		"themeId":              th.ID.Hex(),
		"contactButtonEnabled": true,
		"sections": []map[string]any{
			{"type": "work", "items": []map[string]any{{"company": "Acme", "role": "Engineer"}}},
		},
	}, alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[map[string]any](t, env.Data)
	pid := p["id"].(string)
	assert.Equal(t, "alice@example.com", p["contactEmail"])
	sid := p["sections"].([]any)[0].(map[string]any)["id"].(string)

	// first portfolio is published under the username
	w, env = s.do(http.MethodGet, "/api/users/alice/portfolio", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pid, decode[map[string]any](t, env.Data)["id"])

	// only the owner may edit
	w, _ = s.do(http.MethodPost, "/api/portfolios/"+pid+"/sections/"+sid+"/items", map[string]any{"company": "Evil"}, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodPost, "/api/portfolios/"+pid+"/sections/"+sid+"/items", map[string]any{"company": "Initech", "role": "Lead"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = s.do(http.MethodPost, "/api/portfolios/"+pid+"/sections/"+sid+"/items", map[string]any{"company": "Initech", "role": "Lead"}, alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	items := decode[map[string]any](t, env.Data)["sections"].([]any)[0].(map[string]any)["items"].([]any)
	assert.Len(t, items, 2)

	// item shape is checked against the section type
	w, env = s.do(http.MethodPost, "/api/portfolios/"+pid+"/sections/"+sid+"/items", map[string]any{"degree": 7}, alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	// public contact form stores the message and mails the owner
	w, env = s.do(http.MethodPost, "/api/portfolios/"+pid+"/contact", map[string]any{
		"senderName": "Sam Smith", "senderEmail": "Sam@Example.com", "message": "Let's talk about a role.",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, env.Meta["emailed"])
	require.Len(t, s.mail.sent, 1)
	assert.Equal(t, "alice@example.com", s.mail.sent[0].To)
	assert.Equal(t, "sam@example.com", s.mail.sent[0].ReplyTo)
	assert.Equal(t, "New Message from Sam Smith about one of your Pro-folios!", s.mail.sent[0].Subject)

	w, env = s.do(http.MethodGet, "/api/messages", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]any](t, env.Data), 1)
	w, env = s.do(http.MethodGet, "/api/messages", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]any](t, env.Data))

	// deleting cascades to messages and clears the active pointer
	w, _ = s.do(http.MethodDelete, "/api/portfolios/"+pid, nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, env = s.do(http.MethodDelete, "/api/portfolios/"+pid, nil, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, decode[map[string]any](t, env.Data)["messagesDeleted"])

	w, env = s.do(http.MethodGet, "/api/profile", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[map[string]any](t, env.Data)["activePortfolioId"])
	w, _ = s.do(http.MethodGet, "/api/portfolios/"+pid, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorMapping(t *testing.T) {
	s := newServer(t)
	th := s.exampleTheme()
	alice := s.signup("alice")

	w, _ := s.do(http.MethodGet, "/api/portfolios/not-an-id", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/api/portfolios/0123456789abcdef01234567", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPost, "/api/signup", map[string]string{"username": "alice", "email": "other@example.com", "password": "Abcdef1!"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodPost, "/api/login", map[string]string{"login": "alice", "password": "Wrong1!x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// example themes are immutable, even for signed-in users
	w, _ = s.do(http.MethodPut, "/api/themes/"+th.ID.Hex(), map[string]any{
		"name": "Changed", "themeData": map[string]string{"backgroundColor": "#000", "sectionColor": "#000", "textColor": "#fff"},
	}, alice)
	assert.Equal(t, http.StatusConflict, w.Code)

	// contact is refused when the button is off
	w, env := s.do(http.MethodPost, "/api/portfolios", map[string]any{"title": "Quiet", "themeId": th.ID.Hex()}, alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pid := decode[map[string]any](t, env.Data)["id"].(string)
	w, _ = s.do(http.MethodPost, "/api/portfolios/"+pid+"/contact", map[string]any{
		"senderName": "Sam", "senderEmail": "sam@example.com", "message": "Hello there",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, s.mail.sent)
}

func TestLoginRefreshLogout(t *testing.T) {
	s := newServer(t)
	s.signup("carol")

	w, env := s.do(http.MethodPost, "/api/login", map[string]string{"login": "CAROL@example.com", "password": "Abcdef1!"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "carol", decode[map[string]any](t, env.Data)["username"])
	session := w.Result().Cookies()

	w, _ = s.do(http.MethodPost, "/api/refresh", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	rotated := w.Result().Cookies()

	// the pre-rotation access token no longer names the live session
	w, _ = s.do(http.MethodGet, "/api/profile", nil, session)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = s.do(http.MethodGet, "/api/profile", nil, rotated)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPost, "/api/logout", nil, rotated)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/api/profile", nil, rotated)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReviewsOverHTTP(t *testing.T) {
	s := newServer(t)
	dave := s.signup("dave")

	w, env := s.do(http.MethodPost, "/api/movies", map[string]any{
		"title": "The Long Night", "plot": "A night that does not end.", "genres": []string{"Drama"},
		"rating": "PG-13", "studio": "Lantern Films", "director": "Ann Bell",
		"castMembers": []string{"Tom Hart", "Eve Stone"}, "dateReleased": "01/15/2021", "runtime": "2h 5min",
	}, dave)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	mid := decode[map[string]any](t, env.Data)["id"].(string)

	var reviewID string
	for i, r := range []float64{5, 4, 4} {
		w, env = s.do(http.MethodPost, "/api/movies/"+mid+"/reviews", map[string]any{
			"reviewTitle": "Take", "reviewerName": "Critic", "review": "Worth it", "rating": r,
		}, dave)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		if i == 0 {
			reviewID = decode[entity.Movie](t, env.Data).Reviews[0].ID.Hex()
		}
	}
	assert.Equal(t, 4.3, decode[entity.Movie](t, env.Data).OverallRating)

	w, env = s.do(http.MethodDelete, "/api/reviews/"+reviewID, nil, dave)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4.0, decode[entity.Movie](t, env.Data).OverallRating)

	w, _ = s.do(http.MethodGet, "/api/reviews/"+reviewID, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAccountCascades(t *testing.T) {
	s := newServer(t)
	th := s.exampleTheme()
	carol := s.signup("carol")

	w, env := s.do(http.MethodPost, "/api/portfolios", map[string]any{
		"title": "Carol Draws", "description": "Sketches", "themeId": th.ID.Hex(), "contactButtonEnabled": true,
	}, carol)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pid := decode[map[string]any](t, env.Data)["id"].(string)

	w, _ = s.do(http.MethodPost, "/api/portfolios/"+pid+"/contact", map[string]any{
		"senderName": "Dan Brown", "senderEmail": "dan@example.com", "message": "Nice work!",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = s.do(http.MethodDelete, "/api/profile", nil, carol)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, decode[map[string]any](t, env.Data)["portfoliosDeleted"])

	w, _ = s.do(http.MethodGet, "/api/portfolios/"+pid, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodGet, "/api/profile", nil, carol)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	msgs, err := s.services.Messages.ListByPortfolio(context.Background(), pid)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
