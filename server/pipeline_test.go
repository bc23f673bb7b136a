package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kracekumar/postpipe/model"
	"github.com/kracekumar/postpipe/utils"
)

type fakeCache struct {
	tokens map[string]bool
	err    error
	calls  int
}

func (f *fakeCache) Contains(ctx context.Context, token string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.tokens[token], nil
}

type fakeUsers struct {
	users map[string]*model.User
	err   error
	calls int
}

func (f *fakeUsers) FindByToken(ctx context.Context, token string) (*model.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[token]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return user, nil
}

type fakePosts struct {
	err      error
	nextID   int64
	inserted []*model.Post
}

func (f *fakePosts) Insert(ctx context.Context, draft *model.PostDraft, authorID int64) (*model.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	post := &model.Post{
		Id:           f.nextID,
		Title:        draft.Title,
		MarkdownBody: draft.MarkdownBody,
		Tags:         draft.Tags,
		PostBy:       authorID,
		CreatedAt:    time.Now(),
	}
	f.inserted = append(f.inserted, post)
	return post, nil
}

type fakeBroker struct {
	mu        sync.Mutex
	published map[string][][]byte
	fail      map[string]error
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{published: map[string][][]byte{}, fail: map[string]error{}}
}

func (f *fakeBroker) Publish(ctx context.Context, queue string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[queue]; ok {
		return err
	}
	f.published[queue] = append(f.published[queue], payload)
	return nil
}

func (f *fakeBroker) Close() error { return nil }

func newTestRouter(p *Pipeline) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, p)
	return router
}

func defaultFixture() (*fakeCache, *fakeUsers, *fakePosts, *fakeBroker, *gin.Engine) {
	cache := &fakeCache{tokens: map[string]bool{"abc123": true}}
	users := &fakeUsers{users: map[string]*model.User{
		"abc123": {Id: 7, Email: "krace@example.com", AccessToken: "abc123"},
	}}
	posts := &fakePosts{}
	broker := newFakeBroker()
	router := newTestRouter(NewPipeline(cache, users, posts, broker))
	return cache, users, posts, broker, router
}

func performCreate(router *gin.Engine, authHeader string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

const validBody = `{"title":"Hello World","markdown_body":"content","tags":["intro"]}`

func TestCreatePostMissingAuthorizationHeader(t *testing.T) {
	cache, _, posts, _, router := defaultFixture()

	resp := performCreate(router, "", validBody)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Invalid Token", resp.Body.String())
	assert.Zero(t, cache.calls)
	assert.Empty(t, posts.inserted)
}

func TestCreatePostUnknownToken(t *testing.T) {
	_, users, posts, broker, router := defaultFixture()

	resp := performCreate(router, "Token nope", validBody)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Forbidden", resp.Body.String())
	// A rejected token must never reach the store or the broker.
	assert.Zero(t, users.calls)
	assert.Empty(t, posts.inserted)
	assert.Empty(t, broker.published)
}

func TestCreatePostCacheUnavailable(t *testing.T) {
	cache := &fakeCache{err: utils.ErrCacheUnavailable}
	posts := &fakePosts{}
	router := newTestRouter(NewPipeline(cache, &fakeUsers{}, posts, newFakeBroker()))

	resp := performCreate(router, "Token abc123", validBody)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Empty(t, posts.inserted)
}

func TestCreatePostCacheStoreDrift(t *testing.T) {
	cache := &fakeCache{tokens: map[string]bool{"abc123": true}}
	users := &fakeUsers{users: map[string]*model.User{}}
	posts := &fakePosts{}
	router := newTestRouter(NewPipeline(cache, users, posts, newFakeBroker()))

	resp := performCreate(router, "Token abc123", validBody)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, float64(utils.ErrorCacheStoreDrift), body["code"])
	assert.Empty(t, posts.inserted)
}

func TestCreatePostValidationFailure(t *testing.T) {
	_, _, posts, broker, router := defaultFixture()

	resp := performCreate(router, "Token abc123", `{"title":"Hi","markdown_body":"content","tags":[]}`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var body struct {
		Error map[string][]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error["title"])
	assert.Empty(t, posts.inserted)
	assert.Empty(t, broker.published)
}

func TestCreatePostMalformedJSONBody(t *testing.T) {
	_, _, posts, _, router := defaultFixture()

	resp := performCreate(router, "Token abc123", `{"title":`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, posts.inserted)
}

func TestCreatePostPersistFailureSkipsPublish(t *testing.T) {
	cache := &fakeCache{tokens: map[string]bool{"abc123": true}}
	users := &fakeUsers{users: map[string]*model.User{
		"abc123": {Id: 7, AccessToken: "abc123"},
	}}
	posts := &fakePosts{err: utils.ErrConstraintViolation}
	broker := newFakeBroker()
	router := newTestRouter(NewPipeline(cache, users, posts, broker))

	resp := performCreate(router, "Token abc123", validBody)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Empty(t, broker.published)
}

func TestCreatePostPublishFailureIsolated(t *testing.T) {
	_, _, posts, broker, router := defaultFixture()
	broker.fail["followers"] = utils.ErrBrokerUnavailable

	resp := performCreate(router, "Token abc123", validBody)

	// The post is durable by publish time, a dead queue must not fail
	// the request.
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Len(t, posts.inserted, 1)
	assert.Len(t, broker.published["search"], 1)
	assert.Empty(t, broker.published["followers"])
}

func TestCreatePostSuccess(t *testing.T) {
	_, _, posts, broker, router := defaultFixture()

	resp := performCreate(router, "Token abc123", validBody)

	require.Equal(t, http.StatusCreated, resp.Code)
	require.Len(t, posts.inserted, 1)

	want := map[string]interface{}{
		"id":            float64(1),
		"title":         "Hello World",
		"markdown_body": "content",
		"tags":          []interface{}{"intro"},
		"post_by":       float64(7),
	}

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response body mismatch (-want +got):\n%s", diff)
	}

	// The exact record returned to the caller is what every queue gets.
	require.Len(t, broker.published["search"], 1)
	require.Len(t, broker.published["followers"], 1)
	for _, queue := range []string{"search", "followers"} {
		var published map[string]interface{}
		require.NoError(t, json.Unmarshal(broker.published[queue][0], &published))
		if diff := cmp.Diff(want, published); diff != "" {
			t.Errorf("queue %s payload mismatch (-want +got):\n%s", queue, diff)
		}
	}
}

func TestExtractToken(t *testing.T) {
	assert.Equal(t, "abc123", ExtractToken("Token abc123"))
	assert.Equal(t, "abc123", ExtractToken("  Token   abc123  "))
	assert.Equal(t, "", ExtractToken(""))
	assert.Equal(t, "", ExtractToken("Token"))
	assert.Equal(t, "", ExtractToken("Token   "))
}
