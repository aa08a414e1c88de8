package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cyclehub-backend/internal/metrics"
	customMiddleware "cyclehub-backend/internal/middleware"
	"cyclehub-backend/internal/models"
	"cyclehub-backend/internal/slack"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// memCollection is an in-memory stand-in for one MongoDB collection.
type memCollection struct {
	mu   sync.Mutex
	docs map[bson.ObjectID]models.Document
	err  error
}

func newMemCollection() *memCollection {
	return &memCollection{docs: map[bson.ObjectID]models.Document{}}
}

func (c *memCollection) filter(match func(models.Document) bool) ([]models.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	out := make([]models.Document, 0)
	for _, d := range c.docs {
		if match(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (c *memCollection) FindAll(context.Context) ([]models.Document, error) {
	return c.filter(func(models.Document) bool { return true })
}

func (c *memCollection) FindByID(_ context.Context, id bson.ObjectID) (models.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.docs[id], nil
}

func (c *memCollection) Create(_ context.Context, doc models.Document) (*models.InsertResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	id := bson.NewObjectID()
	doc["_id"] = id
	c.docs[id] = doc
	return &models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *memCollection) Upsert(_ context.Context, id bson.ObjectID, u models.CycleUpdate) (*models.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	fields := models.Document{
		"name": u.Name, "brand": u.Brand, "model": u.Model, "brakes": u.Brakes,
		"features": u.Features, "description": u.Description, "price": u.Price,
	}
	doc, ok := c.docs[id]
	if !ok {
		doc = models.Document{"_id": id}
		c.docs[id] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}
	if !ok {
		return &models.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}, nil
	}
	return &models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (c *memCollection) Delete(_ context.Context, id bson.ObjectID) (*models.DeleteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	if _, ok := c.docs[id]; !ok {
		return &models.DeleteResult{Acknowledged: true}, nil
	}
	delete(c.docs, id)
	return &models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (c *memCollection) FindByEmail(_ context.Context, email string) (models.Document, error) {
	docs, err := c.filter(func(d models.Document) bool { return d["email"] == email })
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

func (c *memCollection) PromoteToAdmin(_ context.Context, id bson.ObjectID) (*models.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	doc, ok := c.docs[id]
	if !ok {
		return &models.UpdateResult{Acknowledged: true}, nil
	}
	modified := int64(0)
	if doc["role"] != models.RoleAdmin {
		doc["role"] = models.RoleAdmin
		modified = 1
	}
	return &models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
}

// memItems adapts memCollection to the owner-filtered cart lookup.
type memItems struct{ *memCollection }

func (c memItems) FindByEmail(_ context.Context, email *string) ([]models.Document, error) {
	return c.filter(func(d models.Document) bool {
		if email == nil {
			return d["email"] == nil
		}
		return d["email"] == *email
	})
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type chanNotifier struct{ messages chan string }

func (n chanNotifier) Publish(_ context.Context, message string) error {
	n.messages <- message
	return nil
}

type fixture struct {
	handler   http.Handler
	bikes     *memCollection
	employees *memCollection
	cycles    *memCollection
	items     *memCollection
	users     *memCollection
	audit     *slack.Async
	audits    chan string
}

func newFixture(t *testing.T, adminSecret string) *fixture {
	t.Helper()
	f := &fixture{
		bikes:     newMemCollection(),
		employees: newMemCollection(),
		cycles:    newMemCollection(),
		items:     newMemCollection(),
		users:     newMemCollection(),
		audits:    make(chan string, 4),
	}
	f.audit = slack.NewAsync(chanNotifier{messages: f.audits}, zap.NewNop())
	f.handler = NewRouter(Deps{
		Log:            zap.NewNop(),
		Metrics:        metrics.New(),
		Notifier:       f.audit,
		DB:             pinger{},
		Bikes:          f.bikes,
		Employees:      f.employees,
		Cycles:         f.cycles,
		AddedItems:     memItems{f.items},
		Users:          f.users,
		RequestTimeout: 5 * time.Second,
		AdminJWTSecret: adminSecret,
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestLiveness(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(t, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cycle-hub server worked now!", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestHealth(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"cyclehub"}`, rec.Body.String())
}

func TestCycleScenario(t *testing.T) {
	f := newFixture(t, "")

	rec := f.do(t, http.MethodPost, "/cycles", `{"name":"Roadster","price":500}`)
	require.Equal(t, http.StatusOK, rec.Code)
	inserted := decode[map[string]any](t, rec)
	assert.Equal(t, true, inserted["acknowledged"])
	id, ok := inserted["insertedId"].(string)
	require.True(t, ok)
	require.Len(t, id, 24)

	rec = f.do(t, http.MethodGet, "/cycles/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cycle := decode[map[string]any](t, rec)
	assert.Equal(t, "Roadster", cycle["name"])
	assert.EqualValues(t, 500, cycle["price"])
	assert.Equal(t, id, cycle["_id"])

	rec = f.do(t, http.MethodGet, "/cycles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = f.do(t, http.MethodDelete, "/cycles/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/cycles/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestCyclePut_UpsertsUnknownID(t *testing.T) {
	f := newFixture(t, "")
	id := bson.NewObjectID().Hex()

	rec := f.do(t, http.MethodPut, "/cycles/"+id, `{"name":"Gravel","price":900,"color":"green"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, result["upsertedCount"])
	assert.Equal(t, id, result["upsertedId"])

	rec = f.do(t, http.MethodGet, "/cycles/"+id, "")
	cycle := decode[map[string]any](t, rec)
	assert.Equal(t, "Gravel", cycle["name"])
	assert.Contains(t, cycle, "brand")
	assert.Nil(t, cycle["brand"])
	assert.NotContains(t, cycle, "color")
}

func TestEmptyListsAreArrays(t *testing.T) {
	f := newFixture(t, "")
	for _, path := range []string{"/bikes", "/cycles", "/testimonials", "/added-item?email=nobody@x.io"} {
		rec := f.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()), path)
	}
}

func TestReadOnlyCollections(t *testing.T) {
	f := newFixture(t, "")
	_, _ = f.bikes.Create(context.Background(), models.Document{"title": "BMX"})
	_, _ = f.employees.Create(context.Background(), models.Document{"name": "Ana"})

	bikes := decode[[]map[string]any](t, f.do(t, http.MethodGet, "/bikes", ""))
	require.Len(t, bikes, 1)
	assert.Equal(t, "BMX", bikes[0]["title"])

	employees := decode[[]map[string]any](t, f.do(t, http.MethodGet, "/testimonials", ""))
	require.Len(t, employees, 1)
	assert.Equal(t, "Ana", employees[0]["name"])
}

func TestAddedItems_FilterByOwner(t *testing.T) {
	f := newFixture(t, "")
	for _, body := range []string{`{"email":"a@x.io","cycle":"Roadster"}`, `{"email":"a@x.io"}`, `{"email":"b@x.io"}`, `{"cycle":"orphan"}`} {
		require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/added-item", body).Code)
	}

	items := decode[[]map[string]any](t, f.do(t, http.MethodGet, "/added-item?email=a@x.io", ""))
	assert.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "a@x.io", item["email"])
	}

	items = decode[[]map[string]any](t, f.do(t, http.MethodGet, "/added-item", ""))
	require.Len(t, items, 1)
	assert.Equal(t, "orphan", items[0]["cycle"])

	id := items[0]["_id"].(string)
	rec := f.do(t, http.MethodDelete, "/added-item/"+id, "")
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, rec.Body.String())
}

func TestAdminFlow(t *testing.T) {
	f := newFixture(t, "")

	assert.JSONEq(t, `{"admin":false}`, f.do(t, http.MethodGet, "/users/admin/ghost@x.io", "").Body.String())

	inserted := decode[map[string]any](t, f.do(t, http.MethodPost, "/users", `{"email":"rider@x.io","name":"Rider"}`))
	id := inserted["insertedId"].(string)

	user := decode[map[string]any](t, f.do(t, http.MethodGet, "/users/rider@x.io", ""))
	assert.Equal(t, "Rider", user["name"])
	assert.JSONEq(t, `{"admin":false}`, f.do(t, http.MethodGet, "/users/admin/rider@x.io", "").Body.String())

	rec := f.do(t, http.MethodPatch, "/users/admin/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, result["matchedCount"])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.audit.Wait(ctx))
	select {
	case msg := <-f.audits:
		assert.Contains(t, msg, id)
	default:
		t.Fatal("no audit message published")
	}

	assert.JSONEq(t, `{"admin":true}`, f.do(t, http.MethodGet, "/users/admin/rider@x.io", "").Body.String())
}

func TestUsers_EscapedEmailAndMissingUser(t *testing.T) {
	f := newFixture(t, "")
	_, _ = f.users.Create(context.Background(), models.Document{"email": "a+b@x.io"})

	user := decode[map[string]any](t, f.do(t, http.MethodGet, "/users/a%2Bb%40x.io", ""))
	assert.Equal(t, "a+b@x.io", user["email"])

	rec := f.do(t, http.MethodGet, "/users/none@x.io", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestPromoteUnknownUserPublishesNothing(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(t, http.MethodPatch, "/users/admin/"+bson.NewObjectID().Hex(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode[map[string]any](t, rec)["matchedCount"])

	require.NoError(t, f.audit.Wait(context.Background()))
	select {
	case msg := <-f.audits:
		t.Fatalf("unexpected audit %q", msg)
	default:
	}
}

func TestMalformedIDs(t *testing.T) {
	f := newFixture(t, "")
	cases := []struct{ method, path, body string }{
		{http.MethodGet, "/cycles/not-an-id", ""},
		{http.MethodPut, "/cycles/123", `{"name":"x"}`},
		{http.MethodDelete, "/cycles/zzzzzzzzzzzzzzzzzzzzzzzz", ""},
		{http.MethodDelete, "/added-item/abc", ""},
		{http.MethodPatch, "/users/admin/abc", ""},
	}
	for _, tc := range cases {
		rec := f.do(t, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.path)
		assert.JSONEq(t, `{"error":"invalid id"}`, rec.Body.String(), tc.path)
	}
}

func TestInvalidBodies(t *testing.T) {
	f := newFixture(t, "")
	for _, body := range []string{"not json", "[1,2]", "null", `"text"`} {
		for _, path := range []string{"/cycles", "/added-item", "/users"} {
			rec := f.do(t, http.MethodPost, path, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, "%s %s", path, body)
		}
	}
	rec := f.do(t, http.MethodPost, "/cycles", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	id := bson.NewObjectID().Hex()
	rec = f.do(t, http.MethodPut, "/cycles/"+id, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, rec.Body.String())
	assert.Empty(t, f.cycles.docs)
}

func TestEmptyObjectBodyIsStored(t *testing.T) {
	f := newFixture(t, "")

	rec := f.do(t, http.MethodPost, "/cycles", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode[map[string]any](t, rec)["insertedId"].(string)

	cycle := decode[map[string]any](t, f.do(t, http.MethodGet, "/cycles/"+id, ""))
	assert.Equal(t, map[string]any{"_id": id}, cycle)
}

func TestStoreFailureAnswers500(t *testing.T) {
	f := newFixture(t, "")
	f.cycles.err = errors.New("server selection error")
	f.users.err = errors.New("server selection error")

	for _, path := range []string{"/cycles", "/cycles/" + bson.NewObjectID().Hex(), "/users/admin/a@x.io"} {
		rec := f.do(t, http.MethodGet, path, "")
		require.Equal(t, http.StatusInternalServerError, rec.Code, path)
		body := decode[map[string]string](t, rec)
		assert.Equal(t, "internal server error", body["error"])
		assert.Len(t, body["incident"], 36)
	}
}

type blockingLister struct{}

func (blockingLister) FindAll(ctx context.Context) ([]models.Document, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRequestTimeoutAnswers504(t *testing.T) {
	handler := NewRouter(Deps{
		Log:            zap.NewNop(),
		Metrics:        metrics.New(),
		Notifier:       slack.NewMockSlack(zap.NewNop()),
		DB:             pinger{},
		Bikes:          blockingLister{},
		Employees:      newMemCollection(),
		Cycles:         newMemCollection(),
		AddedItems:     memItems{newMemCollection()},
		Users:          newMemCollection(),
		RequestTimeout: 30 * time.Millisecond,
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bikes", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/testimonials", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(t, http.MethodOptions, "/cycles/abc", "",
		"Origin", "https://shop.example",
		"Access-Control-Request-Method", http.MethodPut,
	)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, "")
	f.do(t, http.MethodGet, "/bikes", "")

	rec := f.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cyclehub_http_requests_total{method="GET",route="/bikes",status="200"} 1`)
}

func TestAdminGuard(t *testing.T) {
	const secret = "guard-secret"
	f := newFixture(t, secret)
	_, _ = f.users.Create(context.Background(), models.Document{"email": "rider@x.io"})
	var id string
	for k := range f.users.docs {
		id = k.Hex()
	}

	rec := f.do(t, http.MethodPatch, "/users/admin/"+id, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	sign := func(role string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, customMiddleware.Claims{
			Role:             role,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		}).SignedString([]byte(secret))
		require.NoError(t, err)
		return "Bearer " + token
	}

	rec = f.do(t, http.MethodPatch, "/users/admin/"+id, "", "Authorization", sign("user"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPatch, "/users/admin/"+id, "", "Authorization", sign("admin"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"admin":true}`, f.do(t, http.MethodGet, "/users/admin/rider@x.io", "").Body.String())
}
