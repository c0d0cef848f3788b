package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/dineware-service/internal/api/http/handlers"
	"github.com/spec-kit/dineware-service/internal/auth"
	"github.com/spec-kit/dineware-service/internal/domain"
	"github.com/spec-kit/dineware-service/internal/events"
	"github.com/spec-kit/dineware-service/internal/observability"
	"github.com/spec-kit/dineware-service/internal/repository"
	"github.com/spec-kit/dineware-service/internal/service"
	"github.com/spec-kit/dineware-service/internal/worker"
)

// countingFoods records how often the store is queried.
type countingFoods struct {
	*repository.MemoryFoodRepository
	mu    sync.Mutex
	finds int
}

func (c *countingFoods) Find(ctx context.Context, q repository.FoodQuery) ([]domain.Food, error) {
	c.mu.Lock()
	c.finds++
	c.mu.Unlock()
	return c.MemoryFoodRepository.Find(ctx, q)
}

func (c *countingFoods) findCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finds
}

type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]bool
	err     error
}

func (m *memoryRevocations) Revoke(_ context.Context, id string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.revoked[id] = true
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[id], nil
}

type testServer struct {
	app         *fiber.App
	foods       *countingFoods
	orders      *repository.MemoryOrderRepository
	revocations *memoryRevocations
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tokens, err := auth.NewTokenManager("test-secret")
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	revocations := &memoryRevocations{revoked: map[string]bool{}}
	foods := &countingFoods{MemoryFoodRepository: repository.NewMemoryFoodRepository()}
	orders := repository.NewMemoryOrderRepository()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartPurchaseWorker(service.NewPurchaseTracker(dispatcher, foods, nil))

	authService := service.NewAuthService(tokens, revocations)
	metrics := observability.NewMetrics()

	app := fiber.New()
	RegisterMiddlewares(app, MiddlewareConfig{
		Logger:         zap.NewNop(),
		Metrics:        metrics,
		Timeout:        5 * time.Second,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("dineware-service", "test", nil),
		Auth:           handlers.NewAuthHandler(authService, auth.CookiePolicyFor(false)),
		Foods:          handlers.NewFoodsHandler(service.NewFoodService(foods)),
		Orders:         handlers.NewOrdersHandler(service.NewOrderService(orders, dispatcher, nil)),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, revocations),
		Metrics:        metrics,
	})
	return &testServer{app: app, foods: foods, orders: orders, revocations: revocations}
}

func (s *testServer) do(t *testing.T, method, target, body string, cookie *nethttp.Cookie) *nethttp.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return resp
}

func (s *testServer) login(t *testing.T, email string) *nethttp.Cookie {
	t.Helper()
	resp := s.do(t, nethttp.MethodPost, "/jwt", `{"email":"`+email+`"}`, nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("/jwt status=%d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	t.Fatalf("/jwt did not set the session cookie")
	return nil
}

func (s *testServer) seed(t *testing.T, foods ...domain.Food) []string {
	t.Helper()
	ids := make([]string, 0, len(foods))
	for i := range foods {
		if err := s.foods.Create(context.Background(), &foods[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
		ids = append(ids, foods[i].ID)
	}
	return ids
}

func decode[T any](t *testing.T, resp *nethttp.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type foodList struct {
	Data    []domain.Food `json:"data"`
	Count   int           `json:"count"`
	Message string        `json:"message"`
}

func TestRootBanner(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, nethttp.MethodGet, "/", "", nil)
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != nethttp.StatusOK || string(body) != handlers.RootMessage {
		t.Fatalf("GET / = %d %q", resp.StatusCode, body)
	}
}

func TestIssueTokenSetsHTTPOnlyCookie(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, nethttp.MethodPost, "/jwt", `{"email":"a@b.com"}`, nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if got := decode[map[string]bool](t, resp); !got["success"] {
		t.Fatalf("expected success body, got %v", got)
	}
	var cookie *nethttp.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("missing session cookie")
	}
	if !cookie.HttpOnly || cookie.Secure || cookie.SameSite != nethttp.SameSiteStrictMode {
		t.Fatalf("unexpected development cookie attributes %+v", cookie)
	}
}

func TestIssueTokenRequiresEmail(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, nethttp.MethodPost, "/jwt", `{}`, nil)
	if resp.StatusCode != nethttp.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.StatusCode)
	}
	if len(resp.Cookies()) != 0 {
		t.Fatalf("no cookie expected on failure")
	}
}

func TestOwnerRoutesRoundTrip(t *testing.T) {
	s := newTestServer(t)
	s.seed(t,
		domain.Food{FoodName: "Ramen", Price: 12, Email: "a@b.com"},
		domain.Food{FoodName: "Tacos", Price: 8, Email: "c@d.com"},
	)
	cookie := s.login(t, "a@b.com")

	resp := s.do(t, nethttp.MethodGet, "/foods/a@b.com", "", cookie)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("own listing status=%d", resp.StatusCode)
	}
	list := decode[foodList](t, resp)
	if list.Count != 1 || list.Data[0].FoodName != "Ramen" {
		t.Fatalf("unexpected own listing %+v", list)
	}

	resp = s.do(t, nethttp.MethodGet, "/foods/c@d.com", "", cookie)
	if resp.StatusCode != nethttp.StatusForbidden {
		t.Fatalf("foreign listing status=%d, want 403", resp.StatusCode)
	}
	if body := decode[errorBody](t, resp); body.Error.Code != "FORBIDDEN" {
		t.Fatalf("unexpected error body %+v", body)
	}

	resp = s.do(t, nethttp.MethodGet, "/orders/c@d.com", "", cookie)
	if resp.StatusCode != nethttp.StatusForbidden {
		t.Fatalf("foreign orders status=%d, want 403", resp.StatusCode)
	}
}

func TestGuardedRoutesRejectMissingCookie(t *testing.T) {
	s := newTestServer(t)
	cases := []struct{ method, target, body string }{
		{nethttp.MethodGet, "/foods/a@b.com", ""},
		{nethttp.MethodPost, "/add-food", `{"foodName":"Soup"}`},
		{nethttp.MethodPut, "/food/update/x", `{"foodName":"Soup"}`},
		{nethttp.MethodPost, "/orders", `{"foodId":"x"}`},
		{nethttp.MethodGet, "/orders/a@b.com", ""},
		{nethttp.MethodDelete, "/orders/delete/x", ""},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			resp := s.do(t, tc.method, tc.target, tc.body, nil)
			if resp.StatusCode != nethttp.StatusUnauthorized {
				t.Fatalf("status=%d, want 401", resp.StatusCode)
			}
		})
	}
	if s.foods.findCalls() != 0 {
		t.Fatalf("store must not be queried for rejected requests")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "a@b.com")

	resp := s.do(t, nethttp.MethodPost, "/logout", "", cookie)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("logout status=%d", resp.StatusCode)
	}
	cleared := false
	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookieName && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("logout must clear the session cookie")
	}

	resp = s.do(t, nethttp.MethodGet, "/foods/a@b.com", "", cookie)
	if resp.StatusCode != nethttp.StatusUnauthorized {
		t.Fatalf("revoked token status=%d, want 401", resp.StatusCode)
	}
}

func TestLogoutClearsCookieWhenRevocationFails(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "a@b.com")
	s.revocations.mu.Lock()
	s.revocations.err = errors.New("redis unavailable")
	s.revocations.mu.Unlock()

	resp := s.do(t, nethttp.MethodPost, "/logout", "", cookie)
	if resp.StatusCode != nethttp.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", resp.StatusCode)
	}
	cleared := false
	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookieName && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("cookie must be cleared even when revocation fails")
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, nethttp.MethodPost, "/logout", "", nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("status=%d, want 200", resp.StatusCode)
	}
}

func TestListFoodsSortAndFilter(t *testing.T) {
	s := newTestServer(t)
	s.seed(t,
		domain.Food{FoodName: "Chicken Curry", FoodOrigin: "India", Price: 11},
		domain.Food{FoodName: "Pad Thai", FoodOrigin: "Thailand", Price: 9},
		domain.Food{FoodName: "Butter Chicken", FoodOrigin: "India", Price: 14},
	)

	resp := s.do(t, nethttp.MethodGet, "/foods?sort=asc", "", nil)
	list := decode[foodList](t, resp)
	if list.Count != 3 || list.Data[0].Price != 9 || list.Data[2].Price != 14 {
		t.Fatalf("ascending order wrong: %+v", list.Data)
	}

	resp = s.do(t, nethttp.MethodGet, "/foods?sort=dsc", "", nil)
	list = decode[foodList](t, resp)
	if list.Data[0].Price != 14 || list.Data[2].Price != 9 {
		t.Fatalf("descending order wrong: %+v", list.Data)
	}

	resp = s.do(t, nethttp.MethodGet, "/foods?search=CHICKEN&filter=India&sort=asc", "", nil)
	list = decode[foodList](t, resp)
	if list.Count != 2 || list.Data[0].FoodName != "Chicken Curry" {
		t.Fatalf("search+filter wrong: %+v", list.Data)
	}

	resp = s.do(t, nethttp.MethodGet, "/foods?filter=india", "", nil)
	list = decode[foodList](t, resp)
	if list.Count != 0 {
		t.Fatalf("origin filter must be exact, got %+v", list.Data)
	}
}

func TestListFoodsInvalidSortSkipsStore(t *testing.T) {
	s := newTestServer(t)
	for _, sort := range []string{"desc", "ASC", "price"} {
		resp := s.do(t, nethttp.MethodGet, "/foods?sort="+sort, "", nil)
		if resp.StatusCode != nethttp.StatusBadRequest {
			t.Fatalf("sort=%s status=%d, want 400", sort, resp.StatusCode)
		}
		if body := decode[errorBody](t, resp); body.Error.Code != "VALIDATION_FAILED" {
			t.Fatalf("unexpected error body %+v", body)
		}
	}
	if s.foods.findCalls() != 0 {
		t.Fatalf("store queried %d times for invalid sort", s.foods.findCalls())
	}
}

func TestListFoodsEmptyResult(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, domain.Food{FoodName: "Pho", Price: 10})

	resp := s.do(t, nethttp.MethodGet, "/foods?search=zzz", "", nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("status=%d, want 200", resp.StatusCode)
	}
	list := decode[foodList](t, resp)
	if list.Count != 0 || list.Data == nil || list.Message == "" {
		t.Fatalf("expected explicit empty marker, got %+v", list)
	}
}

func TestGetFood(t *testing.T) {
	s := newTestServer(t)
	ids := s.seed(t, domain.Food{FoodName: "Pho", Price: 10})

	resp := s.do(t, nethttp.MethodGet, "/food/"+ids[0], "", nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	got := decode[struct {
		Data domain.Food `json:"data"`
	}](t, resp)
	if got.Data.FoodName != "Pho" {
		t.Fatalf("unexpected food %+v", got.Data)
	}

	resp = s.do(t, nethttp.MethodGet, "/food/missing", "", nil)
	if resp.StatusCode != nethttp.StatusNotFound {
		t.Fatalf("unknown id status=%d, want 404", resp.StatusCode)
	}
}

func TestAddFoodAssignsOwner(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "chef@b.com")

	resp := s.do(t, nethttp.MethodPost, "/add-food", `{"foodName":"Paella","price":15,"purchase_count":99}`, cookie)
	if resp.StatusCode != nethttp.StatusCreated {
		t.Fatalf("status=%d, want 201", resp.StatusCode)
	}
	got := decode[struct {
		Data struct {
			InsertedID string `json:"insertedId"`
		} `json:"data"`
	}](t, resp)

	food, err := s.foods.GetByID(context.Background(), got.Data.InsertedID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if food.Email != "chef@b.com" || food.PurchaseCount != 0 {
		t.Fatalf("unexpected stored food %+v", food)
	}

	resp = s.do(t, nethttp.MethodPost, "/add-food", `{"foodName":"Paella","email":"other@b.com"}`, cookie)
	if resp.StatusCode != nethttp.StatusForbidden {
		t.Fatalf("foreign owner status=%d, want 403", resp.StatusCode)
	}
}

func TestUpdateFoodUpserts(t *testing.T) {
	s := newTestServer(t)
	ids := s.seed(t, domain.Food{FoodName: "Pho", Price: 10})
	cookie := s.login(t, "a@b.com")

	resp := s.do(t, nethttp.MethodPut, "/food/update/"+ids[0], `{"price":12}`, cookie)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	got := decode[struct {
		Data repository.UpsertResult `json:"data"`
	}](t, resp)
	if got.Data.MatchedCount != 1 || got.Data.ModifiedCount != 1 {
		t.Fatalf("unexpected update result %+v", got.Data)
	}
	food, _ := s.foods.GetByID(context.Background(), ids[0])
	if food.Price != 12 || food.FoodName != "Pho" {
		t.Fatalf("update must merge fields, got %+v", food)
	}

	resp = s.do(t, nethttp.MethodPut, "/food/update/new-id", `{"foodName":"Laksa"}`, cookie)
	got = decode[struct {
		Data repository.UpsertResult `json:"data"`
	}](t, resp)
	if got.Data.UpsertedID != "new-id" {
		t.Fatalf("expected upsert of new-id, got %+v", got.Data)
	}
}

func TestUpsertedFoodSurvivesLaterRequests(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "a@b.com")

	resp := s.do(t, nethttp.MethodPut, "/food/update/new-id-1", `{"foodName":"Laksa"}`, cookie)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("upsert status=%d", resp.StatusCode)
	}
	for i := 0; i < 5; i++ {
		s.do(t, nethttp.MethodGet, "/food/update/XXXXXXXX", "", nil)
		s.do(t, nethttp.MethodPut, "/food/update/YYYYYYYY", `{"foodName":"Pho"}`, cookie)
	}

	food, err := s.foods.GetByID(context.Background(), "new-id-1")
	if err != nil {
		t.Fatalf("upserted food lost: %v", err)
	}
	if food.ID != "new-id-1" || food.FoodName != "Laksa" {
		t.Fatalf("stored food corrupted: %+v", food)
	}

	resp = s.do(t, nethttp.MethodGet, "/food/new-id-1", "", nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("GET /food/new-id-1 status=%d", resp.StatusCode)
	}
	all, _ := s.foods.MemoryFoodRepository.Find(context.Background(), repository.FoodQuery{})
	if len(all) != 2 {
		t.Fatalf("expected 2 stored foods, got %+v", all)
	}
}

func TestOrdersLifecycleUpdatesTopSelling(t *testing.T) {
	s := newTestServer(t)
	ids := s.seed(t,
		domain.Food{FoodName: "Pho", Price: 10},
		domain.Food{FoodName: "Ramen", Price: 12},
	)
	cookie := s.login(t, "a@b.com")

	resp := s.do(t, nethttp.MethodPost, "/orders", `{"foodId":"`+ids[1]+`","quantity":3}`, cookie)
	if resp.StatusCode != nethttp.StatusCreated {
		t.Fatalf("place status=%d", resp.StatusCode)
	}
	placed := decode[struct {
		Data struct {
			InsertedID string `json:"insertedId"`
		} `json:"data"`
	}](t, resp)

	resp = s.do(t, nethttp.MethodGet, "/foods/top-selling", "", nil)
	top := decode[foodList](t, resp)
	if len(top.Data) != 2 || top.Data[0].ID != ids[1] || top.Data[0].PurchaseCount != 3 {
		t.Fatalf("unexpected top-selling %+v", top.Data)
	}

	resp = s.do(t, nethttp.MethodGet, "/orders/a@b.com", "", cookie)
	orders := decode[struct {
		Data  []domain.Order `json:"data"`
		Count int            `json:"count"`
	}](t, resp)
	if orders.Count != 1 || orders.Data[0].BuyerEmail != "a@b.com" {
		t.Fatalf("unexpected orders %+v", orders)
	}

	resp = s.do(t, nethttp.MethodDelete, "/orders/delete/"+placed.Data.InsertedID, "", cookie)
	deleted := decode[struct {
		Data struct {
			DeletedCount int64 `json:"deletedCount"`
		} `json:"data"`
	}](t, resp)
	if deleted.Data.DeletedCount != 1 {
		t.Fatalf("expected one deletion, got %+v", deleted)
	}
}

func TestTopSellingLimit(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < repository.TopSellingLimit+2; i++ {
		s.seed(t, domain.Food{FoodName: "Dish", PurchaseCount: i})
	}
	resp := s.do(t, nethttp.MethodGet, "/foods/top-selling", "", nil)
	top := decode[foodList](t, resp)
	if len(top.Data) != repository.TopSellingLimit {
		t.Fatalf("got %d items, want %d", len(top.Data), repository.TopSellingLimit)
	}
	if top.Data[0].PurchaseCount != repository.TopSellingLimit+1 {
		t.Fatalf("highest seller must come first, got %+v", top.Data[0])
	}
}

func TestUnknownRouteReturnsJSONError(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, nethttp.MethodGet, "/nope", "", nil)
	if resp.StatusCode != nethttp.StatusNotFound {
		t.Fatalf("status=%d, want 404", resp.StatusCode)
	}
	if body := decode[errorBody](t, resp); body.Error.Code != "NOT_FOUND" {
		t.Fatalf("unexpected error body %+v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, nethttp.MethodGet, "/foods", "", nil)

	resp := s.do(t, nethttp.MethodGet, "/metrics", "", nil)
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != nethttp.StatusOK || !strings.Contains(string(body), "http_requests_total") {
		t.Fatalf("metrics missing request counter: %d %s", resp.StatusCode, body)
	}
}
