// Package client is a Go consumer of the trip API with an offline-first
// response cache: reads serve cached data when fresh or when the network
// is gone, writes refuse cleanly while offline, and a persisted copy
// survives restarts.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"sync"
	"time"

	"trip-api/models"
)

// cacheBuster invalidates persisted caches written by incompatible
// versions of the data shapes. Bump on breaking response changes.
const cacheBuster = "v1"

type Client struct {
	baseURL string
	http    *http.Client
	cache   *memCache
	store   *persistStore
	nowFn   func() time.Time

	mu            sync.Mutex
	forcedOffline bool
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithPersistence backs the cache with a sqlite file at dbPath. Entries
// from a previous run are loaded immediately.
func WithPersistence(dbPath string) Option {
	return func(c *Client) {
		store, err := openPersist(dbPath, cacheBuster)
		if err != nil {
			// Persistence is an optimization; run memory-only on failure.
			return
		}
		c.store = store
		if entries, err := store.loadAll(); err == nil {
			for key, e := range entries {
				c.cache.put(key, e.payload, e.fetchedAt)
			}
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second, Jar: jar},
		cache:   newMemCache(),
		nowFn:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the persisted cache, if any.
func (c *Client) Close() error {
	if c.store != nil {
		return c.store.close()
	}
	return nil
}

// ttlFor returns how long a cached resource is considered fresh.
// Aggregates change with every mutation, so they expire fast; seeded
// reference data barely changes.
func ttlFor(resource string) time.Duration {
	switch resource {
	case "dashboard", "daily-spending":
		return 30 * time.Second
	case "regions", "expense-categories":
		return 10 * time.Minute
	default:
		return 2 * time.Minute
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// VerifyPIN authenticates with the household PIN. The session cookie is
// kept in the client's cookie jar for subsequent calls.
func (c *Client) VerifyPIN(ctx context.Context, pin string) (bool, error) {
	if c.Offline() {
		return false, ErrOffline
	}
	var resp struct {
		Valid bool `json:"valid"`
	}
	if err := c.do(ctx, http.MethodPost, "auth/verify", map[string]string{"pin": pin}, &resp); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// Logout clears the session on the server and drops the cookie.
func (c *Client) Logout(ctx context.Context) error {
	if c.Offline() {
		return ErrOffline
	}
	return c.do(ctx, http.MethodDelete, "auth/verify", nil, nil)
}

// get serves key from cache when fresh, otherwise refetches. Network
// failures fall back to whatever is cached, however old.
func (c *Client) get(ctx context.Context, key string, out interface{}) error {
	resource := rootResource(key)
	payload, fresh, ok := c.cache.get(key, ttlFor(resource), c.nowFn())
	if ok && fresh {
		return json.Unmarshal(payload, out)
	}

	if c.Offline() {
		if ok {
			return json.Unmarshal(payload, out)
		}
		return ErrOffline
	}

	fetched, err := c.fetch(ctx, key)
	if err != nil {
		if ok {
			return json.Unmarshal(payload, out)
		}
		return err
	}

	now := c.nowFn()
	c.cache.put(key, fetched, now)
	if c.store != nil {
		_ = c.store.save(key, fetched, now)
	}
	return json.Unmarshal(fetched, out)
}

func (c *Client) fetch(ctx context.Context, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/"+key, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, apiError(resp.StatusCode, body)
	}
	return body, nil
}

// mutate refuses while offline, performs the request, then drops every
// cached resource derived from the mutated one.
func (c *Client) mutate(ctx context.Context, method, path, resource string, body, out interface{}) error {
	if c.Offline() {
		return ErrOffline
	}
	if err := c.do(ctx, method, path, body, out); err != nil {
		return err
	}
	c.invalidate(resource)
	return nil
}

func (c *Client) invalidate(resource string) {
	for _, target := range dependentsOf(resource) {
		dropped := c.cache.invalidatePrefix(target)
		if c.store != nil {
			_ = c.store.delete(dropped)
		}
	}
}

// markStale drops a resource without a mutation of our own; used by the
// sync listener when another device changes data.
func (c *Client) markStale(resource string) {
	dropped := c.cache.invalidatePrefix(resource)
	if c.store != nil {
		_ = c.store.delete(dropped)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1/"+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, respBody)
	}
	if out != nil {
		return json.Unmarshal(respBody, out)
	}
	return nil
}

func apiError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &APIError{Status: status, Message: payload.Error}
	}
	return &APIError{Status: status, Message: http.StatusText(status)}
}

// rootResource maps "expenses/42" to "expenses" for TTL lookup.
func rootResource(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			return key[:i]
		}
	}
	return key
}

func idPath(resource string, id int64) string {
	return resource + "/" + strconv.FormatInt(id, 10)
}

// Reads.

func (c *Client) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := c.get(ctx, "dashboard", &stats)
	return stats, err
}

func (c *Client) DailySpending(ctx context.Context) ([]models.DailySpendingDay, error) {
	var days []models.DailySpendingDay
	err := c.get(ctx, "daily-spending", &days)
	return days, err
}

func (c *Client) Regions(ctx context.Context) ([]models.Region, error) {
	var regions []models.Region
	err := c.get(ctx, "regions", &regions)
	return regions, err
}

func (c *Client) CalendarDays(ctx context.Context) ([]models.CalendarDay, error) {
	var days []models.CalendarDay
	err := c.get(ctx, "calendar-days", &days)
	return days, err
}

func (c *Client) CalendarDay(ctx context.Context, id int64) (models.CalendarDay, error) {
	var day models.CalendarDay
	err := c.get(ctx, idPath("calendar-days", id), &day)
	return day, err
}

func (c *Client) Flights(ctx context.Context) ([]models.Flight, error) {
	var flights []models.Flight
	err := c.get(ctx, "flights", &flights)
	return flights, err
}

func (c *Client) Hotels(ctx context.Context) ([]models.Hotel, error) {
	var hotels []models.Hotel
	err := c.get(ctx, "hotels", &hotels)
	return hotels, err
}

func (c *Client) Events(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := c.get(ctx, "events", &events)
	return events, err
}

func (c *Client) Expenses(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	err := c.get(ctx, "expenses", &expenses)
	return expenses, err
}

func (c *Client) ExpenseCategories(ctx context.Context) ([]models.ExpenseCategory, error) {
	var categories []models.ExpenseCategory
	err := c.get(ctx, "expense-categories", &categories)
	return categories, err
}

func (c *Client) Settings(ctx context.Context) (models.AppSettings, error) {
	var settings models.AppSettings
	err := c.get(ctx, "settings", &settings)
	return settings, err
}

// Writes.

func (c *Client) UpdateCalendarDay(ctx context.Context, id int64, req models.UpdateCalendarDayRequest) (models.CalendarDay, error) {
	var day models.CalendarDay
	err := c.mutate(ctx, http.MethodPut, idPath("calendar-days", id), "calendar-days", req, &day)
	return day, err
}

func (c *Client) CreateFlight(ctx context.Context, req models.CreateFlightRequest) (models.Flight, error) {
	var flight models.Flight
	err := c.mutate(ctx, http.MethodPost, "flights", "flights", req, &flight)
	return flight, err
}

func (c *Client) UpdateFlight(ctx context.Context, id int64, req models.UpdateFlightRequest) (models.Flight, error) {
	var flight models.Flight
	err := c.mutate(ctx, http.MethodPut, idPath("flights", id), "flights", req, &flight)
	return flight, err
}

func (c *Client) DeleteFlight(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, idPath("flights", id), "flights", nil, nil)
}

func (c *Client) CreateHotel(ctx context.Context, req models.CreateHotelRequest) (models.Hotel, error) {
	var hotel models.Hotel
	err := c.mutate(ctx, http.MethodPost, "hotels", "hotels", req, &hotel)
	return hotel, err
}

func (c *Client) UpdateHotel(ctx context.Context, id int64, req models.UpdateHotelRequest) (models.Hotel, error) {
	var hotel models.Hotel
	err := c.mutate(ctx, http.MethodPut, idPath("hotels", id), "hotels", req, &hotel)
	return hotel, err
}

func (c *Client) DeleteHotel(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, idPath("hotels", id), "hotels", nil, nil)
}

func (c *Client) CreateEvent(ctx context.Context, req models.CreateEventRequest) (models.Event, error) {
	var event models.Event
	err := c.mutate(ctx, http.MethodPost, "events", "events", req, &event)
	return event, err
}

func (c *Client) UpdateEvent(ctx context.Context, id int64, req models.UpdateEventRequest) (models.Event, error) {
	var event models.Event
	err := c.mutate(ctx, http.MethodPut, idPath("events", id), "events", req, &event)
	return event, err
}

func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, idPath("events", id), "events", nil, nil)
}

func (c *Client) CreateExpense(ctx context.Context, req models.CreateExpenseRequest) (models.Expense, error) {
	var expense models.Expense
	err := c.mutate(ctx, http.MethodPost, "expenses", "expenses", req, &expense)
	return expense, err
}

func (c *Client) UpdateExpense(ctx context.Context, id int64, req models.UpdateExpenseRequest) (models.Expense, error) {
	var expense models.Expense
	err := c.mutate(ctx, http.MethodPut, idPath("expenses", id), "expenses", req, &expense)
	return expense, err
}

func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, idPath("expenses", id), "expenses", nil, nil)
}

func (c *Client) UpdateExpenseCategory(ctx context.Context, req models.UpdateExpenseCategoryRequest) (models.ExpenseCategory, error) {
	var category models.ExpenseCategory
	err := c.mutate(ctx, http.MethodPut, "expense-categories", "expense-categories", req, &category)
	return category, err
}

func (c *Client) UpdateSettings(ctx context.Context, req models.UpdateSettingsRequest) (models.AppSettings, error) {
	var settings models.AppSettings
	err := c.mutate(ctx, http.MethodPut, "settings", "settings", req, &settings)
	return settings, err
}
