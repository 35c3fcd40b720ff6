package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	v1 "github.com/Uzair-37/Standard-website/internal/api/v1"
	httperr "github.com/Uzair-37/Standard-website/internal/core/errors"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := newTestService(t, Options{})
	r := gin.New()
	svc.RegisterRoutes(r)
	return r, svc
}

func getJSON(t *testing.T, r *gin.Engine, url string, out any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, "body: %s", resp.Body.String())
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), out))
}

func TestHandleTrackAcceptsAndStoresPayload(t *testing.T) {
	r, svc := newTestRouter(t)

	body := `{"type":"pageView","sessionId":"s-1","path":"/home","referrer":"https://example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/track", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusAccepted, resp.Code)
	require.Equal(t, 1, svc.EventCount())

	events := svc.events.Snapshot()
	require.Equal(t, "s-1", events[0].SessionID)
	// Fields outside the envelope ride along untouched.
	require.Equal(t, "https://example.com", events[0].Data["referrer"])
}

func TestHandleTrackInvalidJSON(t *testing.T) {
	r, svc := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/track", strings.NewReader("{oops"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), httperr.HttpInvalidJsonError)
	require.Equal(t, 0, svc.EventCount())
}

func TestHandleTrackOversizedBody(t *testing.T) {
	r, _ := newTestRouter(t) // 1MB default cap

	body := `{"type":"pageView","pad":"` + strings.Repeat("x", 1<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/track", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
}

func TestHandleSaveInsightsStatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "valid batch returns 201",
			body:           `{"sessionId":"s-1","insights":[{"type":"exit_intent","priority":"high"}]}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "empty insight list returns 400",
			body:           `{"sessionId":"s-1","insights":[]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing insight list returns 400",
			body:           `{"sessionId":"s-1"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid json returns 400",
			body:           `{"sessionId":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestRouter(t)

			req := httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)

			if resp.Code != tc.expectedStatus {
				t.Logf("unexpected response body: %s", resp.Body.String())
			}
			require.Equal(t, tc.expectedStatus, resp.Code)
		})
	}
}

func TestHandleInsightListings(t *testing.T) {
	r, svc := newTestRouter(t)

	_, err := svc.SaveInsights(v1.InsightBatch{SessionID: "s-1", Insights: []map[string]any{
		{"type": "rage_click", "priority": "high"},
		{"type": "scroll_depth"},
	}})
	require.NoError(t, err)

	var listing struct {
		Count    int              `json:"count"`
		Insights []map[string]any `json:"insights"`
	}
	getJSON(t, r, "/api/insights", &listing)
	require.Equal(t, 2, listing.Count)
	require.Len(t, listing.Insights, 2)

	getJSON(t, r, "/api/insights/high-priority", &listing)
	require.Equal(t, 1, listing.Count)
	require.Equal(t, "rage_click", listing.Insights[0]["type"])
	require.Equal(t, "high", listing.Insights[0]["priority"])
}

func TestHandleAnalyticsEndpoints(t *testing.T) {
	r, svc := newTestRouter(t)

	svc.Track(v1.Event{Type: v1.EventPageView, SessionID: "s-1", Path: "/home"})
	svc.Track(v1.Event{
		Type:           v1.EventConversion,
		SessionID:      "s-1",
		ConversionType: v1.ConversionAddToCart,
		Details:        "widget",
	})
	svc.Track(v1.Event{Type: v1.EventDevice, SessionID: "s-1", DeviceType: "mobile"})

	var traffic TrafficSummary
	getJSON(t, r, "/api/analytics/traffic", &traffic)
	require.Equal(t, 1, traffic.Today.PageViews)
	require.Equal(t, 1, traffic.Today.UniqueSessions)

	var conv ConversionSummary
	getJSON(t, r, "/api/analytics/conversions", &conv)
	require.Equal(t, 1, conv.Today.Conversions)
	require.Equal(t, 1, conv.Today.PageViews)
	require.Equal(t, "100", conv.Today.Rate.String())

	var products struct {
		Count    int           `json:"count"`
		Products []ProductStat `json:"products"`
	}
	getJSON(t, r, "/api/analytics/top-products", &products)
	require.Equal(t, 1, products.Count)
	require.Equal(t, "widget", products.Products[0].Product)

	var devices DeviceStats
	getJSON(t, r, "/api/analytics/devices", &devices)
	require.Equal(t, 1, devices.Counts.Mobile)

	var sessions struct {
		Count    int                `json:"count"`
		Sessions []SessionAggregate `json:"sessions"`
	}
	getJSON(t, r, "/api/analytics/sessions", &sessions)
	require.Equal(t, 1, sessions.Count)
	require.Equal(t, "s-1", sessions.Sessions[0].SessionID)
}

func TestHandleTopSessionsLimitValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, limit := range []string{"bogus", "0", "-3"} {
		req := httptest.NewRequest(http.MethodGet, "/api/analytics/sessions?limit="+limit, nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		require.Equal(t, http.StatusBadRequest, resp.Code, "limit=%s", limit)
	}
}
