package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gota/business/cafe"
	"gota/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCafeService struct {
	lastQuery   cafe.ListQuery
	lastCafeID  uint64
	lastSession string
	listErr     error
	viewErr     error
}

func (f *fakeCafeService) ListCafes(ctx context.Context, q cafe.ListQuery) ([]domain.RankedCafe, error) {
	f.lastQuery = q
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []domain.RankedCafe{{Cafe: domain.CafeCandidate{ID: 1, Name: "Cafe Cercano"}, Score: 11.55}}, nil
}

func (f *fakeCafeService) ExplainCafe(ctx context.Context, cafeID uint64, q cafe.ListQuery) (domain.ScoreBreakdown, error) {
	f.lastCafeID = cafeID
	f.lastQuery = q
	if cafeID != 1 {
		return domain.ScoreBreakdown{}, domain.ErrCafeNotFound
	}
	return domain.ScoreBreakdown{CafeID: 1, FinalScore: 11.55}, nil
}

func (f *fakeCafeService) RecordView(ctx context.Context, sessionID string, cafeID uint64) error {
	f.lastSession = sessionID
	f.lastCafeID = cafeID
	return f.viewErr
}

func (f *fakeCafeService) RecentlyViewedCafes(ctx context.Context, sessionID string) ([]domain.CafeCandidate, error) {
	f.lastSession = sessionID
	if sessionID == "" {
		return []domain.CafeCandidate{}, nil
	}
	return []domain.CafeCandidate{{ID: 4, Name: "Ultimo Visto"}}, nil
}

func (f *fakeCafeService) ListZones(ctx context.Context) ([]string, error) {
	return []string{"Belgrano", "Palermo"}, nil
}

func doRequest(h echo.HandlerFunc, method, target string, setup func(c echo.Context, req *http.Request)) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c, req)
	}
	_ = h(c)
	return rec
}

func TestCafeHandler_List(t *testing.T) {
	svc := &fakeCafeService{}
	h := NewCafeHandler(svc)

	rec := doRequest(h.List, http.MethodGet,
		"/api/v1/cafes?zona=Palermo&wifi=true&pet=1&orden=rating&lat=-34.6&lon=-58.38&radius_km=2&n=5",
		func(c echo.Context, req *http.Request) {
			req.Header.Set(HeaderSessionID, "sess-1")
			c.Set("user_id", uint(7))
		})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cafe Cercano")

	q := svc.lastQuery
	assert.Equal(t, "Palermo", q.Zone)
	assert.Equal(t, "rating", q.Order)
	assert.True(t, q.Required.HasWifi)
	assert.True(t, q.Required.IsPetFriendly)
	assert.False(t, q.Required.IsVeganFriendly)
	require.NotNil(t, q.Lat)
	require.NotNil(t, q.Lon)
	assert.Equal(t, -34.6, *q.Lat)
	assert.Equal(t, -58.38, *q.Lon)
	assert.Equal(t, 2.0, q.RadiusKm)
	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, uint(7), q.UserID)
	assert.Equal(t, "sess-1", q.SessionID)
}

func TestCafeHandler_ListSearchAndVisibility(t *testing.T) {
	tests := []struct {
		visibility string
		want       *domain.VisibilityLevel
	}{
		{"", nil},
		{"premium", visibility(domain.VisibilityPremium)},
		{"1", visibility(domain.VisibilityFeatured)},
	}

	for _, tt := range tests {
		t.Run("visibility="+tt.visibility, func(t *testing.T) {
			svc := &fakeCafeService{}
			rec := doRequest(NewCafeHandler(svc).List, http.MethodGet,
				"/api/v1/cafes?q=+palermo+soho+&visibility="+tt.visibility, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "palermo soho", svc.lastQuery.Search)
			assert.Equal(t, tt.want, svc.lastQuery.Visibility)
		})
	}

	rec := doRequest(NewCafeHandler(&fakeCafeService{}).List, http.MethodGet, "/api/v1/cafes?visibility=gold", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func visibility(v domain.VisibilityLevel) *domain.VisibilityLevel { return &v }

func TestCafeHandler_ListIgnoresMalformedCoordinates(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"not a number", "/api/v1/cafes?lat=abc&lon=-58.38"},
		{"out of range", "/api/v1/cafes?lat=-95&lon=-58.38"},
		{"lon missing", "/api/v1/cafes?lat=-34.6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeCafeService{}
			rec := doRequest(NewCafeHandler(svc).List, http.MethodGet, tt.target, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Nil(t, svc.lastQuery.Lat)
			assert.Nil(t, svc.lastQuery.Lon)
		})
	}
}

func TestCafeHandler_ListRejectsBadOrder(t *testing.T) {
	svc := &fakeCafeService{}
	rec := doRequest(NewCafeHandler(svc).List, http.MethodGet, "/api/v1/cafes?orden=price", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCafeHandler_ListServiceError(t *testing.T) {
	svc := &fakeCafeService{listErr: errors.New("db down")}
	rec := doRequest(NewCafeHandler(svc).List, http.MethodGet, "/api/v1/cafes", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCafeHandler_Score(t *testing.T) {
	svc := &fakeCafeService{}
	h := NewCafeHandler(svc)

	rec := doRequest(h.Score, http.MethodGet, "/api/v1/cafes/1/score", func(c echo.Context, _ *http.Request) {
		c.SetParamNames("id")
		c.SetParamValues("1")
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "11.55")

	rec = doRequest(h.Score, http.MethodGet, "/api/v1/cafes/2/score", func(c echo.Context, _ *http.Request) {
		c.SetParamNames("id")
		c.SetParamValues("2")
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(h.Score, http.MethodGet, "/api/v1/cafes/x/score", func(c echo.Context, _ *http.Request) {
		c.SetParamNames("id")
		c.SetParamValues("x")
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCafeHandler_RecordView(t *testing.T) {
	svc := &fakeCafeService{}
	h := NewCafeHandler(svc)

	withID := func(id, session string) func(echo.Context, *http.Request) {
		return func(c echo.Context, req *http.Request) {
			c.SetParamNames("id")
			c.SetParamValues(id)
			if session != "" {
				req.Header.Set(HeaderSessionID, session)
			}
		}
	}

	rec := doRequest(h.RecordView, http.MethodPost, "/api/v1/cafes/3/views", withID("3", "sess"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "sess", svc.lastSession)
	assert.Equal(t, uint64(3), svc.lastCafeID)

	rec = doRequest(h.RecordView, http.MethodPost, "/api/v1/cafes/3/views", withID("3", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.viewErr = domain.ErrCafeNotFound
	rec = doRequest(h.RecordView, http.MethodPost, "/api/v1/cafes/9/views", withID("9", "sess"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCafeHandler_Zones(t *testing.T) {
	rec := doRequest(NewCafeHandler(&fakeCafeService{}).Zones, http.MethodGet, "/api/v1/zones", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Index(body, "Belgrano") < strings.Index(body, "Palermo"))
}

func TestCafeHandler_Recent(t *testing.T) {
	svc := &fakeCafeService{}
	h := NewCafeHandler(svc)

	rec := doRequest(h.Recent, http.MethodGet, "/api/v1/cafes/recent", func(_ echo.Context, req *http.Request) {
		req.Header.Set(HeaderSessionID, "sess-9")
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-9", svc.lastSession)
	assert.Contains(t, rec.Body.String(), "Ultimo Visto")

	rec = doRequest(h.Recent, http.MethodGet, "/api/v1/cafes/recent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Ultimo Visto")
}
