package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replyforge/replyforge/internal/api/handler"
	"github.com/replyforge/replyforge/internal/api/middleware"
	"github.com/replyforge/replyforge/internal/brand"
	"github.com/replyforge/replyforge/internal/website"
)

// --- Mock Brand Repository ---

type mockBrandRepo struct {
	createFn     func(ctx context.Context, b *brand.Brand) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*brand.Brand, error)
	listByUserFn func(ctx context.Context, userID uuid.UUID) ([]brand.Brand, error)
	calls        int
}

func (m *mockBrandRepo) Create(ctx context.Context, b *brand.Brand) error {
	m.calls++
	if m.createFn != nil {
		return m.createFn(ctx, b)
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	return nil
}

func (m *mockBrandRepo) GetByID(ctx context.Context, id uuid.UUID) (*brand.Brand, error) {
	m.calls++
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, brand.ErrNotFound
}

func (m *mockBrandRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]brand.Brand, error) {
	m.calls++
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []brand.Brand{}, nil
}

func (m *mockBrandRepo) OwnerOf(_ context.Context, _ uuid.UUID) (uuid.UUID, error) {
	m.calls++
	return uuid.Nil, brand.ErrNotFound
}

type mockAnalyzer struct {
	analyzeFn func(ctx context.Context, rawURL string) (*website.Analysis, error)
	calls     int
}

func (m *mockAnalyzer) Analyze(ctx context.Context, rawURL string) (*website.Analysis, error) {
	m.calls++
	return m.analyzeFn(ctx, rawURL)
}

func sampleBrand(id uuid.UUID, site string) *brand.Brand {
	now := time.Now().UTC()
	return &brand.Brand{ID: id, UserID: ownerID, Name: "Acme", WebsiteURL: site, CreatedAt: now, UpdatedAt: now}
}

// ===== POST /api/brands =====

func TestBrandCreate_Success(t *testing.T) {
	t.Parallel()

	var saved *brand.Brand
	repo := &mockBrandRepo{createFn: func(_ context.Context, b *brand.Brand) error {
		saved = b
		b.ID = uuid.New()
		return nil
	}}
	h := handler.NewBrandHandler(repo, guardFor(), nil)

	req, w := makeChiRequest(http.MethodPost, "/api/brands",
		mustJSON(t, map[string]string{"name": " Acme ", "websiteUrl": "https://acme.io"}), nil)
	h.Create(w, asUser(req, ownerID))

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, saved)
	assert.Equal(t, ownerID, saved.UserID)
	assert.Equal(t, "Acme", saved.Name)
	b := parseBody(t, w)["brand"].(map[string]any)
	assert.Equal(t, "https://acme.io", b["websiteUrl"])
}

func TestBrandCreate_ValidationError(t *testing.T) {
	t.Parallel()

	repo := &mockBrandRepo{}
	h := handler.NewBrandHandler(repo, guardFor(), nil)

	req, w := makeChiRequest(http.MethodPost, "/api/brands", mustJSON(t, map[string]string{}), nil)
	h.Create(w, asUser(req, ownerID))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name is required", parseBody(t, w)["error"])
	assert.Zero(t, repo.calls)
}

// ===== GET /api/brands =====

func TestBrandList_ScopedToPrincipal(t *testing.T) {
	t.Parallel()

	var queried uuid.UUID
	repo := &mockBrandRepo{listByUserFn: func(_ context.Context, userID uuid.UUID) ([]brand.Brand, error) {
		queried = userID
		return []brand.Brand{*sampleBrand(uuid.New(), "")}, nil
	}}
	h := handler.NewBrandHandler(repo, guardFor(), nil)

	req, w := makeChiRequest(http.MethodGet, "/api/brands", nil, nil)
	h.List(w, asUser(req, ownerID))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ownerID, queried)
	assert.Len(t, parseBody(t, w)["brands"], 1)
}

func TestBrandHandlers_IgnoreForwardedHeaderWithoutPrincipal(t *testing.T) {
	t.Parallel()

	brandID := uuid.New()
	repo := &mockBrandRepo{getByIDFn: func(_ context.Context, id uuid.UUID) (*brand.Brand, error) {
		return sampleBrand(id, ""), nil
	}}
	h := handler.NewBrandHandler(repo, guardFor(brandID), nil)

	req, w := makeChiRequest(http.MethodGet, "/api/brands/"+brandID.String(), nil, map[string]string{"brandId": brandID.String()})
	req.Header.Set(middleware.HeaderUserID, ownerID.String())
	h.Get(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req, w = makeChiRequest(http.MethodPost, "/api/brands", mustJSON(t, map[string]string{"name": "Acme"}), nil)
	req.Header.Set(middleware.HeaderUserID, ownerID.String())
	h.Create(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req, w = makeChiRequest(http.MethodGet, "/api/brands", nil, nil)
	req.Header.Set(middleware.HeaderUserID, ownerID.String())
	h.List(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, parseBody(t, w)["brands"])

	assert.Zero(t, repo.calls)
}

// ===== GET /api/brands/{brandId} =====

func TestBrandGet_Owner(t *testing.T) {
	t.Parallel()

	brandID := uuid.New()
	repo := &mockBrandRepo{getByIDFn: func(_ context.Context, id uuid.UUID) (*brand.Brand, error) {
		return sampleBrand(id, ""), nil
	}}
	h := handler.NewBrandHandler(repo, guardFor(brandID), nil)

	req, w := makeChiRequest(http.MethodGet, "/api/brands/"+brandID.String(), nil, map[string]string{"brandId": brandID.String()})
	h.Get(w, asUser(req, ownerID))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, brandID.String(), parseBody(t, w)["brand"].(map[string]any)["id"])
}

func TestBrandGet_NonOwnerForbidden(t *testing.T) {
	t.Parallel()

	brandID := uuid.New()
	repo := &mockBrandRepo{}
	h := handler.NewBrandHandler(repo, guardFor(brandID), nil)

	req, w := makeChiRequest(http.MethodGet, "/api/brands/"+brandID.String(), nil, map[string]string{"brandId": brandID.String()})
	h.Get(w, asUser(req, strangerID))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied", parseBody(t, w)["error"])
	assert.Zero(t, repo.calls)
}

func TestBrandGet_UnknownBrandLooksForbidden(t *testing.T) {
	t.Parallel()

	missing := uuid.New()
	h := handler.NewBrandHandler(&mockBrandRepo{}, guardFor(), nil)

	req, w := makeChiRequest(http.MethodGet, "/api/brands/"+missing.String(), nil, map[string]string{"brandId": missing.String()})
	h.Get(w, asUser(req, ownerID))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBrandGet_GuardFailure(t *testing.T) {
	t.Parallel()

	brandID := uuid.New()
	guard := brand.NewGuard(&mockOwnerLookup{err: errors.New("pool closed")})
	h := handler.NewBrandHandler(&mockBrandRepo{}, guard, nil)

	req, w := makeChiRequest(http.MethodGet, "/", nil, map[string]string{"brandId": brandID.String()})
	h.Get(w, asUser(req, ownerID))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestBrandGet_InvalidID(t *testing.T) {
	t.Parallel()

	h := handler.NewBrandHandler(&mockBrandRepo{}, guardFor(), nil)

	req, w := makeChiRequest(http.MethodGet, "/api/brands/B1", nil, map[string]string{"brandId": "B1"})
	h.Get(w, asUser(req, ownerID))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===== POST /api/brands/{brandId}/analyze-website =====

func TestBrandAnalyzeWebsite(t *testing.T) {
	t.Parallel()

	brandID := uuid.New()
	repo := &mockBrandRepo{getByIDFn: func(_ context.Context, id uuid.UUID) (*brand.Brand, error) {
		return sampleBrand(id, "https://acme.io"), nil
	}}
	analyzer := &mockAnalyzer{analyzeFn: func(_ context.Context, rawURL string) (*website.Analysis, error) {
		return &website.Analysis{URL: rawURL, Title: "Acme"}, nil
	}}
	h := handler.NewBrandHandler(repo, guardFor(brandID), analyzer)

	req, w := makeChiRequest(http.MethodPost, "/", nil, map[string]string{"brandId": brandID.String()})
	h.AnalyzeWebsite(w, asUser(req, ownerID))

	assert.Equal(t, http.StatusOK, w.Code)
	analysis := parseBody(t, w)["analysis"].(map[string]any)
	assert.Equal(t, "Acme", analysis["title"])
	assert.Equal(t, "https://acme.io", analysis["url"])
}

func TestBrandAnalyzeWebsite_Failures(t *testing.T) {
	t.Parallel()

	brandID := uuid.New()

	t.Run("no website", func(t *testing.T) {
		repo := &mockBrandRepo{getByIDFn: func(_ context.Context, id uuid.UUID) (*brand.Brand, error) {
			return sampleBrand(id, ""), nil
		}}
		analyzer := &mockAnalyzer{}
		h := handler.NewBrandHandler(repo, guardFor(brandID), analyzer)

		req, w := makeChiRequest(http.MethodPost, "/", nil, map[string]string{"brandId": brandID.String()})
		h.AnalyzeWebsite(w, asUser(req, ownerID))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, analyzer.calls)
	})

	t.Run("fetch timeout", func(t *testing.T) {
		repo := &mockBrandRepo{getByIDFn: func(_ context.Context, id uuid.UUID) (*brand.Brand, error) {
			return sampleBrand(id, "https://slow.example"), nil
		}}
		analyzer := &mockAnalyzer{analyzeFn: func(context.Context, string) (*website.Analysis, error) {
			return nil, context.DeadlineExceeded
		}}
		h := handler.NewBrandHandler(repo, guardFor(brandID), analyzer)

		req, w := makeChiRequest(http.MethodPost, "/", nil, map[string]string{"brandId": brandID.String()})
		h.AnalyzeWebsite(w, asUser(req, ownerID))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
