package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/internal/catalog"
	"github.com/pageza/recipe-catalog/internal/client"
	"github.com/pageza/recipe-catalog/internal/media"
	"github.com/pageza/recipe-catalog/internal/middleware"
	"github.com/pageza/recipe-catalog/internal/mocks"
	"github.com/pageza/recipe-catalog/internal/model"
	"github.com/pageza/recipe-catalog/internal/service"
	"github.com/pageza/recipe-catalog/internal/session"
	"github.com/pageza/recipe-catalog/internal/testhelpers"
)

func scenarioRecipes() []model.Recipe {
	return []model.Recipe{
		{ID: "1", Title: "Tarte", Category: "dessert", Ingredients: model.Ingredients{"farine", "beurre"}, Favorite: true},
		{ID: "2", Title: "Salade", Category: "entrée", Ingredients: model.Ingredients{"tomate"}, Favorite: true},
		{ID: "3", Title: "Mousse", Category: "dessert", Ingredients: model.Ingredients{"chocolat", "oeufs"}, Favorite: true},
		{ID: "4", Title: "Crème", Category: "dessert", Ingredients: model.Ingredients{"lait", "sucre"}},
	}
}

func newCatalog(t *testing.T, recipes []model.Recipe) *service.CatalogService {
	store := new(mocks.MockStore)
	store.On("List", mock.Anything, client.ListQuery{}).
		Return(&client.ListResult{Recipes: recipes, Total: len(recipes), Page: 1, Pages: 1}, nil)
	svc := service.NewCatalogService(store, catalog.NewPipeline(nil, 12, "fr"), nil, testhelpers.NullLogger())
	require.NoError(t, svc.Refresh(context.Background()))
	return svc
}

func newRouter(deps Dependencies) *gin.Engine {
	gin.SetMode(gin.TestMode)
	deps.Log = testhelpers.NullLogger()
	router := gin.New()
	RegisterRoutes(router, deps)
	return router
}

func newSessions(t *testing.T) *session.RedisStore {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	return session.NewRedisStore(rc, time.Hour)
}

func do(router http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) ViewResponse {
	var resp ViewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func titlesOf(recipes []model.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Title
	}
	return out
}

func TestGetView(t *testing.T) {
	router := newRouter(Dependencies{Catalog: newCatalog(t, scenarioRecipes())})

	w := do(router, http.MethodGet, "/api/v1/view?category=dessert&favorite=true&diet=gluten", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeView(t, w)
	assert.Equal(t, []string{"Mousse"}, titlesOf(resp.Visible))
	assert.Equal(t, 1, resp.TotalMatched)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, 1, resp.EffectivePage)
	assert.Equal(t, "dessert", resp.State.Category)
	assert.Equal(t, []catalog.Diet{catalog.DietGlutenFree}, resp.State.Diets)
}

func TestGetViewDefaultsAndClamp(t *testing.T) {
	router := newRouter(Dependencies{Catalog: newCatalog(t, scenarioRecipes())})

	resp := decodeView(t, do(router, http.MethodGet, "/api/v1/view?page=9", nil))
	assert.Equal(t, 4, resp.TotalMatched)
	assert.Equal(t, 1, resp.EffectivePage)
	assert.Equal(t, []string{"Crème", "Mousse", "Salade", "Tarte"}, titlesOf(resp.Visible))
}

func TestGetViewRejectsBadQuery(t *testing.T) {
	router := newRouter(Dependencies{Catalog: newCatalog(t, scenarioRecipes())})

	for _, target := range []string{
		"/api/v1/view?sort=random",
		"/api/v1/view?diet=keto",
		"/api/v1/view?page=two",
		"/api/v1/view?favorite=maybe",
	} {
		w := do(router, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), `"error"`, target)
	}
}

func TestExportCSV(t *testing.T) {
	router := newRouter(Dependencies{Catalog: newCatalog(t, scenarioRecipes())})

	w := do(router, http.MethodGet, "/api/v1/view/export?format=csv&category=dessert&sort=desc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Tarte", rows[1][0])
	assert.Equal(t, "Mousse", rows[2][0])
	assert.Equal(t, "Crème", rows[3][0])
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	router := newRouter(Dependencies{Catalog: newCatalog(t, scenarioRecipes())})
	w := do(router, http.MethodGet, "/api/v1/view/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionFlow(t *testing.T) {
	router := newRouter(Dependencies{
		Catalog:  newCatalog(t, scenarioRecipes()),
		Sessions: newSessions(t),
	})

	w := do(router, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, catalog.DefaultState(), created.State)
	require.NotNil(t, created.View)
	assert.Equal(t, 4, created.View.TotalMatched)

	events := "/api/v1/sessions/" + created.ID + "/events"
	for _, e := range []catalog.Event{
		{Kind: catalog.EventCategory, Value: "dessert"},
		{Kind: catalog.EventFavorite},
		{Kind: catalog.EventDiet, Value: "gluten"},
	} {
		body, _ := json.Marshal(e)
		require.Equal(t, http.StatusOK, do(router, http.MethodPost, events, body).Code)
	}

	resp := decodeView(t, do(router, http.MethodGet, "/api/v1/sessions/"+created.ID+"/view", nil))
	assert.Equal(t, []string{"Mousse"}, titlesOf(resp.Visible))
	assert.True(t, resp.State.FavoritesOnly)

	// toggling the active category clears it
	body, _ := json.Marshal(catalog.Event{Kind: catalog.EventCategory, Value: "dessert"})
	w = do(router, http.MethodPost, events, body)
	var changed SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &changed))
	assert.Equal(t, catalog.CategoryAll, changed.State.Category)
	assert.Equal(t, []string{"Mousse", "Salade"}, titlesOf(changed.View.Visible))

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/api/v1/sessions/"+created.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/v1/sessions/"+created.ID+"/view", nil).Code)
}

func TestSessionEventErrors(t *testing.T) {
	router := newRouter(Dependencies{
		Catalog:  newCatalog(t, scenarioRecipes()),
		Sessions: newSessions(t),
	})

	w := do(router, http.MethodPost, "/api/v1/sessions", nil)
	var created SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	events := "/api/v1/sessions/" + created.ID + "/events"

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, events, []byte(`{"value":"x"}`)).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, events, []byte(`{"kind":"sort","value":"random"}`)).Code)
	assert.Equal(t, http.StatusNotFound,
		do(router, http.MethodPost, "/api/v1/sessions/unknown/events", []byte(`{"kind":"reset"}`)).Code)
}

func TestSessionRoutesDisabledWithoutRedis(t *testing.T) {
	router := newRouter(Dependencies{Catalog: newCatalog(t, scenarioRecipes())})
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPost, "/api/v1/sessions", nil).Code)
}

func TestRecipeWrites(t *testing.T) {
	svc := new(mocks.MockCatalogService)
	router := newRouter(Dependencies{Catalog: svc})

	in := model.RecipeInput{Title: "Tarte", Ingredients: model.Ingredients{"farine"}}
	svc.On("Create", mock.Anything, in).Return(&model.Recipe{ID: "new", Title: "Tarte"}, nil).Once()
	svc.On("Update", mock.Anything, "new", in).Return(nil).Once()
	svc.On("ToggleFavorite", mock.Anything, "new").Return(nil).Once()
	svc.On("Delete", mock.Anything, "new").Return(nil).Once()

	body, _ := json.Marshal(in)
	w := do(router, http.MethodPost, "/api/v1/recipes", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"new"`)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodPut, "/api/v1/recipes/new", body).Code)
	assert.Equal(t, http.StatusNoContent, do(router, http.MethodPut, "/api/v1/recipes/new/favorite", nil).Code)
	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/api/v1/recipes/new", nil).Code)
	svc.AssertExpectations(t)
}

func TestRecipeWriteValidation(t *testing.T) {
	svc := new(mocks.MockCatalogService)
	router := newRouter(Dependencies{Catalog: svc})

	w := do(router, http.MethodPost, "/api/v1/recipes", []byte(`{"category":"dessert"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(router, http.MethodPost, "/api/v1/recipes", []byte(`{not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecipeErrorMapping(t *testing.T) {
	svc := new(mocks.MockCatalogService)
	router := newRouter(Dependencies{Catalog: svc})

	svc.On("Get", mock.Anything, "gone").Return(nil, &client.StatusError{Method: "GET", Code: http.StatusNotFound}).Once()
	svc.On("Get", mock.Anything, "down").Return(nil, errors.New("connection refused")).Once()
	svc.On("Delete", mock.Anything, "bad").Return(&client.StatusError{Method: "DELETE", Code: http.StatusUnprocessableEntity}).Once()
	svc.On("Refresh", mock.Anything).Return(errors.New("timeout")).Once()

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/v1/recipes/gone", nil).Code)
	assert.Equal(t, http.StatusBadGateway, do(router, http.MethodGet, "/api/v1/recipes/down", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(router, http.MethodDelete, "/api/v1/recipes/bad", nil).Code)
	assert.Equal(t, http.StatusBadGateway, do(router, http.MethodPost, "/api/v1/refresh", nil).Code)
}

func TestListAndRefresh(t *testing.T) {
	router := newRouter(Dependencies{Catalog: newCatalog(t, scenarioRecipes())})

	w := do(router, http.MethodGet, "/api/v1/recipes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":4`)

	w = do(router, http.MethodPost, "/api/v1/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":4`)
}

func TestWriteRoutesAreRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	limiter := middleware.NewRateLimiter(rc, middleware.RateLimitConfig{Window: time.Hour, Limit: 1}, testhelpers.NullLogger())

	svc := new(mocks.MockCatalogService)
	svc.On("ToggleFavorite", mock.Anything, "1").Return(nil)
	svc.On("View", mock.Anything).Return(catalog.View{Visible: []model.Recipe{}, EffectivePage: 1})
	router := newRouter(Dependencies{Catalog: svc, Limiter: limiter})

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodPut, "/api/v1/recipes/1/favorite", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(router, http.MethodPut, "/api/v1/recipes/1/favorite", nil).Code)

	// reads are not limited
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/v1/view", nil).Code)
	}
}

func uploadRequest(t *testing.T, field string, data []byte) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "tarte.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	images := new(mocks.MockImageStore)
	images.On("Upload", mock.Anything, mock.Anything, "tarte.png").Return("https://cdn.test/recipes/a.jpg", nil).Once()
	router := newRouter(Dependencies{Catalog: newCatalog(t, nil), Images: images})

	var png8 bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.White)
	require.NoError(t, png.Encode(&png8, img))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "file", png8.Bytes()))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"url":"https://cdn.test/recipes/a.jpg"}`, w.Body.String())
	images.AssertExpectations(t)
}

func TestUploadImageErrors(t *testing.T) {
	images := new(mocks.MockImageStore)
	images.On("Upload", mock.Anything, mock.Anything, "tarte.png").Return("", media.ErrInvalidImage).Once()
	router := newRouter(Dependencies{Catalog: newCatalog(t, nil), Images: images})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "picture", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "file", []byte("not an image")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck(t *testing.T) {
	router := newRouter(Dependencies{
		Catalog: newCatalog(t, scenarioRecipes()),
		DB:      testhelpers.SetupSQLiteDatabase(t),
	})
	w := do(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"recipes":4`)
}
