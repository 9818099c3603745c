package router

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/foodgram/backend/internal/middleware"
	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/storage"
	"github.com/anonto42/foodgram/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSecret  = "router-test-secret"
	testBaseURL = "http://food.test"
)

type apiClient struct {
	t *testing.T
	e *echo.Echo
}

func (a apiClient) do(method, target, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

type fixture struct {
	api               apiClient
	chef, guest       *models.User
	chefTok, guestTok string
	flour, salt       *models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	e := echo.New()
	e.Validator = validators.NewValidator()
	require.NoError(t, SetupRoutes(e, Deps{
		DB:                 db,
		Blobs:              storage.NewMemoryStore(),
		JWTSecret:          testSecret,
		PublicBaseURL:      testBaseURL,
		ShortLinkCacheSize: 8,
	}))

	f := &fixture{api: apiClient{t: t, e: e}}
	f.chef = &models.User{Username: "chef", Email: "chef@example.org"}
	f.guest = &models.User{Username: "guest", Email: "guest@example.org"}
	require.NoError(t, db.Create(f.chef).Error)
	require.NoError(t, db.Create(f.guest).Error)
	f.flour = &models.Product{Title: "Flour", Unit: "g"}
	f.salt = &models.Product{Title: "Salt", Unit: "g"}
	require.NoError(t, db.Create(f.flour).Error)
	require.NoError(t, db.Create(f.salt).Error)

	f.chefTok, err = middleware.GenerateToken(testSecret, f.chef, time.Hour)
	require.NoError(t, err)
	f.guestTok, err = middleware.GenerateToken(testSecret, f.guest, time.Hour)
	require.NoError(t, err)
	return f
}

func (f *fixture) createDish(t *testing.T, flourQty, saltQty int) models.DishView {
	t.Helper()
	rec := f.api.do(http.MethodPost, "/api/v1/dishes", f.chefTok, echo.Map{
		"title":       "Bread",
		"picture":     pngDataURI(t),
		"description": "Knead and bake.",
		"duration":    60,
		"ingredients": []echo.Map{
			{"id": f.flour.ID, "quantity": flourQty},
			{"id": f.salt.ID, "quantity": saltQty},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp envelope[models.DishView]
	decode(t, rec, &resp)
	require.True(t, resp.Success)
	return resp.Data
}

func TestHealthAndProducts(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusOK, f.api.do(http.MethodGet, "/health", "", nil).Code)

	rec := f.api.do(http.MethodGet, "/api/v1/products?name=fl", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []models.Product
	decode(t, rec, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Flour", products[0].Title)
}

func TestDishEndpoints(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.api.do(http.MethodPost, "/api/v1/dishes", "", echo.Map{}).Code)
	assert.Equal(t, http.StatusBadRequest, f.api.do(http.MethodPost, "/api/v1/dishes", f.chefTok, echo.Map{"title": "x"}).Code)

	dish := f.createDish(t, 500, 5)
	assert.True(t, strings.HasPrefix(dish.Picture, testBaseURL+"/media/dishes/"), dish.Picture)
	assert.Len(t, dish.Ingredients, 2)

	rec := f.api.do(http.MethodGet, strings.TrimPrefix(dish.Picture, testBaseURL), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))

	rec = f.api.do(http.MethodGet, fmt.Sprintf("/api/v1/dishes/%d", dish.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view models.DishView
	decode(t, rec, &view)
	assert.Equal(t, "chef", view.Creator.Username)
	assert.False(t, view.IsBookmark)

	assert.Equal(t, http.StatusNotFound, f.api.do(http.MethodGet, "/api/v1/dishes/999", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.api.do(http.MethodGet, "/api/v1/dishes/abc", "", nil).Code)

	assert.Equal(t, http.StatusForbidden, f.api.do(http.MethodDelete, fmt.Sprintf("/api/v1/dishes/%d", dish.ID), f.guestTok, nil).Code)
	assert.Equal(t, http.StatusNoContent, f.api.do(http.MethodDelete, fmt.Sprintf("/api/v1/dishes/%d", dish.ID), f.chefTok, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.api.do(http.MethodGet, strings.TrimPrefix(dish.Picture, testBaseURL), "", nil).Code)
}

func TestBookmarkToggle(t *testing.T) {
	f := newFixture(t)
	dish := f.createDish(t, 100, 1)
	path := fmt.Sprintf("/api/v1/dishes/%d/favorite", dish.ID)

	rec := f.api.do(http.MethodPost, path, f.guestTok, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp envelope[models.DishShort]
	decode(t, rec, &resp)
	assert.Equal(t, dish.ID, resp.Data.ID)
	assert.Equal(t, dish.Picture, resp.Data.Picture)

	assert.Equal(t, http.StatusConflict, f.api.do(http.MethodPost, path, f.guestTok, nil).Code)

	rec = f.api.do(http.MethodGet, fmt.Sprintf("/api/v1/dishes/%d", dish.ID), f.guestTok, nil)
	var view models.DishView
	decode(t, rec, &view)
	assert.True(t, view.IsBookmark)
	assert.False(t, view.IsInBasket)

	assert.Equal(t, http.StatusNoContent, f.api.do(http.MethodDelete, path, f.guestTok, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.api.do(http.MethodDelete, path, f.guestTok, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.api.do(http.MethodPost, "/api/v1/dishes/999/favorite", f.guestTok, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.api.do(http.MethodPost, path, "", nil).Code)
}

func TestShoppingCartDownload(t *testing.T) {
	f := newFixture(t)
	first := f.createDish(t, 200, 5)
	second := f.createDish(t, 300, 1)

	download := "/api/v1/dishes/download_shopping_cart"
	assert.Equal(t, http.StatusBadRequest, f.api.do(http.MethodGet, download, f.guestTok, nil).Code)

	for _, d := range []models.DishView{first, second} {
		rec := f.api.do(http.MethodPost, fmt.Sprintf("/api/v1/dishes/%d/shopping_cart", d.ID), f.guestTok, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := f.api.do(http.MethodGet, download, f.guestTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="shopping_cart.txt"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/plain"))
	assert.Equal(t, "1. Flour (g) — 500\n2. Salt (g) — 6\n", rec.Body.String())
}

func TestShortLinks(t *testing.T) {
	f := newFixture(t)
	dish := f.createDish(t, 1, 1)

	rec := f.api.do(http.MethodGet, fmt.Sprintf("/api/v1/dishes/%d/get-link", dish.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var link map[string]string
	decode(t, rec, &link)
	want := fmt.Sprintf("%s/s/%x", testBaseURL, dish.ID)
	assert.Equal(t, want, link["short-link"])

	rec = f.api.do(http.MethodGet, strings.TrimPrefix(want, testBaseURL), "", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, fmt.Sprintf("/recipes/%d/", dish.ID), rec.Header().Get(echo.HeaderLocation))

	for _, token := range []string{"zz", "ffff"} {
		rec = f.api.do(http.MethodGet, "/s/"+token, "", nil)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/404", rec.Header().Get(echo.HeaderLocation))
	}

	assert.Equal(t, http.StatusNotFound, f.api.do(http.MethodGet, "/api/v1/dishes/999/get-link", "", nil).Code)
}

func TestSubscriptionsAndAvatar(t *testing.T) {
	f := newFixture(t)
	f.createDish(t, 1, 1)
	f.createDish(t, 2, 2)

	self := fmt.Sprintf("/api/v1/users/%d/subscribe", f.guest.ID)
	assert.Equal(t, http.StatusBadRequest, f.api.do(http.MethodPost, self, f.guestTok, nil).Code)

	target := fmt.Sprintf("/api/v1/users/%d/subscribe", f.chef.ID)
	rec := f.api.do(http.MethodPost, target, f.guestTok, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var followed envelope[models.UserCompact]
	decode(t, rec, &followed)
	assert.True(t, followed.Data.IsSubscribed)
	assert.Equal(t, http.StatusConflict, f.api.do(http.MethodPost, target, f.guestTok, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.api.do(http.MethodPost, "/api/v1/users/999/subscribe", f.guestTok, nil).Code)

	rec = f.api.do(http.MethodGet, "/api/v1/users/subscriptions?recipes_limit=1", f.guestTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var subs []models.Subscription
	decode(t, rec, &subs)
	require.Len(t, subs, 1)
	assert.Len(t, subs[0].Dishes, 1)
	assert.EqualValues(t, 2, subs[0].TotalDishes)
	assert.Equal(t, http.StatusBadRequest, f.api.do(http.MethodGet, "/api/v1/users/subscriptions?recipes_limit=x", f.guestTok, nil).Code)

	assert.Equal(t, http.StatusNoContent, f.api.do(http.MethodDelete, target, f.guestTok, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.api.do(http.MethodDelete, target, f.guestTok, nil).Code)

	rec = f.api.do(http.MethodPut, "/api/v1/users/me/avatar", f.guestTok, echo.Map{"avatar": pngDataURI(t)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var avatar map[string]string
	decode(t, rec, &avatar)
	assert.True(t, strings.HasPrefix(avatar["avatar"], testBaseURL+"/media/avatars/"))

	rec = f.api.do(http.MethodPut, "/api/v1/users/me/avatar", f.guestTok, echo.Map{"avatar": "data:image/png;base64,aGVsbG8="})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusNoContent, f.api.do(http.MethodDelete, "/api/v1/users/me/avatar", f.guestTok, nil).Code)
}
