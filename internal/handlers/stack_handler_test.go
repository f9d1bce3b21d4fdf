package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cogstack/cogstack-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func stackRouter() *gin.Engine {
	handler := NewStackHandler(services.NewStackService())
	router := gin.New()
	router.GET("/stack/layers", handler.GetLayers)
	router.GET("/stack/layers/:id", handler.GetLayer)
	return router
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	return w
}

func TestStackHandler_GetLayers(t *testing.T) {
	w := get(stackRouter(), "/stack/layers")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"edge"`)
	assert.Contains(t, w.Body.String(), `"id":"memory"`)
	assert.NotContains(t, w.Body.String(), `"activeId"`)
	assert.Equal(t, "public, max-age=300", w.Header().Get("Cache-Control"))
}

func TestStackHandler_GetLayers_Active(t *testing.T) {
	router := stackRouter()

	w := get(router, "/stack/layers?active=memory")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"activeId":"memory"`)

	w = get(router, "/stack/layers?active=database")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStackHandler_GetLayer(t *testing.T) {
	router := stackRouter()

	w := get(router, "/stack/layers/cognitive")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Cognitive Systems"`)

	w = get(router, "/stack/layers/database")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Layer not found"}`, w.Body.String())
}
