package controllers

import (
	"net/http"
	"testing"

	"blogapi/models"
)

type categoryItems struct {
	Items []models.Category `json:"items"`
}

func TestCategoryCreate(t *testing.T) {
	env := newTestEnv(t)

	w := perform(t, env.router, http.MethodPost, "/api/v1/categories", "", map[string]string{"name": "news"})
	wantStatus(t, w, http.StatusOK)

	w = perform(t, env.router, http.MethodPost, "/api/v1/categories", "", map[string]string{"name": "news"})
	wantCode(t, w, http.StatusConflict, 40902)

	// Name length is capped.
	w = perform(t, env.router, http.MethodPost, "/api/v1/categories", "", map[string]string{"name": "waytoolongname"})
	wantCode(t, w, http.StatusBadRequest, 40002)

	w = perform(t, env.router, http.MethodPost, "/api/v1/categories", "", map[string]string{})
	wantCode(t, w, http.StatusBadRequest, 40001)
}

func TestCategorySearch(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range []string{"golang", "gopher", "rust"} {
		w := perform(t, env.router, http.MethodPost, "/api/v1/categories", "", map[string]string{"name": name})
		wantStatus(t, w, http.StatusOK)
	}

	w := perform(t, env.router, http.MethodGet, "/api/v1/categories/search?query=GO", "", nil)
	wantStatus(t, w, http.StatusOK)
	var data categoryItems
	decodeData(t, w, &data)
	if len(data.Items) != 2 {
		t.Fatalf("search matched %d categories, want 2", len(data.Items))
	}

	w = perform(t, env.router, http.MethodGet, "/api/v1/categories/search", "", nil)
	wantCode(t, w, http.StatusBadRequest, 40002)
}

func TestCategoryDelete(t *testing.T) {
	env := newTestEnv(t)

	w := perform(t, env.router, http.MethodPost, "/api/v1/categories", "", map[string]string{"name": "news"})
	wantStatus(t, w, http.StatusOK)
	var data struct {
		Category models.Category `json:"category"`
	}
	decodeData(t, w, &data)

	w = perform(t, env.router, http.MethodDelete, "/api/v1/categories/"+data.Category.ID.Hex(), "", nil)
	wantStatus(t, w, http.StatusOK)

	w = perform(t, env.router, http.MethodDelete, "/api/v1/categories/"+data.Category.ID.Hex(), "", nil)
	wantCode(t, w, http.StatusNotFound, 40402)

	w = perform(t, env.router, http.MethodDelete, "/api/v1/categories/junk", "", nil)
	wantCode(t, w, http.StatusBadRequest, 40003)
}
