package controllers

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"blogapi/models"
)

type postData struct {
	Post struct {
		ID            string   `json:"id"`
		Title         string   `json:"title"`
		Content       string   `json:"content"`
		Author        string   `json:"author"`
		Categories    []string `json:"categories"`
		Likes         int      `json:"likes"`
		IsLikedByUser bool     `json:"is_liked_by_user"`
	} `json:"post"`
}

type listData struct {
	Items []struct {
		ID         string   `json:"id"`
		Title      string   `json:"title"`
		Categories []string `json:"categories"`
	} `json:"items"`
	Total int `json:"total"`
}

func createPost(t *testing.T, env *testEnv, token, title string, categories []string) string {
	t.Helper()
	w := perform(t, env.router, http.MethodPost, "/api/v1/posts", token, map[string]interface{}{
		"title":      title,
		"content":    "some content",
		"categories": categories,
	})
	wantStatus(t, w, http.StatusOK)
	var data postData
	decodeData(t, w, &data)
	return data.Post.ID
}

func TestCreatePostResolvesCategories(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alicejones", "alice")

	// "news" exists up front; "golang" must be created on the fly.
	if _, err := env.categories.Create(context.Background(), "news"); err != nil {
		t.Fatalf("seed category: %v", err)
	}

	w := perform(t, env.router, http.MethodPost, "/api/v1/posts", token, map[string]interface{}{
		"title":      "First post",
		"content":    "hello world",
		"categories": []string{"news", "golang", "news"},
	})
	wantStatus(t, w, http.StatusOK)

	var data postData
	decodeData(t, w, &data)
	if len(data.Post.Categories) != 2 {
		t.Fatalf("categories = %v, want two", data.Post.Categories)
	}
	if data.Post.Author != "alicejones" {
		t.Fatalf("author = %q", data.Post.Author)
	}
	if data.Post.Likes != 0 || data.Post.IsLikedByUser {
		t.Fatalf("fresh post has likes=%d liked=%v", data.Post.Likes, data.Post.IsLikedByUser)
	}

	// The duplicate "news" entry must not create a second category.
	if n := env.categories.size(); n != 2 {
		t.Fatalf("category count = %d, want 2", n)
	}
}

func TestCreatePostRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	w := perform(t, env.router, http.MethodPost, "/api/v1/posts", "", map[string]string{
		"title":   "t",
		"content": "c",
	})
	wantStatus(t, w, http.StatusUnauthorized)
}

func TestUpdatePostNonAuthorForbidden(t *testing.T) {
	env := newTestEnv(t)
	_, authorToken := env.addUser(t, "alicejones", "alice")
	_, otherToken := env.addUser(t, "bobsmith1", "bob")

	postID := createPost(t, env, authorToken, "Original", nil)

	w := perform(t, env.router, http.MethodPatch, "/api/v1/posts/"+postID, otherToken, map[string]string{
		"title": "Hijacked",
	})
	wantCode(t, w, http.StatusForbidden, 40301)

	w = perform(t, env.router, http.MethodDelete, "/api/v1/posts/"+postID, otherToken, nil)
	wantCode(t, w, http.StatusForbidden, 40301)

	// The post is unchanged and still present.
	w = perform(t, env.router, http.MethodGet, "/api/v1/posts/"+postID, "", nil)
	wantStatus(t, w, http.StatusOK)
	var data postData
	decodeData(t, w, &data)
	if data.Post.Title != "Original" {
		t.Fatalf("title = %q, want Original", data.Post.Title)
	}
}

func TestUpdatePostPartialPatch(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alicejones", "alice")
	postID := createPost(t, env, token, "Original", []string{"news"})

	// Patch only the title; content and categories stay.
	w := perform(t, env.router, http.MethodPatch, "/api/v1/posts/"+postID, token, map[string]string{
		"title": "Renamed",
	})
	wantStatus(t, w, http.StatusOK)

	var data postData
	decodeData(t, w, &data)
	if data.Post.Title != "Renamed" || data.Post.Content != "some content" {
		t.Fatalf("patched post = %+v", data.Post)
	}
	if len(data.Post.Categories) != 1 || data.Post.Categories[0] != "news" {
		t.Fatalf("categories = %v, want [news]", data.Post.Categories)
	}

	// An explicit categories field replaces the whole list.
	w = perform(t, env.router, http.MethodPatch, "/api/v1/posts/"+postID, token, map[string]interface{}{
		"categories": []string{"golang"},
	})
	wantStatus(t, w, http.StatusOK)
	decodeData(t, w, &data)
	if len(data.Post.Categories) != 1 || data.Post.Categories[0] != "golang" {
		t.Fatalf("categories = %v, want [golang]", data.Post.Categories)
	}
}

func TestDeletePostCascadesComments(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alicejones", "alice")
	postID := createPost(t, env, token, "Doomed", nil)

	w := perform(t, env.router, http.MethodPost, "/api/v1/comments/"+postID, token, map[string]string{
		"content": "first",
	})
	wantStatus(t, w, http.StatusOK)

	w = perform(t, env.router, http.MethodDelete, "/api/v1/posts/"+postID, token, nil)
	wantStatus(t, w, http.StatusOK)

	if n, _ := env.comments.Count(context.Background()); n != 0 {
		t.Fatalf("comment count after delete = %d, want 0", n)
	}
	w = perform(t, env.router, http.MethodGet, "/api/v1/posts/"+postID, "", nil)
	wantCode(t, w, http.StatusNotFound, 40401)
}

func TestLikePostOncePerUser(t *testing.T) {
	env := newTestEnv(t)
	_, authorToken := env.addUser(t, "alicejones", "alice")
	_, likerToken := env.addUser(t, "bobsmith1", "bob")
	postID := createPost(t, env, authorToken, "Likeable", nil)

	w := perform(t, env.router, http.MethodPost, "/api/v1/posts/"+postID+"/like", likerToken, nil)
	wantStatus(t, w, http.StatusOK)
	var data postData
	decodeData(t, w, &data)
	if data.Post.Likes != 1 || !data.Post.IsLikedByUser {
		t.Fatalf("after like: likes=%d liked=%v", data.Post.Likes, data.Post.IsLikedByUser)
	}

	w = perform(t, env.router, http.MethodPost, "/api/v1/posts/"+postID+"/like", likerToken, nil)
	wantCode(t, w, http.StatusConflict, 40903)

	post, err := env.posts.FindByID(context.Background(), mustObjectID(t, postID))
	if err != nil {
		t.Fatalf("find post: %v", err)
	}
	if post.Likes != 1 || len(post.LikedBy) != 1 {
		t.Fatalf("likes=%d likedBy=%d, want 1/1", post.Likes, len(post.LikedBy))
	}
}

func TestLikePostConcurrent(t *testing.T) {
	env := newTestEnv(t)
	_, authorToken := env.addUser(t, "alicejones", "alice")
	_, likerToken := env.addUser(t, "bobsmith1", "bob")
	postID := createPost(t, env, authorToken, "Contended", nil)

	const attempts = 32
	var wg sync.WaitGroup
	statuses := make([]int, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := perform(t, env.router, http.MethodPost, "/api/v1/posts/"+postID+"/like", likerToken, nil)
			statuses[i] = w.Code
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, s := range statuses {
		if s == http.StatusOK {
			okCount++
		} else if s != http.StatusConflict {
			t.Fatalf("unexpected status %d", s)
		}
	}
	if okCount != 1 {
		t.Fatalf("successful likes = %d, want exactly 1", okCount)
	}

	post, err := env.posts.FindByID(context.Background(), mustObjectID(t, postID))
	if err != nil {
		t.Fatalf("find post: %v", err)
	}
	if post.Likes != 1 || len(post.LikedBy) != 1 {
		t.Fatalf("likes=%d likedBy=%d, want 1/1", post.Likes, len(post.LikedBy))
	}
}

func TestLikeUnknownPost(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alicejones", "alice")

	w := perform(t, env.router, http.MethodPost, "/api/v1/posts/65a0b1c2d3e4f5a6b7c8d9e0/like", token, nil)
	wantCode(t, w, http.StatusNotFound, 40401)

	w = perform(t, env.router, http.MethodPost, "/api/v1/posts/not-an-id/like", token, nil)
	wantCode(t, w, http.StatusBadRequest, 40003)
}

func TestListPostsCategoryFilter(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alicejones", "alice")

	newsID := createPost(t, env, token, "News post", []string{"news"})
	createPost(t, env, token, "Go post", []string{"golang"})
	bothID := createPost(t, env, token, "Both", []string{"news", "golang"})

	w := perform(t, env.router, http.MethodGet, "/api/v1/posts?categories=news", "", nil)
	wantStatus(t, w, http.StatusOK)
	var list listData
	decodeData(t, w, &list)
	if list.Total != 2 {
		t.Fatalf("filtered total = %d, want 2", list.Total)
	}
	ids := map[string]bool{}
	for _, item := range list.Items {
		ids[item.ID] = true
	}
	if !ids[newsID] || !ids[bothID] {
		t.Fatalf("filter returned wrong posts: %v", ids)
	}

	// An unknown category name matches nothing.
	w = perform(t, env.router, http.MethodGet, "/api/v1/posts?categories=nothere", "", nil)
	wantStatus(t, w, http.StatusOK)
	decodeData(t, w, &list)
	if list.Total != 0 {
		t.Fatalf("unknown filter total = %d, want 0", list.Total)
	}

	// No filter returns everything.
	w = perform(t, env.router, http.MethodGet, "/api/v1/posts", token, nil)
	wantStatus(t, w, http.StatusOK)
	decodeData(t, w, &list)
	if list.Total != 3 {
		t.Fatalf("unfiltered total = %d, want 3", list.Total)
	}
}

func TestGetPostDanglingCategory(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alicejones", "alice")
	postID := createPost(t, env, token, "Post", []string{"news", "golang"})

	category, err := env.categories.FindByName(context.Background(), "news")
	if err != nil {
		t.Fatalf("find category: %v", err)
	}
	if err := env.categories.Delete(context.Background(), category.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	// Reads tolerate the dangling reference and skip it.
	w := perform(t, env.router, http.MethodGet, "/api/v1/posts/"+postID, "", nil)
	wantStatus(t, w, http.StatusOK)
	var data postData
	decodeData(t, w, &data)
	if len(data.Post.Categories) != 1 || data.Post.Categories[0] != "golang" {
		t.Fatalf("categories = %v, want [golang]", data.Post.Categories)
	}
}

func TestPostFlowEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	w := perform(t, env.router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alicejones", "password": "Password1!", "nickname": "alice",
	})
	wantStatus(t, w, http.StatusOK)
	w = perform(t, env.router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alicejones", "password": "Password1!",
	})
	wantStatus(t, w, http.StatusOK)
	var aliceLogin struct {
		Token string `json:"token"`
	}
	decodeData(t, w, &aliceLogin)

	_, bobToken := env.addUser(t, "bobsmith1", "bob")

	postID := createPost(t, env, aliceLogin.Token, "Hello", []string{"intro"})

	w = perform(t, env.router, http.MethodPost, "/api/v1/posts/"+postID+"/like", bobToken, nil)
	wantStatus(t, w, http.StatusOK)

	// Bob sees his like; Alice does not see the post as liked by her.
	w = perform(t, env.router, http.MethodGet, "/api/v1/posts/"+postID, bobToken, nil)
	wantStatus(t, w, http.StatusOK)
	var data postData
	decodeData(t, w, &data)
	if data.Post.Likes != 1 || !data.Post.IsLikedByUser {
		t.Fatalf("bob's view: likes=%d liked=%v", data.Post.Likes, data.Post.IsLikedByUser)
	}

	w = perform(t, env.router, http.MethodGet, "/api/v1/posts/"+postID, aliceLogin.Token, nil)
	wantStatus(t, w, http.StatusOK)
	decodeData(t, w, &data)
	if data.Post.Likes != 1 || data.Post.IsLikedByUser {
		t.Fatalf("alice's view: likes=%d liked=%v", data.Post.Likes, data.Post.IsLikedByUser)
	}
}

func TestPostIsLikedBy(t *testing.T) {
	post := models.Post{}
	id := mustObjectID(t, "65a0b1c2d3e4f5a6b7c8d9e0")
	if post.IsLikedBy(id) {
		t.Fatal("empty post reported a like")
	}
	post.LikedBy = append(post.LikedBy, id)
	if !post.IsLikedBy(id) {
		t.Fatal("like not reported")
	}
}
