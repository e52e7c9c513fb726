package controllers

import (
	"context"
	"net/http"
	"testing"

	"blogapi/models"
	"blogapi/utils"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w := perform(t, env.router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alicejones",
		"password": "Password1!",
		"nickname": "alice",
		"bio":      "hello",
	})
	wantStatus(t, w, http.StatusOK)

	var data struct {
		User models.User `json:"user"`
	}
	decodeData(t, w, &data)
	if data.User.Username != "alicejones" {
		t.Fatalf("username = %q", data.User.Username)
	}

	// The stored credential must be a bcrypt hash, never the plaintext.
	stored, err := env.users.FindByUsername(context.Background(), "alicejones")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if stored.PasswordHash == "Password1!" {
		t.Fatal("password stored in plaintext")
	}
	if !utils.CheckPassword(stored.PasswordHash, "Password1!") {
		t.Fatal("stored hash does not verify against the password")
	}

	w = perform(t, env.router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alicejones",
		"password": "Password1!",
	})
	wantStatus(t, w, http.StatusOK)

	var login struct {
		Token string `json:"token"`
	}
	decodeData(t, w, &login)
	if login.Token == "" {
		t.Fatal("login returned no token")
	}
	claims, err := utils.ParseToken(login.Token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != stored.ID.Hex() {
		t.Fatalf("token user id = %q, want %q", claims.UserID, stored.ID.Hex())
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{
		"username": "alicejones",
		"password": "Password1!",
		"nickname": "alice",
	}
	w := perform(t, env.router, http.MethodPost, "/api/v1/auth/register", "", body)
	wantStatus(t, w, http.StatusOK)

	body["nickname"] = "alice2"
	w = perform(t, env.router, http.MethodPost, "/api/v1/auth/register", "", body)
	wantCode(t, w, http.StatusConflict, 40901)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"short username", map[string]string{"username": "short", "password": "Password1!", "nickname": "n"}},
		{"username with symbol", map[string]string{"username": "alice@jones", "password": "Password1!", "nickname": "n"}},
		{"password missing digit", map[string]string{"username": "alicejones", "password": "Password!!", "nickname": "n"}},
		{"password missing special", map[string]string{"username": "alicejones", "password": "Password11", "nickname": "n"}},
		{"password too short", map[string]string{"username": "alicejones", "password": "Pw1!", "nickname": "n"}},
		{"nickname too long", map[string]string{"username": "alicejones", "password": "Password1!", "nickname": "waytoolongnickname"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := perform(t, env.router, http.MethodPost, "/api/v1/auth/register", "", tc.body)
			wantCode(t, w, http.StatusBadRequest, 40002)
		})
	}

	w := perform(t, env.router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{"username": "alicejones"})
	wantCode(t, w, http.StatusBadRequest, 40001)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "alicejones", "alice")

	w := perform(t, env.router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alicejones",
		"password": "WrongPass1!",
	})
	wantCode(t, w, http.StatusUnauthorized, 40110)

	// Unknown usernames get the same answer as wrong passwords.
	w = perform(t, env.router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "nosuchuser1",
		"password": "Password1!",
	})
	wantCode(t, w, http.StatusUnauthorized, 40110)
}

func TestProfileRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := perform(t, env.router, http.MethodGet, "/api/v1/users/profile", "", nil)
	wantStatus(t, w, http.StatusUnauthorized)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.addUser(t, "alicejones", "alice")
	env.addUser(t, "bobsmith1", "bob")

	w := perform(t, env.router, http.MethodPatch, "/api/v1/users/profile", token, map[string]string{
		"nickname": "ally",
		"bio":      "new bio",
	})
	wantStatus(t, w, http.StatusOK)

	updated, err := env.users.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if updated.Nickname != "ally" || updated.Bio != "new bio" {
		t.Fatalf("profile not updated: %+v", updated)
	}

	// Taking another user's nickname is a conflict.
	w = perform(t, env.router, http.MethodPatch, "/api/v1/users/profile", token, map[string]string{
		"nickname": "bob",
	})
	wantCode(t, w, http.StatusConflict, 40904)

	// Re-submitting your own nickname is fine.
	w = perform(t, env.router, http.MethodPatch, "/api/v1/users/profile", token, map[string]string{
		"nickname": "ally",
	})
	wantStatus(t, w, http.StatusOK)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alicejones", "alice")

	w := perform(t, env.router, http.MethodGet, "/api/v1/users/profile", token, nil)
	wantStatus(t, w, http.StatusOK)

	w = perform(t, env.router, http.MethodPost, "/api/v1/auth/logout", token, nil)
	wantStatus(t, w, http.StatusOK)

	w = perform(t, env.router, http.MethodGet, "/api/v1/users/profile", token, nil)
	wantStatus(t, w, http.StatusUnauthorized)
}
