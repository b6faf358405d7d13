package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestSeededPasswordsAreHashed(t *testing.T) {
	_, db, _ := newTestApp(t)

	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashes[0]), []byte("Passw0rd1")); err != nil {
		t.Fatalf("seed hash does not validate known password: %v", err)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := postForm(app, "/register", "", url.Values{
		"username": {"diana"}, "password1": {"s3curePass"}, "password2": {"s3curePass"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: want 201, got %d", resp.StatusCode)
	}

	// Duplicate username
	resp, err = postForm(app, "/register", "", url.Values{
		"username": {"diana"}, "password1": {"s3curePass"}, "password2": {"s3curePass"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register: want 409, got %d", resp.StatusCode)
	}

	// Digits-only password rejected
	resp, err = postForm(app, "/register", "", url.Values{
		"username": {"edgar"}, "password1": {"12345678"}, "password2": {"12345678"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("weak password: want 400, got %d", resp.StatusCode)
	}

	resp, err = postForm(app, "/login", "", url.Values{
		"username": {"diana"}, "password": {"s3curePass"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: want 200, got %d", resp.StatusCode)
	}

	resp, err = postForm(app, "/login", "", url.Values{
		"username": {"diana"}, "password": {"wrongPass1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad creds: want 401, got %d", resp.StatusCode)
	}
}
