package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"user-notification-system/internal/domain"

	"github.com/tj/assert"
)

func TestCreateLogin(t *testing.T) {
	var got domain.LoginInput
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/create_login", r.URL.Path)
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := New(server.URL, time.Second)
	err := c.CreateLogin(context.Background(), domain.LoginInput{ID: 7, Username: "bob", Password: "$2a$hash", IsActive: true})
	assert.Nil(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "$2a$hash", got.Password)
}

func TestUpdateLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/update_login/7", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, time.Second)
	assert.Nil(t, c.UpdateLogin(context.Background(), 7, domain.LoginInput{Username: "bob"}))
}

func TestUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, time.Second)
	err := c.CreateLogin(context.Background(), domain.LoginInput{Username: "bob"})
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
