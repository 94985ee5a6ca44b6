package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartify/internal/domain"
)

func TestLoginMeLogout(t *testing.T) {
	s := newStorefront(t)

	assert.Equal(t, http.StatusUnauthorized, s.get(t, "/me").StatusCode)

	resp := s.form(t, http.MethodPost, "/login", url.Values{"email": {"asha@cartify.test"}, "password": {"nope"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Invalid email or password")

	resp = s.form(t, http.MethodPost, "/login", url.Values{"email": {"not-an-email"}, "password": {"Secret1!"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	s.login(t, "asha@cartify.test")
	var me struct {
		User domain.User `json:"user"`
	}
	resp = s.get(t, "/me")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &me)
	assert.Equal(t, "u-shopper", me.User.ID)

	assert.Equal(t, http.StatusOK, s.form(t, http.MethodPost, "/logout", nil).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, s.get(t, "/me").StatusCode)
}

func TestRegister(t *testing.T) {
	s := newStorefront(t)

	weak := url.Values{"name": {"Dev"}, "email": {"dev@cartify.test"}, "password": {"password"}}
	assert.Equal(t, http.StatusBadRequest, s.form(t, http.MethodPost, "/register", weak).StatusCode)

	admin := url.Values{"name": {"Dev"}, "email": {"dev@cartify.test"}, "password": {"Secret1!"}, "role": {"admin"}}
	assert.Equal(t, http.StatusBadRequest, s.form(t, http.MethodPost, "/register", admin).StatusCode)

	ok := url.Values{"name": {"Dev"}, "email": {"Dev@Cartify.test"}, "password": {"Secret1!"}, "role": {"delivery"}}
	resp := s.form(t, http.MethodPost, "/register", ok)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out struct {
		User domain.User `json:"user"`
	}
	decode(t, resp, &out)
	assert.Equal(t, domain.RoleDelivery, out.User.Role)
	assert.Equal(t, "dev@cartify.test", out.User.Email)

	resp = s.form(t, http.MethodPost, "/register", ok)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Email already registered")
}
