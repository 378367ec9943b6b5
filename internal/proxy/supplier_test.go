package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testURL = "http://sheets.test/brands.csv"

func newProxy(t *testing.T, status int) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func deadProxy(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	return server.URL
}

func TestNewProxySupplier_KeepsWorkingProxiesInOrder(t *testing.T) {
	first := newProxy(t, http.StatusOK)
	rejecting := newProxy(t, http.StatusBadGateway)
	dead := deadProxy(t)
	second := newProxy(t, http.StatusOK)

	supplier := NewProxySupplier(context.Background(), []string{first, rejecting, dead, second}, testURL)

	assert.Equal(t, first, supplier.Get())
	assert.Equal(t, second, supplier.Get())
	assert.Equal(t, first, supplier.Get())
}

func TestNewProxySupplier_NoneConfigured(t *testing.T) {
	supplier := NewProxySupplier(context.Background(), nil, testURL)

	assert.Empty(t, supplier.Get())
}

func TestNewProxySupplier_NoneWorking(t *testing.T) {
	supplier := NewProxySupplier(context.Background(), []string{newProxy(t, http.StatusForbidden), deadProxy(t)}, testURL)

	assert.Empty(t, supplier.Get())
	assert.Empty(t, supplier.Get())
}
