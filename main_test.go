package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"shoemart/internal/database"
	"shoemart/internal/repositories"
	"shoemart/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// MockRabbitMQClient is a mock implementation of the RabbitMQ publisher
type MockRabbitMQClient struct {
	mock.Mock
}

func (m *MockRabbitMQClient) PublishMessageReceived(event rabbitmq.MessageReceivedEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newMemoryStores(t *testing.T) *database.Stores {
	t.Helper()
	return &database.Stores{
		Products: repositories.NewMockProductStore(),
		Messages: repositories.NewMockMessageStore(),
	}
}

func get(t *testing.T, h interface {
	Test(*http.Request, ...int) (*http.Response, error)
}, path string) (int, string) {
	t.Helper()
	resp, err := h.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealth(t *testing.T) {
	app := NewApp(AppOptions{Stores: newMemoryStores(t)})

	status, body := get(t, app, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", gjson.Get(body, "status").String())
	assert.False(t, gjson.Get(body, "publisher").Bool())
}

func TestSeededHomePage(t *testing.T) {
	stores := newMemoryStores(t)
	_, err := database.Seed(context.Background(), repositories.NewProductRepository(stores.Products))
	require.NoError(t, err)
	app := NewApp(AppOptions{Stores: stores})

	status, body := get(t, app, "/api/home")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, gjson.Get(body, "featured_products").Array(), 6)
	assert.Equal(t, "Jordans", gjson.Get(body, "featured_products.0.name").String())
	assert.Equal(t, `["Basketball","Casual","Running"]`, gjson.Get(body, "categories").Raw)
}

func TestContactPublishesEvent(t *testing.T) {
	mockMQ := new(MockRabbitMQClient)
	mockMQ.On("PublishMessageReceived", mock.MatchedBy(func(e rabbitmq.MessageReceivedEvent) bool {
		return e.Email == "jo@example.com" && e.Topic == "Help" && e.Status == "new" && e.ID != ""
	})).Return(nil).Once()

	app := NewApp(AppOptions{Stores: newMemoryStores(t), Publisher: mockMQ})

	req := httptest.NewRequest(http.MethodPost, "/api/contact",
		strings.NewReader(`{"name":"Jo","email":"Jo@Example.com","topic":"Help","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	mockMQ.AssertExpectations(t)
}

func TestMetricsEndpoint(t *testing.T) {
	app := NewApp(AppOptions{Stores: newMemoryStores(t)})

	status, _ := get(t, app, "/api/categories")
	require.Equal(t, http.StatusOK, status)

	status, body := get(t, app, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "shoemart_http_requests_total")
}
