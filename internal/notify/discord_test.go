package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/restock-tracker/internal/metrics"
)

// discordStub records the last webhook message and answers with status/body.
func discordStub(t *testing.T, status int, body string) (*httptest.Server, *webhookMessage) {
	t.Helper()

	var got webhookMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(status)
		if body != "" {
			_, _ = w.Write([]byte(body))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestDiscordNotifier_Send(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		text        string
		status      int
		body        string
		wantContent string
		wantErr     string
	}{
		{
			name:        "restock message converted to discord bold",
			text:        "✅ *Croma*\nProduct: iPhone 17\n[Buy](https://croma.com/p/317398)",
			status:      http.StatusNoContent,
			wantContent: "✅ **Croma**\nProduct: iPhone 17\n[Buy](https://croma.com/p/317398)",
		},
		{
			name:        "plain text untouched",
			text:        "Vivo X300 back in stock",
			status:      http.StatusOK,
			wantContent: "Vivo X300 back in stock",
		},
		{
			name:    "bad request surfaces discord message",
			text:    "hello",
			status:  http.StatusBadRequest,
			body:    `{"message": "Cannot send an empty message", "code": 50006}`,
			wantErr: "discord returned 400: Cannot send an empty message",
		},
		{
			name:    "non-json error body",
			text:    "hello",
			status:  http.StatusBadGateway,
			body:    "upstream down\n",
			wantErr: "discord returned 502: upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, got := discordStub(t, tt.status, tt.body)
			err := NewDiscordNotifier(srv.URL).Send(context.Background(), tt.text)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantContent, got.Content)
			assert.Empty(t, got.Username)
			assert.NotNil(t, got.AllowedMentions.Parse)
			assert.Empty(t, got.AllowedMentions.Parse)
		})
	}
}

func TestDiscordNotifier_RateLimited(t *testing.T) {
	t.Parallel()

	srv, _ := discordStub(t, http.StatusTooManyRequests, `{"message":"You are being rate limited.","retry_after":1.5,"global":false}`)
	err := NewDiscordNotifier(srv.URL).Send(context.Background(), "hello")

	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 1500*time.Millisecond, rl.RetryAfter)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestDiscordNotifier_Username(t *testing.T) {
	t.Parallel()

	srv, got := discordStub(t, http.StatusNoContent, "")
	custom := &http.Client{Timeout: 5 * time.Second}
	d := NewDiscordNotifier(srv.URL, WithUsername("Restock Bot"), WithHTTPClient(custom))

	require.NoError(t, d.Send(context.Background(), "hi"))
	assert.Equal(t, "Restock Bot", got.Username)
	assert.Same(t, custom, d.client)
}

func TestDiscordNotifier_TruncatesLongMessages(t *testing.T) {
	t.Parallel()

	srv, got := discordStub(t, http.StatusNoContent, "")
	long := strings.Repeat("₹", discordContentLimit+50)
	require.NoError(t, NewDiscordNotifier(srv.URL).Send(context.Background(), long))

	assert.Equal(t, discordContentLimit, utf8.RuneCountInString(got.Content))
	assert.True(t, strings.HasSuffix(got.Content, "…"))
}

func TestDiscordNotifier_RequestErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{name: "nothing listening", url: "http://127.0.0.1:1", wantErr: "sending discord webhook"},
		{name: "invalid url", url: "://not-a-valid-url", wantErr: "creating discord request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := NewDiscordNotifier(tt.url).Send(context.Background(), "hello")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDiscordNotifier_Metrics(t *testing.T) {
	t.Parallel()

	ok, _ := discordStub(t, http.StatusNoContent, "")
	bad, _ := discordStub(t, http.StatusInternalServerError, "")

	sent := metrics.NotificationsSentTotal.WithLabelValues("discord")
	failed := metrics.NotificationFailuresTotal.WithLabelValues("discord")
	sentBefore, failedBefore := testutil.ToFloat64(sent), testutil.ToFloat64(failed)

	require.NoError(t, NewDiscordNotifier(ok.URL).Send(context.Background(), "hello"))
	require.Error(t, NewDiscordNotifier(bad.URL).Send(context.Background(), "hello"))

	assert.GreaterOrEqual(t, testutil.ToFloat64(sent)-sentBefore, 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(failed)-failedBefore, 1.0)
}
