package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

func TestWebSocketReceivesEvents(t *testing.T) {
	srv, hub := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws://"+ts.Listener.Addr().String()+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// the subscription is registered during the upgrade; wait for it
	deadline := time.After(2 * time.Second)
	for hub.SubscriberCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("subscriber never registered")
		case <-time.After(5 * time.Millisecond):
		}
	}

	hub.PublishTransaction(model.TransactionRecord{TransactionHash: "0xws1", Timestamp: time.Now(), Success: true})
	var ev model.Event
	require.NoError(t, wsjson.Read(ctx, conn, &ev))
	assert.Equal(t, model.EventNewTransaction, ev.Type)
	require.NotNil(t, ev.Transaction)
	assert.Equal(t, "0xws1", ev.Transaction.TransactionHash)

	hub.PublishAlert(model.TransactionAlert{TransactionHash: "0xws2", RiskLevel: model.SeverityHigh, Timestamp: time.Now()})
	require.NoError(t, wsjson.Read(ctx, conn, &ev))
	assert.Equal(t, model.EventTransactionAlert, ev.Type)
	require.NotNil(t, ev.Alert)
	assert.Equal(t, "0xws2", ev.Alert.TransactionHash)

	// a pong must be accepted without closing the stream
	require.NoError(t, wsjson.Write(ctx, conn, map[string]string{"type": model.EventPong}))
	hub.PublishTransaction(model.TransactionRecord{TransactionHash: "0xws3", Timestamp: time.Now(), Success: true})
	require.NoError(t, wsjson.Read(ctx, conn, &ev))
	assert.Equal(t, "0xws3", ev.Transaction.TransactionHash)
}

func TestWebSocketOriginChecked(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws://" + ts.Listener.Addr().String() + "/ws"

	// cross-origin from a configured host is allowed
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"http://localhost:3000"}},
	})
	require.NoError(t, err)
	conn.Close(websocket.StatusNormalClosure, "")

	// anything else is refused during the upgrade
	_, resp, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"https://evil.example"}},
	})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestWebSocketUnsubscribesOnClose(t *testing.T) {
	srv, hub := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws://"+ts.Listener.Addr().String()+"/ws", nil)
	require.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for hub.SubscriberCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("subscriber never registered")
		case <-time.After(5 * time.Millisecond):
		}
	}

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))

	deadline = time.After(2 * time.Second)
	for hub.SubscriberCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("subscriber never removed after close")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
