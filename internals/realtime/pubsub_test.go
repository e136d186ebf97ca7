package realtime

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBridge(t *testing.T, mr *miniredis.Miniredis) (*Hub, *Bridge) {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	hub := NewHub()
	bridge := NewBridge(rdb, hub)
	t.Cleanup(bridge.Close)
	return hub, bridge
}

func TestBridgeRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	hubA, _ := setupBridge(t, mr)
	hubB, _ := setupBridge(t, mr)

	receiver := newTestClient(hubB, "receiver")
	hubB.Join(receiver, "room1")

	// give both PSUBSCRIBE loops time to attach
	time.Sleep(100 * time.Millisecond)

	hubA.Broadcast(&Event{Type: EventChatMessage, Room: "room1", Sender: "ana"})

	select {
	case payload := <-receiver.send:
		assert.Contains(t, string(payload), `"type":"chat.message"`)
		assert.Contains(t, string(payload), `"sender":"ana"`)
	case <-time.After(2 * time.Second):
		t.Fatal("no event relayed across the bridge")
	}
}

func TestBridgeSkipsOwnEcho(t *testing.T) {
	mr := miniredis.RunT(t)

	hub, _ := setupBridge(t, mr)

	sender := newTestClient(hub, "sender")
	hub.Join(sender, "room1")

	time.Sleep(100 * time.Millisecond)

	hub.Broadcast(&Event{Type: EventChatMessage, Room: "room1"})

	// the local fan-out delivers exactly once; the redis echo is dropped
	require.Eventually(t, func() bool {
		return len(sender.send) >= 1
	}, time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Len(t, drain(sender), 1)
}

func publishHook(hub *Hub) func(string, []byte) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return hub.publish
}

func TestBridgeDetachesOnClose(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	hub := NewHub()
	bridge := NewBridge(rdb, hub)
	require.NotNil(t, publishHook(hub))

	bridge.Close()
	assert.Nil(t, publishHook(hub))
}

func TestBroadcastRacesBridgeClose(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	hub := NewHub()
	bridge := NewBridge(rdb, hub)

	// broadcasts in flight while the bridge detaches; caught by -race
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			hub.Broadcast(&Event{Type: EventChatMessage, Room: "room1"})
		}
	}()
	bridge.Close()
	<-done

	assert.Nil(t, publishHook(hub))
}
