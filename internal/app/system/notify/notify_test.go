package notify

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/larabeck/atelier/internal/app/store/booking"
)

func TestPushEnabled(t *testing.T) {
	n := New(Config{}, nil, nil, zap.NewNop())
	if n.PushEnabled() {
		t.Error("push enabled without VAPID keys")
	}

	n = New(Config{VAPIDPublicKey: "pub", VAPIDPrivateKey: "priv"}, nil, nil, zap.NewNop())
	if !n.PushEnabled() {
		t.Error("push disabled with VAPID keys set")
	}
}

func TestPayloadShape(t *testing.T) {
	b, err := json.Marshal(Payload{
		Title: "New booking request",
		Body:  "Jamie sent a booking request",
		URL:   "https://example.com/admin/bookings",
		Tag:   "booking",
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"title", "body", "url", "tag"} {
		if got[key] == "" {
			t.Errorf("payload missing %q", key)
		}
	}

	// Optional fields are omitted when empty.
	b, _ = json.Marshal(Payload{Title: "t", Body: "b"})
	var bare map[string]any
	_ = json.Unmarshal(b, &bare)
	if _, ok := bare["url"]; ok {
		t.Error("empty url serialized")
	}
	if _, ok := bare["tag"]; ok {
		t.Error("empty tag serialized")
	}
}

// Fan-out must return immediately even with every channel unconfigured.
func TestDispatchIsNonBlocking(t *testing.T) {
	n := New(Config{AppName: "Atelier"}, nil, nil, zap.NewNop())

	done := make(chan struct{})
	go func() {
		n.BookingCreated(&booking.Booking{Name: "Jamie", Email: "jamie@example.com", Message: "hi"})
		n.ContentCreated("art", "Blue Study")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notification dispatch blocked the caller")
	}
}
