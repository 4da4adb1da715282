// Package notify fans out admin notifications over email and Web Push.
//
// Delivery is fire-and-forget: the exported methods return immediately
// and the sends run on a background goroutine with their own timeout, so
// a slow SMTP server or push service never delays the HTTP response that
// triggered the notification. Failures are logged and never surface to
// the caller.
package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"github.com/larabeck/atelier/internal/app/store/booking"
	"github.com/larabeck/atelier/internal/app/store/pushsub"
	"github.com/larabeck/atelier/internal/app/system/mailer"
)

// DefaultTimeout bounds one background fan-out run.
const DefaultTimeout = 30 * time.Second

// Config holds notification settings.
type Config struct {
	AppName         string
	NotifyEmail     string // recipient for owner email notifications; empty disables email
	BaseURL         string // public site URL used in notification links
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string // mailto: or https: contact for the push service
	Timeout         time.Duration
}

// Payload is the JSON body delivered to the service worker.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// Notifier delivers notifications to the site owner.
type Notifier struct {
	cfg    Config
	mailer *mailer.Mailer
	subs   *pushsub.Store
	log    *zap.Logger
}

// New creates a Notifier. mailer may be unconfigured; push is skipped
// when the VAPID key pair is empty.
func New(cfg Config, m *mailer.Mailer, subs *pushsub.Store, log *zap.Logger) *Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Notifier{cfg: cfg, mailer: m, subs: subs, log: log}
}

// PushEnabled reports whether Web Push delivery is configured.
func (n *Notifier) PushEnabled() bool {
	return n.cfg.VAPIDPublicKey != "" && n.cfg.VAPIDPrivateKey != ""
}

// emailEnabled reports whether owner email delivery is configured.
func (n *Notifier) emailEnabled() bool {
	return n.mailer != nil && n.mailer.Enabled() && n.cfg.NotifyEmail != ""
}

// BookingCreated announces a new booking request over every configured
// channel. Returns immediately.
func (n *Notifier) BookingCreated(b *booking.Booking) {
	n.dispatch("booking_created", func(ctx context.Context) {
		if n.emailEnabled() {
			text, html := mailer.BookingRequestEmail(mailer.BookingRequestEmailData{
				AppName:      n.cfg.AppName,
				Name:         b.Name,
				Email:        b.Email,
				Phone:        b.Phone,
				Interest:     b.Interest,
				EventDate:    b.EventDate,
				EventType:    b.EventType,
				Message:      b.Message,
				DashboardURL: n.cfg.BaseURL + "/admin/bookings",
			})
			err := n.mailer.Send(mailer.Email{
				To:       n.cfg.NotifyEmail,
				Subject:  "New booking request from " + b.Name,
				TextBody: text,
				HTMLBody: html,
			})
			if err != nil {
				n.log.Warn("booking email notification failed", zap.Error(err))
			}
		}

		n.pushAll(ctx, Payload{
			Title: "New booking request",
			Body:  b.Name + " sent a booking request",
			URL:   n.cfg.BaseURL + "/admin/bookings",
			Tag:   "booking",
		})
	})
}

// ContentCreated announces a new document in a portfolio collection over
// Web Push. Returns immediately.
func (n *Notifier) ContentCreated(collection, title string) {
	n.dispatch("content_created", func(ctx context.Context) {
		body := "New " + collection + " entry"
		if title != "" {
			body += ": " + title
		}
		n.pushAll(ctx, Payload{
			Title: n.cfg.AppName,
			Body:  body,
			URL:   n.cfg.BaseURL + "/admin/" + collection,
			Tag:   collection,
		})
	})
}

// dispatch runs fn on a fresh goroutine detached from the request
// context, so cancellation of the triggering request cannot abort an
// in-flight notification.
func (n *Notifier) dispatch(event string, fn func(ctx context.Context)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.cfg.Timeout)
		defer cancel()

		start := time.Now()
		fn(ctx)
		n.log.Debug("notification fan-out finished",
			zap.String("event", event),
			zap.Duration("took", time.Since(start)))
	}()
}

// pushAll sends payload to every stored subscription and waits for all
// sends to settle. A subscription the push service reports gone (404 or
// 410) is deleted; other failures are logged and the subscription kept.
func (n *Notifier) pushAll(ctx context.Context, payload Payload) {
	if !n.PushEnabled() || n.subs == nil {
		return
	}

	records, err := n.subs.List(ctx)
	if err != nil {
		n.log.Warn("push fan-out: listing subscriptions failed", zap.Error(err))
		return
	}
	if len(records) == 0 {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.log.Error("push fan-out: payload marshal failed", zap.Error(err))
		return
	}

	var wg sync.WaitGroup
	for _, rec := range records {
		wg.Add(1)
		go func(rec pushsub.Record) {
			defer wg.Done()
			n.sendOne(ctx, rec, body)
		}(rec)
	}
	wg.Wait()
}

func (n *Notifier) sendOne(ctx context.Context, rec pushsub.Record, body []byte) {
	sub := &webpush.Subscription{
		Endpoint: rec.Subscription.Endpoint,
		Keys: webpush.Keys{
			P256dh: rec.Subscription.Keys.P256dh,
			Auth:   rec.Subscription.Keys.Auth,
		},
	}

	resp, err := webpush.SendNotification(body, sub, &webpush.Options{
		Subscriber:      n.cfg.VAPIDSubject,
		VAPIDPublicKey:  n.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: n.cfg.VAPIDPrivateKey,
		TTL:             60,
	})
	if err != nil {
		n.log.Warn("push send failed",
			zap.String("endpoint", rec.Subscription.Endpoint),
			zap.Error(err))
		return
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		// The browser dropped the subscription; forget it.
		if err := n.subs.DeleteByEndpoint(ctx, rec.Subscription.Endpoint); err != nil {
			n.log.Warn("removing dead subscription failed",
				zap.String("endpoint", rec.Subscription.Endpoint),
				zap.Error(err))
			return
		}
		n.log.Info("removed dead push subscription",
			zap.String("endpoint", rec.Subscription.Endpoint),
			zap.Int("status", resp.StatusCode))
	default:
		if resp.StatusCode >= 400 {
			n.log.Warn("push service rejected notification",
				zap.String("endpoint", rec.Subscription.Endpoint),
				zap.Int("status", resp.StatusCode))
			return
		}
		if err := n.subs.Touch(ctx, rec.Subscription.Endpoint); err != nil {
			n.log.Debug("touching subscription failed", zap.Error(err))
		}
	}
}
