package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/TRHS-OMNIA/crew-backend/internal/model"
	"github.com/TRHS-OMNIA/crew-backend/pkg/apperr"
)

func newQRFixture(t *testing.T) (*memStore, QRService) {
	t.Helper()
	st := newMemStore()
	repo := newMemRepository(st)
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	svc := NewQRService(repo, nil, loc, 150*time.Second, zap.NewNop())
	return st, svc
}

func TestIssue(t *testing.T) {
	ctx := context.Background()

	t.Run("issues for an enrolled user", func(t *testing.T) {
		st, svc := newQRFixture(t)
		seedEvent(st, "ev1", nil, nil)
		seedUser(st, "sam", 11, 2)
		st.entries["ev1"] = map[string]model.Entry{"sam": {EventID: "ev1", UserID: "sam"}}

		res, err := svc.Issue(ctx, "ev1", "sam")
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if len(res.QRID) != 16 {
			t.Fatalf("expected a 16-hex code, got %q", res.QRID)
		}
		tok, ok := st.tokens[res.QRID]
		if !ok {
			t.Fatal("expected the token to be stored")
		}
		if tok.Scanned || !tok.Exp.After(time.Now().UTC()) {
			t.Fatalf("expected a live unscanned token, got %+v", tok)
		}
	})

	t.Run("not enrolled", func(t *testing.T) {
		st, svc := newQRFixture(t)
		seedEvent(st, "ev1", nil, nil)
		if _, err := svc.Issue(ctx, "ev1", "sam"); !errors.Is(err, apperr.ErrUnlistedUser) {
			t.Fatalf("expected unlisted user, got %v", err)
		}
	})

	t.Run("already checked in and out", func(t *testing.T) {
		st, svc := newQRFixture(t)
		seedEvent(st, "ev1", nil, nil)
		seedUser(st, "sam", 11, 2)
		now := time.Now().UTC()
		st.entries["ev1"] = map[string]model.Entry{"sam": {
			EventID: "ev1", UserID: "sam", CheckIn: &now, CheckOut: &now,
		}}

		if _, err := svc.Issue(ctx, "ev1", "sam"); !errors.Is(err, apperr.ErrEventAlreadyComplete) {
			t.Fatalf("expected user event complete, got %v", err)
		}
	})

	t.Run("reissuing retires the previous code", func(t *testing.T) {
		st, svc := newQRFixture(t)
		seedEvent(st, "ev1", nil, nil)
		seedUser(st, "sam", 11, 2)
		st.entries["ev1"] = map[string]model.Entry{"sam": {EventID: "ev1", UserID: "sam"}}

		first, err := svc.Issue(ctx, "ev1", "sam")
		if err != nil {
			t.Fatalf("first issue: %v", err)
		}
		second, err := svc.Issue(ctx, "ev1", "sam")
		if err != nil {
			t.Fatalf("second issue: %v", err)
		}

		old := st.tokens[first.QRID]
		if old.Exp.After(time.Now().UTC()) {
			t.Fatalf("expected the first code to be expired, got exp %v", old.Exp)
		}
		if fresh := st.tokens[second.QRID]; !fresh.Exp.After(time.Now().UTC()) {
			t.Fatalf("expected the second code to be live, got exp %v", fresh.Exp)
		}
	})
}

func TestConsume(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the joined enrollment and burns the code", func(t *testing.T) {
		st, svc := newQRFixture(t)
		seedEvent(st, "ev1", nil, nil)
		seedUser(st, "sam", 11, 2)
		st.entries["ev1"] = map[string]model.Entry{"sam": {EventID: "ev1", UserID: "sam"}}

		issued, err := svc.Issue(ctx, "ev1", "sam")
		if err != nil {
			t.Fatalf("issue: %v", err)
		}

		res, err := svc.Consume(ctx, issued.QRID)
		if err != nil {
			t.Fatalf("consume: %v", err)
		}
		if res.User.ID != "sam" || res.EventData.ID != "ev1" {
			t.Fatalf("expected sam on ev1, got %+v", res)
		}
		if !st.tokens[issued.QRID].Scanned {
			t.Fatal("expected the code to be burned")
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		_, svc := newQRFixture(t)
		if _, err := svc.Consume(ctx, "deadbeefdeadbeef"); !errors.Is(err, apperr.ErrInvalidQR) {
			t.Fatalf("expected invalid qr, got %v", err)
		}
	})

	t.Run("second scan is a duplicate", func(t *testing.T) {
		st, svc := newQRFixture(t)
		seedEvent(st, "ev1", nil, nil)
		seedUser(st, "sam", 11, 2)
		st.entries["ev1"] = map[string]model.Entry{"sam": {EventID: "ev1", UserID: "sam"}}

		issued, err := svc.Issue(ctx, "ev1", "sam")
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if _, err := svc.Consume(ctx, issued.QRID); err != nil {
			t.Fatalf("first consume: %v", err)
		}
		if _, err := svc.Consume(ctx, issued.QRID); !errors.Is(err, apperr.ErrDuplicateQR) {
			t.Fatalf("expected duplicate qr, got %v", err)
		}
	})

	t.Run("expired code is rejected but still burned", func(t *testing.T) {
		st, svc := newQRFixture(t)
		seedEvent(st, "ev1", nil, nil)
		seedUser(st, "sam", 11, 2)
		st.entries["ev1"] = map[string]model.Entry{"sam": {EventID: "ev1", UserID: "sam"}}
		st.tokens["oldcode"] = model.QRToken{
			QRID: "oldcode", EventID: "ev1", UserID: "sam",
			Exp: time.Now().UTC().Add(-time.Minute),
		}

		if _, err := svc.Consume(ctx, "oldcode"); !errors.Is(err, apperr.ErrExpiredQR) {
			t.Fatalf("expected expired qr, got %v", err)
		}
		if !st.tokens["oldcode"].Scanned {
			t.Fatal("expected the expired code to be burned anyway")
		}
	})

	t.Run("expiry outranks duplicate", func(t *testing.T) {
		st, svc := newQRFixture(t)
		seedEvent(st, "ev1", nil, nil)
		seedUser(st, "sam", 11, 2)
		st.entries["ev1"] = map[string]model.Entry{"sam": {EventID: "ev1", UserID: "sam"}}
		st.tokens["oldcode"] = model.QRToken{
			QRID: "oldcode", EventID: "ev1", UserID: "sam",
			Exp: time.Now().UTC().Add(-time.Minute), Scanned: true,
		}

		if _, err := svc.Consume(ctx, "oldcode"); !errors.Is(err, apperr.ErrExpiredQR) {
			t.Fatalf("expected expired qr, got %v", err)
		}
	})
}

func TestPeek(t *testing.T) {
	ctx := context.Background()
	st, svc := newQRFixture(t)
	seedEvent(st, "ev1", nil, nil)
	seedUser(st, "sam", 11, 2)
	st.entries["ev1"] = map[string]model.Entry{"sam": {EventID: "ev1", UserID: "sam"}}

	issued, err := svc.Issue(ctx, "ev1", "sam")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	res, err := svc.Peek(ctx, issued.QRID, "sam")
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if res.Scanned {
		t.Fatal("expected unscanned before consume")
	}

	if _, err := svc.Consume(ctx, issued.QRID); err != nil {
		t.Fatalf("consume: %v", err)
	}

	res, err = svc.Peek(ctx, issued.QRID, "sam")
	if err != nil {
		t.Fatalf("peek after consume: %v", err)
	}
	if !res.Scanned {
		t.Fatal("expected scanned after consume")
	}

	// Another user's code, and unknown codes, read as unscanned.
	res, err = svc.Peek(ctx, issued.QRID, "kim")
	if err != nil {
		t.Fatalf("peek as other user: %v", err)
	}
	if res.Scanned {
		t.Fatal("expected another user's view to read unscanned")
	}
}

// memScanCache is an in-memory stand-in for the Redis scan-status cache.
type memScanCache struct {
	keys map[string]bool
}

func newMemScanCache() *memScanCache {
	return &memScanCache{keys: make(map[string]bool)}
}

func (c *memScanCache) MarkScanned(_ context.Context, qrid, userID string, _ time.Duration) error {
	c.keys[qrid+":"+userID] = true
	return nil
}

func (c *memScanCache) WasScanned(_ context.Context, qrid, userID string) (bool, error) {
	return c.keys[qrid+":"+userID], nil
}

func TestPeekWithCache(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	repo := newMemRepository(st)
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	cache := newMemScanCache()
	svc := NewQRService(repo, cache, loc, 150*time.Second, zap.NewNop())

	seedEvent(st, "ev1", nil, nil)
	seedUser(st, "sam", 11, 2)
	st.entries["ev1"] = map[string]model.Entry{"sam": {EventID: "ev1", UserID: "sam"}}

	issued, err := svc.Issue(ctx, "ev1", "sam")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Consume(ctx, issued.QRID); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if !cache.keys[issued.QRID+":sam"] {
		t.Fatal("expected the burn recorded in the cache under the issuing user")
	}

	// Dropping the stored token proves the owner's poll is answered from
	// the cache alone.
	delete(st.tokens, issued.QRID)

	res, err := svc.Peek(ctx, issued.QRID, "sam")
	if err != nil {
		t.Fatalf("peek as owner: %v", err)
	}
	if !res.Scanned {
		t.Fatal("expected the owner to read scanned from the cache")
	}

	// A cached burn must stay invisible to everyone but the issuing user.
	res, err = svc.Peek(ctx, issued.QRID, "kim")
	if err != nil {
		t.Fatalf("peek as other user: %v", err)
	}
	if res.Scanned {
		t.Fatal("expected another user's view to read unscanned despite the cache entry")
	}
}
