package filelock

import (
	"testing"
	"time"

	"github.com/filelockd/filelockd/internal/fsadapter"
	"github.com/filelockd/filelockd/internal/precision"
)

func TestTryAcquire_FreshSentinel(t *testing.T) {
	fs := fsadapter.NewFake()
	prec := precision.NewCache()

	res, err := tryAcquire(fs, prec, "/t/foo.lock", 10*time.Second, false, true)
	if err != nil {
		t.Fatalf("tryAcquire() error = %v", err)
	}
	if !fs.Exists("/t/foo.lock") {
		t.Error("sentinel was not created")
	}
	if res.precision != precision.Millisecond {
		t.Errorf("precision = %v, want Millisecond for fake FS", res.precision)
	}
}

func TestTryAcquire_CollisionNotStale(t *testing.T) {
	fs := fsadapter.NewFake()
	prec := precision.NewCache()
	_ = fs.Mkdir("/t/foo.lock")
	fs.SetMtime("/t/foo.lock", time.Now())

	_, err := tryAcquire(fs, prec, "/t/foo.lock", 10*time.Second, false, true)
	var held *HeldError
	if !asHeldError(err, &held) {
		t.Fatalf("tryAcquire() error = %v, want *HeldError", err)
	}
}

func TestTryAcquire_StaleDisabledIsCollision(t *testing.T) {
	fs := fsadapter.NewFake()
	prec := precision.NewCache()
	_ = fs.Mkdir("/t/foo.lock")
	fs.SetMtime("/t/foo.lock", time.Now().Add(-60*time.Second))

	_, err := tryAcquire(fs, prec, "/t/foo.lock", 10*time.Second, true, true)
	var held *HeldError
	if !asHeldError(err, &held) {
		t.Fatalf("tryAcquire() error = %v, want *HeldError (stale disabled)", err)
	}
}

func TestTryAcquire_ReclaimsStaleSentinel(t *testing.T) {
	fs := fsadapter.NewFake()
	prec := precision.NewCache()
	_ = fs.Mkdir("/t/foo.lock")
	fs.SetMtime("/t/foo.lock", time.Now().Add(-60*time.Second))

	res, err := tryAcquire(fs, prec, "/t/foo.lock", 10*time.Second, false, true)
	if err != nil {
		t.Fatalf("tryAcquire() error = %v, want success reclaiming stale sentinel", err)
	}
	if time.Since(res.mtime) > 3*time.Second {
		t.Errorf("reclaimed mtime too old: %v", res.mtime)
	}
}

func TestTryAcquire_FutureMtimeIsNotStale(t *testing.T) {
	fs := fsadapter.NewFake()
	prec := precision.NewCache()
	_ = fs.Mkdir("/t/foo.lock")
	fs.SetMtime("/t/foo.lock", time.Now().Add(60*time.Second))

	_, err := tryAcquire(fs, prec, "/t/foo.lock", 10*time.Second, false, true)
	var held *HeldError
	if !asHeldError(err, &held) {
		t.Fatalf("tryAcquire() error = %v, want Collision for future mtime", err)
	}
}

func TestCheckLocked(t *testing.T) {
	fs := fsadapter.NewFake()

	locked, err := checkLocked(fs, "/t/foo.lock", 10*time.Second, false)
	if err != nil || locked {
		t.Fatalf("checkLocked() on absent sentinel = (%v, %v), want (false, nil)", locked, err)
	}

	_ = fs.Mkdir("/t/foo.lock")
	fs.SetMtime("/t/foo.lock", time.Now())
	locked, err = checkLocked(fs, "/t/foo.lock", 10*time.Second, false)
	if err != nil || !locked {
		t.Fatalf("checkLocked() on fresh sentinel = (%v, %v), want (true, nil)", locked, err)
	}

	fs.SetMtime("/t/foo.lock", time.Now().Add(-60*time.Second))
	locked, err = checkLocked(fs, "/t/foo.lock", 10*time.Second, false)
	if err != nil || locked {
		t.Fatalf("checkLocked() on stale sentinel = (%v, %v), want (false, nil)", locked, err)
	}
}

func asHeldError(err error, target **HeldError) bool {
	he, ok := err.(*HeldError)
	if !ok {
		return false
	}
	*target = he
	return true
}
