package demo

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestVerifyLedger_HappyPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ledger.jsonl")

	w := NewLedgerWriter(path)
	total := 10
	t0 := time.Now()

	for i := 0; i < total; i++ {
		acquired := t0.Add(time.Duration(i) * 10 * time.Millisecond)
		entry := &LedgerEntry{
			Seq:        i,
			WorkerID:   i % 3,
			Owner:      "test",
			PID:        12345,
			AcquiredAt: acquired,
			ReleasedAt: acquired.Add(5 * time.Millisecond),
		}
		if err := w.Append(entry); err != nil {
			t.Fatalf("Append(%d): %v", i, err)
		}
	}

	result, err := VerifyLedger(path, total)
	if err != nil {
		t.Fatalf("VerifyLedger: %v", err)
	}
	if !result.OK {
		t.Errorf("expected OK, got failures: %v", result.Failures)
	}
	if result.EntryCount != total {
		t.Errorf("expected %d entries, got %d", total, result.EntryCount)
	}
}

func TestVerifyLedger_WrongCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ledger.jsonl")

	w := NewLedgerWriter(path)
	now := time.Now()
	entry := &LedgerEntry{Seq: 0, WorkerID: 0, Owner: "test", PID: 1, AcquiredAt: now, ReleasedAt: now.Add(time.Millisecond)}
	if err := w.Append(entry); err != nil {
		t.Fatal(err)
	}

	result, err := VerifyLedger(path, 5)
	if err != nil {
		t.Fatal(err)
	}
	if result.OK {
		t.Error("expected failure for wrong count")
	}
}

func TestVerifyLedger_DuplicateSeq(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ledger.jsonl")

	w := NewLedgerWriter(path)
	for j := 0; j < 2; j++ {
		now := time.Now().Add(time.Duration(j) * 10 * time.Millisecond)
		entry := &LedgerEntry{Seq: 0, WorkerID: j, Owner: "test", PID: 1, AcquiredAt: now, ReleasedAt: now.Add(time.Millisecond)}
		if err := w.Append(entry); err != nil {
			t.Fatal(err)
		}
	}

	result, err := VerifyLedger(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if result.OK {
		t.Error("expected failure for duplicate seq")
	}
}

func TestVerifyLedger_BrokenChain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ledger.jsonl")

	w1 := NewLedgerWriter(path)
	now := time.Now()
	e1 := &LedgerEntry{Seq: 0, WorkerID: 0, Owner: "a", PID: 1, AcquiredAt: now, ReleasedAt: now.Add(time.Millisecond)}
	if err := w1.Append(e1); err != nil {
		t.Fatal(err)
	}

	// Second writer starts fresh (prev=GENESIS instead of e1.Hash).
	w2 := NewLedgerWriter(path)
	now2 := now.Add(10 * time.Millisecond)
	e2 := &LedgerEntry{Seq: 1, WorkerID: 1, Owner: "b", PID: 2, AcquiredAt: now2, ReleasedAt: now2.Add(time.Millisecond)}
	if err := w2.Append(e2); err != nil {
		t.Fatal(err)
	}

	result, err := VerifyLedger(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if result.OK {
		t.Error("expected failure for broken hash chain")
	}
}

func TestVerifyLedger_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ledger.jsonl")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	result, err := VerifyLedger(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !result.OK {
		t.Errorf("empty file with 0 expected should be OK, got: %v", result.Failures)
	}
}

func TestVerifyLedger_OverlapDetected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ledger.jsonl")

	w := NewLedgerWriter(path)
	now := time.Now()

	// Worker 0 holds from now..now+20ms; worker 1 "acquires" at now+5ms,
	// squarely inside worker 0's hold. A real lock would never allow this.
	e0 := &LedgerEntry{Seq: 0, WorkerID: 0, Owner: "a", PID: 1, AcquiredAt: now, ReleasedAt: now.Add(20 * time.Millisecond)}
	if err := w.Append(e0); err != nil {
		t.Fatal(err)
	}
	e1 := &LedgerEntry{Seq: 1, WorkerID: 1, Owner: "b", PID: 2, AcquiredAt: now.Add(5 * time.Millisecond), ReleasedAt: now.Add(25 * time.Millisecond)}
	if err := w.Append(e1); err != nil {
		t.Fatal(err)
	}

	result, err := VerifyLedger(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if result.OK {
		t.Error("expected overlap failure, got OK")
	}
	found := false
	for _, f := range result.Failures {
		if len(f) > 0 && f[:7] == "overlap" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an 'overlap' failure message, got: %v", result.Failures)
	}
}
