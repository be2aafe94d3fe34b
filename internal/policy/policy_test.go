package policy

import (
	"testing"
	"time"
)

func TestVictimLFU(t *testing.T) {
	now := time.Now()
	cands := []Candidate[string]{
		{Key: "a", AccessCount: 5, LastAccessedAt: now},
		{Key: "b", AccessCount: 1, LastAccessedAt: now},
		{Key: "c", AccessCount: 3, LastAccessedAt: now},
	}
	victim, ok := Victim(cands, LFU)
	if !ok || victim != "b" {
		t.Fatalf("Victim(LFU) = %q, %v; want \"b\", true", victim, ok)
	}
}

func TestVictimLRU(t *testing.T) {
	now := time.Now()
	cands := []Candidate[string]{
		{Key: "a", LastAccessedAt: now.Add(2 * time.Second)},
		{Key: "b", LastAccessedAt: now},
		{Key: "c", LastAccessedAt: now.Add(time.Second)},
	}
	victim, ok := Victim(cands, LRU)
	if !ok || victim != "b" {
		t.Fatalf("Victim(LRU) = %q, %v; want \"b\", true", victim, ok)
	}
}

func TestVictimEmpty(t *testing.T) {
	if _, ok := Victim([]Candidate[string]{}, LRU); ok {
		t.Fatalf("Victim on empty candidates reported ok=true")
	}
}

func TestEnabled(t *testing.T) {
	if (Policy{Kind: None}).Enabled() {
		t.Fatalf("Policy{Kind: None}.Enabled() = true")
	}
	if !(Policy{Kind: LRU, Capacity: 1}).Enabled() {
		t.Fatalf("Policy{Kind: LRU}.Enabled() = false")
	}
}
