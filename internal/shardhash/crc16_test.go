package shardhash

import "testing"

func TestCRC16XModemKnownVector(t *testing.T) {
	// "123456789" is the standard CRC catalog check string for
	// CRC-16/XMODEM, whose expected checksum is 0x31C3.
	got := CRC16XModem([]byte("123456789"))
	if got != 0x31C3 {
		t.Fatalf("CRC16XModem(\"123456789\") = 0x%04X; want 0x31C3", got)
	}
}

func TestHashIDDeterministic(t *testing.T) {
	for _, s := range []string{"a", "shard-key", "", "7"} {
		first := HashID(s, 16)
		for i := 0; i < 10; i++ {
			if got := HashID(s, 16); got != first {
				t.Fatalf("HashID(%q, 16) not deterministic: got %d and %d", s, first, got)
			}
		}
	}
}

func TestHashIDInRange(t *testing.T) {
	for n := uint16(1); n < 32; n++ {
		for i := 0; i < 200; i++ {
			s := string(rune('a' + i%26))
			if id := HashID(s, n); id >= n {
				t.Fatalf("HashID(%q, %d) = %d; want < %d", s, n, id, n)
			}
		}
	}
}

func TestHashIDDistributesAcrossShards(t *testing.T) {
	const n = 3
	seen := make(map[uint16]bool)
	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		seen[HashID(k, n)] = true
	}
	if len(seen) < 2 {
		t.Fatalf("HashID mapped all of a..g onto %d shard(s); expected spread across multiple shards", len(seen))
	}
}
