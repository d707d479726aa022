package object

import (
	"fmt"
	"testing"
)

func BenchmarkStoreWriteUniqueBlob(b *testing.B) {
	store := NewStore(b.TempDir())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.WriteBlob(fmt.Sprintf("blob-%d", i)); err != nil {
			b.Fatalf("WriteBlob: %v", err)
		}
	}
}

func BenchmarkStoreReadBlobCached(b *testing.B) {
	store := NewStore(b.TempDir())
	payload := "package main\n\nfunc main() { println(\"hello\") }\n"
	h, err := store.WriteBlob(payload)
	if err != nil {
		b.Fatalf("WriteBlob: %v", err)
	}

	b.SetBytes(int64(len(payload)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.ReadBlob(h); err != nil {
			b.Fatalf("ReadBlob: %v", err)
		}
	}
}

func BenchmarkStoreReadBlobUncached(b *testing.B) {
	store := NewStore(b.TempDir(), WithCacheSize(0))
	payload := "package main\n\nfunc main() { println(\"hello\") }\n"
	h, err := store.WriteBlob(payload)
	if err != nil {
		b.Fatalf("WriteBlob: %v", err)
	}

	b.SetBytes(int64(len(payload)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.ReadBlob(h); err != nil {
			b.Fatalf("ReadBlob: %v", err)
		}
	}
}
