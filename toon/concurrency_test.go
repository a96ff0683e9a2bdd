package toon

import (
	"fmt"
	"sync"
	"testing"
)

func TestConcurrentEncodeDecode(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			original := obj("id", Int(int64(n)), "name", String(fmt.Sprintf("vendor|%d", n)), "lines", Array{Float(float64(n) + 0.5)})
			encoded, err := Encode(original)
			if err != nil {
				errs <- err
				return
			}
			decoded, err := Decode(encoded)
			if err != nil {
				errs <- err
				return
			}
			if !Equal(decoded, original) {
				errs <- fmt.Errorf("round trip mismatch for %q", encoded)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatalf("concurrency error: %v", e)
	}
}
