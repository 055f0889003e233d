package pool

import (
	"context"
	"sync/atomic"
	"testing"
)

func BenchmarkSubmit(b *testing.B) {
	p, err := New(4, 4096)
	if err != nil {
		b.Fatal(err)
	}
	defer func() {
		p.HardStop()
		p.Wait()
		_ = p.Close()
	}()

	var counter atomic.Int64
	task := TaskFunc(func(ctx context.Context) error {
		counter.Add(1)
		return nil
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.Submit(task); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSubmitParallel(b *testing.B) {
	p, err := New(8, 4096)
	if err != nil {
		b.Fatal(err)
	}
	defer func() {
		p.HardStop()
		p.Wait()
		_ = p.Close()
	}()

	task := TaskFunc(func(ctx context.Context) error { return nil })

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := p.Submit(task); err != nil {
				b.Fatal(err)
			}
		}
	})
}
