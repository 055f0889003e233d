package pool_test

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/vnykmshr/gopool/pkg/pool"
)

func Example() {
	p, err := pool.New(2, 16)
	if err != nil {
		log.Fatal(err)
	}

	var counter atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		err := p.Submit(pool.TaskFunc(func(ctx context.Context) error {
			defer wg.Done()
			counter.Add(1)
			return nil
		}))
		if err != nil {
			log.Fatal(err)
		}
	}
	wg.Wait()

	fmt.Printf("executed %d tasks\n", counter.Load())

	p.HardStop()
	p.Wait()
	if err := p.Close(); err != nil {
		log.Fatal(err)
	}
	// Output: executed 4 tasks
}

func ExamplePool_Continue() {
	p, err := pool.New(2, 16)
	if err != nil {
		log.Fatal(err)
	}

	p.HardStop()
	p.Wait()
	fmt.Println("quiesced:", p.ParkedWorkers() == p.Size())

	if err := p.Continue(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("resumed")

	p.HardStop()
	p.Wait()
	if err := p.Close(); err != nil {
		log.Fatal(err)
	}
	// Output:
	// quiesced: true
	// resumed
}
