package flowkit_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/petrijr/flowkit"
)

// Example_timeoutRace demonstrates racing a unit of work against a timeout:
// whichever finishes first records itself as the winner, and a trigger stops
// the run as soon as either has.
func Example_timeoutRace() {
	k := flowkit.NewKernel()

	winner := make(chan string, 2)

	timeout := flowkit.NewTimer(200*time.Millisecond, flowkit.WithName("timeout"))
	timeout.SetElapsedFunc(func() { winner <- "timeout" })

	work := flowkit.Go(context.Background(), func(ctx context.Context) error {
		time.Sleep(20 * time.Millisecond)
		winner <- "work"
		return nil
	}, flowkit.WithName("work"))

	done := flowkit.NewTrigger(func() bool { return len(winner) > 0 })

	k.Root().Add(timeout)
	k.Root().Add(work)
	k.Root().Add(done)

	if err := k.RunFor(context.Background(), 100*time.Millisecond); err != nil {
		log.Fatal(err)
	}

	fmt.Println(<-winner)
	// Output: work
}

// Example_sequence demonstrates strictly ordered stages: each deferred
// coroutine only starts once the previous one has completed.
func Example_sequence() {
	k := flowkit.NewKernel()
	seq := flowkit.NewSequence(flowkit.WithName("stages"))

	for _, stage := range []string{"fetch", "transform", "store"} {
		stage := stage
		seq.Add(flowkit.GoDeferred(context.Background(), func(ctx context.Context) error {
			fmt.Println(stage)
			return nil
		}))
	}
	k.Root().Add(seq)

	if err := k.RunUntilComplete(context.Background()); err != nil {
		log.Fatal(err)
	}
	// Output:
	// fetch
	// transform
	// store
}

// Example_futures demonstrates joining asynchronous results: two timers
// resolve futures at different times, and a coroutine waits on both.
func Example_futures() {
	k := flowkit.NewKernel()

	a := flowkit.NewFuture[int](flowkit.WithName("a"))
	b := flowkit.NewFuture[int](flowkit.WithName("b"))

	ta := flowkit.NewTimer(10 * time.Millisecond)
	ta.SetElapsedFunc(func() { a.SetValue(10) })
	tb := flowkit.NewTimer(20 * time.Millisecond)
	tb.SetElapsedFunc(func() { b.SetValue(20) })

	sum := flowkit.Go(context.Background(), func(ctx context.Context) error {
		x, err := a.Wait(ctx)
		if err != nil {
			return err
		}
		y, err := b.Wait(ctx)
		if err != nil {
			return err
		}
		fmt.Println(x + y)
		return nil
	})

	k.Root().Add(ta)
	k.Root().Add(tb)
	k.Root().Add(a)
	k.Root().Add(b)
	k.Root().Add(sum)

	if err := k.RunUntilComplete(context.Background()); err != nil {
		log.Fatal(err)
	}
	// Output: 30
}
