// Command relay-sink is the literal realization of spec scenario S5 (original_source/examples/sink.rs):
// it streams integers 1..9 across a forked Stream sub-channel and logs each one as it arrives at
// the other end, all within a single process over an in-process transport pair.
package main

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/samthor/relay/director"
	"github.com/samthor/relay/fork"
	"github.com/samthor/relay/protocol"
	"github.com/samthor/relay/transport"
)

func main() {
	ctx := context.Background()
	ta, tb := transport.NewPair(ctx)

	newStream := func(*fork.Session) fork.Protocol[protocol.Stream[int], int] {
		return protocol.StreamProtocol[int]{}
	}
	var d director.Multiplexed[protocol.Stream[int], int]

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		values := make(chan int)
		go func() {
			defer close(values)
			for i := 1; i <= 9; i++ {
				values <- i
			}
		}()
		return d.Unravel(egCtx, newStream, protocol.Stream[int]{Values: values}, ta)
	})

	eg.Go(func() error {
		stream, err := d.Coalesce(egCtx, newStream, tb)
		if err != nil {
			return err
		}
		for v := range stream.Values {
			log.Printf("%d", v)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		log.Fatalf("relay-sink: %v", err)
	}
}
