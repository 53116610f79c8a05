// Package reactive provides the signal and effect primitives livetree binds
// to the node tree.
//
// All tracking state lives in an explicit Runtime rather than in ambient
// globals. Reading a Signal while an Effect runs subscribes that effect;
// writing the Signal re-runs every subscribed effect synchronously.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	rt := reactive.NewRuntime()
//	count := reactive.NewSignal(rt, 0)
//	value := count.Get()  // Read (subscribes the running effect)
//	count.Set(5)          // Write (re-runs subscribers)
//
// Effect runs side effects when dependencies change:
//
//	rt.Effect(func() reactive.Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
//
// Effects created while another effect runs are owned by it. They are
// disposed before the owner re-runs, and their own re-runs never re-run the
// owner.
//
// # Batching
//
//	rt.Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})  // Each dependent effect runs once, after the batch
//
// # Thread Safety
//
// A Runtime and everything created from it must be used from a single
// goroutine. The node tree it drives is single-threaded as well.
package reactive
