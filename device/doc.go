// Package device models the memory space algorithm outputs live in.
//
// A Device owns a resource controller (memory budget, worker slots, IO rate)
// and hands out typed Buffers. Every allocation and release is counted, so a
// caller can verify that no buffer outlives the call that allocated it:
//
//	dev := device.New(device.Config{MemoryLimitBytes: 1 << 30})
//	buf, err := device.Alloc[int32](dev, n)
//	if err != nil {
//	    return err // device.ErrOutOfMemory
//	}
//	defer buf.Free()
//
//	stats := dev.Stats()
//	fmt.Println(stats.LiveBuffers, stats.LiveBytes)
//
// # Fault Injection
//
// Tests install a FaultInjector to fail a chosen allocation:
//
//	dev.SetFaultInjector(&device.FailAfter{N: 3})
//
// # Nil Safety
//
// A nil *Device is valid: allocations succeed, are untracked and unlimited.
package device
