package thread

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"
)

// Realtime locks the calling goroutine to its own kernel thread and elevates that thread's
// priority to realtime using the round-robin scheduling policy. It is used by sampling loops
// that need their read intervals to stay regular while the rest of the system is busy.
// The priority must be in 1..99, 10 is a reasonable choice for sensor sampling.
func Realtime(prio int) error {
	if prio < 1 || prio > 99 {
		return fmt.Errorf("thread: invalid realtime priority %d", prio)
	}
	// First pin the goroutine to its own kernel thread.
	runtime.LockOSThread()
	// Get the ID of the thread.
	tid := syscall.Gettid()
	// Give this thread realtime priority.
	res, _, err := syscall.RawSyscall(syscall.SYS_SCHED_SETSCHEDULER, uintptr(tid),
		uintptr(RR), uintptr(unsafe.Pointer(&schedParam{prio})))
	if res == 0 {
		return nil
	}
	return err
}

const FIFO = 1 // fifo scheduling policy
const RR = 2   // round-robin scheduling policy

type schedParam struct {
	Priority int
}
