// Package uart provides the serial transport of the console.
package uart

// A UART peripheral is modelled as a Hardware channel with non-blocking
// byte operations, the way most microcontroller HALs expose it: a call
// either completes, reports ErrWouldBlock because the peripheral is busy,
// or reports a fault latched in the status register.
//
// Writer turns such a channel into a blocking byte stream by busy-waiting
// on ErrWouldBlock. It collapses every fault into a single error kind,
// because the console above only needs to know whether a byte left the
// wire or not.
