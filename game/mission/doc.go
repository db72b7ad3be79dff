// Package mission paces a mission in real time.
//
// A Controller owns one engine.Engine and runs every engine call on a single
// loop goroutine, the way a browser runs timer callbacks on its event loop.
// Timers never touch the engine directly: they post closures to the loop.
// Each mission start bumps an epoch, and closures scheduled for an older
// epoch are dropped when they arrive.
//
// Lifecycle:
//
//	idle -> previewing -> awaiting_input -> executing -> resolved -> idle
//
// While previewing, a ticker moves every dog to a random free neighbour for
// dog_visible, then puts it back. When preview_duration elapses the board is
// redrawn from the item list and instructions are accepted. Execution takes
// one unit step every step_delay, and the outcome message is dismissed after
// message_duration.
//
// Every visible change is reported to a Publisher as an Event carrying a deep
// copy of the state.
package mission
