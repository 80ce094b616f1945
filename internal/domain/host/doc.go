/*
Package host implements the composing surface that multiplexes virtual
windows onto one host process.

The Host owns the z-order list, the focus history and the mapping from scenes
to windows. It decides for every tap whether the host handles it (chrome,
empty surface, status bar default) or the hosted app does.

# Threading

A Host holds no locks. Every method must run on the main loop; asynchronous
opens wait for readiness on their own goroutine and post the completion back
through the Dispatcher.

# Focus

Exactly one open window holds the focus flag whenever any window is open.
When the focused window closes, focus moves to the most recently focused
remaining window, preferring visible windows over minimized ones and minimized
ones over windows detached to picture-in-picture.
*/
package host
