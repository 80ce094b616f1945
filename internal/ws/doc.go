// Package ws streams window host events to the UI shell over WebSocket.
//
// On connect the client receives a hello frame carrying the current window
// list, then one frame per bus event:
//
//	{"type": "window.focused", "data": {...}, "timestamp": 1700000000000}
//
// Message Types (Client → Server):
//   - ping: keep-alive, answered with pong
//   - subscribe: {"events": [...]} narrows the stream to the listed types;
//     an empty list restores everything
//
// A client that cannot keep up with its send buffer is disconnected with a
// policy-violation close frame rather than stalling the main loop.
//
// Example Usage:
//
//	handler := ws.NewHandler(bus, loop, host, logger)
//	router.GET("/ws/events", handler.HandleConnection)
package ws
