/*
Package window defines VirtualWindow, the logical window one hosted app
instance is presented in.

A VirtualWindow is created by the host when an open is reserved (visibility
"opening") and becomes part of the layout once its controller chain is
attached. Closing a window tears the chain down exactly once; afterwards every
setter is ignored and the window reports VisibilityClosed forever.

All methods must be called from the main loop.
*/
package window
