/*
Package statusbar makes the host process's single status bar appear owned by
whichever virtual window has focus.

The real StatusBar never decides where a tap goes. It is configured with a
TapInterceptor (the Router) and hands every raw tap action to it. The Router
forwards to its nominated Target when that target is still open and falls back
to the status bar's own default action otherwise. The decision is made fresh
on every tap.
*/
package statusbar
