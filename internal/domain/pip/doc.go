/*
Package pip moves a virtual window's rendering surface into a floating
picture-in-picture presentation and back.

Each session runs through

	docked -> detaching -> floating -> reattaching -> docked

or ends in closed when its window closes while floating. A session is
removed from the coordinator as soon as it reaches docked or closed, so any
later request naming it fails with a NotFound error.

The window keeps its layout slot (frame and z rank) while detached, which is
what lets reattach put it back exactly where it was.
*/
package pip
