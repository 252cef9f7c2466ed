// Package log provides simple leveled logging for fibctl.
//
// Messages are written with a colored level prefix: DEBUG (only in
// verbose mode), INFO, WARN and ERROR. Errors always go to stderr, the
// other levels go to stdout unless SetForceStdErr is enabled, which the
// JSON-printing commands do so that stdout carries nothing but the
// document.
//
//	log.SetVerbose(true)
//	log.Debugf("GetRouteTable returned %d routes", n)
//	log.Errorf("Failed to reach agent: %v", err)
//
// All functions are safe for concurrent use.
package log
