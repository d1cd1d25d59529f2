// Package touch turns raw digitiser input into gesture samples.
//
// Three sources feed the same ordered channel: EvdevSource reads a Linux
// multitouch device node, SerialSource reads the line protocol from a
// serialmux subscription, and ReplaySource plays a fixture file. The line
// protocol is one sample per line:
//
//	<phase> <id> <x> <y> [t_ms]
//
// where phase is down, move, up or cancel and t_ms is milliseconds since
// the start of the stream. Blank lines and lines starting with # are
// ignored.
package touch
