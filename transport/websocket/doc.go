// Package websocket streams mission render events to browsers.
//
// Hub implements mission.Publisher: every session controller publishes its
// events into the hub, and the hub fans them out to the clients watching that
// session. A client connects with /ws?session=<id>, receives a "snapshot"
// message with the current state, then one JSON message per event:
//
//	{"session_id":"ab12","event":"robot_stepped","state":{...},"step":{...}}
//
// Only the Run goroutine touches the client registry. Publish never blocks
// the controller; a backed-up hub drops events and a slow client is
// disconnected.
package websocket
