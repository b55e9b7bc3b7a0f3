// Package gateway subscribes to the murmur backend's websocket push feed.
//
// Each frame is a {type, data} envelope describing one server-originated
// state change: message created/updated/removed, reaction added/removed,
// member joined, member profile updated. Frames decode into store actions
// and are dispatched immediately, in arrival order, from the single read
// loop — which is what gives the store its serialized action stream.
//
// Creation pushes are tagged with the logged-in user so the store can
// suppress the echo of a send this client itself initiated. Unknown event
// types are ignored rather than failing the connection. There is no
// reconnect logic here; the application decides what a dropped gateway
// means.
package gateway
