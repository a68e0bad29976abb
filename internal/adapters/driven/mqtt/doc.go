// Package mqtt implements the sync channel over an MQTT broker using the
// Eclipse Paho client.
//
// The whole shopping list is published as one retained message on the
// configured topic, so a device that subscribes later receives the last
// state immediately. Received messages are decoded on the Paho callback and
// queued; a single delivery goroutine hands them to the subscriber in
// arrival order.
package mqtt
