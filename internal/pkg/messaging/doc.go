// Package messaging is a small broker-agnostic event bus.
//
// Producers call Publish with a topic and a Message; consumers call Consume,
// which blocks until the context is cancelled. Drivers exist for NATS, NSQ,
// Kafka, Google Pub/Sub and an in-process memory bus used when no broker is
// configured.
package messaging
