// Package messaging provides a broker-agnostic API for publishing and
// consuming messages.
//
// Business code depends on the Messaging interface only. The concrete
// client is chosen at startup by NewFromDriver: NATS, NSQ, Kafka, Google
// Pub/Sub, or the in-process memory bus used for single-node runs and tests.
package messaging
