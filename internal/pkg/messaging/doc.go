// Package messaging provides a broker-agnostic API for publishing and
// consuming messages.
//
// Business code depends on the interfaces here and stays independent from the
// underlying system (NATS or NSQ); the broker is chosen by configuration.
package messaging
