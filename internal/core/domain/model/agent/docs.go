// Package agent implements the delivery agent aggregate.
//
// An agent is created when a driver comes on duty, reports positions from
// a device (or the movement simulation), and is deactivated rather than
// deleted when going off duty. The aggregate owns its position; everything
// else in the system reads it through snapshots.
package agent
