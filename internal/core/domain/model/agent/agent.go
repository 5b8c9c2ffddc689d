package agent

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// Domain errors for delivery agent operations.
var (
	// ErrNameIsRequired is returned when creating an agent without a display name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPhoneIsRequired is returned when creating an agent without a contact phone.
	ErrPhoneIsRequired = errs.NewValueIsRequiredError("phone")
	// ErrAgentIsNotConstructed is returned when using an improperly initialized Agent.
	ErrAgentIsNotConstructed = errors.New("Agent must be created via NewAgent or RestoreAgent constructor")
)

// Agent represents a delivery agent in the system.
// It is an aggregate root managing the agent's identity, current geographic
// position and availability.
//
// Business rules:
//   - Agents must have a valid UUID, non-empty name and phone
//   - Position is mutated only through ReportPosition or MoveToward,
//     which also refresh the last-seen timestamp
//   - Agents are never deleted, only deactivated
type Agent struct {
	// id uniquely identifies the agent
	id kernel.UUID
	// name is the agent's display name
	name string
	// phone is the agent's contact number
	phone string
	// position is the agent's last reported geographic position
	position kernel.GeoPoint
	// active reports whether the agent is currently on duty
	active bool
	// lastSeenAt is when the position was last updated
	lastSeenAt time.Time
	// guard ensures the agent was properly constructed
	guard guard.ConstructorGuard
}

// NewAgent creates a new active Agent at the given starting position.
// The caller supplies the current time so the clock stays injectable.
//
// Returns:
//   - *Agent: A fully initialized agent
//   - error: Validation error if any parameter is invalid
func NewAgent(
	id kernel.UUID,
	name string,
	phone string,
	position kernel.GeoPoint,
	now time.Time,
) (*Agent, error) {
	a := &Agent{
		active:     true,
		lastSeenAt: now,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setName(name),
		a.setPhone(phone),
		a.setPosition(position),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAgent reconstructs an Agent aggregate from persistent storage,
// preserving its activity flag and last-seen timestamp.
func RestoreAgent(
	id kernel.UUID,
	name string,
	phone string,
	position kernel.GeoPoint,
	active bool,
	lastSeenAt time.Time,
) (*Agent, error) {
	a := &Agent{
		active:     active,
		lastSeenAt: lastSeenAt,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setName(name),
		a.setPhone(phone),
		a.setPosition(position),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate ensures the Agent instance was properly constructed.
func (a *Agent) Validate() error {
	if a == nil {
		return ErrAgentIsNotConstructed
	}
	return a.guard.Validate(ErrAgentIsNotConstructed)
}

// IsEqual compares two agents by their unique identifiers.
func (a *Agent) IsEqual(other *Agent) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the agent's unique identifier.
func (a *Agent) ID() kernel.UUID {
	return a.id
}

// Name returns the agent's display name.
func (a *Agent) Name() string {
	return a.name
}

// Phone returns the agent's contact number.
func (a *Agent) Phone() string {
	return a.phone
}

// Position returns the agent's last reported geographic position.
func (a *Agent) Position() kernel.GeoPoint {
	return a.position
}

// IsActive reports whether the agent is currently on duty.
func (a *Agent) IsActive() bool {
	return a.active
}

// LastSeenAt returns when the position was last updated.
func (a *Agent) LastSeenAt() time.Time {
	return a.lastSeenAt
}

// ReportPosition records a fresh position report from the agent's device.
// The agent is marked active and the last-seen timestamp refreshed.
func (a *Agent) ReportPosition(position kernel.GeoPoint, at time.Time) error {
	if err := a.setPosition(position); err != nil {
		return err
	}

	a.active = true
	a.lastSeenAt = at
	return nil
}

// MoveToward advances the agent's position by the given fraction of the
// remaining distance toward the target. Used by the simulated movement
// tick; real GPS reports go through ReportPosition instead.
func (a *Agent) MoveToward(target kernel.GeoPoint, fraction float64, at time.Time) error {
	next, err := a.position.MoveToward(target, fraction)
	if err != nil {
		return err
	}

	a.position = next
	a.lastSeenAt = at
	return nil
}

// Deactivate takes the agent off duty. Position and identity are retained.
func (a *Agent) Deactivate() {
	a.active = false
}

func (a *Agent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Agent) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	a.name = name
	return nil
}

func (a *Agent) setPhone(phone string) error {
	if phone == "" {
		return ErrPhoneIsRequired
	}
	a.phone = phone
	return nil
}

func (a *Agent) setPosition(position kernel.GeoPoint) error {
	if err := position.Validate(); err != nil {
		return err
	}
	a.position = position
	return nil
}
