// Package services contains domain services that operate across aggregates.
//
// RoutePlanner generates simulated route variants between an agent and a
// customer and advances positions along the great-circle bearing between
// them. It backs the tracking simulation; it performs no real navigation.
package services
