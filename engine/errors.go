package engine

import "github.com/pkg/errors"

var (
	// ErrInvalidMass is returned for a body mass outside (0, MaxMass]
	ErrInvalidMass = errors.New("invalid body mass")
	// ErrInvalidPopulation is returned for a negative population size or duplicate ids
	ErrInvalidPopulation = errors.New("invalid population")
	// ErrInvalidField is returned for non-positive or non-finite field dimensions
	ErrInvalidField = errors.New("invalid field dimensions")
	// ErrInvalidTimeStep is returned for a non-positive or non-finite integration step
	ErrInvalidTimeStep = errors.New("invalid time step")
)
