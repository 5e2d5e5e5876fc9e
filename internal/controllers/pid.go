// Package controllers holds the thrust autopilot used by scripted runs.
package controllers

import "math"

type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64
	// Limit bounds the output to [-Limit, Limit]; zero leaves it unbounded.
	Limit    float64
	integral float64
	prevErr  float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

// Compute returns the control output for measured after dt seconds.
func (p *PID) Compute(measured, dt float64) float64 {
	err := p.Target - measured

	if p.first || dt <= 0 {
		p.prevErr = err
		p.first = false
		return p.clamp(p.Kp*err + p.Ki*p.integral)
	}

	derivative := (err - p.prevErr) / dt
	p.prevErr = err

	integral := p.integral + err*dt
	u := p.Kp*err + p.Ki*integral + p.Kd*derivative
	out := p.clamp(u)
	// Stop integrating while saturated in the direction of the error.
	if out == u || math.Signbit(err) != math.Signbit(u) {
		p.integral = integral
	}
	return out
}

func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

func (p *PID) clamp(u float64) float64 {
	if p.Limit <= 0 {
		return u
	}
	return math.Max(-p.Limit, math.Min(p.Limit, u))
}

// SpeedHold drives the forward speed to a target by setting thrust.
type SpeedHold struct {
	pid *PID
}

// NewSpeedHold scales the gains by mass so one set of gains suits every
// hull, and limits thrust to maxThrust.
func NewSpeedHold(target, mass, maxThrust float64, kp, ki, kd float64) *SpeedHold {
	pid := NewPID(kp*mass, ki*mass, kd*mass, target)
	pid.Limit = maxThrust
	return &SpeedHold{pid: pid}
}

func (s *SpeedHold) Target() float64 { return s.pid.Target }

func (s *SpeedHold) SetTarget(v float64) { s.pid.Target = v }

func (s *SpeedHold) Thrust(speed, dt float64) float64 {
	return s.pid.Compute(speed, dt)
}

func (s *SpeedHold) Reset() { s.pid.Reset() }
