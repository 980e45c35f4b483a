package pidgroup

import "time"

// Translation is the (x, y, z) output of the translational loops.
type Translation struct {
	X, Y, Z float64
}

// Rotation is the (rx, ry, rz) output of the rotational loops.
type Rotation struct {
	Rx, Ry, Rz float64
}

// Group bundles the translational x/y/z loops (z optionally force-coupled)
// and the three rotational loops into the control core's single PID
// Group component.
type Group struct {
	X, Y, Z    Loop
	Rx, Ry, Rz Loop

	forceSetpoint float64
	useForce      bool

	lastUpdate time.Time
	hasLast    bool

	translation Translation
	rotation    Rotation
}

// Config bundles the gains used to construct a Group's six loops.
type Config struct {
	TranslationKp, TranslationKi, TranslationKd float64
	TranslationIntegratorLimit, TranslationOutputLimit float64

	RotationKp, RotationKi, RotationKd float64
	RotationIntegratorLimit, RotationOutputLimit float64

	ForceSetpoint float64
	UseForce      bool
}

// DefaultConfig returns the recommended gain set for a 30 Hz tick: a
// conservative proportional-only translational loop and a slightly
// damped rotational loop, output-limited to a single tick's worth of
// safe motion. The gains are not exposed as a config key.
func DefaultConfig() Config {
	return Config{
		TranslationKp:              0.5,
		TranslationIntegratorLimit: 20,
		TranslationOutputLimit:     10,

		RotationKp:              0.5,
		RotationKd:              0.05,
		RotationIntegratorLimit: 10,
		RotationOutputLimit:     5,

		ForceSetpoint: 0,
		UseForce:      false,
	}
}

// New builds a Group whose six loops share the translation/rotation gain
// pairs from cfg.
func New(cfg Config) *Group {
	mk := func(kp, ki, kd, il, ol float64) Loop { return NewLoop(kp, ki, kd, il, ol) }
	return &Group{
		X:  mk(cfg.TranslationKp, cfg.TranslationKi, cfg.TranslationKd, cfg.TranslationIntegratorLimit, cfg.TranslationOutputLimit),
		Y:  mk(cfg.TranslationKp, cfg.TranslationKi, cfg.TranslationKd, cfg.TranslationIntegratorLimit, cfg.TranslationOutputLimit),
		Z:  mk(cfg.TranslationKp, cfg.TranslationKi, cfg.TranslationKd, cfg.TranslationIntegratorLimit, cfg.TranslationOutputLimit),
		Rx: mk(cfg.RotationKp, cfg.RotationKi, cfg.RotationKd, cfg.RotationIntegratorLimit, cfg.RotationOutputLimit),
		Ry: mk(cfg.RotationKp, cfg.RotationKi, cfg.RotationKd, cfg.RotationIntegratorLimit, cfg.RotationOutputLimit),
		Rz: mk(cfg.RotationKp, cfg.RotationKi, cfg.RotationKd, cfg.RotationIntegratorLimit, cfg.RotationOutputLimit),

		forceSetpoint: cfg.ForceSetpoint,
		useForce:      cfg.UseForce,
	}
}

func (g *Group) dt(now time.Time) float64 {
	if !g.hasLast {
		g.hasLast = true
		g.lastUpdate = now
		return 1.0 / 30
	}
	d := now.Sub(g.lastUpdate).Seconds()
	g.lastUpdate = now
	return d
}

// UpdateTranslation steps the x, y, z loops. x and y target zero
// displacement. z targets the configured force setpoint against
// forceFeedback when a force source is enabled; otherwise it also
// targets zero displacement, using displacement.Z as the error.
func (g *Group) UpdateTranslation(now time.Time, displacement Translation, forceFeedback *float64) Translation {
	dt := g.dt(now)

	g.translation.X = g.X.Update(displacement.X, dt)
	g.translation.Y = g.Y.Update(displacement.Y, dt)

	if g.useForce && forceFeedback != nil {
		zErr := g.forceSetpoint - *forceFeedback
		g.translation.Z = g.Z.Update(zErr, dt)
	} else {
		g.translation.Z = g.Z.Update(displacement.Z, dt)
	}

	return g.translation
}

// UpdateRotation steps the three rotational loops, each targeting zero.
func (g *Group) UpdateRotation(now time.Time, angles Rotation) Rotation {
	dt := g.dt(now)
	g.rotation.Rx = g.Rx.Update(angles.Rx, dt)
	g.rotation.Ry = g.Ry.Update(angles.Ry, dt)
	g.rotation.Rz = g.Rz.Update(angles.Rz, dt)
	return g.rotation
}

// GetOutputs returns the last computed translation and rotation outputs.
func (g *Group) GetOutputs() (Translation, Rotation) {
	return g.translation, g.rotation
}

// Clear zeroes every loop's integrator and prior error, and resets the
// internal dt clock. Required on target change, objective change, or
// movement-algorithm reset.
func (g *Group) Clear() {
	g.X.Clear()
	g.Y.Clear()
	g.Z.Clear()
	g.Rx.Clear()
	g.Ry.Clear()
	g.Rz.Clear()
	g.translation = Translation{}
	g.rotation = Rotation{}
	g.hasLast = false
}

// GetForceSetpoint returns the configured force setpoint for the z loop.
func (g *Group) GetForceSetpoint() float64 {
	return g.forceSetpoint
}
