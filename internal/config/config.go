// Package config loads and validates the TMS control core's configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RobotKind selects which Robot Driver variant to construct.
type RobotKind string

const (
	RobotElfin       RobotKind = "elfin"
	RobotElfinNewAPI RobotKind = "elfin_new_api"
	RobotDobot       RobotKind = "dobot"
	RobotUR          RobotKind = "ur"
	RobotTest        RobotKind = "test"
)

// MovementAlgorithm selects which Movement Algorithm the controller runs.
type MovementAlgorithm string

const (
	AlgorithmRadiallyOutward MovementAlgorithm = "radially_outward"
	AlgorithmDirectlyUpward  MovementAlgorithm = "directly_upward"
	AlgorithmDirectlyPID     MovementAlgorithm = "directly_PID"
)

// Config holds every recognized configuration key.
type Config struct {
	Robot   RobotKind `yaml:"robot"`
	Verbose bool      `yaml:"verbose"`

	UseForceSensor        bool   `yaml:"use_force_sensor"`
	UsePressureSensor     bool   `yaml:"use_pressure_sensor"`
	ComPortPressureSensor string `yaml:"com_port_pressure_sensor"`

	MovementAlgorithm MovementAlgorithm `yaml:"movement_algorithm"`

	SafeHeight                  float64        `yaml:"safe_height"`
	TuningInterval               *time.Duration `yaml:"tuning_interval"`
	StopRobotIfHeadNotVisible    bool           `yaml:"stop_robot_if_head_not_visible"`
	WaitForKeypressBeforeMovement bool          `yaml:"wait_for_keypress_before_movement"`
	DwellTime                    time.Duration  `yaml:"dwell_time"`

	RxOffset float64 `yaml:"rx_offset"`
	RyOffset float64 `yaml:"ry_offset"`
	RzOffset float64 `yaml:"rz_offset"`

	WorkingSpaceRadius float64 `yaml:"working_space_radius"`
	RobotSpeed         int     `yaml:"robot_speed"`

	RobotIP string `yaml:"robot_ip"`
}

// Default returns a Config with the recommended defaults, matching the
// fallback values the control loop relies on when a key is omitted.
func Default() Config {
	return Config{
		Robot:                     RobotTest,
		MovementAlgorithm:         AlgorithmDirectlyPID,
		SafeHeight:                150,
		StopRobotIfHeadNotVisible: true,
		DwellTime:                 200 * time.Millisecond,
		WorkingSpaceRadius:        400,
		RobotSpeed:                50,
	}
}

// Load reads a YAML configuration file, applies a ROBOT_IP environment
// override, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if ip := os.Getenv("ROBOT_IP"); ip != "" {
		cfg.RobotIP = ip
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the configuration-error taxonomy: unknown robot
// or algorithm values are fatal at startup.
func (c *Config) Validate() error {
	switch c.Robot {
	case RobotElfin, RobotElfinNewAPI, RobotDobot, RobotUR, RobotTest:
	default:
		return fmt.Errorf("config: unknown robot %q", c.Robot)
	}

	switch c.MovementAlgorithm {
	case AlgorithmRadiallyOutward, AlgorithmDirectlyUpward, AlgorithmDirectlyPID:
	default:
		return fmt.Errorf("config: unknown movement_algorithm %q", c.MovementAlgorithm)
	}

	if c.Robot != RobotTest && c.RobotIP == "" {
		return fmt.Errorf("config: robot_ip required for robot %q (or set ROBOT_IP)", c.Robot)
	}
	if c.WorkingSpaceRadius <= 0 {
		return fmt.Errorf("config: working_space_radius must be positive")
	}
	if c.RobotSpeed < 0 || c.RobotSpeed > 100 {
		return fmt.Errorf("config: robot_speed must be in 0..100")
	}
	return nil
}

// TuningIntervalOrZero returns the tuning interval, or zero if the
// site config left it unset (meaning "never re-tune once the target is
// reached and the force is at its setpoint").
func (c *Config) TuningIntervalOrZero() time.Duration {
	if c.TuningInterval == nil {
		return 0
	}
	return *c.TuningInterval
}
