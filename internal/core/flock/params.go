package flock

import "fmt"

// Motion is the pair of constants a beat toggles.
type Motion struct {
	CollisionDistance float64 `yaml:"collision_distance" toml:"collision_distance"`
	MaxVelocity       float64 `yaml:"max_velocity" toml:"max_velocity"`
}

// Params holds every tunable of a run. Only CollisionDistance and
// MaxVelocity change after start, and only through ApplyBeat or Reset.
type Params struct {
	Size    int     `yaml:"size" toml:"size"`
	Lines   Layout  `yaml:"lines" toml:"lines"`
	Frustum Frustum `yaml:"frustum" toml:"frustum"`

	WallCollisionDistance float64 `yaml:"wall_collision_distance" toml:"wall_collision_distance"`

	PowerLineAttractionWeight float64 `yaml:"power_line_attraction_weight" toml:"power_line_attraction_weight"`
	AttractDistance           float64 `yaml:"attract_distance" toml:"attract_distance"`
	SitDistance               float64 `yaml:"sit_distance" toml:"sit_distance"`
	MinSitVelocity            float64 `yaml:"min_sit_velocity" toml:"min_sit_velocity"`
	MesmerizeDistance         float64 `yaml:"mesmerize_distance" toml:"mesmerize_distance"`

	SittingInfluenceDistance float64 `yaml:"sitting_influence_distance" toml:"sitting_influence_distance"`
	LaunchInfluence          float64 `yaml:"launch_influence" toml:"launch_influence"`
	LaunchVelocity           float64 `yaml:"launch_velocity" toml:"launch_velocity"`

	StepDistance          float64 `yaml:"step_distance" toml:"step_distance"`
	StepTiming            int     `yaml:"step_timing" toml:"step_timing"`
	IdealLineDistance     float64 `yaml:"ideal_line_distance" toml:"ideal_line_distance"`
	TolerableLineDistance float64 `yaml:"tolerable_line_distance" toml:"tolerable_line_distance"`
	MinLineDistance       float64 `yaml:"min_line_distance" toml:"min_line_distance"`

	CenterAttractionWeight   float64 `yaml:"center_attraction_weight" toml:"center_attraction_weight"`
	VelocityAttractionWeight float64 `yaml:"velocity_attraction_weight" toml:"velocity_attraction_weight"`
	CollisionAvoidanceWeight float64 `yaml:"collision_avoidance_weight" toml:"collision_avoidance_weight"`

	// DampingSpeed is the speed above which line attraction slows a boid down.
	DampingSpeed float64 `yaml:"damping_speed" toml:"damping_speed"`

	Base    Motion `yaml:"base" toml:"base"`
	Excited Motion `yaml:"excited" toml:"excited"`

	// Live motion constants, seeded from Base by Reset.
	CollisionDistance float64 `yaml:"-" toml:"-"`
	MaxVelocity       float64 `yaml:"-" toml:"-"`

	excited bool
}

// DefaultParams returns the constants the flock was tuned with.
func DefaultParams() *Params {
	p := &Params{
		Size: 100,
		Lines: Layout{
			Count:   3,
			Y:       5.0,
			Z:       20.0,
			Spacing: 3.0,
		},
		Frustum: Frustum{
			Base:            5.0,
			Top:             50.0,
			HalfWidthAtBase: 5.0,
			HalfWidthAtTop:  50.0,
		},
		WallCollisionDistance:     4.0,
		PowerLineAttractionWeight: 0.2,
		AttractDistance:           3.0,
		SitDistance:               0.4,
		MinSitVelocity:            0.5,
		MesmerizeDistance:         2.0,
		SittingInfluenceDistance:  3.5,
		LaunchInfluence:           3.0,
		LaunchVelocity:            1.0,
		StepDistance:              0.2,
		StepTiming:                10,
		IdealLineDistance:         1.0,
		TolerableLineDistance:     0.5,
		MinLineDistance:           0.4,
		CenterAttractionWeight:    0.01,
		VelocityAttractionWeight:  0.125,
		CollisionAvoidanceWeight:  0.2,
		DampingSpeed:              0.2,
		Base:                      Motion{CollisionDistance: 1.0, MaxVelocity: 1.0},
		Excited:                   Motion{CollisionDistance: 2.0, MaxVelocity: 1.5},
	}
	p.Reset()
	return p
}

// Reset puts the live motion constants back on the base preset.
func (p *Params) Reset() {
	p.excited = false
	p.CollisionDistance = p.Base.CollisionDistance
	p.MaxVelocity = p.Base.MaxVelocity
}

// ApplyBeat flips the live motion constants between the base and excited
// presets and returns the motion now in effect.
func (p *Params) ApplyBeat() Motion {
	p.excited = !p.excited
	m := p.Base
	if p.excited {
		m = p.Excited
	}
	p.CollisionDistance = m.CollisionDistance
	p.MaxVelocity = m.MaxVelocity
	return m
}

// IsExcited reports whether the excited preset is live.
func (p *Params) IsExcited() bool { return p.excited }

// Motion returns the live motion constants.
func (p *Params) Motion() Motion {
	return Motion{CollisionDistance: p.CollisionDistance, MaxVelocity: p.MaxVelocity}
}

func (p *Params) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil", ErrInvalidParams)
	}
	if p.Size < 0 {
		return fmt.Errorf("%w: size %d", ErrInvalidParams, p.Size)
	}
	if err := p.Frustum.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if err := p.Lines.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	positive := []struct {
		name  string
		value float64
	}{
		{"attract_distance", p.AttractDistance},
		{"launch_velocity", p.LaunchVelocity},
		{"base.max_velocity", p.Base.MaxVelocity},
		{"excited.max_velocity", p.Excited.MaxVelocity},
		{"max_velocity", p.MaxVelocity},
	}
	for _, f := range positive {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParams, f.name, f.value)
		}
	}
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"wall_collision_distance", p.WallCollisionDistance},
		{"sit_distance", p.SitDistance},
		{"mesmerize_distance", p.MesmerizeDistance},
		{"sitting_influence_distance", p.SittingInfluenceDistance},
		{"step_distance", p.StepDistance},
		{"min_line_distance", p.MinLineDistance},
		{"tolerable_line_distance", p.TolerableLineDistance},
		{"ideal_line_distance", p.IdealLineDistance},
		{"base.collision_distance", p.Base.CollisionDistance},
		{"excited.collision_distance", p.Excited.CollisionDistance},
		{"collision_distance", p.CollisionDistance},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidParams, f.name, f.value)
		}
	}
	if p.StepTiming < 1 {
		return fmt.Errorf("%w: step_timing must be at least 1, got %d", ErrInvalidParams, p.StepTiming)
	}
	return nil
}
