package render

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"time"
)

var ErrInvalidConfig = errors.New("invalid render config")

// Mode selects how a drawn function index becomes a colour.
type Mode int

const (
	ModeGray     Mode = iota // white on dark, black on light
	ModeColour               // HSB hue from the function index
	ModePalette              // fixed discrete colour set
	ModeGradient             // interpolation between two endpoints
	ModeStealing             // sampled from a source image at the lag point
	ModeIFS                  // hue and saturation from the lag point position
)

var modeNames = [...]string{
	ModeGray:     "gray",
	ModeColour:   "colour",
	ModePalette:  "palette",
	ModeGradient: "gradient",
	ModeStealing: "stealing",
	ModeIFS:      "ifs",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// IsColour reports whether the mode produces anything but gray.
func (m Mode) IsColour() bool { return m != ModeGray }

func (m *Mode) Set(s string) error {
	for i, name := range modeNames {
		if name == s {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q: %w", s, ErrInvalidConfig)
}

func (m *Mode) UnmarshalText(b []byte) error { return m.Set(string(b)) }
func (m Mode) MarshalText() ([]byte, error)  { return []byte(m.String()), nil }

// Variant selects the rendering algorithm.
type Variant int

const (
	Standard Variant = iota // alpha-blended direct painting
	Top                     // highest function index per pixel
	Density
	LogDensity
	LogDensityInverse
	LogDensityBlur
	LogDensityBlurInverse
	LogDensityPower
	LogDensityPowerInverse
	LogDensityFlame
	LogDensityFlameInverse
)

var variantNames = [...]string{
	Standard:               "standard",
	Top:                    "top",
	Density:                "density",
	LogDensity:             "log-density",
	LogDensityInverse:      "log-density-inverse",
	LogDensityBlur:         "log-density-blur",
	LogDensityBlurInverse:  "log-density-blur-inverse",
	LogDensityPower:        "log-density-power",
	LogDensityPowerInverse: "log-density-power-inverse",
	LogDensityFlame:        "log-density-flame",
	LogDensityFlameInverse: "log-density-flame-inverse",
}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return fmt.Sprintf("variant(%d)", int(v))
	}
	return variantNames[v]
}

func (v *Variant) Set(s string) error {
	for i, name := range variantNames {
		if name == s {
			*v = Variant(i)
			return nil
		}
	}
	return fmt.Errorf("unknown variant %q: %w", s, ErrInvalidConfig)
}

func (v *Variant) UnmarshalText(b []byte) error { return v.Set(string(b)) }
func (v Variant) MarshalText() ([]byte, error)  { return []byte(v.String()), nil }

// IsDensity reports whether the variant accumulates hit counts and needs the
// plotting task.
func (v Variant) IsDensity() bool { return v >= Density }

func (v Variant) IsLog() bool { return v >= LogDensity }

func (v Variant) IsInverse() bool {
	switch v {
	case LogDensityInverse, LogDensityBlurInverse, LogDensityPowerInverse, LogDensityFlameInverse:
		return true
	}
	return false
}

func (v Variant) IsBlur() bool  { return v == LogDensityBlur || v == LogDensityBlurInverse }
func (v Variant) IsPower() bool { return v == LogDensityPower || v == LogDensityPowerInverse }
func (v Variant) IsFlame() bool { return v == LogDensityFlame || v == LogDensityFlameInverse }

// Config is the read-only snapshot every render task works from. The renderer
// never mutates a Config it was given.
type Config struct {
	Mode     Mode
	Variant  Variant
	Gamma    float64
	Vibrancy float64
	Kernel   int
	Threads  int
	// Limit is the iteration limit in units of 1000 iterations; 0 is unlimited.
	Limit uint64

	Palette    []color.RGBA
	Start, End color.RGBA
	Source     image.Image

	PlotInterval time.Duration
}

var defaultPalette = []color.RGBA{
	{0xe6, 0x19, 0x4b, 0xff},
	{0x3c, 0xb4, 0x4b, 0xff},
	{0xff, 0xe1, 0x19, 0xff},
	{0x43, 0x63, 0xd8, 0xff},
	{0xf5, 0x82, 0x31, 0xff},
	{0x91, 0x1e, 0xb4, 0xff},
	{0x42, 0xd4, 0xf4, 0xff},
	{0xf0, 0x32, 0xe6, 0xff},
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Mode:         ModeColour,
		Variant:      Standard,
		Gamma:        1,
		Vibrancy:     1,
		Kernel:       4,
		Threads:      runtime.NumCPU(),
		Palette:      defaultPalette,
		Start:        color.RGBA{0x20, 0x40, 0xc0, 0xff},
		End:          color.RGBA{0xff, 0xd0, 0x20, 0xff},
		PlotInterval: 100 * time.Millisecond,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Mode < ModeGray || c.Mode > ModeIFS:
		return fmt.Errorf("mode %v: %w", c.Mode, ErrInvalidConfig)
	case c.Variant < Standard || c.Variant > LogDensityFlameInverse:
		return fmt.Errorf("variant %v: %w", c.Variant, ErrInvalidConfig)
	case !(c.Gamma > 0):
		return fmt.Errorf("gamma %v must be positive: %w", c.Gamma, ErrInvalidConfig)
	case c.Vibrancy < 0 || c.Vibrancy > 1:
		return fmt.Errorf("vibrancy %v outside [0,1]: %w", c.Vibrancy, ErrInvalidConfig)
	case c.Kernel < 1:
		return fmt.Errorf("kernel %d must be at least 1: %w", c.Kernel, ErrInvalidConfig)
	case c.Threads < 1:
		return fmt.Errorf("threads %d must be at least 1: %w", c.Threads, ErrInvalidConfig)
	case c.Mode == ModePalette && len(c.Palette) == 0:
		return fmt.Errorf("palette mode without colours: %w", ErrInvalidConfig)
	case c.PlotInterval <= 0:
		return fmt.Errorf("plot interval %v must be positive: %w", c.PlotInterval, ErrInvalidConfig)
	}
	return nil
}

// iterateTasks is the number of ITERATE tasks for the configured thread count;
// density variants give one thread to plotting.
func (c Config) iterateTasks() int {
	n := c.Threads
	if c.Variant.IsDensity() {
		n--
	}
	return max(n, 1)
}

// RegisterFlags binds the scalar fields of c to fs.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.Mode, "mode", "colour mode: gray, colour, palette, gradient, stealing, ifs")
	fs.Var(&c.Variant, "variant", "render variant: standard, top, density, log-density[-blur|-power|-flame][-inverse]")
	fs.Float64Var(&c.Gamma, "gamma", c.Gamma, "brightness gamma")
	fs.Float64Var(&c.Vibrancy, "vibrancy", c.Vibrancy, "saturation scale in [0,1]")
	fs.IntVar(&c.Kernel, "kernel", c.Kernel, "blur kernel size in pixels")
	fs.IntVar(&c.Threads, "threads", c.Threads, "render tasks")
	fs.Uint64Var(&c.Limit, "limit", c.Limit, "iteration limit in thousands, 0 for none")
	fs.DurationVar(&c.PlotInterval, "plot-interval", c.PlotInterval, "density plotting period")
}
