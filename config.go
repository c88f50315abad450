package spatialmap

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/spatialmap/spatialmath"
)

// MapConfig configures the egocentric map canvas. It is validated once at
// construction and treated as immutable afterwards.
type MapConfig struct {
	// ImageSize is the side length of the square canvas, in pixels.
	ImageSize int `json:"image_size"`
	// BorderSize is the margin kept clear of markers, in pixels.
	BorderSize int `json:"border_size"`
	// OutlierStdDevs is the standard-deviation multiplier used when
	// rejecting far keyframes from the scale computation.
	OutlierStdDevs float64 `json:"outlier_std_devs"`
	// KeyframeRadius is the half side of a keyframe marker, in pixels.
	KeyframeRadius int `json:"keyframe_radius"`
	// RobotRadius is the radius of the robot indicator, in pixels.
	RobotRadius int `json:"robot_radius"`
	// BorderThickness is the marker border stroke width, in pixels.
	BorderThickness int `json:"border_thickness"`
	// FontScale multiplies the base label font size.
	FontScale float64 `json:"font_scale"`
}

// DefaultMapConfig returns the configuration the live system runs with.
func DefaultMapConfig() MapConfig {
	return MapConfig{
		ImageSize:       256,
		BorderSize:      8,
		OutlierStdDevs:  5,
		KeyframeRadius:  10,
		RobotRadius:     6,
		BorderThickness: 2,
		FontScale:       1,
	}
}

// Validate checks every field is positive and the canvas is large enough to
// hold a marker inside the border on all sides.
func (c MapConfig) Validate() error {
	var err error
	if c.ImageSize <= 0 {
		err = multierr.Append(err, spatialmath.NewInvalidInputError("image_size must be positive"))
	}
	if c.BorderSize <= 0 {
		err = multierr.Append(err, spatialmath.NewInvalidInputError("border_size must be positive"))
	}
	if c.OutlierStdDevs <= 0 {
		err = multierr.Append(err, spatialmath.NewInvalidInputError("outlier_std_devs must be positive"))
	}
	if c.KeyframeRadius <= 0 {
		err = multierr.Append(err, spatialmath.NewInvalidInputError("keyframe_radius must be positive"))
	}
	if c.RobotRadius <= 0 {
		err = multierr.Append(err, spatialmath.NewInvalidInputError("robot_radius must be positive"))
	}
	if c.BorderThickness <= 0 {
		err = multierr.Append(err, spatialmath.NewInvalidInputError("border_thickness must be positive"))
	}
	if c.FontScale <= 0 {
		err = multierr.Append(err, spatialmath.NewInvalidInputError("font_scale must be positive"))
	}
	if err != nil {
		return err
	}

	maxRadius := c.KeyframeRadius
	if c.RobotRadius > maxRadius {
		maxRadius = c.RobotRadius
	}
	if c.ImageSize <= 2*c.BorderSize+2*maxRadius {
		return spatialmath.NewInvalidInputError("image_size too small for border and marker radii")
	}
	return nil
}

// ReadMapConfigFromFile loads and validates a JSON MapConfig.
func ReadMapConfigFromFile(path string) (MapConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MapConfig{}, err
	}
	cfg := DefaultMapConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return MapConfig{}, errors.Wrapf(err, "map config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return MapConfig{}, errors.Wrapf(err, "map config %s", path)
	}
	return cfg, nil
}
