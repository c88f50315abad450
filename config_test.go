package spatialmap

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestMapConfigValidate(t *testing.T) {
	test.That(t, DefaultMapConfig().Validate(), test.ShouldBeNil)

	for _, tc := range []struct {
		name   string
		mutate func(*MapConfig)
	}{
		{"image size", func(c *MapConfig) { c.ImageSize = 0 }},
		{"border size", func(c *MapConfig) { c.BorderSize = -1 }},
		{"outlier strength", func(c *MapConfig) { c.OutlierStdDevs = 0 }},
		{"keyframe radius", func(c *MapConfig) { c.KeyframeRadius = 0 }},
		{"robot radius", func(c *MapConfig) { c.RobotRadius = -2 }},
		{"border thickness", func(c *MapConfig) { c.BorderThickness = 0 }},
		{"font scale", func(c *MapConfig) { c.FontScale = 0 }},
		{"canvas too small", func(c *MapConfig) { c.ImageSize = 2*c.BorderSize + 2*c.KeyframeRadius }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultMapConfig()
			tc.mutate(&cfg)
			test.That(t, cfg.Validate(), test.ShouldNotBeNil)
		})
	}

	// several failures are reported together
	cfg := DefaultMapConfig()
	cfg.ImageSize = 0
	cfg.FontScale = -1
	err := cfg.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "image_size")
	test.That(t, err.Error(), test.ShouldContainSubstring, "font_scale")
}

func TestReadMapConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.json")
	test.That(t, os.WriteFile(path,
		[]byte(`{"image_size": 512, "outlier_std_devs": 3}`), 0o644), test.ShouldBeNil)

	cfg, err := ReadMapConfigFromFile(path)
	test.That(t, err, test.ShouldBeNil)
	// unset fields keep their defaults
	test.That(t, cfg.ImageSize, test.ShouldEqual, 512)
	test.That(t, cfg.OutlierStdDevs, test.ShouldEqual, 3.0)
	test.That(t, cfg.BorderSize, test.ShouldEqual, DefaultMapConfig().BorderSize)

	bad := filepath.Join(dir, "bad.json")
	test.That(t, os.WriteFile(bad, []byte(`{"image_size": -4}`), 0o644), test.ShouldBeNil)
	_, err = ReadMapConfigFromFile(bad)
	test.That(t, err, test.ShouldNotBeNil)

	notJSON := filepath.Join(dir, "nope.json")
	test.That(t, os.WriteFile(notJSON, []byte(`{`), 0o644), test.ShouldBeNil)
	_, err = ReadMapConfigFromFile(notJSON)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = ReadMapConfigFromFile(filepath.Join(dir, "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}
