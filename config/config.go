// Package config implements the machine description loader of spec
// EXPANSION "Configuration": a YAML document decoded into a typed
// Config via github.com/go-viper/mapstructure/v2, grounded on
// go.viam.com/rdk/config's generic-map-then-mapstructure.Decode idiom
// (config/attribute_map_test.go, config/config_test.go).
package config

import (
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/laixer/glonax/glonaxerr"
	"github.com/laixer/glonax/governor"
	"github.com/laixer/glonax/object"
)

// Segment describes one rigid link of the kinematic chain (spec §4.3),
// in build order: the root segment first, then each child offset from
// its predecessor.
type Segment struct {
	Name string  `yaml:"name" mapstructure:"name"`
	X    float64 `yaml:"x" mapstructure:"x"`
	Y    float64 `yaml:"y" mapstructure:"y"`
	Z    float64 `yaml:"z" mapstructure:"z"`
}

// DriverBinding names one field-bus driver to install into the
// network authority's registry, and the addresses it binds (spec
// §4.1/§4.2).
type DriverBinding struct {
	Vendor      string `yaml:"vendor" mapstructure:"vendor"`
	Product     string `yaml:"product" mapstructure:"product"`
	Destination uint8  `yaml:"destination" mapstructure:"destination"`
	Source      uint8  `yaml:"source" mapstructure:"source"`

	// Joint names the actor segment this binding drives, used by the
	// pipeline's sensor-fusion step (spec §4.9) for encoder/inclinometer
	// bindings; ignored otherwise.
	Joint string `yaml:"joint" mapstructure:"joint"`

	// Encoder* apply only to product "encoder" (driver.KueblerEncoder),
	// configuring its raw-count-to-radian conversion (spec §4.4).
	EncoderFactor float32 `yaml:"encoder_factor" mapstructure:"encoder_factor"`
	EncoderOffset float32 `yaml:"encoder_offset" mapstructure:"encoder_offset"`
	EncoderInvert bool    `yaml:"encoder_invert" mapstructure:"encoder_invert"`
}

// Instance describes the process-wide machine identity (spec §3,
// object.Instance).
type Instance struct {
	Model   string   `yaml:"model" mapstructure:"model"`
	Type    string   `yaml:"type" mapstructure:"type"`
	Version [3]uint8 `yaml:"version" mapstructure:"version"`
}

// Network describes the field-bus transport and the drivers bound to
// it (spec §4.1/§4.2).
type Network struct {
	Interface string          `yaml:"interface" mapstructure:"interface"`
	Source    uint8           `yaml:"source" mapstructure:"source"`
	Drivers   []DriverBinding `yaml:"drivers" mapstructure:"drivers"`
}

// GovernorConfig describes the engine governor's RPM envelope and
// transition timeout (spec §4.7).
type GovernorConfig struct {
	RPMIdle           uint16        `yaml:"rpm_idle" mapstructure:"rpm_idle"`
	RPMMax            uint16        `yaml:"rpm_max" mapstructure:"rpm_max"`
	TransitionTimeout time.Duration `yaml:"transition_timeout" mapstructure:"transition_timeout"`
}

// Config is the full machine description document.
type Config struct {
	Instance Instance       `yaml:"instance" mapstructure:"instance"`
	Actor    []Segment      `yaml:"actor" mapstructure:"actor"`
	Network  Network        `yaml:"network" mapstructure:"network"`
	Governor GovernorConfig `yaml:"governor" mapstructure:"governor"`
}

// BuildGovernor constructs a governor.Governor from the config's RPM
// envelope.
func (c *Config) BuildGovernor() governor.Governor {
	return governor.New(c.Governor.RPMIdle, c.Governor.RPMMax, c.Governor.TransitionTimeout)
}

// machineTypes maps the document's symbolic machine type name to
// object.MachineType, per spec §3.
var machineTypes = map[string]object.MachineType{
	"excavator":    object.MachineExcavator,
	"wheel_loader": object.MachineWheelLoader,
	"dozer":        object.MachineDozer,
	"grader":       object.MachineGrader,
	"hauler":       object.MachineHauler,
	"forestry":     object.MachineForestry,
}

// MachineType resolves the document's symbolic machine type name.
func (i Instance) MachineType() (object.MachineType, bool) {
	t, ok := machineTypes[i.Type]
	return t, ok
}

// Load reads and decodes a YAML machine description from path. Parse
// failure is Fatal per spec §7: a machine cannot safely start without
// a valid description.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, glonaxerr.NewFatal(errors.Wrapf(err, "config: read %s", path))
	}

	var document map[string]interface{}
	if err := yaml.Unmarshal(raw, &document); err != nil {
		return nil, glonaxerr.NewFatal(errors.Wrapf(err, "config: parse %s", path))
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           &cfg,
	})
	if err != nil {
		return nil, glonaxerr.NewFatal(errors.Wrap(err, "config: build decoder"))
	}
	if err := decoder.Decode(document); err != nil {
		return nil, glonaxerr.NewFatal(errors.Wrapf(err, "config: decode %s", path))
	}
	return &cfg, nil
}
