package yandexhome

import (
	"encoding/json"
	"fmt"
)

// CapabilityParameters is the static configuration of a capability.
// The concrete type is fixed by the capability kind.
type CapabilityParameters interface {
	CapabilityType() CapabilityType
	isCapabilityParameters()
}

// CapabilityState is the current or requested value of a capability.
// Every state carries an instance tag, and the shape of its value is
// determined by the kind and instance together.
type CapabilityState interface {
	CapabilityType() CapabilityType
	// InstanceName returns the instance tag as written on the wire.
	InstanceName() string
	isCapabilityState()
}

// DeviceCapability is a capability as reported for a single device.
// State is the only field callers are expected to replace, when staging
// a pending action.
type DeviceCapability struct {
	Type        CapabilityType       `json:"type"`
	Retrievable bool                 `json:"retrievable"`
	Reportable  bool                 `json:"reportable"`
	Parameters  CapabilityParameters `json:"parameters,omitempty"`
	State       CapabilityState      `json:"state"`
	LastUpdated float64              `json:"last_updated"`
}

// GroupCapability is a capability as reported for a device group. Groups do
// not report per-device freshness, so there is no Reportable or LastUpdated.
type GroupCapability struct {
	Type        CapabilityType       `json:"type"`
	Retrievable bool                 `json:"retrievable"`
	Parameters  CapabilityParameters `json:"parameters,omitempty"`
	State       CapabilityState      `json:"state"`
}

// UnmarshalJSON decodes a capability through the capability registry.
func (c *DeviceCapability) UnmarshalJSON(data []byte) error {
	decoded, err := decodeDeviceCapability("", data)
	if err != nil {
		return err
	}
	*c = decoded
	return nil
}

// UnmarshalJSON decodes a group capability through the capability registry.
func (c *GroupCapability) UnmarshalJSON(data []byte) error {
	decoded, err := decodeGroupCapability("", data)
	if err != nil {
		return err
	}
	*c = decoded
	return nil
}

// On/off

// OnOffParameters configures an on_off capability.
type OnOffParameters struct {
	// Split is true when the device exposes separate on and off commands.
	Split bool `json:"split"`
}

// OnOffState is the state of an on_off capability.
type OnOffState struct {
	Instance OnOffInstance `json:"instance"`
	Value    bool          `json:"value"`
}

// NewOnOff returns an on_off state for the "on" instance.
func NewOnOff(on bool) OnOffState {
	return OnOffState{Instance: InstanceOn, Value: on}
}

// Color setting

// TemperatureKRange is the supported color temperature range in Kelvin.
type TemperatureKRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ColorSceneOption is one scene supported by a light.
type ColorSceneOption struct {
	ID ColorScene `json:"id"`
}

// ColorSceneParameters lists the scenes supported by a light.
type ColorSceneParameters struct {
	Scenes []ColorSceneOption `json:"scenes"`
}

// ColorSettingParameters configures a color_setting capability. Each of the
// three parts is optional and present only when the device supports it.
type ColorSettingParameters struct {
	ColorModel   *ColorModel           `json:"color_model,omitempty"`
	TemperatureK *TemperatureKRange    `json:"temperature_k,omitempty"`
	ColorScene   *ColorSceneParameters `json:"color_scene,omitempty"`
}

// ColorValue is the value of a color_setting state. It is one of
// ColorInteger, HSV or ColorScene, depending on the state instance.
type ColorValue interface {
	isColorValue()
}

// ColorInteger is the value used by the rgb and temperature_k instances.
type ColorInteger int

// HSV is the value used by the hsv instance.
type HSV struct {
	H int `json:"h"`
	S int `json:"s"`
	V int `json:"v"`
}

func (ColorInteger) isColorValue() {}
func (HSV) isColorValue()          {}
func (ColorScene) isColorValue()   {}

// ColorSettingState is the state of a color_setting capability.
type ColorSettingState struct {
	Instance ColorInstance `json:"instance"`
	Value    ColorValue    `json:"value"`
}

// MarshalJSON rejects a value whose shape does not match the instance.
func (s ColorSettingState) MarshalJSON() ([]byte, error) {
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("yandexhome: encode state: %w", err)
	}
	type colorSettingState ColorSettingState
	return marshalJSON(colorSettingState(s))
}

// NewTemperatureK returns a color temperature state.
func NewTemperatureK(kelvin int) ColorSettingState {
	return ColorSettingState{Instance: ColorInstanceTemperatureK, Value: ColorInteger(kelvin)}
}

// NewRGB returns an rgb state from a packed 0xRRGGBB integer.
func NewRGB(rgb int) ColorSettingState {
	return ColorSettingState{Instance: ColorInstanceRGB, Value: ColorInteger(rgb)}
}

// NewHSV returns an hsv state.
func NewHSV(h, s, v int) ColorSettingState {
	return ColorSettingState{Instance: ColorInstanceHSV, Value: HSV{H: h, S: s, V: v}}
}

// NewScene returns a scene state.
func NewScene(scene ColorScene) ColorSettingState {
	return ColorSettingState{Instance: ColorInstanceScene, Value: scene}
}

// validate checks that the value shape matches the instance.
func (s ColorSettingState) validate() error {
	var ok bool
	switch s.Instance {
	case ColorInstanceRGB, ColorInstanceTemperatureK:
		_, ok = s.Value.(ColorInteger)
	case ColorInstanceHSV:
		_, ok = s.Value.(HSV)
	case ColorInstanceScene:
		_, ok = s.Value.(ColorScene)
	default:
		return fmt.Errorf("unknown color instance %q", s.Instance)
	}
	if !ok {
		return fmt.Errorf("color instance %q cannot carry a %T value", s.Instance, s.Value)
	}
	return nil
}

// Range

// RangeBounds is the numeric domain of a range capability.
type RangeBounds struct {
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Precision float64 `json:"precision"`
}

// RangeParameters configures a range capability.
type RangeParameters struct {
	Instance     RangeInstance `json:"instance"`
	Unit         Unit          `json:"unit,omitempty"`
	RandomAccess bool          `json:"random_access"`
	Range        *RangeBounds  `json:"range,omitempty"`
}

// RangeState is the state of a range capability. Relative is only meaningful
// in action requests, where it asks the device to add Value to its current value.
type RangeState struct {
	Instance RangeInstance `json:"instance"`
	Value    float64       `json:"value"`
	Relative bool          `json:"relative,omitempty"`
}

// NewRange returns an absolute range state.
func NewRange(instance RangeInstance, value float64) RangeState {
	return RangeState{Instance: instance, Value: value}
}

// Mode

// ModeOption is one selectable value of a mode capability.
type ModeOption struct {
	Value ModeValue `json:"value"`
}

// ModeParameters configures a mode capability.
type ModeParameters struct {
	Instance ModeInstance `json:"instance"`
	Modes    []ModeOption `json:"modes"`
}

// Supports reports whether value is in the declared mode list.
func (p ModeParameters) Supports(value ModeValue) bool {
	for _, m := range p.Modes {
		if m.Value == value {
			return true
		}
	}
	return false
}

// ModeState is the state of a mode capability.
type ModeState struct {
	Instance ModeInstance `json:"instance"`
	Value    ModeValue    `json:"value"`
}

// Toggle

// ToggleParameters configures a toggle capability.
type ToggleParameters struct {
	Instance ToggleInstance `json:"instance"`
}

// ToggleState is the state of a toggle capability.
type ToggleState struct {
	Instance ToggleInstance `json:"instance"`
	Value    bool           `json:"value"`
}

// Video stream

// VideoStreamParameters configures a video_stream capability.
type VideoStreamParameters struct {
	Protocols []StreamProtocol `json:"protocols"`
}

// VideoStreamValue is a stream request (Protocols) or a stream answer
// (StreamURL and Protocol).
type VideoStreamValue struct {
	Protocols []StreamProtocol `json:"protocols,omitempty"`
	StreamURL string           `json:"stream_url,omitempty"`
	Protocol  StreamProtocol   `json:"protocol,omitempty"`
}

// VideoStreamState is the state of a video_stream capability.
type VideoStreamState struct {
	Instance VideoStreamInstance `json:"instance"`
	Value    VideoStreamValue    `json:"value"`
}

// Unknown

// UnknownCapabilityParameters holds parameters of a capability kind this
// package does not model. Raw is written back verbatim on encode.
type UnknownCapabilityParameters struct {
	Type CapabilityType
	Raw  json.RawMessage
}

// MarshalJSON returns the original parameters object.
func (p UnknownCapabilityParameters) MarshalJSON() ([]byte, error) {
	return rawOrNull(p.Raw), nil
}

// UnknownCapabilityState holds a state whose kind, or whose instance within a
// known kind, is not modeled. Raw is written back verbatim on encode.
type UnknownCapabilityState struct {
	Type     CapabilityType
	Instance string
	Raw      json.RawMessage
}

// MarshalJSON returns the original state object.
func (s UnknownCapabilityState) MarshalJSON() ([]byte, error) {
	return rawOrNull(s.Raw), nil
}

func rawOrNull(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	return raw
}

func (OnOffParameters) CapabilityType() CapabilityType        { return CapabilityOnOff }
func (ColorSettingParameters) CapabilityType() CapabilityType { return CapabilityColorSetting }
func (RangeParameters) CapabilityType() CapabilityType        { return CapabilityRange }
func (ModeParameters) CapabilityType() CapabilityType         { return CapabilityMode }
func (ToggleParameters) CapabilityType() CapabilityType       { return CapabilityToggle }
func (VideoStreamParameters) CapabilityType() CapabilityType  { return CapabilityVideoStream }
func (p UnknownCapabilityParameters) CapabilityType() CapabilityType {
	return p.Type
}

func (OnOffParameters) isCapabilityParameters()             {}
func (ColorSettingParameters) isCapabilityParameters()      {}
func (RangeParameters) isCapabilityParameters()             {}
func (ModeParameters) isCapabilityParameters()              {}
func (ToggleParameters) isCapabilityParameters()            {}
func (VideoStreamParameters) isCapabilityParameters()       {}
func (UnknownCapabilityParameters) isCapabilityParameters() {}

func (OnOffState) CapabilityType() CapabilityType        { return CapabilityOnOff }
func (ColorSettingState) CapabilityType() CapabilityType { return CapabilityColorSetting }
func (RangeState) CapabilityType() CapabilityType        { return CapabilityRange }
func (ModeState) CapabilityType() CapabilityType         { return CapabilityMode }
func (ToggleState) CapabilityType() CapabilityType       { return CapabilityToggle }
func (VideoStreamState) CapabilityType() CapabilityType  { return CapabilityVideoStream }
func (s UnknownCapabilityState) CapabilityType() CapabilityType {
	return s.Type
}

func (s OnOffState) InstanceName() string             { return string(s.Instance) }
func (s ColorSettingState) InstanceName() string      { return string(s.Instance) }
func (s RangeState) InstanceName() string             { return string(s.Instance) }
func (s ModeState) InstanceName() string              { return string(s.Instance) }
func (s ToggleState) InstanceName() string            { return string(s.Instance) }
func (s VideoStreamState) InstanceName() string       { return string(s.Instance) }
func (s UnknownCapabilityState) InstanceName() string { return s.Instance }

func (OnOffState) isCapabilityState()             {}
func (ColorSettingState) isCapabilityState()      {}
func (RangeState) isCapabilityState()             {}
func (ModeState) isCapabilityState()              {}
func (ToggleState) isCapabilityState()            {}
func (VideoStreamState) isCapabilityState()       {}
func (UnknownCapabilityState) isCapabilityState() {}
