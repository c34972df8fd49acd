package yandexhome

import "encoding/json"

// PropertyParameters is the static configuration of a property.
type PropertyParameters interface {
	PropertyType() PropertyType
	isPropertyParameters()
}

// PropertyState is the last reported value of a property.
type PropertyState interface {
	PropertyType() PropertyType
	// InstanceName returns the instance tag as written on the wire.
	InstanceName() string
	isPropertyState()
}

// DeviceProperty is a read-only sensor reading of a device.
type DeviceProperty struct {
	Type        PropertyType       `json:"type"`
	Retrievable bool               `json:"retrievable"`
	Reportable  bool               `json:"reportable"`
	Parameters  PropertyParameters `json:"parameters,omitempty"`
	State       PropertyState      `json:"state"`
	LastUpdated float64            `json:"last_updated"`
}

// UnmarshalJSON decodes a property through the property registry.
func (p *DeviceProperty) UnmarshalJSON(data []byte) error {
	decoded, err := decodeDeviceProperty("", data)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// FloatParameters configures a float property.
type FloatParameters struct {
	Instance FloatInstance `json:"instance"`
	Unit     Unit          `json:"unit,omitempty"`
}

// FloatState is a numeric sensor reading.
type FloatState struct {
	Instance FloatInstance `json:"instance"`
	Value    float64       `json:"value"`
}

// EventOption is one event value an event property can report.
type EventOption struct {
	Value EventValue `json:"value"`
}

// EventParameters configures an event property.
type EventParameters struct {
	Instance EventInstance `json:"instance"`
	Events   []EventOption `json:"events"`
}

// EventState is the last discrete event reported by a sensor.
type EventState struct {
	Instance EventInstance `json:"instance"`
	Value    EventValue    `json:"value"`
}

// UnknownPropertyParameters holds parameters of a property kind this package
// does not model.
type UnknownPropertyParameters struct {
	Type PropertyType
	Raw  json.RawMessage
}

// MarshalJSON returns the original parameters object.
func (p UnknownPropertyParameters) MarshalJSON() ([]byte, error) {
	return rawOrNull(p.Raw), nil
}

// UnknownPropertyState holds a property state whose kind or instance is not
// modeled.
type UnknownPropertyState struct {
	Type     PropertyType
	Instance string
	Raw      json.RawMessage
}

// MarshalJSON returns the original state object.
func (s UnknownPropertyState) MarshalJSON() ([]byte, error) {
	return rawOrNull(s.Raw), nil
}

func (FloatParameters) PropertyType() PropertyType             { return PropertyFloat }
func (EventParameters) PropertyType() PropertyType             { return PropertyEvent }
func (p UnknownPropertyParameters) PropertyType() PropertyType { return p.Type }

func (FloatParameters) isPropertyParameters()           {}
func (EventParameters) isPropertyParameters()           {}
func (UnknownPropertyParameters) isPropertyParameters() {}

func (FloatState) PropertyType() PropertyType             { return PropertyFloat }
func (EventState) PropertyType() PropertyType             { return PropertyEvent }
func (s UnknownPropertyState) PropertyType() PropertyType { return s.Type }

func (s FloatState) InstanceName() string           { return string(s.Instance) }
func (s EventState) InstanceName() string           { return string(s.Instance) }
func (s UnknownPropertyState) InstanceName() string { return s.Instance }

func (FloatState) isPropertyState()           {}
func (EventState) isPropertyState()           {}
func (UnknownPropertyState) isPropertyState() {}
