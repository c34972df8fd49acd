package yandexhome

import (
	"encoding/json"
	"fmt"
)

// capabilityKind holds the decoders for one capability kind.
type capabilityKind struct {
	parameters func(raw []byte) (CapabilityParameters, error)
	state      func(w stateWire) (CapabilityState, error)
}

// propertyKind holds the decoders for one property kind.
type propertyKind struct {
	parameters func(raw []byte) (PropertyParameters, error)
	state      func(w stateWire) (PropertyState, error)
}

// capabilityKinds is the capability registry. Decoding dispatches only through
// this table; a kind missing here decodes to the unknown variants.
var capabilityKinds = map[CapabilityType]capabilityKind{
	CapabilityOnOff: {
		parameters: decodeCapabilityParameters[OnOffParameters],
		state:      decodeOnOffState,
	},
	CapabilityColorSetting: {
		parameters: decodeCapabilityParameters[ColorSettingParameters],
		state:      decodeColorSettingState,
	},
	CapabilityRange: {
		parameters: decodeCapabilityParameters[RangeParameters],
		state:      decodeRangeState,
	},
	CapabilityMode: {
		parameters: decodeCapabilityParameters[ModeParameters],
		state:      decodeModeState,
	},
	CapabilityToggle: {
		parameters: decodeCapabilityParameters[ToggleParameters],
		state:      decodeToggleState,
	},
	CapabilityVideoStream: {
		parameters: decodeCapabilityParameters[VideoStreamParameters],
		state:      decodeVideoStreamState,
	},
}

// propertyKinds is the property registry.
var propertyKinds = map[PropertyType]propertyKind{
	PropertyFloat: {
		parameters: decodePropertyParameters[FloatParameters],
		state:      decodeFloatState,
	},
	PropertyEvent: {
		parameters: decodePropertyParameters[EventParameters],
		state:      decodeEventState,
	},
}

// DecodeCapabilityParameters decodes the parameters object of a capability
// of the given kind. A null or empty input yields nil parameters.
func DecodeCapabilityParameters(kind CapabilityType, raw []byte) (CapabilityParameters, error) {
	return decodeCapabilityParametersAt("parameters", kind, raw)
}

// DecodeCapabilityState decodes the state object of a capability of the
// given kind. A null or empty input yields a nil state.
func DecodeCapabilityState(kind CapabilityType, raw []byte) (CapabilityState, error) {
	return decodeCapabilityStateAt("state", kind, raw)
}

// EncodeCapabilityState encodes a state to its wire object. A color_setting
// state whose value does not fit its instance is rejected.
func EncodeCapabilityState(state CapabilityState) ([]byte, error) {
	if state == nil {
		return []byte("null"), nil
	}
	if cs, ok := state.(ColorSettingState); ok {
		if err := cs.validate(); err != nil {
			return nil, fmt.Errorf("yandexhome: encode state: %w", err)
		}
	}
	return marshalJSON(state)
}

// DecodePropertyParameters decodes the parameters object of a property of
// the given kind.
func DecodePropertyParameters(kind PropertyType, raw []byte) (PropertyParameters, error) {
	return decodePropertyParametersAt("parameters", kind, raw)
}

// DecodePropertyState decodes the state object of a property of the given kind.
func DecodePropertyState(kind PropertyType, raw []byte) (PropertyState, error) {
	return decodePropertyStateAt("state", kind, raw)
}

// EncodePropertyState encodes a property state to its wire object.
func EncodePropertyState(state PropertyState) ([]byte, error) {
	if state == nil {
		return []byte("null"), nil
	}
	return marshalJSON(state)
}

func decodeCapabilityParametersAt(path string, kind CapabilityType, raw []byte) (CapabilityParameters, error) {
	if isNull(raw) {
		return nil, nil
	}
	entry, ok := capabilityKinds[kind]
	if !ok {
		canon, err := canonicalJSON(raw)
		if err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		return UnknownCapabilityParameters{Type: kind, Raw: canon}, nil
	}
	params, err := entry.parameters(raw)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return params, nil
}

func decodeCapabilityStateAt(path string, kind CapabilityType, raw []byte) (CapabilityState, error) {
	if isNull(raw) {
		return nil, nil
	}
	entry, known := capabilityKinds[kind]
	w, err := parseState(path, raw, known)
	if err != nil {
		return nil, err
	}
	if !known {
		return w.unknownCapability(kind), nil
	}
	return entry.state(w)
}

func decodePropertyParametersAt(path string, kind PropertyType, raw []byte) (PropertyParameters, error) {
	if isNull(raw) {
		return nil, nil
	}
	entry, ok := propertyKinds[kind]
	if !ok {
		canon, err := canonicalJSON(raw)
		if err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		return UnknownPropertyParameters{Type: kind, Raw: canon}, nil
	}
	params, err := entry.parameters(raw)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return params, nil
}

func decodePropertyStateAt(path string, kind PropertyType, raw []byte) (PropertyState, error) {
	if isNull(raw) {
		return nil, nil
	}
	entry, known := propertyKinds[kind]
	w, err := parseState(path, raw, known)
	if err != nil {
		return nil, err
	}
	if !known {
		return w.unknownProperty(kind), nil
	}
	return entry.state(w)
}

func decodeCapabilityParameters[T CapabilityParameters](raw []byte) (CapabilityParameters, error) {
	var params T
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	return params, nil
}

func decodePropertyParameters[T PropertyParameters](raw []byte) (PropertyParameters, error) {
	var params T
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	return params, nil
}

// stateWire is a state object split into its instance tag and raw value.
type stateWire struct {
	path     string
	instance string
	value    json.RawMessage
	relative json.RawMessage
	raw      json.RawMessage
}

// parseState splits a state object. For known kinds the state must be an
// object with an instance tag. States of unknown kinds only need to be valid
// JSON; their instance is read when present.
func parseState(path string, raw []byte, known bool) (stateWire, error) {
	canon, err := canonicalJSON(raw)
	if err != nil {
		return stateWire{}, &DecodeError{Path: path, Err: err}
	}
	w := stateWire{path: path, raw: canon}

	obj, err := parseObject(path, raw)
	if err != nil {
		if known {
			return stateWire{}, err
		}
		return w, nil
	}
	if err := obj.decode("instance", &w.instance, known); err != nil && known {
		return stateWire{}, err
	}
	w.value = obj.fields["value"]
	w.relative = obj.fields["relative"]
	return w, nil
}

// decodeValue decodes the value field into v. The field is required.
func (w stateWire) decodeValue(v any) error {
	if isNull(w.value) {
		return &DecodeError{Path: w.path, Field: "value", Err: ErrMissingField}
	}
	if err := json.Unmarshal(w.value, v); err != nil {
		return &DecodeError{Path: w.path, Field: "value", Err: err}
	}
	return nil
}

func (w stateWire) unknownCapability(kind CapabilityType) UnknownCapabilityState {
	return UnknownCapabilityState{Type: kind, Instance: w.instance, Raw: w.raw}
}

func (w stateWire) unknownProperty(kind PropertyType) UnknownPropertyState {
	return UnknownPropertyState{Type: kind, Instance: w.instance, Raw: w.raw}
}

func decodeOnOffState(w stateWire) (CapabilityState, error) {
	instance := OnOffInstance(w.instance)
	if !instance.IsKnown() {
		return w.unknownCapability(CapabilityOnOff), nil
	}
	var on bool
	if err := w.decodeValue(&on); err != nil {
		return nil, err
	}
	return OnOffState{Instance: instance, Value: on}, nil
}

func decodeColorSettingState(w stateWire) (CapabilityState, error) {
	instance := ColorInstance(w.instance)
	var value ColorValue
	switch instance {
	case ColorInstanceRGB, ColorInstanceTemperatureK:
		var n int
		if err := w.decodeValue(&n); err != nil {
			return nil, err
		}
		value = ColorInteger(n)
	case ColorInstanceHSV:
		var hsv HSV
		if err := w.decodeValue(&hsv); err != nil {
			return nil, err
		}
		value = hsv
	case ColorInstanceScene:
		var scene ColorScene
		if err := w.decodeValue(&scene); err != nil {
			return nil, err
		}
		value = scene
	default:
		return w.unknownCapability(CapabilityColorSetting), nil
	}
	return ColorSettingState{Instance: instance, Value: value}, nil
}

func decodeRangeState(w stateWire) (CapabilityState, error) {
	instance := RangeInstance(w.instance)
	if !instance.IsKnown() {
		return w.unknownCapability(CapabilityRange), nil
	}
	state := RangeState{Instance: instance}
	if err := w.decodeValue(&state.Value); err != nil {
		return nil, err
	}
	if !isNull(w.relative) {
		if err := json.Unmarshal(w.relative, &state.Relative); err != nil {
			return nil, &DecodeError{Path: w.path, Field: "relative", Err: err}
		}
	}
	return state, nil
}

func decodeModeState(w stateWire) (CapabilityState, error) {
	instance := ModeInstance(w.instance)
	if !instance.IsKnown() {
		return w.unknownCapability(CapabilityMode), nil
	}
	state := ModeState{Instance: instance}
	if err := w.decodeValue(&state.Value); err != nil {
		return nil, err
	}
	return state, nil
}

func decodeToggleState(w stateWire) (CapabilityState, error) {
	instance := ToggleInstance(w.instance)
	if !instance.IsKnown() {
		return w.unknownCapability(CapabilityToggle), nil
	}
	state := ToggleState{Instance: instance}
	if err := w.decodeValue(&state.Value); err != nil {
		return nil, err
	}
	return state, nil
}

func decodeVideoStreamState(w stateWire) (CapabilityState, error) {
	instance := VideoStreamInstance(w.instance)
	if !instance.IsKnown() {
		return w.unknownCapability(CapabilityVideoStream), nil
	}
	state := VideoStreamState{Instance: instance}
	if err := w.decodeValue(&state.Value); err != nil {
		return nil, err
	}
	if len(state.Value.Protocols) == 0 {
		state.Value.Protocols = nil
	}
	return state, nil
}

func decodeFloatState(w stateWire) (PropertyState, error) {
	instance := FloatInstance(w.instance)
	if !instance.IsKnown() {
		return w.unknownProperty(PropertyFloat), nil
	}
	state := FloatState{Instance: instance}
	if err := w.decodeValue(&state.Value); err != nil {
		return nil, err
	}
	return state, nil
}

func decodeEventState(w stateWire) (PropertyState, error) {
	instance := EventInstance(w.instance)
	if !instance.IsKnown() {
		return w.unknownProperty(PropertyEvent), nil
	}
	state := EventState{Instance: instance}
	if err := w.decodeValue(&state.Value); err != nil {
		return nil, err
	}
	return state, nil
}
