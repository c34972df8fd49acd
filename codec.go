package yandexhome

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const statusOK = "ok"

// DecodeUserInfo decodes a user info response. Missing required fields are
// reported as a *DecodeError naming the field and where it was expected.
func DecodeUserInfo(raw []byte) (*UserInfo, error) {
	obj, err := parseObject("", raw)
	if err != nil {
		return nil, err
	}
	info := &UserInfo{}
	if err := obj.decode("status", &info.Status, false); err != nil {
		return nil, err
	}
	if err := obj.decode("request_id", &info.RequestID, false); err != nil {
		return nil, err
	}
	home, err := decodeSmartHome(obj)
	if err != nil {
		return nil, err
	}
	info.SmartHome = home
	return info, nil
}

// DecodeSmartHome decodes an account snapshot. It is the inverse of
// EncodeSmartHome.
func DecodeSmartHome(raw []byte) (*SmartHome, error) {
	obj, err := parseObject("", raw)
	if err != nil {
		return nil, err
	}
	home, err := decodeSmartHome(obj)
	if err != nil {
		return nil, err
	}
	return &home, nil
}

// EncodeSmartHome encodes an account snapshot. Nil lists are written as [].
func EncodeSmartHome(home *SmartHome) ([]byte, error) {
	if home == nil {
		home = &SmartHome{}
	}
	return marshalJSON(home)
}

// EncodeUserInfo encodes a user info response.
func EncodeUserInfo(info *UserInfo) ([]byte, error) {
	if info == nil {
		info = &UserInfo{}
	}
	return marshalJSON(info)
}

// DecodeDeviceState decodes a device state response.
func DecodeDeviceState(raw []byte) (*Device, error) {
	obj, err := parseObject("", raw)
	if err != nil {
		return nil, err
	}
	device, err := decodeDevice(obj)
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// DecodeGroupCapabilities decodes a JSON array of group capabilities.
func DecodeGroupCapabilities(raw []byte) ([]GroupCapability, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return decodeList(items, "", decodeGroupCapability)
}

// DecodeGroupInfo decodes a group response.
func DecodeGroupInfo(raw []byte) (*GroupInfo, error) {
	obj, err := parseObject("", raw)
	if err != nil {
		return nil, err
	}
	g := &GroupInfo{}
	if err := obj.decode("status", &g.Status, false); err != nil {
		return nil, err
	}
	if err := obj.decode("request_id", &g.RequestID, false); err != nil {
		return nil, err
	}
	if g.ID, err = obj.requiredString("id"); err != nil {
		return nil, err
	}
	if g.Name, err = obj.requiredString("name"); err != nil {
		return nil, err
	}
	if err := obj.decode("type", &g.Type, true); err != nil {
		return nil, err
	}
	if err := obj.decode("state", &g.State, false); err != nil {
		return nil, err
	}
	if g.Aliases, err = obj.strings("aliases", false); err != nil {
		return nil, err
	}
	caps, err := obj.list("capabilities", true)
	if err != nil {
		return nil, err
	}
	if g.Capabilities, err = decodeList(caps, obj.at("capabilities"), decodeGroupCapability); err != nil {
		return nil, err
	}
	devices, err := obj.list("devices", true)
	if err != nil {
		return nil, err
	}
	if g.Devices, err = decodeList(devices, obj.at("devices"), decodeGroupDevice); err != nil {
		return nil, err
	}
	return g, nil
}

// DecodeActionResponse decodes the response of an action request.
func DecodeActionResponse(raw []byte) (*ActionResponse, error) {
	var resp ActionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &resp, nil
}

func decodeSmartHome(obj object) (SmartHome, error) {
	var home SmartHome
	rooms, err := obj.list("rooms", true)
	if err != nil {
		return home, err
	}
	groups, err := obj.list("groups", true)
	if err != nil {
		return home, err
	}
	devices, err := obj.list("devices", true)
	if err != nil {
		return home, err
	}
	scenarios, err := obj.list("scenarios", true)
	if err != nil {
		return home, err
	}
	households, err := obj.list("households", true)
	if err != nil {
		return home, err
	}

	if home.Rooms, err = decodeList(rooms, obj.at("rooms"), decodeRoom); err != nil {
		return home, err
	}
	if home.Groups, err = decodeList(groups, obj.at("groups"), decodeGroup); err != nil {
		return home, err
	}
	if home.Devices, err = decodeList(devices, obj.at("devices"), decodeDeviceAt); err != nil {
		return home, err
	}
	if home.Scenarios, err = decodeList(scenarios, obj.at("scenarios"), decodeScenario); err != nil {
		return home, err
	}
	if home.Households, err = decodeList(households, obj.at("households"), decodeHousehold); err != nil {
		return home, err
	}
	return home, nil
}

func decodeRoom(path string, raw []byte) (Room, error) {
	var r Room
	obj, err := parseObject(path, raw)
	if err != nil {
		return r, err
	}
	if r.ID, err = obj.requiredString("id"); err != nil {
		return r, err
	}
	if r.Name, err = obj.requiredString("name"); err != nil {
		return r, err
	}
	if err := obj.decode("household_id", &r.HouseholdID, false); err != nil {
		return r, err
	}
	if r.Devices, err = obj.strings("devices", true); err != nil {
		return r, err
	}
	return r, nil
}

func decodeGroup(path string, raw []byte) (Group, error) {
	var g Group
	obj, err := parseObject(path, raw)
	if err != nil {
		return g, err
	}
	if g.ID, err = obj.requiredString("id"); err != nil {
		return g, err
	}
	if g.Name, err = obj.requiredString("name"); err != nil {
		return g, err
	}
	if err := obj.decode("type", &g.Type, true); err != nil {
		return g, err
	}
	if g.Aliases, err = obj.strings("aliases", false); err != nil {
		return g, err
	}
	if err := obj.decode("household_id", &g.HouseholdID, false); err != nil {
		return g, err
	}
	if err := obj.decode("state", &g.State, false); err != nil {
		return g, err
	}
	if g.Devices, err = obj.strings("devices", true); err != nil {
		return g, err
	}
	caps, err := obj.list("capabilities", true)
	if err != nil {
		return g, err
	}
	if g.Capabilities, err = decodeList(caps, obj.at("capabilities"), decodeGroupCapability); err != nil {
		return g, err
	}
	return g, nil
}

func decodeDeviceAt(path string, raw []byte) (Device, error) {
	obj, err := parseObject(path, raw)
	if err != nil {
		return Device{}, err
	}
	return decodeDevice(obj)
}

func decodeDevice(obj object) (Device, error) {
	var d Device
	var err error
	if d.ID, err = obj.requiredString("id"); err != nil {
		return d, err
	}
	if d.Name, err = obj.requiredString("name"); err != nil {
		return d, err
	}
	if err := obj.decode("type", &d.Type, true); err != nil {
		return d, err
	}
	if d.Aliases, err = obj.strings("aliases", false); err != nil {
		return d, err
	}
	optional := []struct {
		name string
		v    any
	}{
		{"state", &d.State},
		{"external_id", &d.ExternalID},
		{"skill_id", &d.SkillID},
		{"household_id", &d.HouseholdID},
		{"room", &d.Room},
		{"quasar_info", &d.QuasarInfo},
	}
	for _, f := range optional {
		if err := obj.decode(f.name, f.v, false); err != nil {
			return d, err
		}
	}
	if d.Groups, err = obj.strings("groups", false); err != nil {
		return d, err
	}
	caps, err := obj.list("capabilities", true)
	if err != nil {
		return d, err
	}
	props, err := obj.list("properties", true)
	if err != nil {
		return d, err
	}
	if d.Capabilities, err = decodeList(caps, obj.at("capabilities"), decodeDeviceCapability); err != nil {
		return d, err
	}
	if d.Properties, err = decodeList(props, obj.at("properties"), decodeDeviceProperty); err != nil {
		return d, err
	}
	return d, nil
}

func decodeScenario(path string, raw []byte) (Scenario, error) {
	var s Scenario
	obj, err := parseObject(path, raw)
	if err != nil {
		return s, err
	}
	if s.ID, err = obj.requiredString("id"); err != nil {
		return s, err
	}
	if s.Name, err = obj.requiredString("name"); err != nil {
		return s, err
	}
	if err := obj.decode("is_active", &s.IsActive, false); err != nil {
		return s, err
	}
	return s, nil
}

func decodeHousehold(path string, raw []byte) (Household, error) {
	var h Household
	obj, err := parseObject(path, raw)
	if err != nil {
		return h, err
	}
	if h.ID, err = obj.requiredString("id"); err != nil {
		return h, err
	}
	if h.Name, err = obj.requiredString("name"); err != nil {
		return h, err
	}
	if err := obj.decode("type", &h.Type, false); err != nil {
		return h, err
	}
	return h, nil
}

func decodeGroupDevice(path string, raw []byte) (GroupDevice, error) {
	var d GroupDevice
	obj, err := parseObject(path, raw)
	if err != nil {
		return d, err
	}
	if d.ID, err = obj.requiredString("id"); err != nil {
		return d, err
	}
	if err := obj.decode("name", &d.Name, false); err != nil {
		return d, err
	}
	if err := obj.decode("type", &d.Type, false); err != nil {
		return d, err
	}
	return d, nil
}

func decodeDeviceCapability(path string, raw []byte) (DeviceCapability, error) {
	var c DeviceCapability
	obj, err := parseObject(path, raw)
	if err != nil {
		return c, err
	}
	if err := obj.decode("type", &c.Type, true); err != nil {
		return c, err
	}
	if err := obj.decode("retrievable", &c.Retrievable, false); err != nil {
		return c, err
	}
	if err := obj.decode("reportable", &c.Reportable, false); err != nil {
		return c, err
	}
	if err := obj.decode("last_updated", &c.LastUpdated, false); err != nil {
		return c, err
	}
	if c.Parameters, err = decodeCapabilityParametersAt(obj.at("parameters"), c.Type, obj.fields["parameters"]); err != nil {
		return c, err
	}
	if c.State, err = decodeCapabilityStateAt(obj.at("state"), c.Type, obj.fields["state"]); err != nil {
		return c, err
	}
	return c, nil
}

func decodeGroupCapability(path string, raw []byte) (GroupCapability, error) {
	var c GroupCapability
	obj, err := parseObject(path, raw)
	if err != nil {
		return c, err
	}
	if err := obj.decode("type", &c.Type, true); err != nil {
		return c, err
	}
	if err := obj.decode("retrievable", &c.Retrievable, false); err != nil {
		return c, err
	}
	if c.Parameters, err = decodeCapabilityParametersAt(obj.at("parameters"), c.Type, obj.fields["parameters"]); err != nil {
		return c, err
	}
	if c.State, err = decodeCapabilityStateAt(obj.at("state"), c.Type, obj.fields["state"]); err != nil {
		return c, err
	}
	return c, nil
}

func decodeDeviceProperty(path string, raw []byte) (DeviceProperty, error) {
	var p DeviceProperty
	obj, err := parseObject(path, raw)
	if err != nil {
		return p, err
	}
	if err := obj.decode("type", &p.Type, true); err != nil {
		return p, err
	}
	if err := obj.decode("retrievable", &p.Retrievable, false); err != nil {
		return p, err
	}
	if err := obj.decode("reportable", &p.Reportable, false); err != nil {
		return p, err
	}
	if err := obj.decode("last_updated", &p.LastUpdated, false); err != nil {
		return p, err
	}
	if p.Parameters, err = decodePropertyParametersAt(obj.at("parameters"), p.Type, obj.fields["parameters"]); err != nil {
		return p, err
	}
	if p.State, err = decodePropertyStateAt(obj.at("state"), p.Type, obj.fields["state"]); err != nil {
		return p, err
	}
	return p, nil
}

// decodeList decodes each element with decode, passing the element path.
// An empty list decodes to nil.
func decodeList[T any](items []json.RawMessage, path string, decode func(path string, raw []byte) (T, error)) ([]T, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := decode(fmt.Sprintf("%s[%d]", path, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// object is a decoded JSON object that remembers where it was found.
type object struct {
	path   string
	fields map[string]json.RawMessage
}

var errNotObject = errors.New("expected a JSON object")

func parseObject(path string, raw []byte) (object, error) {
	if isNull(raw) {
		return object{}, &DecodeError{Path: path, Err: errNotObject}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return object{}, &DecodeError{Path: path, Err: err}
	}
	return object{path: path, fields: fields}, nil
}

// at returns the path of a field of o.
func (o object) at(field string) string {
	return joinPath(o.path, field)
}

func (o object) missing(name string) error {
	return &DecodeError{Path: o.path, Field: name, Err: ErrMissingField}
}

// decode unmarshals field name into v. A required field that is absent or
// null is an error; an optional one leaves v untouched.
func (o object) decode(name string, v any, required bool) error {
	raw, ok := o.fields[name]
	if !ok || isNull(raw) {
		if required {
			return o.missing(name)
		}
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &DecodeError{Path: o.path, Field: name, Err: err}
	}
	return nil
}

func (o object) requiredString(name string) (string, error) {
	var s string
	err := o.decode(name, &s, true)
	return s, err
}

// strings decodes a list of strings. An empty list decodes to nil.
func (o object) strings(name string, required bool) ([]string, error) {
	var s []string
	if err := o.decode(name, &s, required); err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, nil
	}
	return s, nil
}

// list splits an array field into its raw elements.
func (o object) list(name string, required bool) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := o.decode(name, &items, required); err != nil {
		return nil, err
	}
	return items, nil
}

func joinPath(path, field string) string {
	switch {
	case path == "":
		return field
	case field == "":
		return path
	default:
		return path + "." + field
	}
}

func isNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// canonicalJSON validates raw and returns it compacted. String contents are
// kept as they are, so unknown codes are written back unchanged.
func canonicalJSON(raw []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// marshalJSON is json.Marshal without HTML escaping of &, < and >.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
