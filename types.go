package yandexhome

// SmartHome is the whole account snapshot returned by the user info endpoint.
type SmartHome struct {
	Rooms      []Room      `json:"rooms"`
	Groups     []Group     `json:"groups"`
	Devices    []Device    `json:"devices"`
	Scenarios  []Scenario  `json:"scenarios"`
	Households []Household `json:"households"`
}

// UserInfo is the user info response: the envelope plus the account snapshot.
type UserInfo struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
	SmartHome
}

// Room is a named container of devices within a household.
type Room struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	HouseholdID string   `json:"household_id,omitempty"`
	Devices     []string `json:"devices"`
}

// Group is a set of same-type devices controlled together.
type Group struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Aliases      []string          `json:"aliases"`
	Type         DeviceType        `json:"type"`
	HouseholdID  string            `json:"household_id,omitempty"`
	State        DeviceState       `json:"state,omitempty"`
	Devices      []string          `json:"devices"`
	Capabilities []GroupCapability `json:"capabilities"`
}

// Device is a controllable or sensing device.
type Device struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Aliases      []string           `json:"aliases"`
	Type         DeviceType         `json:"type"`
	State        DeviceState        `json:"state,omitempty"`
	ExternalID   string             `json:"external_id,omitempty"`
	SkillID      string             `json:"skill_id,omitempty"`
	HouseholdID  string             `json:"household_id,omitempty"`
	Room         string             `json:"room,omitempty"`
	Groups       []string           `json:"groups"`
	Capabilities []DeviceCapability `json:"capabilities"`
	Properties   []DeviceProperty   `json:"properties"`
	QuasarInfo   *QuasarInfo        `json:"quasar_info,omitempty"`
}

// QuasarInfo identifies the speaker behind a smart speaker device.
type QuasarInfo struct {
	DeviceID string `json:"device_id"`
	Platform string `json:"platform"`
}

// Scenario is a user-defined automation. Scenarios are listed, not run.
type Scenario struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Household is a top-level grouping of rooms.
type Household struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// GroupInfo is the response of the group endpoint.
type GroupInfo struct {
	Status       string            `json:"status"`
	RequestID    string            `json:"request_id"`
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Aliases      []string          `json:"aliases"`
	Type         DeviceType        `json:"type"`
	State        DeviceState       `json:"state,omitempty"`
	Capabilities []GroupCapability `json:"capabilities"`
	Devices      []GroupDevice     `json:"devices"`
}

// GroupDevice is a member device as listed by the group endpoint.
type GroupDevice struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Type DeviceType `json:"type"`
}

// Device looks up a device by id.
func (h *SmartHome) Device(id string) (*Device, bool) {
	for i := range h.Devices {
		if h.Devices[i].ID == id {
			return &h.Devices[i], true
		}
	}
	return nil, false
}

// Group looks up a group by id.
func (h *SmartHome) Group(id string) (*Group, bool) {
	for i := range h.Groups {
		if h.Groups[i].ID == id {
			return &h.Groups[i], true
		}
	}
	return nil, false
}

// Room looks up a room by id.
func (h *SmartHome) Room(id string) (*Room, bool) {
	for i := range h.Rooms {
		if h.Rooms[i].ID == id {
			return &h.Rooms[i], true
		}
	}
	return nil, false
}

// DevicesInRoom returns the devices whose room is roomID, in listing order.
func (h *SmartHome) DevicesInRoom(roomID string) []*Device {
	var devices []*Device
	for i := range h.Devices {
		if h.Devices[i].Room == roomID {
			devices = append(devices, &h.Devices[i])
		}
	}
	return devices
}

// Capability returns the first capability of the given kind.
func (d *Device) Capability(kind CapabilityType) (*DeviceCapability, bool) {
	for i := range d.Capabilities {
		if d.Capabilities[i].Type == kind {
			return &d.Capabilities[i], true
		}
	}
	return nil, false
}

// CapabilityInstance returns the capability of the given kind whose
// parameters or state declare instance. Range, mode and toggle devices
// carry one capability per instance.
func (d *Device) CapabilityInstance(kind CapabilityType, instance string) (*DeviceCapability, bool) {
	for i := range d.Capabilities {
		c := &d.Capabilities[i]
		if c.Type == kind && capabilityDeclares(c.Parameters, c.State, instance) {
			return c, true
		}
	}
	return nil, false
}

// Property returns the property of the given kind and instance.
func (d *Device) Property(kind PropertyType, instance string) (*DeviceProperty, bool) {
	for i := range d.Properties {
		p := &d.Properties[i]
		if p.Type != kind {
			continue
		}
		if p.State != nil && p.State.InstanceName() == instance {
			return p, true
		}
		if propertyParametersInstance(p.Parameters) == instance {
			return p, true
		}
	}
	return nil, false
}

// IsOn reports the on_off state of the device. ok is false when the device
// has no on_off capability or its state is unknown.
func (d *Device) IsOn() (on, ok bool) {
	c, found := d.Capability(CapabilityOnOff)
	if !found {
		return false, false
	}
	s, isOnOff := c.State.(OnOffState)
	if !isOnOff {
		return false, false
	}
	return s.Value, true
}

// MarshalJSON writes empty lists as [] rather than null.
func (h SmartHome) MarshalJSON() ([]byte, error) {
	type smartHome SmartHome
	return marshalJSON(smartHome(h.withLists()))
}

func (h SmartHome) withLists() SmartHome {
	h.Rooms = nonNil(h.Rooms)
	h.Groups = nonNil(h.Groups)
	h.Devices = nonNil(h.Devices)
	h.Scenarios = nonNil(h.Scenarios)
	h.Households = nonNil(h.Households)
	return h
}

// MarshalJSON writes the envelope and the snapshot as one object. An empty
// status is written as "ok".
func (u UserInfo) MarshalJSON() ([]byte, error) {
	type smartHome SmartHome
	status := u.Status
	if status == "" {
		status = statusOK
	}
	return marshalJSON(struct {
		Status    string `json:"status"`
		RequestID string `json:"request_id"`
		smartHome
	}{status, u.RequestID, smartHome(u.SmartHome.withLists())})
}

// MarshalJSON writes empty lists as [] rather than null.
func (r Room) MarshalJSON() ([]byte, error) {
	type room Room
	r.Devices = nonNil(r.Devices)
	return marshalJSON(room(r))
}

// MarshalJSON writes empty lists as [] rather than null.
func (g Group) MarshalJSON() ([]byte, error) {
	type group Group
	g.Aliases = nonNil(g.Aliases)
	g.Devices = nonNil(g.Devices)
	g.Capabilities = nonNil(g.Capabilities)
	return marshalJSON(group(g))
}

// MarshalJSON writes empty lists as [] rather than null.
func (d Device) MarshalJSON() ([]byte, error) {
	type device Device
	d.Aliases = nonNil(d.Aliases)
	d.Groups = nonNil(d.Groups)
	d.Capabilities = nonNil(d.Capabilities)
	d.Properties = nonNil(d.Properties)
	return marshalJSON(device(d))
}

// MarshalJSON writes empty lists as [] and an empty status as "ok".
func (g GroupInfo) MarshalJSON() ([]byte, error) {
	type groupInfo GroupInfo
	if g.Status == "" {
		g.Status = statusOK
	}
	g.Aliases = nonNil(g.Aliases)
	g.Capabilities = nonNil(g.Capabilities)
	g.Devices = nonNil(g.Devices)
	return marshalJSON(groupInfo(g))
}

// UnmarshalJSON decodes and validates a snapshot.
func (h *SmartHome) UnmarshalJSON(data []byte) error {
	home, err := DecodeSmartHome(data)
	if err != nil {
		return err
	}
	*h = *home
	return nil
}

// UnmarshalJSON decodes and validates a user info response.
func (u *UserInfo) UnmarshalJSON(data []byte) error {
	info, err := DecodeUserInfo(data)
	if err != nil {
		return err
	}
	*u = *info
	return nil
}

// UnmarshalJSON decodes and validates a device.
func (d *Device) UnmarshalJSON(data []byte) error {
	device, err := DecodeDeviceState(data)
	if err != nil {
		return err
	}
	*d = *device
	return nil
}

// UnmarshalJSON decodes and validates a group response.
func (g *GroupInfo) UnmarshalJSON(data []byte) error {
	info, err := DecodeGroupInfo(data)
	if err != nil {
		return err
	}
	*g = *info
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func capabilityDeclares(params CapabilityParameters, state CapabilityState, instance string) bool {
	if state != nil && state.InstanceName() == instance {
		return true
	}
	switch p := params.(type) {
	case RangeParameters:
		return string(p.Instance) == instance
	case ModeParameters:
		return string(p.Instance) == instance
	case ToggleParameters:
		return string(p.Instance) == instance
	}
	return false
}

func propertyParametersInstance(params PropertyParameters) string {
	switch p := params.(type) {
	case FloatParameters:
		return string(p.Instance)
	case EventParameters:
		return string(p.Instance)
	}
	return ""
}
