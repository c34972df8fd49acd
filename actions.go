package yandexhome

import (
	"encoding/json"
	"fmt"
)

// Action is one capability change: the kind and the requested state.
type Action struct {
	Type  CapabilityType  `json:"type"`
	State CapabilityState `json:"state"`
}

// MarshalJSON writes the action, rejecting color states whose value does not
// match their instance.
func (a Action) MarshalJSON() ([]byte, error) {
	state, err := EncodeCapabilityState(a.State)
	if err != nil {
		return nil, err
	}
	return marshalJSON(struct {
		Type  CapabilityType  `json:"type"`
		State json.RawMessage `json:"state"`
	}{a.Type, state})
}

// DeviceAction is the list of actions for a single device.
type DeviceAction struct {
	ID      string   `json:"id"`
	Actions []Action `json:"actions"`
}

// DeviceActionsRequest is the body of the device actions endpoint.
type DeviceActionsRequest struct {
	Devices []DeviceAction `json:"devices"`
}

// GroupActionRequest is the body of the group actions endpoint.
type GroupActionRequest struct {
	Actions []Action `json:"actions"`
}

// NewDeviceActionsRequest collects device actions into one request.
func NewDeviceActionsRequest(actions ...DeviceAction) DeviceActionsRequest {
	return DeviceActionsRequest{Devices: actions}
}

// validate checks the request is non-empty before anything is sent.
func (r DeviceActionsRequest) validate() error {
	if len(r.Devices) == 0 {
		return ErrNoActions
	}
	for _, d := range r.Devices {
		if d.ID == "" {
			return ErrEmptyDeviceID
		}
		if len(d.Actions) == 0 {
			return fmt.Errorf("%w: device %s", ErrNoActions, d.ID)
		}
	}
	return nil
}

func (r GroupActionRequest) validate() error {
	if len(r.Actions) == 0 {
		return ErrNoActions
	}
	return nil
}

// ActionResult is the outcome the service reports for one item.
type ActionResult struct {
	Status       ActionStatus    `json:"status"`
	ErrorCode    ActionErrorCode `json:"error_code,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// Failed reports whether the item failed.
func (r *ActionResult) Failed() bool {
	return r != nil && r.Status == ActionStatusError
}

// CapabilityActionState is the state echo of an action response.
type CapabilityActionState struct {
	Instance     string        `json:"instance"`
	ActionResult *ActionResult `json:"action_result,omitempty"`
}

// CapabilityActionResult is the per-capability part of an action response.
type CapabilityActionResult struct {
	Type  CapabilityType         `json:"type"`
	State *CapabilityActionState `json:"state"`
}

// DeviceActionResult is the per-device part of an action response.
type DeviceActionResult struct {
	ID           string                   `json:"id"`
	Capabilities []CapabilityActionResult `json:"capabilities"`
	ActionResult *ActionResult            `json:"action_result,omitempty"`
}

// ActionResponse is the response of the device and group action endpoints.
type ActionResponse struct {
	Status    string               `json:"status"`
	RequestID string               `json:"request_id"`
	Devices   []DeviceActionResult `json:"devices"`
}

// Failures returns every failed item: for each device its capabilities in
// order, then the device-level result.
func (r *ActionResponse) Failures() []ActionError {
	if r == nil {
		return nil
	}
	var failures []ActionError
	for _, d := range r.Devices {
		for _, c := range d.Capabilities {
			if c.State == nil || !c.State.ActionResult.Failed() {
				continue
			}
			failures = append(failures, ActionError{
				DeviceID: d.ID,
				Type:     c.Type,
				Instance: c.State.Instance,
				Code:     c.State.ActionResult.ErrorCode,
				Message:  c.State.ActionResult.ErrorMessage,
			})
		}
		if d.ActionResult.Failed() {
			failures = append(failures, ActionError{
				DeviceID: d.ID,
				Code:     d.ActionResult.ErrorCode,
				Message:  d.ActionResult.ErrorMessage,
			})
		}
	}
	return failures
}

// CapabilityEdit is a requested change to one capability of a target.
type CapabilityEdit struct {
	Type  CapabilityType
	State CapabilityState
}

// Edit returns an edit for state, taking the kind from the state.
func Edit(state CapabilityState) CapabilityEdit {
	var kind CapabilityType
	if state != nil {
		kind = state.CapabilityType()
	}
	return CapabilityEdit{Type: kind, State: state}
}

// BuildDeviceAction turns edits into an action for device. Every edit must
// name a capability the device has; range, mode and toggle edits must also
// name a declared instance. A violation is an *InvalidReferenceError.
func BuildDeviceAction(device *Device, edits ...CapabilityEdit) (DeviceAction, error) {
	if device == nil || device.ID == "" {
		return DeviceAction{}, ErrEmptyDeviceID
	}
	targets := make([]capabilityTarget, len(device.Capabilities))
	for i, c := range device.Capabilities {
		targets[i] = capabilityTarget{c.Type, c.Parameters, c.State}
	}
	actions, err := buildActions(device.ID, targets, edits)
	if err != nil {
		return DeviceAction{}, err
	}
	return DeviceAction{ID: device.ID, Actions: actions}, nil
}

// BuildGroupAction turns edits into a group action request, checked against
// the group capabilities the same way BuildDeviceAction checks a device.
func BuildGroupAction(caps []GroupCapability, edits ...CapabilityEdit) (GroupActionRequest, error) {
	targets := make([]capabilityTarget, len(caps))
	for i, c := range caps {
		targets[i] = capabilityTarget{c.Type, c.Parameters, c.State}
	}
	actions, err := buildActions("", targets, edits)
	if err != nil {
		return GroupActionRequest{}, err
	}
	return GroupActionRequest{Actions: actions}, nil
}

// StagedDeviceAction builds an action from every capability of device that
// carries a state, sending the staged states as they are.
func StagedDeviceAction(device *Device) DeviceAction {
	action := DeviceAction{ID: device.ID}
	for _, c := range device.Capabilities {
		if c.State != nil {
			action.Actions = append(action.Actions, Action{Type: c.Type, State: c.State})
		}
	}
	return action
}

// StagedGroupAction builds a group request from every capability that
// carries a state.
func StagedGroupAction(caps []GroupCapability) GroupActionRequest {
	var req GroupActionRequest
	for _, c := range caps {
		if c.State != nil {
			req.Actions = append(req.Actions, Action{Type: c.Type, State: c.State})
		}
	}
	return req
}

type capabilityTarget struct {
	kind   CapabilityType
	params CapabilityParameters
	state  CapabilityState
}

func buildActions(targetID string, targets []capabilityTarget, edits []CapabilityEdit) ([]Action, error) {
	if len(edits) == 0 {
		return nil, ErrNoActions
	}
	actions := make([]Action, 0, len(edits))
	for _, e := range edits {
		if e.State == nil {
			return nil, fmt.Errorf("yandexhome: edit of %s has no state", e.Type)
		}
		if e.State.CapabilityType() != e.Type {
			return nil, fmt.Errorf("yandexhome: edit of %s carries a %s state", e.Type, e.State.CapabilityType())
		}
		if cs, ok := e.State.(ColorSettingState); ok {
			if err := cs.validate(); err != nil {
				return nil, fmt.Errorf("yandexhome: edit of %s: %w", e.Type, err)
			}
		}
		if !hasTarget(targets, e) {
			ref := &InvalidReferenceError{TargetID: targetID, Type: e.Type}
			if instanceScoped(e.Type) {
				ref.Instance = e.State.InstanceName()
			}
			return nil, ref
		}
		actions = append(actions, Action(e))
	}
	return actions, nil
}

// instanceScoped reports whether a target carries one capability per
// instance for this kind.
func instanceScoped(kind CapabilityType) bool {
	switch kind {
	case CapabilityRange, CapabilityMode, CapabilityToggle:
		return true
	}
	return false
}

func hasTarget(targets []capabilityTarget, e CapabilityEdit) bool {
	for _, t := range targets {
		if t.kind != e.Type {
			continue
		}
		if !instanceScoped(e.Type) || capabilityDeclares(t.params, t.state, e.State.InstanceName()) {
			return true
		}
	}
	return false
}
