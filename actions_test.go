package yandexhome

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func testLamp() *Device {
	model := ColorModelHSV
	return &Device{
		ID:   "lamp-id-1",
		Name: "Лампа",
		Type: DeviceTypeLight,
		Capabilities: []DeviceCapability{
			{
				Type:       CapabilityOnOff,
				Parameters: OnOffParameters{},
				State:      NewOnOff(false),
			},
			{
				Type: CapabilityRange,
				Parameters: RangeParameters{
					Instance:     RangeBrightness,
					Unit:         UnitPercent,
					RandomAccess: true,
					Range:        &RangeBounds{Min: 1, Max: 100, Precision: 1},
				},
			},
			{
				Type: CapabilityColorSetting,
				Parameters: ColorSettingParameters{
					ColorModel:   &model,
					TemperatureK: &TemperatureKRange{Min: 2700, Max: 6500},
				},
			},
		},
	}
}

func TestBuildDeviceAction(t *testing.T) {
	action, err := BuildDeviceAction(testLamp(),
		Edit(NewOnOff(true)),
		Edit(NewRange(RangeBrightness, 50)),
		Edit(NewTemperatureK(4000)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(NewDeviceActionsRequest(action))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"devices":[{"id":"lamp-id-1","actions":[` +
		`{"type":"devices.capabilities.on_off","state":{"instance":"on","value":true}},` +
		`{"type":"devices.capabilities.range","state":{"instance":"brightness","value":50}},` +
		`{"type":"devices.capabilities.color_setting","state":{"instance":"temperature_k","value":4000}}` +
		`]}]}`
	if string(data) != want {
		t.Errorf("request =\n%s\nwant\n%s", data, want)
	}
}

func TestBuildDeviceAction_Errors(t *testing.T) {
	tests := []struct {
		name     string
		device   *Device
		edits    []CapabilityEdit
		wantRef  *InvalidReferenceError
		sentinel error
	}{
		{
			name:     "nil device",
			device:   nil,
			edits:    []CapabilityEdit{Edit(NewOnOff(true))},
			sentinel: ErrEmptyDeviceID,
		},
		{
			name:     "no edits",
			device:   testLamp(),
			sentinel: ErrNoActions,
		},
		{
			name:    "missing capability",
			device:  testLamp(),
			edits:   []CapabilityEdit{Edit(ToggleState{Instance: ToggleMute, Value: true})},
			wantRef: &InvalidReferenceError{TargetID: "lamp-id-1", Type: CapabilityToggle, Instance: "mute"},
		},
		{
			name:    "missing range instance",
			device:  testLamp(),
			edits:   []CapabilityEdit{Edit(NewRange(RangeVolume, 10))},
			wantRef: &InvalidReferenceError{TargetID: "lamp-id-1", Type: CapabilityRange, Instance: "volume"},
		},
		{
			name:    "missing mode",
			device:  testLamp(),
			edits:   []CapabilityEdit{Edit(ModeState{Instance: ModeFanSpeed, Value: ModeValueHigh})},
			wantRef: &InvalidReferenceError{TargetID: "lamp-id-1", Type: CapabilityMode, Instance: "fan_speed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildDeviceAction(tt.device, tt.edits...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want %v", err, tt.sentinel)
			}
			if tt.wantRef != nil {
				var ref *InvalidReferenceError
				if !errors.As(err, &ref) {
					t.Fatalf("error = %T, want *InvalidReferenceError", err)
				}
				if !reflect.DeepEqual(ref, tt.wantRef) {
					t.Errorf("error = %+v, want %+v", ref, tt.wantRef)
				}
				if Classify(err) != OutcomeInvalidReference {
					t.Errorf("Classify() = %v", Classify(err))
				}
			}
		})
	}

	t.Run("mismatched state", func(t *testing.T) {
		_, err := BuildDeviceAction(testLamp(), CapabilityEdit{Type: CapabilityOnOff, State: NewTemperatureK(3000)})
		if err == nil || IsInvalidReference(err) {
			t.Errorf("error = %v, want a validation error", err)
		}
	})

	t.Run("nil state", func(t *testing.T) {
		_, err := BuildDeviceAction(testLamp(), CapabilityEdit{Type: CapabilityOnOff})
		if err == nil {
			t.Error("expected error for an edit without state")
		}
	})

	t.Run("invalid color value", func(t *testing.T) {
		bad := ColorSettingState{Instance: ColorInstanceHSV, Value: ColorInteger(6500)}
		_, err := BuildDeviceAction(testLamp(), Edit(bad))
		if err == nil || IsInvalidReference(err) {
			t.Errorf("error = %v, want a validation error", err)
		}
	})
}

func TestBuildGroupAction(t *testing.T) {
	caps := []GroupCapability{
		{Type: CapabilityOnOff, Parameters: OnOffParameters{}, State: NewOnOff(false)},
	}

	req, err := BuildGroupAction(caps, Edit(NewOnOff(true)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"actions":[{"type":"devices.capabilities.on_off","state":{"instance":"on","value":true}}]}`
	if string(data) != want {
		t.Errorf("request = %s, want %s", data, want)
	}

	_, err = BuildGroupAction(caps, Edit(NewTemperatureK(4000)))
	var ref *InvalidReferenceError
	if !errors.As(err, &ref) || ref.Type != CapabilityColorSetting || ref.TargetID != "" {
		t.Errorf("error = %v, want invalid reference to color_setting", err)
	}
}

func TestStagedActions(t *testing.T) {
	lamp := testLamp()
	lamp.Capabilities[0].State = NewOnOff(true)
	lamp.Capabilities[1].State = NewRange(RangeBrightness, 80)

	action := StagedDeviceAction(lamp)
	want := []Action{
		{Type: CapabilityOnOff, State: NewOnOff(true)},
		{Type: CapabilityRange, State: NewRange(RangeBrightness, 80)},
	}
	if action.ID != "lamp-id-1" {
		t.Errorf("ID = %q", action.ID)
	}
	if !reflect.DeepEqual(action.Actions, want) {
		t.Errorf("Actions = %+v, want %+v", action.Actions, want)
	}

	group := StagedGroupAction([]GroupCapability{
		{Type: CapabilityOnOff, State: NewOnOff(false)},
		{Type: CapabilityColorSetting},
	})
	if len(group.Actions) != 1 || group.Actions[0].Type != CapabilityOnOff {
		t.Errorf("Actions = %+v", group.Actions)
	}
}

func TestActionResponseFailures(t *testing.T) {
	resp, err := DecodeActionResponse(loadFixture(t, "actions_partial_failure.json"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	failures := resp.Failures()
	want := []ActionError{
		{
			DeviceID: "lamp-1",
			Type:     CapabilityRange,
			Instance: "brightness",
			Code:     ErrorCodeInvalidValue,
			Message:  "brightness out of range",
		},
		{
			DeviceID: "lamp-2",
			Type:     CapabilityOnOff,
			Instance: "on",
			Code:     ErrorCodeDeviceUnreachable,
			Message:  "device is offline",
		},
	}
	if !reflect.DeepEqual(failures, want) {
		t.Errorf("Failures() = %+v, want %+v", failures, want)
	}

	t.Run("device level", func(t *testing.T) {
		resp := &ActionResponse{Devices: []DeviceActionResult{{
			ID: "hub",
			Capabilities: []CapabilityActionResult{{
				Type:  CapabilityOnOff,
				State: &CapabilityActionState{Instance: "on", ActionResult: &ActionResult{Status: ActionStatusDone}},
			}},
			ActionResult: &ActionResult{Status: ActionStatusError, ErrorCode: ErrorCodeDeviceBusy, ErrorMessage: "busy"},
		}}}
		failures := resp.Failures()
		if len(failures) != 1 || failures[0].Code != ErrorCodeDeviceBusy || failures[0].Type != "" {
			t.Errorf("Failures() = %+v", failures)
		}
	})

	t.Run("all done", func(t *testing.T) {
		resp := &ActionResponse{Devices: []DeviceActionResult{{ID: "x"}}}
		if failures := resp.Failures(); failures != nil {
			t.Errorf("Failures() = %+v, want nil", failures)
		}
		var none *ActionResponse
		if none.Failures() != nil {
			t.Error("nil response reported failures")
		}
	})
}

func TestDeviceActionsRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  DeviceActionsRequest
		want error
	}{
		{"empty", DeviceActionsRequest{}, ErrNoActions},
		{"no id", NewDeviceActionsRequest(DeviceAction{Actions: []Action{{Type: CapabilityOnOff, State: NewOnOff(true)}}}), ErrEmptyDeviceID},
		{"no actions", NewDeviceActionsRequest(DeviceAction{ID: "d"}), ErrNoActions},
		{"valid", NewDeviceActionsRequest(DeviceAction{ID: "d", Actions: []Action{{Type: CapabilityOnOff, State: NewOnOff(true)}}}), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
