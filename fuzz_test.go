package yandexhome

import (
	"testing"
)

// FuzzDecodeUserInfo fuzzes the snapshot decoder.
// Run with: go test -fuzz=FuzzDecodeUserInfo
func FuzzDecodeUserInfo(f *testing.F) {
	f.Add(loadFixture(f, "user_info.json"))
	f.Add([]byte(`{}`))
	f.Add([]byte(`{"status":"ok","request_id":"r","rooms":[],"groups":[],"devices":[],"scenarios":[],"households":[]}`))
	f.Add([]byte(`{"status":"ok","request_id":"r","rooms":null,"groups":[],"devices":[{"id":"x"}],"scenarios":[],"households":[]}`))
	f.Add([]byte(`null`))

	f.Fuzz(func(t *testing.T, data []byte) {
		info, err := DecodeUserInfo(data)
		if err != nil {
			return // Invalid documents are acceptable
		}
		if _, err := EncodeUserInfo(info); err != nil {
			t.Errorf("decoded snapshot failed to encode: %v", err)
		}
	})
}

// FuzzDecodeCapabilityState fuzzes state decoding for every registered kind.
// Run with: go test -fuzz=FuzzDecodeCapabilityState
func FuzzDecodeCapabilityState(f *testing.F) {
	f.Add("devices.capabilities.on_off", []byte(`{"instance":"on","value":true}`))
	f.Add("devices.capabilities.color_setting", []byte(`{"instance":"hsv","value":{"h":10,"s":20,"v":30}}`))
	f.Add("devices.capabilities.range", []byte(`{"instance":"brightness","value":5,"relative":true}`))
	f.Add("devices.capabilities.mode", []byte(`{"instance":"fan_speed","value":"auto"}`))
	f.Add("devices.capabilities.custom", []byte(`{"x":[1,2,3]}`))
	f.Add("", []byte(`[]`))

	f.Fuzz(func(t *testing.T, kind string, data []byte) {
		state, err := DecodeCapabilityState(CapabilityType(kind), data)
		if err != nil {
			return
		}
		if _, err := EncodeCapabilityState(state); err != nil {
			t.Errorf("decoded %s state failed to encode: %v", kind, err)
		}
	})
}

// FuzzDecodeDeviceState fuzzes single-device decoding.
// Run with: go test -fuzz=FuzzDecodeDeviceState
func FuzzDecodeDeviceState(f *testing.F) {
	f.Add(loadFixture(f, "device_state.json"))
	f.Add([]byte(`{"status":"error","message":"boom"}`))
	f.Add([]byte(`{"id":"a","name":"b","type":"devices.types.other","capabilities":[{"type":"devices.capabilities.on_off"}]}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Should not panic - errors are acceptable
		_, _ = DecodeDeviceState(data)
	})
}

// FuzzDecodeActionResponse fuzzes the action result decoder.
// Run with: go test -fuzz=FuzzDecodeActionResponse
func FuzzDecodeActionResponse(f *testing.F) {
	f.Add(loadFixture(f, "actions_partial_failure.json"))
	f.Add([]byte(`{"status":"ok","devices":[]}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		resp, err := DecodeActionResponse(data)
		if err != nil {
			return
		}
		_ = resp.Failures()
	})
}
