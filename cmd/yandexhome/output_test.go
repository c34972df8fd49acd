package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	yh "github.com/tj-smith47/yandexhome-go"
)

// squash collapses the column padding of each line to single spaces.
func squash(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.Join(lines, "\n")
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := render(&buf, "table", fixtureInfo(t)); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}

	if squash(lines[0]) != "ID NAME TYPE ROOM STATE" {
		t.Errorf("header = %q", lines[0])
	}
	wants := []string{
		"battery_level=87",
		"Балкон on, brightness=42",
		"Спальня temperature_k=6500, off",
	}
	for i, want := range wants {
		if !strings.Contains(squash(lines[i+1]), want) {
			t.Errorf("line %d = %q, want containing %q", i+1, lines[i+1], want)
		}
	}
}

func TestRender_DeviceTable(t *testing.T) {
	d, err := yh.DecodeDeviceState(readFixture(t, "device_state.json"))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := render(&buf, "table", d); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := squash(buf.String())
	for _, want := range []string{"Лампа light online", "KIND INSTANCE VALUE", "color_setting - -", "range brightness 42"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	v := map[string]any{"devices": []string{"a", "b"}, "status": "ok"}
	if err := render(&buf, "yaml", v); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	want := "devices:\n  - a\n  - b\nstatus: ok\n"
	if buf.String() != want {
		t.Errorf("yaml =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestRender_JSONFallback(t *testing.T) {
	for _, format := range []string{"json", "table"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := render(&buf, format, map[string]int{"n": 1}); err != nil {
				t.Fatalf("render failed: %v", err)
			}
			if buf.String() != "{\n  \"n\": 1\n}\n" {
				t.Errorf("output = %q", buf.String())
			}
		})
	}
}

func TestDeviceResults(t *testing.T) {
	results := deviceResults([]yh.DeviceResult{
		{DeviceID: "a", Device: &yh.Device{ID: "a", Name: "Lamp", Type: yh.DeviceTypeLight}},
		{DeviceID: "b", Error: errors.New("boom")},
	})

	data, err := json.Marshal(results)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `{"id":"b","error":"boom"}`) {
		t.Errorf("json = %s", data)
	}

	var buf bytes.Buffer
	if err := render(&buf, "table", results); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "error: boom") || !strings.Contains(buf.String(), "Lamp") {
		t.Errorf("table =\n%s", buf.String())
	}
}

func TestActionResponseTable(t *testing.T) {
	resp, err := yh.DecodeActionResponse(readFixture(t, "actions_partial_failure.json"))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := render(&buf, "table", resp); err != nil {
		t.Fatal(err)
	}
	out := squash(buf.String())
	for _, want := range []string{"lamp-1 on_off on DONE", "lamp-1 range brightness ERROR INVALID_VALUE: brightness out of range", "lamp-2 on_off on ERROR DEVICE_UNREACHABLE"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStateValue(t *testing.T) {
	tests := []struct {
		state yh.CapabilityState
		want  string
	}{
		{yh.NewOnOff(true), "true"},
		{yh.NewRGB(0xFF8000), "#FF8000"},
		{yh.NewTemperatureK(4500), "4500"},
		{yh.NewHSV(30, 100, 50), "30,100,50"},
		{yh.NewScene("night"), "night"},
		{yh.NewRange(yh.RangeTemperature, 21.5), "21.5"},
		{yh.ModeState{Instance: yh.ModeFanSpeed, Value: yh.ModeValueAuto}, "auto"},
		{yh.ToggleState{Instance: yh.ToggleMute}, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := stateValue(tt.state); got != tt.want {
				t.Errorf("stateValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShortType(t *testing.T) {
	if got := shortType("devices.capabilities.on_off"); got != "on_off" {
		t.Errorf("shortType = %q", got)
	}
	if got := shortType("plain"); got != "plain" {
		t.Errorf("shortType = %q", got)
	}
}
