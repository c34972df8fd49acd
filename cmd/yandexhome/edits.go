package main

import (
	"fmt"
	"strconv"
	"strings"

	yh "github.com/tj-smith47/yandexhome-go"
)

const editUsage = `edits:
  on | off                  switch power
  brightness=50             set a range instance (volume, temperature, channel, open, humidity)
  brightness+=10            relative range change (also -=)
  temperature_k=4000        color temperature in kelvin
  rgb=FF8000                color as hex
  hsv=30,100,100            color as hue,saturation,value
  scene=night               color scene
  fan_speed=auto            mode instance
  mute=true                 toggle instance
  <kind>:<instance>=v       force the kind (on_off, color, range, mode, toggle),
                            for instances this tool does not know by name`

// parseEdits converts command line arguments into capability edits.
func parseEdits(args []string) ([]yh.CapabilityEdit, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no edits given")
	}
	edits := make([]yh.CapabilityEdit, 0, len(args))
	for _, arg := range args {
		state, err := parseEdit(arg)
		if err != nil {
			return nil, err
		}
		edits = append(edits, yh.Edit(state))
	}
	return edits, nil
}

func parseEdit(arg string) (yh.CapabilityState, error) {
	switch strings.ToLower(arg) {
	case "on":
		return yh.NewOnOff(true), nil
	case "off":
		return yh.NewOnOff(false), nil
	}

	key, value, ok := strings.Cut(arg, "=")
	if !ok || key == "" || value == "" {
		return nil, fmt.Errorf("invalid edit %q", arg)
	}

	relative := 0
	switch {
	case strings.HasSuffix(key, "+"):
		key, relative = strings.TrimSuffix(key, "+"), 1
	case strings.HasSuffix(key, "-"):
		key, relative = strings.TrimSuffix(key, "-"), -1
	}

	kind, instance, explicit := strings.Cut(key, ":")
	if !explicit {
		kind, instance = inferKind(key), key
	}
	if relative != 0 && kind != "range" {
		return nil, fmt.Errorf("invalid edit %q: only range instances take relative values", arg)
	}

	switch kind {
	case "on_off":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid edit %q: %w", arg, err)
		}
		return yh.NewOnOff(on), nil
	case "color":
		return parseColor(instance, value)
	case "range":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid edit %q: %w", arg, err)
		}
		state := yh.NewRange(yh.RangeInstance(instance), v)
		if relative != 0 {
			state.Value *= float64(relative)
			state.Relative = true
		}
		return state, nil
	case "mode":
		return yh.ModeState{Instance: yh.ModeInstance(instance), Value: yh.ModeValue(value)}, nil
	case "toggle":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid edit %q: %w", arg, err)
		}
		return yh.ToggleState{Instance: yh.ToggleInstance(instance), Value: on}, nil
	}
	return nil, fmt.Errorf("invalid edit %q: unknown instance %q", arg, key)
}

// inferKind finds the capability kind a bare instance name belongs to.
func inferKind(instance string) string {
	switch {
	case instance == "on":
		return "on_off"
	case yh.ColorInstance(instance).IsKnown():
		return "color"
	case yh.RangeInstance(instance).IsKnown():
		return "range"
	case yh.ModeInstance(instance).IsKnown():
		return "mode"
	case yh.ToggleInstance(instance).IsKnown():
		return "toggle"
	}
	return ""
}

func parseColor(instance, value string) (yh.CapabilityState, error) {
	switch yh.ColorInstance(instance) {
	case yh.ColorInstanceTemperatureK:
		k, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid temperature_k %q: %w", value, err)
		}
		return yh.NewTemperatureK(k), nil
	case yh.ColorInstanceRGB:
		hex := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(value), "#"), "0x")
		rgb, err := strconv.ParseInt(hex, 16, 32)
		if err != nil || rgb > 0xFFFFFF {
			return nil, fmt.Errorf("invalid rgb %q", value)
		}
		return yh.NewRGB(int(rgb)), nil
	case yh.ColorInstanceHSV:
		parts := strings.Split(value, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid hsv %q: want h,s,v", value)
		}
		var hsv [3]int
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("invalid hsv %q: %w", value, err)
			}
			hsv[i] = n
		}
		return yh.NewHSV(hsv[0], hsv[1], hsv[2]), nil
	case yh.ColorInstanceScene:
		return yh.NewScene(yh.ColorScene(value)), nil
	}
	return nil, fmt.Errorf("unknown color instance %q", instance)
}
