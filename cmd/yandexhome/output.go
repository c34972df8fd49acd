package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	yh "github.com/tj-smith47/yandexhome-go"
)

// deviceResult is the printable form of one item of a batch fetch.
type deviceResult struct {
	ID     string     `json:"id"`
	Device *yh.Device `json:"device,omitempty"`
	Error  string     `json:"error,omitempty"`
}

func deviceResults(results []yh.DeviceResult) []deviceResult {
	out := make([]deviceResult, len(results))
	for i, r := range results {
		out[i] = deviceResult{ID: r.DeviceID, Device: r.Device}
		if r.Error != nil {
			out[i].Error = yh.Message(r.Error)
		}
	}
	return out
}

// groupResult is the printable form of one item of a batch group action.
type groupResult struct {
	ID       string             `json:"id"`
	Response *yh.ActionResponse `json:"response,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func groupResults(results []yh.GroupActionResult) []groupResult {
	out := make([]groupResult, len(results))
	for i, r := range results {
		out[i] = groupResult{ID: r.GroupID, Response: r.Response}
		if r.Error != nil {
			out[i].Error = yh.Message(r.Error)
		}
	}
	return out
}

// render writes v to w in the given format. Values without a table layout
// fall back to JSON.
func render(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		return renderYAML(w, v)
	case "table":
		if ok, err := renderTable(w, v); ok {
			return err
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// renderYAML goes through the wire JSON so that field names and value
// shapes match the API, then re-emits it in block style.
func renderYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func renderTable(w io.Writer, v any) (bool, error) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	switch v := v.(type) {
	case *yh.UserInfo:
		writeDevices(tw, &v.SmartHome)
	case *yh.Device:
		writeCapabilities(tw, v)
	case *yh.GroupInfo:
		writeGroup(tw, v)
	case *yh.ActionResponse:
		writeActionResponse(tw, v)
	case []deviceResult:
		writeDeviceResults(tw, v)
	case []groupResult:
		writeGroupResults(tw, v)
	default:
		return false, nil
	}
	return true, tw.Flush()
}

func writeDevices(w io.Writer, home *yh.SmartHome) {
	rooms := make(map[string]string, len(home.Rooms))
	for _, r := range home.Rooms {
		rooms[r.ID] = r.Name
	}
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tROOM\tSTATE")
	for _, d := range home.Devices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, shortType(string(d.Type)), rooms[d.Room], deviceSummary(&d))
	}
}

func writeCapabilities(w io.Writer, d *yh.Device) {
	fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, shortType(string(d.Type)), d.State)
	fmt.Fprintln(w, "KIND\tINSTANCE\tVALUE")
	for _, c := range d.Capabilities {
		instance, value := "-", "-"
		if c.State != nil {
			instance, value = c.State.InstanceName(), stateValue(c.State)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", shortType(string(c.Type)), instance, value)
	}
	for _, p := range d.Properties {
		instance, value := "-", "-"
		if p.State != nil {
			instance, value = p.State.InstanceName(), propertyValue(p.State)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", shortType(string(p.Type)), instance, value)
	}
}

func writeGroup(w io.Writer, g *yh.GroupInfo) {
	fmt.Fprintf(w, "%s\t%s\t%s\n", g.Name, shortType(string(g.Type)), g.State)
	fmt.Fprintln(w, "KIND\tINSTANCE\tVALUE")
	for _, c := range g.Capabilities {
		instance, value := "-", "-"
		if c.State != nil {
			instance, value = c.State.InstanceName(), stateValue(c.State)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", shortType(string(c.Type)), instance, value)
	}
	fmt.Fprintln(w, "DEVICE\tNAME\tTYPE")
	for _, d := range g.Devices {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.ID, d.Name, shortType(string(d.Type)))
	}
}

func writeActionResponse(w io.Writer, r *yh.ActionResponse) {
	fmt.Fprintln(w, "DEVICE\tKIND\tINSTANCE\tRESULT")
	for _, d := range r.Devices {
		for _, c := range d.Capabilities {
			instance, result := "-", "-"
			if c.State != nil {
				instance, result = c.State.Instance, actionResult(c.State.ActionResult)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, shortType(string(c.Type)), instance, result)
		}
		if d.ActionResult != nil {
			fmt.Fprintf(w, "%s\t-\t-\t%s\n", d.ID, actionResult(d.ActionResult))
		}
	}
}

func writeDeviceResults(w io.Writer, results []deviceResult) {
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATE")
	for _, r := range results {
		if r.Device == nil {
			fmt.Fprintf(w, "%s\t-\t-\terror: %s\n", r.ID, r.Error)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Device.Name, shortType(string(r.Device.Type)), deviceSummary(r.Device))
	}
}

func writeGroupResults(w io.Writer, results []groupResult) {
	fmt.Fprintln(w, "GROUP\tRESULT")
	for _, r := range results {
		result := "ok"
		if r.Error != "" {
			result = "error: " + r.Error
		}
		fmt.Fprintf(w, "%s\t%s\n", r.ID, result)
	}
}

func actionResult(r *yh.ActionResult) string {
	if r == nil {
		return "-"
	}
	if !r.Failed() {
		return string(r.Status)
	}
	if r.ErrorMessage != "" {
		return fmt.Sprintf("%s %s: %s", r.Status, r.ErrorCode, r.ErrorMessage)
	}
	return fmt.Sprintf("%s %s", r.Status, r.ErrorCode)
}

// deviceSummary renders the current states of a device on one line.
func deviceSummary(d *yh.Device) string {
	var parts []string
	for _, c := range d.Capabilities {
		if c.State == nil {
			continue
		}
		if s, ok := c.State.(yh.OnOffState); ok {
			if s.Value {
				parts = append(parts, "on")
			} else {
				parts = append(parts, "off")
			}
			continue
		}
		parts = append(parts, c.State.InstanceName()+"="+stateValue(c.State))
	}
	for _, p := range d.Properties {
		if p.State != nil {
			parts = append(parts, p.State.InstanceName()+"="+propertyValue(p.State))
		}
	}
	if len(parts) == 0 {
		return string(d.State)
	}
	return strings.Join(parts, ", ")
}

func stateValue(state yh.CapabilityState) string {
	switch s := state.(type) {
	case yh.OnOffState:
		return strconv.FormatBool(s.Value)
	case yh.ColorSettingState:
		switch v := s.Value.(type) {
		case yh.ColorInteger:
			if s.Instance == yh.ColorInstanceRGB {
				return fmt.Sprintf("#%06X", int(v))
			}
			return strconv.Itoa(int(v))
		case yh.HSV:
			return fmt.Sprintf("%d,%d,%d", v.H, v.S, v.V)
		case yh.ColorScene:
			return string(v)
		}
	case yh.RangeState:
		return strconv.FormatFloat(s.Value, 'f', -1, 64)
	case yh.ModeState:
		return string(s.Value)
	case yh.ToggleState:
		return strconv.FormatBool(s.Value)
	case yh.VideoStreamState:
		if s.Value.StreamURL != "" {
			return s.Value.StreamURL
		}
		protocols := make([]string, len(s.Value.Protocols))
		for i, p := range s.Value.Protocols {
			protocols[i] = string(p)
		}
		return strings.Join(protocols, ",")
	case yh.UnknownCapabilityState:
		return string(s.Raw)
	}
	return "?"
}

func propertyValue(state yh.PropertyState) string {
	switch s := state.(type) {
	case yh.FloatState:
		return strconv.FormatFloat(s.Value, 'f', -1, 64)
	case yh.EventState:
		return string(s.Value)
	case yh.UnknownPropertyState:
		return string(s.Raw)
	}
	return "?"
}

// shortType drops the namespace of a wire type such as
// "devices.capabilities.on_off".
func shortType(t string) string {
	if i := strings.LastIndexByte(t, '.'); i >= 0 {
		return t[i+1:]
	}
	return t
}
