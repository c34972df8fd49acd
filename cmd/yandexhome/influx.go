package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
)

// recordWriter is satisfied by the blocking InfluxDB write API.
type recordWriter interface {
	WriteRecord(ctx context.Context, line ...string) error
}

// influxSink writes snapshot samples to InfluxDB in line protocol.
type influxSink struct {
	api   recordWriter
	close func()
}

func newInfluxSink(cfg InfluxConfig) *influxSink {
	client := influxdb2.NewClient(cfg.Host, cfg.Token)
	return &influxSink{
		api:   client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		close: client.Close,
	}
}

// Write sends all samples as one batch.
func (s *influxSink) Write(ctx context.Context, samples []sample, at time.Time) error {
	if len(samples) == 0 {
		return nil
	}
	lines := make([]string, len(samples))
	for i, smp := range samples {
		lines[i] = lineFor(smp, at)
	}
	if err := s.api.WriteRecord(ctx, lines...); err != nil {
		return fmt.Errorf("influxdb write: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *influxSink) Close() {
	if s.close != nil {
		s.close()
	}
}

var tagEscaper = strings.NewReplacer(",", `\,`, "=", `\=`, " ", `\ `)

// lineFor renders one sample, for example
// yandexhome_capability,device_id=x,room=Kitchen,type=range,instance=brightness value=42 1700000000000000000
func lineFor(s sample, at time.Time) string {
	var b strings.Builder
	b.WriteString("yandexhome_")
	b.WriteString(s.Kind)
	writeTag(&b, "device_id", s.DeviceID)
	writeTag(&b, "device", s.Device)
	writeTag(&b, "room", s.Room)
	writeTag(&b, "type", s.Type)
	writeTag(&b, "instance", s.Instance)
	b.WriteString(" value=")
	b.WriteString(strconv.FormatFloat(s.Value, 'f', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatInt(at.UnixNano(), 10))
	return b.String()
}

// writeTag skips empty values, which line protocol does not allow.
func writeTag(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteByte(',')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(tagEscaper.Replace(value))
}
