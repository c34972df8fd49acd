//go:build integration

package yandexhome

import (
	"context"
	"os"
	"testing"
	"time"
)

// Integration tests require a valid Yandex OAuth token.
// Run with: go test -tags=integration -v
//
// Environment variables:
//   YANDEXHOME_TOKEN - OAuth token with the iot:view scope (required)
//   YANDEXHOME_DEVICE_ID - Device ID for state tests (optional)
//   YANDEXHOME_GROUP_ID - Group ID for group tests (optional)

func getTestClient(t *testing.T) *Client {
	token := os.Getenv("YANDEXHOME_TOKEN")
	if token == "" {
		t.Skip("YANDEXHOME_TOKEN not set, skipping integration test")
	}
	client, err := NewClient(token)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestIntegration_GetUserInfo(t *testing.T) {
	client := getTestClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := client.GetUserInfo(ctx)
	if err != nil {
		t.Fatalf("GetUserInfo: %v", err)
	}

	t.Logf("Found %d devices in %d rooms", len(info.Devices), len(info.Rooms))
	for _, d := range info.Devices {
		t.Logf("  - %s (%s): %s", d.Name, d.ID, d.Type)
	}

	// The snapshot must survive our own encoder.
	data, err := EncodeUserInfo(info)
	if err != nil {
		t.Fatalf("EncodeUserInfo: %v", err)
	}
	if _, err := DecodeUserInfo(data); err != nil {
		t.Fatalf("DecodeUserInfo of re-encoded snapshot: %v", err)
	}
}

func TestIntegration_GetDevice(t *testing.T) {
	deviceID := os.Getenv("YANDEXHOME_DEVICE_ID")
	if deviceID == "" {
		t.Skip("YANDEXHOME_DEVICE_ID not set")
	}
	client := getTestClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	device, err := client.GetDevice(ctx, deviceID)
	if err != nil {
		t.Fatalf("GetDevice: %v", err)
	}

	t.Logf("Device %s has %d capabilities and %d properties", device.Name, len(device.Capabilities), len(device.Properties))
}

func TestIntegration_GetGroup(t *testing.T) {
	groupID := os.Getenv("YANDEXHOME_GROUP_ID")
	if groupID == "" {
		t.Skip("YANDEXHOME_GROUP_ID not set")
	}
	client := getTestClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	group, err := client.GetGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("GetGroup: %v", err)
	}

	t.Logf("Group %s (%s): %d devices", group.Name, group.State, len(group.Devices))
}

func TestIntegration_UnknownDevice(t *testing.T) {
	client := getTestClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := client.GetDevice(ctx, "00000000-0000-0000-0000-000000000000")
	if err == nil {
		t.Fatal("expected an error for an unknown device")
	}
	t.Logf("Unknown device: %s (%s)", Message(err), Classify(err))
}
