package yandexhome

import "context"

// SmartHomeClient defines the interface for Yandex Smart Home API operations.
// Client implements this interface, enabling mocking for tests.
type SmartHomeClient interface {
	GetUserInfo(ctx context.Context) (*UserInfo, error)
	GetDevice(ctx context.Context, deviceID string) (*Device, error)
	GetGroup(ctx context.Context, groupID string) (*GroupInfo, error)
	ApplyDeviceActions(ctx context.Context, req DeviceActionsRequest) (*ActionResponse, error)
	ApplyGroupActions(ctx context.Context, groupID string, req GroupActionRequest) (*ActionResponse, error)
	ApplyDeviceEdits(ctx context.Context, device *Device, edits ...CapabilityEdit) (*ActionResponse, error)
	ApplyGroupEdits(ctx context.Context, groupID string, caps []GroupCapability, edits ...CapabilityEdit) (*ActionResponse, error)

	GetDevicesBatch(ctx context.Context, deviceIDs []string, cfg *BatchConfig) []DeviceResult
	ApplyGroupActionsBatch(ctx context.Context, items []GroupActionBatchItem, cfg *BatchConfig) []GroupActionResult

	SetCredentials(token, endpoint string) error
	InvalidateCache()
}

// Ensure Client implements SmartHomeClient.
var _ SmartHomeClient = (*Client)(nil)
