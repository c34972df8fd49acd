package yandexhome

import (
	"context"
	"sync"
)

// BatchConfig configures batch execution behavior.
type BatchConfig struct {
	// MaxConcurrent is the maximum number of concurrent API calls.
	// Defaults to 10 if not specified.
	MaxConcurrent int

	// StopOnError determines whether to skip the remaining items once one
	// fails. Default is false (continue processing all).
	StopOnError bool
}

// DefaultBatchConfig returns sensible defaults for batch operations.
func DefaultBatchConfig() *BatchConfig {
	return &BatchConfig{
		MaxConcurrent: 10,
		StopOnError:   false,
	}
}

// DeviceResult is the result of fetching one device in a batch.
type DeviceResult struct {
	DeviceID string  // The device ID
	Device   *Device // The device state (nil on error)
	Error    error   // Error if the fetch failed
}

// GroupActionBatchItem is one group action request of a batch.
type GroupActionBatchItem struct {
	GroupID string
	Request GroupActionRequest
}

// GroupActionResult is the result of one group action request in a batch.
type GroupActionResult struct {
	GroupID  string          // The group ID
	Response *ActionResponse // The decoded response (nil on error)
	Error    error           // Error if the request failed
}

// GetDevicesBatch fetches the state of several devices concurrently.
// Results are in the same order as deviceIDs.
//
// Example:
//
//	results := client.GetDevicesBatch(ctx, []string{"lamp-1", "lamp-2"}, nil)
//	for _, r := range results {
//	    if r.Error == nil {
//	        fmt.Printf("%s: %d capabilities\n", r.Device.Name, len(r.Device.Capabilities))
//	    }
//	}
func (c *Client) GetDevicesBatch(ctx context.Context, deviceIDs []string, cfg *BatchConfig) []DeviceResult {
	if len(deviceIDs) == 0 {
		return nil
	}

	results := make([]DeviceResult, len(deviceIDs))
	runBatch(ctx, len(deviceIDs), cfg, func(idx int) error {
		device, err := c.GetDevice(ctx, deviceIDs[idx])
		results[idx] = DeviceResult{DeviceID: deviceIDs[idx], Device: device, Error: err}
		return err
	}, func(idx int, err error) {
		results[idx] = DeviceResult{DeviceID: deviceIDs[idx], Error: err}
	})
	return results
}

// ApplyGroupActionsBatch sends several group action requests concurrently.
// Results are in the same order as items.
//
// Example:
//
//	off := yandexhome.GroupActionRequest{Actions: []yandexhome.Action{{
//	    Type: yandexhome.CapabilityOnOff, State: yandexhome.NewOnOff(false),
//	}}}
//	results := client.ApplyGroupActionsBatch(ctx, []yandexhome.GroupActionBatchItem{
//	    {GroupID: "kitchen-lights", Request: off},
//	    {GroupID: "hall-lights", Request: off},
//	}, nil)
func (c *Client) ApplyGroupActionsBatch(ctx context.Context, items []GroupActionBatchItem, cfg *BatchConfig) []GroupActionResult {
	if len(items) == 0 {
		return nil
	}

	results := make([]GroupActionResult, len(items))
	runBatch(ctx, len(items), cfg, func(idx int) error {
		resp, err := c.ApplyGroupActions(ctx, items[idx].GroupID, items[idx].Request)
		results[idx] = GroupActionResult{GroupID: items[idx].GroupID, Response: resp, Error: err}
		return err
	}, func(idx int, err error) {
		results[idx] = GroupActionResult{GroupID: items[idx].GroupID, Error: err}
	})
	return results
}

// runBatch calls run for each index in [0, n) with at most
// cfg.MaxConcurrent calls in flight. Items that are never started are
// reported through skip with the reason.
func runBatch(ctx context.Context, n int, cfg *BatchConfig, run func(idx int) error, skip func(idx int, err error)) {
	if cfg == nil {
		cfg = DefaultBatchConfig()
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	var mu sync.Mutex
	var stopped bool
	isStopped := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return stopped
	}

	// Worker pool using semaphore pattern
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		if isStopped() {
			skip(i, context.Canceled)
			continue
		}

		select {
		case <-ctx.Done():
			skip(i, ctx.Err())
			continue
		default:
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				skip(idx, ctx.Err())
				return
			}

			if isStopped() {
				skip(idx, context.Canceled)
				return
			}

			if err := run(idx); err != nil && cfg.StopOnError {
				mu.Lock()
				stopped = true
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()
}
