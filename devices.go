package yandexhome

import (
	"context"
	"net/url"
	"time"
)

// GetDevice returns the current state of a single device.
func (c *Client) GetDevice(ctx context.Context, deviceID string) (device *Device, err error) {
	if deviceID == "" {
		return nil, ErrEmptyDeviceID
	}
	defer c.finish(ctx, OpDeviceState, time.Now(), &err)

	body, err := c.getCached(ctx, OpDeviceState, "/devices/"+url.PathEscape(deviceID), cacheKey(OpDeviceState, deviceID), c.stateTTL())
	if err != nil {
		return nil, err
	}
	return DecodeDeviceState(body)
}

// ApplyDeviceActions sends capability changes for one or more devices.
//
// A 2xx response in which any capability or device reports status ERROR is
// returned as an *ApplicationError carrying the decoded response; the first
// failure, in device then capability order, is its headline.
func (c *Client) ApplyDeviceActions(ctx context.Context, req DeviceActionsRequest) (result *ActionResponse, err error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	defer c.finish(ctx, OpDeviceActions, time.Now(), &err)

	resp, err := c.post(ctx, OpDeviceActions, "/devices/actions", req)
	c.InvalidateCache()
	if err != nil {
		return nil, err
	}
	return c.actionResult(OpDeviceActions, resp)
}

// ApplyDeviceEdits checks edits against device and sends them. An edit that
// references a capability the device lacks fails before any request is made.
func (c *Client) ApplyDeviceEdits(ctx context.Context, device *Device, edits ...CapabilityEdit) (*ActionResponse, error) {
	action, err := BuildDeviceAction(device, edits...)
	if err != nil {
		return nil, err
	}
	return c.ApplyDeviceActions(ctx, NewDeviceActionsRequest(action))
}

// actionResult decodes an action response and turns reported failures into
// an *ApplicationError.
func (c *Client) actionResult(op string, resp *response) (*ActionResponse, error) {
	result, err := DecodeActionResponse(resp.body)
	if err != nil {
		return nil, err
	}
	failures := result.Failures()
	if len(failures) == 0 {
		return result, nil
	}
	requestID := result.RequestID
	if requestID == "" {
		requestID = resp.requestID
	}
	return nil, &ApplicationError{
		Operation: op,
		RequestID: requestID,
		First:     failures[0],
		Errors:    failures,
		Response:  result,
	}
}
