package yandexhome

import (
	"context"
	"errors"
	"net/url"
	"time"
)

// GetGroup returns a device group with its capabilities and member devices.
func (c *Client) GetGroup(ctx context.Context, groupID string) (group *GroupInfo, err error) {
	if groupID == "" {
		return nil, ErrEmptyGroupID
	}
	defer c.finish(ctx, OpGroupInfo, time.Now(), &err)

	body, err := c.getCached(ctx, OpGroupInfo, "/groups/"+url.PathEscape(groupID), cacheKey(OpGroupInfo, groupID), c.stateTTL())
	if err != nil {
		return nil, err
	}
	return DecodeGroupInfo(body)
}

// ApplyGroupActions sends capability changes to every device of a group.
// Failures are reported the same way as ApplyDeviceActions.
func (c *Client) ApplyGroupActions(ctx context.Context, groupID string, req GroupActionRequest) (result *ActionResponse, err error) {
	if groupID == "" {
		return nil, ErrEmptyGroupID
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	defer c.finish(ctx, OpGroupActions, time.Now(), &err)

	resp, err := c.post(ctx, OpGroupActions, "/groups/"+url.PathEscape(groupID)+"/actions", req)
	c.InvalidateCache()
	if err != nil {
		return nil, err
	}
	return c.actionResult(OpGroupActions, resp)
}

// ApplyGroupEdits checks edits against the group capabilities and sends them.
func (c *Client) ApplyGroupEdits(ctx context.Context, groupID string, caps []GroupCapability, edits ...CapabilityEdit) (*ActionResponse, error) {
	if groupID == "" {
		return nil, ErrEmptyGroupID
	}
	req, err := BuildGroupAction(caps, edits...)
	if err != nil {
		var ref *InvalidReferenceError
		if errors.As(err, &ref) {
			ref.TargetID = groupID
		}
		return nil, err
	}
	return c.ApplyGroupActions(ctx, groupID, req)
}
