package yandexhome

import (
	"context"
	"time"
)

// GetUserInfo returns the account snapshot: rooms, groups, devices,
// scenarios and households.
func (c *Client) GetUserInfo(ctx context.Context) (info *UserInfo, err error) {
	defer c.finish(ctx, OpUserInfo, time.Now(), &err)

	body, err := c.getCached(ctx, OpUserInfo, "/user/info", cacheKey(OpUserInfo), c.userInfoTTL())
	if err != nil {
		return nil, err
	}
	return DecodeUserInfo(body)
}
