// Package yandexhome provides a Go client library for the Yandex Smart Home API.
//
// The library models devices as a set of typed capabilities (on_off,
// color_setting, range, mode, toggle, video_stream) and properties (float,
// event), decodes the account snapshot and device state responses into that
// model, and sends capability changes with per-item failure detection.
//
// # Authentication
//
// The API takes an OAuth token with the iot:view and iot:control scopes:
//
//	client, err := yandexhome.NewClient("your-oauth-token")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Credentials can be replaced while requests are running:
//
//	err := client.SetCredentials(newToken, yandexhome.DefaultEndpoint)
//
// or refreshed from any oauth2.TokenSource:
//
//	ts := yandexhome.OAuthConfig(id, secret, redirect).TokenSource(ctx, tok)
//	err := client.RefreshFrom(ctx, ts)
//
// # Basic Usage
//
// Fetch the account snapshot:
//
//	info, err := client.GetUserInfo(ctx)
//	for _, device := range info.Devices {
//	    fmt.Printf("Device: %s (%s)\n", device.Name, device.ID)
//	}
//
// Turn a lamp on and set its color temperature:
//
//	_, err := client.ApplyDeviceEdits(ctx, lamp,
//	    yandexhome.Edit(yandexhome.NewOnOff(true)),
//	    yandexhome.Edit(yandexhome.NewTemperatureK(4000)),
//	)
//
// An edit that names a capability the device does not have is rejected with
// an *InvalidReferenceError before anything is sent.
//
// # Error Handling
//
// Every operation returns either a value or an error that Classify maps to
// one outcome:
//
//	_, err := client.ApplyDeviceActions(ctx, req)
//	switch yandexhome.Classify(err) {
//	case yandexhome.OutcomeApplicationFailure:
//	    // The service answered, but some device reported an error.
//	case yandexhome.OutcomeTransportFailure:
//	    // Non-2xx status or network failure.
//	}
//	fmt.Println(yandexhome.Message(err))
//
// Check for specific error types:
//
//	if yandexhome.IsUnauthorized(err) {
//	    // Token is invalid or expired
//	} else if yandexhome.IsNotFound(err) {
//	    // Device doesn't exist
//	}
//
// # Caching
//
// Read operations can be cached for a short time:
//
//	client, _ := yandexhome.NewClient(token,
//	    yandexhome.WithCache(yandexhome.DefaultCacheConfig()),
//	)
//
// Any action request or credential change empties the cache.
//
// # Unknown Values
//
// Every enumeration is a string type. Codes added to the API after this
// library was written decode without error, report IsKnown() == false and
// encode back unchanged. Unknown capability kinds and instances decode to
// UnknownCapabilityState and UnknownCapabilityParameters, which keep the raw
// JSON.
//
// For more information, see https://yandex.ru/dev/dialogs/smart-home/doc/concepts/platform-protocol.html
package yandexhome
